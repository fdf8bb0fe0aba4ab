package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidName      = errors.New("invalid name")
	ErrInvalidDomain    = errors.New("invalid domain")
	ErrInvalidARN       = errors.New("invalid ARN")
	ErrInvalidType      = errors.New("invalid type")
	ErrEmptyValue       = errors.New("empty value")
	ErrRequired         = errors.New("required field missing")
	ErrMissingSecret    = errors.New("missing secret reference")
	ErrConfigNotLoaded  = errors.New("config not loaded")
	ErrDuplicateStage   = errors.New("duplicate stage")
	ErrStageNotFound    = errors.New("stage not found")
	ErrDuplicateURL     = errors.New("duplicate url")
	ErrConfiguration    = errors.New("configuration error")
	ErrUnsupportedValue = errors.New("unsupported value")

	ErrConfigReadFailed   = errors.New("config read failed")
	ErrConfigParseFailed  = errors.New("config parse failed")
	ErrConfigValidateFail = errors.New("config validation failed")
	ErrConfigNotFound     = errors.New("config not found")

	ErrStateReadFailed    = errors.New("state read failed")
	ErrStateWriteFailed   = errors.New("state write failed")
	ErrStateSerializeFail = errors.New("state serialization failed")
	ErrStateNotFound      = errors.New("state not found")
	ErrStateLocked        = errors.New("state locked")

	ErrDuplicateNode = errors.New("duplicate graph node")
	ErrUnknownNode   = errors.New("unknown graph node")
	ErrCycle         = errors.New("dependency cycle")

	ErrBuildStepFailed    = errors.New("build step failed")
	ErrProvisioningFailed = errors.New("provisioning failed")
)

func RequiredField(field string) error {
	return fmt.Errorf("%w: %s", ErrRequired, field)
}

// Configuration reports a missing or inconsistent reference that a requested
// feature depends on.
func Configuration(field, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrConfiguration, field, reason)
}

func WrapEntity(entity, name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s[%s]: %w", entity, name, err)
}

// BuildStepError is returned when one of the ordered synth commands reports
// failure. The remaining commands are never started.
type BuildStepError struct {
	Index    int
	Command  string
	ExitCode int
	Cause    error
}

func (e *BuildStepError) Error() string {
	return fmt.Sprintf("build step %d (%q) exited with code %d: %v", e.Index+1, e.Command, e.ExitCode, e.Cause)
}

func (e *BuildStepError) Unwrap() error {
	return e.Cause
}

func (e *BuildStepError) Is(target error) bool {
	return target == ErrBuildStepFailed
}

// ProvisioningError is returned when the engine cannot realise a stage graph.
type ProvisioningError struct {
	Stage string
	Cause error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Cause)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Cause
}

func (e *ProvisioningError) Is(target error) bool {
	return target == ErrProvisioningFailed
}
