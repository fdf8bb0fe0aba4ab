package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lite-lake/infra-siteops/internal/domain"
	"github.com/lite-lake/infra-siteops/internal/domain/entity"
)

const cloudFrontCertificateRegion = "us-east-1"

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type ValidationIssue struct {
	Field    string
	Message  string
	Severity Severity
}

func (vi ValidationIssue) Error() string {
	return fmt.Sprintf("[%s] %s: %s", vi.Severity, vi.Field, vi.Message)
}

func (vi ValidationIssue) IsError() bool {
	return vi.Severity == SeverityError
}

type Validator struct {
	cfg      *entity.PipelineConfig
	warnings []ValidationIssue
}

func NewValidator(cfg *entity.PipelineConfig) *Validator {
	return &Validator{cfg: cfg}
}

// Validate returns the first error found. Warnings are collected along the
// way and are available from Warnings even when Validate fails.
func (v *Validator) Validate() error {
	v.warnings = nil
	if v.cfg == nil {
		return domain.ErrConfigNotLoaded
	}

	if err := v.cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConfigValidateFail, err)
	}

	if err := v.validateEnvironmentNames(); err != nil {
		return err
	}

	v.collectWarnings()
	return nil
}

func (v *Validator) Warnings() []ValidationIssue {
	return v.warnings
}

// validateEnvironmentNames rejects stages whose derived names collide, since
// they would provision into the same environment.
func (v *Validator) validateEnvironmentNames() error {
	names := make(map[string]string, len(v.cfg.Environments))
	for _, st := range v.cfg.Environments {
		name := entity.EnvironmentNameFor(st.ID)
		if existing, ok := names[name]; ok {
			return fmt.Errorf("%w: stages '%s' and '%s' both derive environment name '%s'", domain.ErrDuplicateStage, existing, st.ID, name)
		}
		names[name] = st.ID
	}
	return nil
}

func (v *Validator) collectWarnings() {
	if len(v.cfg.Environments) == 0 {
		v.warn("environments", "no environment stages are defined; the pipeline only runs the build steps")
	}
	for _, st := range v.cfg.Environments {
		field := fmt.Sprintf("environments[%s]", st.ID)
		cfg := st.Config

		for _, w := range Decide(&cfg).Warnings {
			v.warn(field, string(w))
		}

		if cfg.HasURLs() && cfg.HasCertificate() {
			if region := cfg.CertificateRegion(); region != "" && region != cloudFrontCertificateRegion {
				v.warn(field+".cdn_cert_arn", fmt.Sprintf("certificate is in %s; the distribution only accepts certificates from %s", region, cloudFrontCertificateRegion))
			}
		}

		if cfg.HasURLs() && cfg.HasHostedZone() {
			for _, u := range cfg.URLs {
				if !cfg.HostedZone.Contains(u) {
					v.warn(field+".urls", fmt.Sprintf("%s is outside hosted zone %s", u, strings.TrimSuffix(cfg.HostedZone.ZoneName, ".")))
				}
			}
		}
	}
}

func (v *Validator) warn(field, message string) {
	v.warnings = append(v.warnings, ValidationIssue{Field: field, Message: message, Severity: SeverityWarning})
}

// IsConfigurationError reports whether err is one the operator fixes by
// editing configuration rather than retrying.
func IsConfigurationError(err error) bool {
	return errors.Is(err, domain.ErrConfiguration) ||
		errors.Is(err, domain.ErrConfigValidateFail) ||
		errors.Is(err, domain.ErrDuplicateStage)
}
