// Package pipeline assembles the source, build steps, registry credentials
// and environment stages of a site pipeline, and runs them in order.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/lite-lake/infra-siteops/internal/application/stage"
	"github.com/lite-lake/infra-siteops/internal/domain"
	"github.com/lite-lake/infra-siteops/internal/domain/entity"
	"github.com/lite-lake/infra-siteops/internal/domain/graph"
	"github.com/lite-lake/infra-siteops/internal/domain/service"
)

// BuildRunner executes the synth commands in order and stops at the first
// failure.
type BuildRunner interface {
	Run(ctx context.Context, commands []string, env []string) error
}

// Engine realises one stage's resource graph.
type Engine interface {
	Provision(ctx context.Context, m *graph.Manifest) error
}

type Orchestrator struct {
	project     string
	name        string
	source      *entity.Source
	buildSteps  []string
	docker      bool
	registry    *entity.RegistryCredential
	registryEnv []string
	stages      []*stage.EnvironmentStage
	provisioner stage.Provisioner
}

type Option func(*Orchestrator)

// WithProvisioner replaces the site provisioner used to synthesise stages.
func WithProvisioner(p stage.Provisioner) Option {
	return func(o *Orchestrator) { o.provisioner = p }
}

// WithName overrides the derived pipeline name.
func WithName(name string) Option {
	return func(o *Orchestrator) { o.name = name }
}

// WithRegistryEnv sets the resolved registry environment passed to every
// build step.
func WithRegistryEnv(env []string) Option {
	return func(o *Orchestrator) { o.registryEnv = append([]string(nil), env...) }
}

func New(project string, opts ...Option) *Orchestrator {
	if project == "" {
		project = domain.DefaultProject
	}
	o := &Orchestrator{
		project:     project,
		provisioner: service.NewSiteProvisioner(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// FromConfig registers every section of cfg in order.
func FromConfig(cfg *entity.PipelineConfig, opts ...Option) (*Orchestrator, error) {
	if cfg == nil {
		return nil, domain.ErrConfigNotLoaded
	}
	o := New(cfg.EffectiveProject(), append([]Option{WithName(cfg.Name)}, opts...)...)
	if err := o.RegisterSource(cfg.Source); err != nil {
		return nil, err
	}
	o.RegisterBuildSteps(cfg.Synth.Commands...)
	o.EnableSynthDocker(cfg.Synth.DockerEnabled)
	if cfg.RegistryCredentials != nil {
		if err := o.RegisterRegistryCredentials(*cfg.RegistryCredentials); err != nil {
			return nil, err
		}
	}
	for _, st := range cfg.Environments {
		if err := o.AddEnvironmentStage(st.ID, st.Config); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *Orchestrator) Name() string {
	if o.name != "" {
		return o.name
	}
	return fmt.Sprintf(domain.PipelineNameFormat, o.project)
}

func (o *Orchestrator) StackName() string {
	return fmt.Sprintf(domain.StackNameFormat, o.project)
}

func (o *Orchestrator) RegisterSource(src entity.Source) error {
	if err := src.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	o.source = &src
	return nil
}

// RegisterBuildSteps appends commands. They are opaque and run in the order
// given.
func (o *Orchestrator) RegisterBuildSteps(commands ...string) {
	o.buildSteps = append(o.buildSteps, commands...)
}

// EnableSynthDocker marks the build steps as needing a Docker daemon.
func (o *Orchestrator) EnableSynthDocker(enabled bool) {
	o.docker = enabled
}

// SynthEnv is the environment handed to every build step.
func (o *Orchestrator) SynthEnv() []string {
	env := append([]string(nil), o.registryEnv...)
	return append(env, fmt.Sprintf("%s=%t", domain.EnvSynthDocker, o.docker))
}

func (o *Orchestrator) RegisterRegistryCredentials(cred entity.RegistryCredential) error {
	if err := cred.Validate(); err != nil {
		return fmt.Errorf("registry_credentials: %w", err)
	}
	o.registry = &cred
	return nil
}

// AddEnvironmentStage appends a stage. Deploy order is append order.
func (o *Orchestrator) AddEnvironmentStage(id string, cfg entity.EnvironmentConfig) error {
	st, err := stage.New(id, o.StackName(), cfg)
	if err != nil {
		return err
	}
	for _, existing := range o.stages {
		if existing.ID() == id {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateStage, id)
		}
		if existing.EnvironmentName() == st.EnvironmentName() {
			return fmt.Errorf("%w: stages '%s' and '%s' both derive environment name '%s'",
				domain.ErrDuplicateStage, existing.ID(), id, st.EnvironmentName())
		}
	}
	o.stages = append(o.stages, st)
	return nil
}

func (o *Orchestrator) Source() *entity.Source                          { return o.source }
func (o *Orchestrator) BuildSteps() []string                            { return o.buildSteps }
func (o *Orchestrator) RegistryCredentials() *entity.RegistryCredential { return o.registry }
func (o *Orchestrator) SynthDocker() bool                               { return o.docker }
func (o *Orchestrator) Stages() []*stage.EnvironmentStage               { return o.stages }

// Stage looks a stage up by identifier or environment name.
func (o *Orchestrator) Stage(ref string) (*stage.EnvironmentStage, error) {
	for _, st := range o.stages {
		if st.Matches(ref) {
			return st, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrStageNotFound, ref)
}

// Config rebuilds the pipeline configuration from what has been registered.
func (o *Orchestrator) Config() *entity.PipelineConfig {
	cfg := &entity.PipelineConfig{
		Project:             o.project,
		Name:                o.name,
		Synth:               entity.Synth{Commands: o.buildSteps, DockerEnabled: o.docker},
		RegistryCredentials: o.registry,
	}
	if o.source != nil {
		cfg.Source = *o.source
	}
	for _, st := range o.stages {
		cfg.Environments = append(cfg.Environments, entity.StageEntry{ID: st.ID(), Config: st.Config()})
	}
	return cfg
}

// Artifact is the synthesised output of one stage.
type Artifact struct {
	Stage    *stage.EnvironmentStage
	Manifest *graph.Manifest
	Result   *service.ProvisionResult
}

// Synthesize builds the graphs of the named stages, or of all stages when
// refs is empty, in deploy order.
func (o *Orchestrator) Synthesize(ctx context.Context, refs ...string) ([]Artifact, error) {
	selected, err := o.selectStages(refs)
	if err != nil {
		return nil, err
	}
	out := make([]Artifact, 0, len(selected))
	for _, st := range selected {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, res, err := st.Manifest(o.provisioner)
		if err != nil {
			return nil, err
		}
		for _, w := range res.Warnings() {
			logFor(ctx, st).Warn("degraded site configuration", "warning", w)
		}
		out = append(out, Artifact{Stage: st, Manifest: m, Result: res})
	}
	return out, nil
}

func (o *Orchestrator) selectStages(refs []string) ([]*stage.EnvironmentStage, error) {
	if len(refs) == 0 {
		return o.stages, nil
	}
	var missing []string
	selected := make([]*stage.EnvironmentStage, 0, len(refs))
	for _, st := range o.stages {
		for _, ref := range refs {
			if st.Matches(ref) {
				selected = append(selected, st)
				break
			}
		}
	}
	for _, ref := range refs {
		if _, err := o.Stage(ref); err != nil {
			missing = append(missing, ref)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrStageNotFound, strings.Join(missing, ", "))
	}
	return selected, nil
}
