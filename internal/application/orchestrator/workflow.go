// Package orchestrator ties configuration loading, validation, secrets and
// the assembly store together for the command line.
package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/lite-lake/infra-siteops/internal/application/pipeline"
	"github.com/lite-lake/infra-siteops/internal/application/plan"
	"github.com/lite-lake/infra-siteops/internal/domain"
	"github.com/lite-lake/infra-siteops/internal/domain/entity"
	"github.com/lite-lake/infra-siteops/internal/domain/service"
	"github.com/lite-lake/infra-siteops/internal/domain/valueobject"
	"github.com/lite-lake/infra-siteops/internal/infrastructure/assembly"
	"github.com/lite-lake/infra-siteops/internal/infrastructure/persistence"
	"github.com/lite-lake/infra-siteops/internal/infrastructure/secrets"
)

type Workflow struct {
	configDir string
	outputDir string
	loader    *persistence.ConfigLoader
}

// NewWorkflow reads configuration from configDir. An empty outputDir puts the
// assembly next to the configuration.
func NewWorkflow(configDir, outputDir string) *Workflow {
	if outputDir == "" {
		outputDir = filepath.Join(configDir, domain.DefaultAssemblyDir)
	}
	return &Workflow{
		configDir: configDir,
		outputDir: outputDir,
		loader:    persistence.NewConfigLoader(configDir),
	}
}

func (w *Workflow) ConfigDir() string { return w.configDir }
func (w *Workflow) OutputDir() string { return w.outputDir }

func (w *Workflow) LoadConfig(ctx context.Context) (*entity.PipelineConfig, error) {
	cfg, err := w.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// LoadAndValidate returns the configuration with the warnings validation
// raised. Errors stop the workflow; warnings never do.
func (w *Workflow) LoadAndValidate(ctx context.Context) (*entity.PipelineConfig, []service.ValidationIssue, error) {
	cfg, err := w.LoadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	v := service.NewValidator(cfg)
	if err := v.Validate(); err != nil {
		return nil, nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, v.Warnings(), nil
}

// ResolveSecrets checks every secret input against the local secrets table
// and returns the environment for build steps.
func (w *Workflow) ResolveSecrets(ctx context.Context, cfg *entity.PipelineConfig) ([]string, error) {
	table, err := w.loader.LoadSecrets(ctx)
	if err != nil {
		return nil, err
	}
	resolver := secrets.NewSecretResolver(table)
	if err := resolver.ResolveAll(cfg); err != nil {
		return nil, fmt.Errorf("resolve secrets: %w", err)
	}
	return resolver.RegistryEnv(cfg.RegistryCredentials)
}

func (w *Workflow) Pipeline(cfg *entity.PipelineConfig, opts ...pipeline.Option) (*pipeline.Orchestrator, error) {
	o, err := pipeline.FromConfig(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("build pipeline: %w", err)
	}
	return o, nil
}

func (w *Workflow) Store(o *pipeline.Orchestrator) *assembly.Store {
	return assembly.NewStore(w.outputDir, o.StackName())
}

func (w *Workflow) Planner(o *pipeline.Orchestrator) *plan.Planner {
	return plan.NewPlanner(o, plan.WithRepository(w.Store(o)))
}

// Plan loads and validates the configuration and compares it with the
// current assembly.
func (w *Workflow) Plan(ctx context.Context, scope *valueobject.Scope) (*valueobject.Plan, *pipeline.Orchestrator, error) {
	cfg, _, err := w.LoadAndValidate(ctx)
	if err != nil {
		return nil, nil, err
	}
	o, err := w.Pipeline(cfg)
	if err != nil {
		return nil, nil, err
	}
	p, err := w.Planner(o).Plan(ctx, scope)
	if err != nil {
		return nil, nil, fmt.Errorf("plan: %w", err)
	}
	return p, o, nil
}

// Synth writes the graphs of the selected stages, or of every stage, into
// the assembly. With prune, environments that no longer have a stage are
// removed.
func (w *Workflow) Synth(ctx context.Context, o *pipeline.Orchestrator, prune bool, refs ...string) ([]pipeline.Artifact, error) {
	arts, err := o.Synthesize(ctx, refs...)
	if err != nil {
		return nil, err
	}
	store := w.Store(o)
	for _, a := range arts {
		if err := store.Save(ctx, a.Manifest); err != nil {
			return nil, fmt.Errorf("save %s: %w", a.Stage.ID(), err)
		}
	}
	if !prune {
		return arts, nil
	}
	orphans, err := w.Planner(o).Orphans(ctx)
	if err != nil {
		return nil, err
	}
	for _, env := range orphans {
		if err := store.Remove(ctx, env); err != nil {
			return nil, fmt.Errorf("prune %s: %w", env, err)
		}
	}
	return arts, nil
}
