package plan

import (
	"context"
	"errors"
	"fmt"

	"github.com/lite-lake/infra-siteops/internal/application/pipeline"
	"github.com/lite-lake/infra-siteops/internal/domain"
	"github.com/lite-lake/infra-siteops/internal/domain/graph"
	"github.com/lite-lake/infra-siteops/internal/domain/repository"
	"github.com/lite-lake/infra-siteops/internal/domain/service"
	"github.com/lite-lake/infra-siteops/internal/domain/valueobject"
)

// Planner compares freshly synthesised stage graphs with the ones last
// written to the assembly.
type Planner struct {
	orchestrator *pipeline.Orchestrator
	repo         repository.AssemblyRepository
}

type PlannerOption func(*Planner)

func WithRepository(repo repository.AssemblyRepository) PlannerOption {
	return func(p *Planner) { p.repo = repo }
}

func NewPlanner(o *pipeline.Orchestrator, opts ...PlannerOption) *Planner {
	p := &Planner{orchestrator: o}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan returns the changes for every stage in scope. Environments that have
// an assembly but no stage any more are planned as full deletions.
func (p *Planner) Plan(ctx context.Context, scope *valueobject.Scope) (*valueobject.Plan, error) {
	if scope == nil {
		scope = &valueobject.Scope{}
	}
	plan := valueobject.NewPlanWithScope(scope)

	artifacts, err := p.orchestrator.Synthesize(ctx)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	for _, art := range artifacts {
		env := art.Stage.EnvironmentName()
		if !scope.Matches(art.Stage.ID(), env) {
			continue
		}
		prev, err := p.previous(ctx, env)
		if err != nil {
			return nil, err
		}
		if err := service.NewDifferService(prev).PlanStage(plan, env, art.Result.Graph); err != nil {
			return nil, err
		}
	}

	orphans, err := p.Orphans(ctx)
	if err != nil {
		return nil, err
	}
	for _, env := range orphans {
		if !scope.Matches(env) {
			continue
		}
		prev, err := p.previous(ctx, env)
		if err != nil {
			return nil, err
		}
		if err := service.NewDifferService(prev).PlanStage(plan, env, graph.New(env)); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

func (p *Planner) previous(ctx context.Context, env string) (*graph.Graph, error) {
	if p.repo == nil {
		return nil, nil
	}
	m, err := p.repo.Load(ctx, env)
	if errors.Is(err, domain.ErrStateNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load assembly %s: %w", env, err)
	}
	g, err := graph.FromManifest(m)
	if err != nil {
		return nil, fmt.Errorf("load assembly %s: %w", env, err)
	}
	return g, nil
}

// Orphans lists environments with an assembly but no stage.
func (p *Planner) Orphans(ctx context.Context) ([]string, error) {
	if p.repo == nil {
		return nil, nil
	}
	known := make(map[string]bool, len(p.orchestrator.Stages()))
	for _, st := range p.orchestrator.Stages() {
		known[st.EnvironmentName()] = true
	}
	envs, err := p.repo.Environments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assemblies: %w", err)
	}
	var out []string
	for _, env := range envs {
		if !known[env] {
			out = append(out, env)
		}
	}
	return out, nil
}
