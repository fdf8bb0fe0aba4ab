// Package stage implements the deployable unit of the pipeline: one
// environment, one site stack.
package stage

import (
	"strings"

	"github.com/lite-lake/infra-siteops/internal/domain"
	"github.com/lite-lake/infra-siteops/internal/domain/entity"
	"github.com/lite-lake/infra-siteops/internal/domain/graph"
	"github.com/lite-lake/infra-siteops/internal/domain/service"
)

// Provisioner builds the resource graph of one environment.
type Provisioner interface {
	Provision(cfg entity.EnvironmentConfig) (*service.ProvisionResult, error)
}

type EnvironmentStage struct {
	id              string
	environmentName string
	stack           string
	config          entity.EnvironmentConfig
}

// New derives the environment name from id and binds it into a private copy
// of cfg. Any EnvironmentName already present in cfg is replaced.
func New(id, stack string, cfg entity.EnvironmentConfig) (*EnvironmentStage, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.Configuration("stage", "identifier is empty")
	}
	name := entity.EnvironmentNameFor(id)
	return &EnvironmentStage{
		id:              id,
		environmentName: name,
		stack:           stack,
		config:          cfg.WithEnvironmentName(name),
	}, nil
}

func (s *EnvironmentStage) ID() string              { return s.id }
func (s *EnvironmentStage) EnvironmentName() string { return s.environmentName }
func (s *EnvironmentStage) StackName() string       { return s.stack }

// Config returns a copy of the bound configuration.
func (s *EnvironmentStage) Config() entity.EnvironmentConfig {
	return s.config.WithEnvironmentName(s.environmentName)
}

// Synthesize makes the stage's single provisioning call.
func (s *EnvironmentStage) Synthesize(p Provisioner) (*service.ProvisionResult, error) {
	res, err := p.Provision(s.Config())
	if err != nil {
		return nil, domain.WrapEntity("stage", s.id, err)
	}
	return res, nil
}

// Manifest synthesises the stage and renders the result for the engine.
func (s *EnvironmentStage) Manifest(p Provisioner) (*graph.Manifest, *service.ProvisionResult, error) {
	res, err := s.Synthesize(p)
	if err != nil {
		return nil, nil, err
	}
	m, err := res.Graph.ToManifest(s.id, s.stack, res.Warnings())
	if err != nil {
		return nil, nil, domain.WrapEntity("stage", s.id, err)
	}
	return m, res, nil
}

// Matches reports whether ref names this stage by identifier or environment.
func (s *EnvironmentStage) Matches(ref string) bool {
	return ref == s.id || strings.EqualFold(ref, s.environmentName)
}
