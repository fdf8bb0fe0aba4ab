package repository

import (
	"context"

	"github.com/lite-lake/infra-siteops/internal/domain/graph"
)

// AssemblyRepository stores the graph manifests handed to the provisioning
// engine, one per environment.
type AssemblyRepository interface {
	// Load returns domain.ErrStateNotFound when the environment has never
	// been synthesised.
	Load(ctx context.Context, environment string) (*graph.Manifest, error)
	Save(ctx context.Context, manifest *graph.Manifest) error
	Remove(ctx context.Context, environment string) error
	Environments(ctx context.Context) ([]string, error)
}
