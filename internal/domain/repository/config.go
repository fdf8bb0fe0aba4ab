package repository

import (
	"context"

	"github.com/lite-lake/infra-siteops/internal/domain/entity"
)

type ConfigLoader interface {
	Load(ctx context.Context) (*entity.PipelineConfig, error)
	Validate(cfg *entity.PipelineConfig) error
}
