package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lite-lake/infra-siteops/internal/domain"
	"github.com/lite-lake/infra-siteops/internal/domain/entity"
	"github.com/lite-lake/infra-siteops/internal/domain/repository"
	"github.com/lite-lake/infra-siteops/internal/domain/service"
)

// ConfigLoader reads a configuration directory holding one YAML file per
// concern, each with a single top-level key.
type ConfigLoader struct {
	baseDir string
}

func NewConfigLoader(baseDir string) *ConfigLoader {
	return &ConfigLoader{baseDir: baseDir}
}

func (l *ConfigLoader) Load(ctx context.Context) (*entity.PipelineConfig, error) {
	if info, err := os.Stat(l.baseDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: config directory %s", domain.ErrConfigNotFound, l.baseDir)
	}

	cfg := &entity.PipelineConfig{}

	loaders := []struct {
		filename string
		required bool
		loader   func(string, *entity.PipelineConfig) error
	}{
		{domain.ConfigFilePipeline, true, loadPipeline},
		{domain.ConfigFileEnvironments, false, loadEnvironments},
	}

	for _, f := range loaders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		filePath := filepath.Join(l.baseDir, f.filename)
		if _, err := os.Stat(filePath); errors.Is(err, fs.ErrNotExist) {
			if f.required {
				return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, filePath)
			}
			continue
		}
		if err := f.loader(filePath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", f.filename, err)
		}
	}

	return cfg, nil
}

// LoadSecrets reads the optional local secrets table used by `run`. A missing
// file yields an empty table.
func (l *ConfigLoader) LoadSecrets(ctx context.Context) (map[string]map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filePath := filepath.Join(l.baseDir, domain.ConfigFileSecrets)
	if _, err := os.Stat(filePath); errors.Is(err, fs.ErrNotExist) {
		return map[string]map[string]string{}, nil
	}
	table, _, err := loadSection[map[string]map[string]string](filePath, "secrets")
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", domain.ConfigFileSecrets, err)
	}
	if table == nil {
		table = map[string]map[string]string{}
	}
	return table, nil
}

func (l *ConfigLoader) Validate(cfg *entity.PipelineConfig) error {
	return service.NewValidator(cfg).Validate()
}

// loadSection decodes the value under key. The value is decoded from its
// node so that ordered mappings keep document order.
func loadSection[T any](filePath, key string) (T, bool, error) {
	var zero T

	data, err := os.ReadFile(filePath)
	if err != nil {
		return zero, false, fmt.Errorf("%w: %v", domain.ErrConfigReadFailed, err)
	}

	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return zero, false, fmt.Errorf("%w: %v", domain.ErrConfigParseFailed, err)
	}

	node, ok := raw[key]
	if !ok {
		return zero, false, nil
	}

	var out T
	if err := node.Decode(&out); err != nil {
		if errors.Is(err, domain.ErrDuplicateStage) || errors.Is(err, domain.ErrConfigParseFailed) {
			return zero, true, err
		}
		return zero, true, fmt.Errorf("%w: %s: %v", domain.ErrConfigParseFailed, key, err)
	}
	return out, true, nil
}

func loadPipeline(filePath string, cfg *entity.PipelineConfig) error {
	p, ok, err := loadSection[entity.PipelineConfig](filePath, "pipeline")
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s has no pipeline section", domain.ErrConfigParseFailed, filepath.Base(filePath))
	}
	envs := cfg.Environments
	*cfg = p
	cfg.Environments = envs
	return nil
}

func loadEnvironments(filePath string, cfg *entity.PipelineConfig) error {
	envs, _, err := loadSection[entity.Environments](filePath, "environments")
	if err != nil {
		return err
	}
	cfg.Environments = envs
	return nil
}

var _ repository.ConfigLoader = (*ConfigLoader)(nil)
