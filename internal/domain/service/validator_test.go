package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lite-lake/infra-siteops/internal/domain"
	"github.com/lite-lake/infra-siteops/internal/domain/entity"
	"github.com/lite-lake/infra-siteops/internal/domain/valueobject"
)

const (
	testSecretARN   = "arn:aws:secretsmanager:us-east-1:123456789012:secret:github-token-AbCdEf"
	testCertARN     = "arn:aws:acm:us-east-1:123456789012:certificate/0d4f5b5e-1111-2222-3333-444455556666"
	testEUCertARN   = "arn:aws:acm:eu-west-1:123456789012:certificate/0d4f5b5e-1111-2222-3333-444455556666"
	testZoneID      = "Z0123456789"
	testZoneName    = "example.com"
	testStageProd   = "Prod"
	testStageStaged = "Staging"
)

func pipelineConfig(stages ...entity.StageEntry) *entity.PipelineConfig {
	return &entity.PipelineConfig{
		Source: entity.Source{
			Repo:   "HamishWHC/HamishWHC",
			Branch: "master",
			Auth:   valueobject.NewSecretRefSecret(testSecretARN),
		},
		Synth:        entity.Synth{Commands: []string{"npm ci", "npm run build"}},
		Environments: stages,
	}
}

func fullStage(id string) entity.StageEntry {
	return entity.StageEntry{ID: id, Config: entity.EnvironmentConfig{
		URLs:       []string{"example.com", "www.example.com"},
		CDNCertARN: testCertARN,
		HostedZone: &entity.HostedZoneAttributes{ZoneID: testZoneID, ZoneName: testZoneName},
	}}
}

func TestValidator_NilConfig(t *testing.T) {
	err := NewValidator(nil).Validate()
	assert.ErrorIs(t, err, domain.ErrConfigNotLoaded)
}

func TestValidator_ValidConfigHasNoWarnings(t *testing.T) {
	v := NewValidator(pipelineConfig(fullStage(testStageProd), fullStage(testStageStaged)))
	require.NoError(t, v.Validate())
	assert.Empty(t, v.Warnings())
}

func TestValidator_SectionErrors(t *testing.T) {
	cfg := pipelineConfig(fullStage(testStageProd))
	cfg.Source.Auth = nil

	err := NewValidator(cfg).Validate()
	assert.ErrorIs(t, err, domain.ErrConfigValidateFail)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.True(t, IsConfigurationError(err))
}

func TestValidator_DerivedNameCollision(t *testing.T) {
	cfg := pipelineConfig(fullStage("Prod"), fullStage("PROD"))

	err := NewValidator(cfg).Validate()
	assert.ErrorIs(t, err, domain.ErrDuplicateStage)
	assert.Contains(t, err.Error(), "'prod'")
}

func TestValidator_Warnings(t *testing.T) {
	tests := []struct {
		name   string
		stages []entity.StageEntry
		fields []string
	}{
		{
			name:   "no stages",
			fields: []string{"environments"},
		},
		{
			name:   "urls without certificate or zone",
			stages: []entity.StageEntry{{ID: testStageProd, Config: entity.EnvironmentConfig{URLs: []string{"example.com"}}}},
			fields: []string{"environments[Prod]"},
		},
		{
			name: "inert certificate and zone",
			stages: []entity.StageEntry{{ID: testStageProd, Config: entity.EnvironmentConfig{
				CDNCertARN: testCertARN,
				HostedZone: &entity.HostedZoneAttributes{ZoneID: testZoneID, ZoneName: testZoneName},
			}}},
			fields: []string{"environments[Prod]", "environments[Prod]"},
		},
		{
			name: "certificate outside us-east-1",
			stages: []entity.StageEntry{{ID: testStageProd, Config: entity.EnvironmentConfig{
				URLs:       []string{"example.com"},
				CDNCertARN: testEUCertARN,
				HostedZone: &entity.HostedZoneAttributes{ZoneID: testZoneID, ZoneName: testZoneName},
			}}},
			fields: []string{"environments[Prod].cdn_cert_arn"},
		},
		{
			name: "url outside hosted zone",
			stages: []entity.StageEntry{{ID: testStageProd, Config: entity.EnvironmentConfig{
				URLs:       []string{"example.com", "example.org"},
				CDNCertARN: testCertARN,
				HostedZone: &entity.HostedZoneAttributes{ZoneID: testZoneID, ZoneName: testZoneName},
			}}},
			fields: []string{"environments[Prod].urls"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(pipelineConfig(tt.stages...))
			require.NoError(t, v.Validate())

			var fields []string
			for _, w := range v.Warnings() {
				assert.False(t, w.IsError())
				assert.Equal(t, SeverityWarning, w.Severity)
				fields = append(fields, w.Field)
			}
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestValidationIssue_Error(t *testing.T) {
	vi := ValidationIssue{Field: "environments[Prod]", Message: "boom", Severity: SeverityError}
	assert.Equal(t, "[error] environments[Prod]: boom", vi.Error())
	assert.True(t, vi.IsError())
}
