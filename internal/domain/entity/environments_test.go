package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lite-lake/infra-siteops/internal/domain"
)

type environmentsDoc struct {
	Environments Environments `yaml:"environments"`
}

func TestEnvironments_UnmarshalPreservesOrder(t *testing.T) {
	input := `
environments:
  Staging:
    urls: [staging.example.com]
  Prod:
    urls: [example.com, www.example.com]
    cdn_cert_arn: ` + testCertARN + `
    hosted_zone:
      zone_id: Z1
      zone_name: example.com
  Preview:
`
	var doc environmentsDoc
	require.NoError(t, yaml.Unmarshal([]byte(input), &doc))

	assert.Equal(t, []string{"Staging", "Prod", "Preview"}, doc.Environments.IDs())

	prod, ok := doc.Environments.Get("Prod")
	require.True(t, ok)
	assert.Equal(t, []string{"example.com", "www.example.com"}, prod.URLs)
	assert.Equal(t, testCertARN, prod.CDNCertARN)
	require.NotNil(t, prod.HostedZone)
	assert.Equal(t, "Z1", prod.HostedZone.ZoneID)
	assert.Empty(t, prod.EnvironmentName)

	preview, ok := doc.Environments.Get("Preview")
	require.True(t, ok)
	assert.False(t, preview.HasURLs())

	_, ok = doc.Environments.Get("missing")
	assert.False(t, ok)
}

func TestEnvironments_UnmarshalErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "duplicate key",
			input:   "environments:\n  prod: {}\n  prod: {}\n",
			wantErr: domain.ErrDuplicateStage,
		},
		{
			name:    "sequence instead of mapping",
			input:   "environments:\n  - prod\n",
			wantErr: domain.ErrConfigParseFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc environmentsDoc
			err := yaml.Unmarshal([]byte(tt.input), &doc)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEnvironments_RoundTrip(t *testing.T) {
	doc := environmentsDoc{Environments: Environments{
		{ID: "B", Config: EnvironmentConfig{URLs: []string{"b.example.com"}}},
		{ID: "A", Config: EnvironmentConfig{}},
	}}

	data, err := yaml.Marshal(doc)
	require.NoError(t, err)

	var back environmentsDoc
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, []string{"B", "A"}, back.Environments.IDs())

	b, _ := back.Environments.Get("B")
	assert.Equal(t, []string{"b.example.com"}, b.URLs)
}

func TestEnvironments_NullIsEmpty(t *testing.T) {
	var doc environmentsDoc
	require.NoError(t, yaml.Unmarshal([]byte("environments:\n"), &doc))
	assert.Empty(t, doc.Environments)
}
