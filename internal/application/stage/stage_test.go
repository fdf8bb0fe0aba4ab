package stage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lite-lake/infra-siteops/internal/domain"
	"github.com/lite-lake/infra-siteops/internal/domain/entity"
	"github.com/lite-lake/infra-siteops/internal/domain/service"
)

type recordingProvisioner struct {
	calls []entity.EnvironmentConfig
	err   error
}

func (p *recordingProvisioner) Provision(cfg entity.EnvironmentConfig) (*service.ProvisionResult, error) {
	p.calls = append(p.calls, cfg)
	if p.err != nil {
		return nil, p.err
	}
	return service.NewSiteProvisioner().Provision(cfg)
}

func TestNew_DerivesEnvironmentName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"Prod", "prod"},
		{"PROD", "prod"},
		{"prod", "prod"},
		{"Staging-EU", "staging-eu"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			st, err := New(tt.id, "site-SiteStack", entity.EnvironmentConfig{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, st.EnvironmentName())
			assert.Equal(t, tt.want, st.Config().EnvironmentName)
			assert.Equal(t, tt.id, st.ID())
		})
	}
}

func TestNew_NameIsStable(t *testing.T) {
	a, err := New("Prod", "s", entity.EnvironmentConfig{})
	require.NoError(t, err)
	b, err := New("Prod", "s", entity.EnvironmentConfig{})
	require.NoError(t, err)
	assert.Equal(t, a.EnvironmentName(), b.EnvironmentName())
	assert.Equal(t, a.EnvironmentName(), a.EnvironmentName())
}

func TestNew_IgnoresSuppliedEnvironmentName(t *testing.T) {
	st, err := New("Prod", "s", entity.EnvironmentConfig{EnvironmentName: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, "prod", st.Config().EnvironmentName)
}

func TestNew_EmptyIdentifier(t *testing.T) {
	_, err := New("  ", "s", entity.EnvironmentConfig{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestNew_DoesNotAliasCallerConfig(t *testing.T) {
	cfg := entity.EnvironmentConfig{URLs: []string{"example.com"}}
	st, err := New("Prod", "s", cfg)
	require.NoError(t, err)

	cfg.URLs[0] = "changed.example.com"
	assert.Equal(t, []string{"example.com"}, st.Config().URLs)
}

func TestSynthesize_DelegatesExactlyOnce(t *testing.T) {
	p := &recordingProvisioner{}
	st, err := New("Prod", "site-SiteStack", entity.EnvironmentConfig{URLs: []string{"example.com"}})
	require.NoError(t, err)

	res, err := st.Synthesize(p)
	require.NoError(t, err)
	require.Len(t, p.calls, 1)
	assert.Equal(t, "prod", p.calls[0].EnvironmentName)
	assert.Equal(t, []string{"example.com"}, p.calls[0].URLs)
	assert.Equal(t, "prod", res.Graph.Environment())
}

func TestSynthesize_WrapsError(t *testing.T) {
	boom := errors.New("boom")
	st, err := New("Prod", "s", entity.EnvironmentConfig{})
	require.NoError(t, err)

	_, err = st.Synthesize(&recordingProvisioner{err: boom})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "stage[Prod]")
}

func TestManifest(t *testing.T) {
	st, err := New("Prod", "site-SiteStack", entity.EnvironmentConfig{URLs: []string{"example.com"}})
	require.NoError(t, err)

	m, res, err := st.Manifest(&recordingProvisioner{})
	require.NoError(t, err)
	assert.Equal(t, "Prod", m.Stage)
	assert.Equal(t, "prod", m.Environment)
	assert.Equal(t, "site-SiteStack", m.Stack)
	assert.Equal(t, res.Warnings(), m.Warnings)
	assert.Len(t, m.Nodes, res.Graph.Len())
}

func TestMatches(t *testing.T) {
	st, err := New("Prod", "s", entity.EnvironmentConfig{})
	require.NoError(t, err)
	assert.True(t, st.Matches("Prod"))
	assert.True(t, st.Matches("prod"))
	assert.True(t, st.Matches("PROD"))
	assert.False(t, st.Matches("staging"))
}
