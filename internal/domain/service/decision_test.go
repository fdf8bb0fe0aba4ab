package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lite-lake/infra-siteops/internal/domain/entity"
)

func TestDecisionTable_IsTotal(t *testing.T) {
	seen := make(map[[3]bool]bool)
	for _, row := range decisionTable {
		key := [3]bool{row.urls, row.cert, row.zone}
		assert.False(t, seen[key], "duplicate row %v", key)
		seen[key] = true
	}
	assert.Len(t, seen, 8)
}

func TestDecide(t *testing.T) {
	zone := &entity.HostedZoneAttributes{ZoneID: "Z1", ZoneName: "example.com"}
	urls := []string{"example.com"}

	tests := []struct {
		name     string
		cfg      entity.EnvironmentConfig
		wantCert bool
		wantDNS  bool
		warnings []Warning
	}{
		{name: "nothing set", cfg: entity.EnvironmentConfig{}},
		{
			name:     "certificate without urls",
			cfg:      entity.EnvironmentConfig{CDNCertARN: "cert-1"},
			warnings: []Warning{WarnInertCertificate},
		},
		{
			name:     "zone without urls",
			cfg:      entity.EnvironmentConfig{HostedZone: zone},
			warnings: []Warning{WarnInertHostedZone},
		},
		{
			name:     "certificate and zone without urls",
			cfg:      entity.EnvironmentConfig{CDNCertARN: "cert-1", HostedZone: zone},
			warnings: []Warning{WarnInertCertificate, WarnInertHostedZone},
		},
		{
			name:     "urls only",
			cfg:      entity.EnvironmentConfig{URLs: urls},
			warnings: []Warning{WarnNoCustomDomain},
		},
		{
			name:     "urls and certificate",
			cfg:      entity.EnvironmentConfig{URLs: urls, CDNCertARN: "cert-1"},
			wantCert: true,
			warnings: []Warning{WarnNoHostedZone},
		},
		{
			name:     "urls and zone",
			cfg:      entity.EnvironmentConfig{URLs: urls, HostedZone: zone},
			wantDNS:  true,
			warnings: []Warning{WarnNoCertificate},
		},
		{
			name:     "everything",
			cfg:      entity.EnvironmentConfig{URLs: urls, CDNCertARN: "cert-1", HostedZone: zone},
			wantCert: true,
			wantDNS:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(&tt.cfg)
			assert.Equal(t, tt.wantCert, d.Certificate)
			assert.Equal(t, tt.wantDNS, d.DNS)
			assert.Equal(t, tt.warnings, d.Warnings)
		})
	}
}

func TestDecide_ReturnsFreshWarnings(t *testing.T) {
	cfg := entity.EnvironmentConfig{URLs: []string{"example.com"}}
	d := Decide(&cfg)
	d.Warnings[0] = "mutated"

	assert.Equal(t, []Warning{WarnNoCustomDomain}, Decide(&cfg).Warnings)
}
