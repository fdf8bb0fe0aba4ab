package service

import (
	"github.com/lite-lake/infra-siteops/internal/domain/entity"
)

type Warning string

const (
	WarnNoCustomDomain   Warning = "urls are set without a certificate or hosted zone; aliases use the default certificate and no DNS records are created"
	WarnNoCertificate    Warning = "urls are set without a certificate; the distribution serves the default certificate"
	WarnNoHostedZone     Warning = "urls are set without a hosted zone; no DNS records are created"
	WarnInertCertificate Warning = "cdn_cert_arn is set without urls and is ignored"
	WarnInertHostedZone  Warning = "hosted_zone is set without urls and is ignored"
)

// Decision is the outcome of the two conditional gates for one environment.
type Decision struct {
	Certificate bool
	DNS         bool
	Warnings    []Warning
}

type decisionRow struct {
	urls, cert, zone bool
	decision         Decision
}

// decisionTable covers every combination of (urls, certificate, hosted zone).
var decisionTable = []decisionRow{
	{urls: false, cert: false, zone: false, decision: Decision{}},
	{urls: false, cert: true, zone: false, decision: Decision{Warnings: []Warning{WarnInertCertificate}}},
	{urls: false, cert: false, zone: true, decision: Decision{Warnings: []Warning{WarnInertHostedZone}}},
	{urls: false, cert: true, zone: true, decision: Decision{Warnings: []Warning{WarnInertCertificate, WarnInertHostedZone}}},
	{urls: true, cert: false, zone: false, decision: Decision{Warnings: []Warning{WarnNoCustomDomain}}},
	{urls: true, cert: true, zone: false, decision: Decision{Certificate: true, Warnings: []Warning{WarnNoHostedZone}}},
	{urls: true, cert: false, zone: true, decision: Decision{DNS: true, Warnings: []Warning{WarnNoCertificate}}},
	{urls: true, cert: true, zone: true, decision: Decision{Certificate: true, DNS: true}},
}

func Decide(cfg *entity.EnvironmentConfig) Decision {
	urls, cert, zone := cfg.HasURLs(), cfg.HasCertificate(), cfg.HasHostedZone()
	for _, row := range decisionTable {
		if row.urls == urls && row.cert == cert && row.zone == zone {
			d := row.decision
			d.Warnings = append([]Warning(nil), row.decision.Warnings...)
			return d
		}
	}
	// unreachable while the table is complete
	return Decision{}
}
