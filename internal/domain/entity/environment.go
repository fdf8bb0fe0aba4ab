package entity

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"

	"github.com/lite-lake/infra-siteops/internal/domain"
)

const certificateService = "acm"

// EnvironmentConfig is the per-stage input of the site stack. EnvironmentName
// is derived from the stage identifier and is never read from configuration.
type EnvironmentConfig struct {
	URLs            []string              `yaml:"urls,omitempty"`
	CDNCertARN      string                `yaml:"cdn_cert_arn,omitempty"`
	HostedZone      *HostedZoneAttributes `yaml:"hosted_zone,omitempty"`
	EnvironmentName string                `yaml:"-"`
}

func (c *EnvironmentConfig) HasURLs() bool {
	return len(c.URLs) > 0
}

func (c *EnvironmentConfig) HasCertificate() bool {
	return c.CDNCertARN != ""
}

func (c *EnvironmentConfig) HasHostedZone() bool {
	return c.HostedZone != nil
}

// WithEnvironmentName returns a copy carrying the derived name. The URL
// slice is copied so the stage never aliases the caller's configuration.
func (c EnvironmentConfig) WithEnvironmentName(name string) EnvironmentConfig {
	if c.URLs != nil {
		urls := make([]string, len(c.URLs))
		copy(urls, c.URLs)
		c.URLs = urls
	}
	if c.HostedZone != nil {
		zone := *c.HostedZone
		c.HostedZone = &zone
	}
	c.EnvironmentName = name
	return c
}

func (c *EnvironmentConfig) Validate() error {
	seen := make(map[string]bool, len(c.URLs))
	for i, u := range c.URLs {
		if err := validateHostname(u); err != nil {
			return fmt.Errorf("urls[%d]: %w", i, err)
		}
		key := strings.ToLower(u)
		if seen[key] {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateURL, u)
		}
		seen[key] = true
	}
	if c.CDNCertARN != "" {
		parsed, err := arn.Parse(c.CDNCertARN)
		if err != nil {
			return fmt.Errorf("cdn_cert_arn: %w: %v", domain.ErrInvalidARN, err)
		}
		if parsed.Service != certificateService {
			return fmt.Errorf("cdn_cert_arn: %w: expected %s ARN, got service %q", domain.ErrInvalidARN, certificateService, parsed.Service)
		}
	}
	if c.HostedZone != nil {
		if err := c.HostedZone.Validate(); err != nil {
			return fmt.Errorf("hosted_zone: %w", err)
		}
	}
	return nil
}

// CertificateRegion returns the region encoded in the certificate ARN, or ""
// when there is none or it cannot be parsed.
func (c *EnvironmentConfig) CertificateRegion() string {
	parsed, err := arn.Parse(c.CDNCertARN)
	if err != nil {
		return ""
	}
	return parsed.Region
}

func validateHostname(host string) error {
	if host == "" {
		return domain.ErrEmptyValue
	}
	if strings.Contains(host, "://") || strings.ContainsAny(host, "/ :") {
		return fmt.Errorf("%w: %q is not a bare hostname", domain.ErrInvalidDomain, host)
	}
	if len(host) > 253 {
		return fmt.Errorf("%w: %q is too long", domain.ErrInvalidDomain, host)
	}
	for _, label := range strings.Split(strings.TrimSuffix(host, "."), ".") {
		if label == "" || len(label) > 63 {
			return fmt.Errorf("%w: %q has an invalid label", domain.ErrInvalidDomain, host)
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return fmt.Errorf("%w: %q has an invalid label", domain.ErrInvalidDomain, host)
		}
	}
	return nil
}
