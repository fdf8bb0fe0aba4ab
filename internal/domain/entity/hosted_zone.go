package entity

import (
	"strings"

	"github.com/lite-lake/infra-siteops/internal/domain"
)

// HostedZoneAttributes identifies an existing DNS zone. The zone is imported
// by reference, never created.
type HostedZoneAttributes struct {
	ZoneID   string `yaml:"zone_id"`
	ZoneName string `yaml:"zone_name"`
}

func (z *HostedZoneAttributes) Validate() error {
	if z.ZoneID == "" {
		return domain.RequiredField("zone_id")
	}
	if z.ZoneName == "" {
		return domain.RequiredField("zone_name")
	}
	return validateHostname(z.ZoneName)
}

// Contains reports whether host is the zone apex or a name below it.
func (z *HostedZoneAttributes) Contains(host string) bool {
	zone := strings.ToLower(strings.TrimSuffix(z.ZoneName, "."))
	h := strings.ToLower(strings.TrimSuffix(host, "."))
	return h == zone || strings.HasSuffix(h, "."+zone)
}
