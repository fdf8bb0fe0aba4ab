package service

import (
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/lite-lake/infra-siteops/internal/domain"
	"github.com/lite-lake/infra-siteops/internal/domain/entity"
	"github.com/lite-lake/infra-siteops/internal/domain/graph"
)

// Node IDs of the site stack. DNS record IDs are built by DNSRecordID.
const (
	NodeLogStorage   = "LogStorage"
	NodeSiteStorage  = "SiteStorage"
	NodeAccessGrant  = "AccessGrant"
	NodeCertificate  = "Certificate"
	NodeDistribution = "Distribution"
	NodeAssetPublish = "AssetPublish"
)

// Property keys understood by the provisioning engine.
const (
	PropRemovalPolicy        = "removal_policy"
	PropAutoDeleteObjects    = "auto_delete_objects"
	PropAccessLogsBucket     = "access_logs_bucket"
	PropAccessLogsPrefix     = "access_logs_prefix"
	PropBucket               = "bucket"
	PropPermission           = "permission"
	PropCertificateARN       = "certificate_arn"
	PropImported             = "imported"
	PropOrigin               = "origin"
	PropOriginAccessIdentity = "origin_access_identity"
	PropViewerProtocolPolicy = "viewer_protocol_policy"
	PropDefaultRootObject    = "default_root_object"
	PropCertificate          = "certificate"
	PropLogBucket            = "log_bucket"
	PropLogPrefix            = "log_prefix"
	PropAliases              = "aliases"
	PropSource               = "source"
	PropBundlingImage        = "bundling_image"
	PropBundlingCommand      = "bundling_command"
	PropDestinationBucket    = "destination_bucket"
	PropRetainOnDelete       = "retain_on_delete"
	PropDistribution         = "distribution"
	PropInvalidationPaths    = "invalidation_paths"
	PropRecordType           = "record_type"
	PropRecordName           = "record_name"
	PropZoneID               = "zone_id"
	PropZoneName             = "zone_name"
	PropAliasTarget          = "alias_target"
)

const (
	RecordTypeA    = "A"
	RecordTypeAAAA = "AAAA"

	removalDestroy = "destroy"
	removalRetain  = "retain"
	permissionRead = "read"
)

func DNSRecordID(url, recordType string) string {
	return fmt.Sprintf("%s-%s-%s", graph.KindDNSRecord, url, recordType)
}

type ProvisionResult struct {
	Graph    *graph.Graph
	Decision Decision
}

func (r *ProvisionResult) Warnings() []string {
	out := make([]string, 0, len(r.Decision.Warnings))
	for _, w := range r.Decision.Warnings {
		out = append(out, string(w))
	}
	return out
}

// SiteProvisioner turns one environment's configuration into its resource
// graph. It holds no state: the same input always yields the same graph.
type SiteProvisioner struct{}

func NewSiteProvisioner() *SiteProvisioner {
	return &SiteProvisioner{}
}

func (p *SiteProvisioner) Provision(cfg entity.EnvironmentConfig) (*ProvisionResult, error) {
	decision := Decide(&cfg)
	urls := uniqueURLs(cfg.URLs)
	g := graph.New(cfg.EnvironmentName)

	b := &builder{g: g}
	b.add(NodeLogStorage, graph.KindLogStorage, graph.Properties{
		PropRemovalPolicy: removalRetain,
	})
	b.add(NodeSiteStorage, graph.KindSiteStorage, graph.Properties{
		PropAccessLogsBucket:  graph.Ref(NodeLogStorage),
		PropAccessLogsPrefix:  domain.SiteAccessLogPrefix,
		PropAutoDeleteObjects: true,
		PropRemovalPolicy:     removalDestroy,
	}, NodeLogStorage)
	b.add(NodeAccessGrant, graph.KindAccessGrant, graph.Properties{
		PropBucket:     graph.Ref(NodeSiteStorage),
		PropPermission: permissionRead,
	}, NodeSiteStorage)

	certificate := any(domain.DefaultCertificateRef)
	distDeps := []string{NodeSiteStorage, NodeAccessGrant}
	if decision.Certificate {
		b.add(NodeCertificate, graph.KindCertificate, graph.Properties{
			PropCertificateARN: cfg.CDNCertARN,
			PropImported:       true,
		})
		certificate = graph.Ref(NodeCertificate)
		distDeps = append(distDeps, NodeCertificate)
	}

	b.add(NodeDistribution, graph.KindDistribution, graph.Properties{
		PropOrigin:               graph.Ref(NodeSiteStorage),
		PropOriginAccessIdentity: graph.Ref(NodeAccessGrant),
		PropViewerProtocolPolicy: domain.ViewerProtocolHTTPS,
		PropDefaultRootObject:    domain.DefaultRootObject,
		PropCertificate:          certificate,
		PropLogBucket:            graph.Ref(NodeLogStorage),
		PropLogPrefix:            domain.CDNAccessLogPrefix,
		PropAliases:              urls,
	}, distDeps...)

	b.add(NodeAssetPublish, graph.KindAssetPublish, graph.Properties{
		PropSource:            domain.AssetSourceDir,
		PropBundlingImage:     domain.AssetBundlingImage,
		PropBundlingCommand:   []string{"bash", "-c", strings.Join(domain.AssetBundlingSteps, " && ")},
		PropDestinationBucket: graph.Ref(NodeSiteStorage),
		PropRetainOnDelete:    false,
		PropDistribution:      graph.Ref(NodeDistribution),
		PropInvalidationPaths: []string{domain.InvalidationPathAll},
	}, NodeDistribution, NodeSiteStorage)

	if decision.DNS {
		for _, url := range urls {
			for _, recordType := range []string{RecordTypeA, RecordTypeAAAA} {
				b.add(DNSRecordID(url, recordType), graph.KindDNSRecord, graph.Properties{
					PropRecordType:  recordType,
					PropRecordName:  url,
					PropZoneID:      cfg.HostedZone.ZoneID,
					PropZoneName:    cfg.HostedZone.ZoneName,
					PropAliasTarget: graph.Ref(NodeDistribution),
				}, NodeDistribution)
			}
		}
	}

	if b.err != nil {
		return nil, b.err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &ProvisionResult{Graph: g, Decision: decision}, nil
}

type builder struct {
	g   *graph.Graph
	err error
}

func (b *builder) add(id string, kind graph.Kind, props graph.Properties, deps ...string) {
	if b.err != nil {
		return
	}
	b.err = b.g.Add(&graph.Node{ID: id, Kind: kind, Properties: props, DependsOn: deps})
}

// uniqueURLs drops case-insensitive repeats and keeps first-seen order. The
// result is never nil so aliases always serialise as a list.
func uniqueURLs(urls []string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen.Add(strings.ToLower(u)) {
			out = append(out, u)
		}
	}
	return out
}
