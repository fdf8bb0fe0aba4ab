// Package graph holds the resource graph handed to the provisioning engine.
//
// A Graph is a set of typed nodes whose DependsOn edges point from a node to
// the nodes it reads from. The engine creates nodes in TopoSort order and
// deletes them in DeletionOrder; this package never talks to a provider.
package graph

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type Kind string

const (
	KindLogStorage   Kind = "LogStorage"
	KindSiteStorage  Kind = "SiteStorage"
	KindAccessGrant  Kind = "AccessGrant"
	KindCertificate  Kind = "Certificate"
	KindDistribution Kind = "Distribution"
	KindAssetPublish Kind = "AssetPublish"
	KindDNSRecord    Kind = "DnsRecord"
)

var resourceTypes = map[Kind]string{
	KindLogStorage:   "AWS::S3::Bucket",
	KindSiteStorage:  "AWS::S3::Bucket",
	KindAccessGrant:  "AWS::CloudFront::CloudFrontOriginAccessIdentity",
	KindCertificate:  "AWS::CertificateManager::Certificate",
	KindDistribution: "AWS::CloudFront::Distribution",
	KindAssetPublish: "Custom::CDKBucketDeployment",
	KindDNSRecord:    "AWS::Route53::RecordSet",
}

// ResourceType is the engine-side type the node is realised as.
func (k Kind) ResourceType() string {
	if t, ok := resourceTypes[k]; ok {
		return t
	}
	return "Custom::" + string(k)
}

func (k Kind) Valid() bool {
	_, ok := resourceTypes[k]
	return ok
}

// Properties is the per-node property bag. Values must be YAML-encodable.
type Properties map[string]any

// Normalize returns the properties as they look after a YAML round trip, so
// a freshly built bag can be compared with one read back from disk.
func (p Properties) Normalize() (Properties, error) {
	if len(p) == 0 {
		return Properties{}, nil
	}
	data, err := yaml.Marshal(map[string]any(p))
	if err != nil {
		return nil, fmt.Errorf("marshal properties: %w", err)
	}
	var out map[string]any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal properties: %w", err)
	}
	return Properties(out), nil
}

type Node struct {
	ID         string     `yaml:"id"`
	Kind       Kind       `yaml:"kind"`
	Properties Properties `yaml:"properties,omitempty"`
	DependsOn  []string   `yaml:"depends_on,omitempty"`
}

// Ref returns a property value that points at another node. Engines replace
// it with the referenced resource's physical identifier.
func Ref(id string) map[string]string {
	return map[string]string{"ref": id}
}

func (n *Node) Clone() *Node {
	props := make(Properties, len(n.Properties))
	for k, v := range n.Properties {
		props[k] = v
	}
	deps := make([]string, len(n.DependsOn))
	copy(deps, n.DependsOn)
	return &Node{ID: n.ID, Kind: n.Kind, Properties: props, DependsOn: deps}
}

func (n *Node) DependsOnID(id string) bool {
	for _, d := range n.DependsOn {
		if d == id {
			return true
		}
	}
	return false
}

// Edge means From depends on To.
type Edge struct {
	From string
	To   string
}
