package graph

import (
	"fmt"

	"github.com/lite-lake/infra-siteops/internal/domain"
)

// ManifestNode is the on-disk form of a node. Type is informational for the
// engine and is recomputed from Kind when a manifest is loaded.
type ManifestNode struct {
	Node `yaml:",inline"`
	Type string `yaml:"type"`
}

type Manifest struct {
	Stage       string         `yaml:"stage"`
	Environment string         `yaml:"environment"`
	Stack       string         `yaml:"stack"`
	Warnings    []string       `yaml:"warnings,omitempty"`
	Nodes       []ManifestNode `yaml:"nodes"`
}

// ToManifest serialises g in creation order.
func (g *Graph) ToManifest(stage, stack string, warnings []string) (*Manifest, error) {
	sorted, err := g.TopoSort()
	if err != nil {
		return nil, err
	}
	m := &Manifest{
		Stage:       stage,
		Environment: g.environment,
		Stack:       stack,
		Warnings:    append([]string(nil), warnings...),
		Nodes:       make([]ManifestNode, 0, len(sorted)),
	}
	for _, n := range sorted {
		m.Nodes = append(m.Nodes, ManifestNode{Node: *n.Clone(), Type: n.Kind.ResourceType()})
	}
	return m, nil
}

func FromManifest(m *Manifest) (*Graph, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: manifest", domain.ErrRequired)
	}
	g := New(m.Environment)
	for i := range m.Nodes {
		n := m.Nodes[i].Node.Clone()
		if !n.Kind.Valid() {
			return nil, fmt.Errorf("%w: node %s has kind %q", domain.ErrInvalidType, n.ID, n.Kind)
		}
		if err := g.Add(n); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
