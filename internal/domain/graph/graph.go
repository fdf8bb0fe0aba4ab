package graph

import (
	"fmt"
	"strings"

	"github.com/lite-lake/infra-siteops/internal/domain"
)

type Graph struct {
	environment string
	nodes       map[string]*Node
	order       []string
}

func New(environment string) *Graph {
	return &Graph{
		environment: environment,
		nodes:       make(map[string]*Node),
	}
}

func (g *Graph) Environment() string { return g.environment }
func (g *Graph) Len() int            { return len(g.order) }

// Add inserts a node. Dependencies may name nodes that are added later;
// Validate checks that every edge resolves.
func (g *Graph) Add(n *Node) error {
	if n == nil || n.ID == "" {
		return fmt.Errorf("%w: node id is empty", domain.ErrInvalidName)
	}
	if n.Kind == "" {
		return fmt.Errorf("%w: node %s has no kind", domain.ErrInvalidType, n.ID)
	}
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateNode, n.ID)
	}
	if n.Properties == nil {
		n.Properties = Properties{}
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return nil
}

func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

func (g *Graph) NodesOfKind(kind Kind) []*Node {
	var out []*Node
	for _, id := range g.order {
		if n := g.nodes[id]; n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, id := range g.order {
		for _, dep := range g.nodes[id].DependsOn {
			edges = append(edges, Edge{From: id, To: dep})
		}
	}
	return edges
}

// DependenciesOf returns the nodes id directly depends on.
func (g *Graph) DependenciesOf(id string) []*Node {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	var out []*Node
	for _, dep := range n.DependsOn {
		if d, ok := g.nodes[dep]; ok {
			out = append(out, d)
		}
	}
	return out
}

// DependentsOf returns the nodes that directly depend on id.
func (g *Graph) DependentsOf(id string) []*Node {
	var out []*Node
	for _, other := range g.order {
		if g.nodes[other].DependsOnID(id) {
			out = append(out, g.nodes[other])
		}
	}
	return out
}

func (g *Graph) Validate() error {
	for _, id := range g.order {
		for _, dep := range g.nodes[id].DependsOn {
			if _, ok := g.nodes[dep]; !ok {
				return fmt.Errorf("%w: %s depends on %s", domain.ErrUnknownNode, id, dep)
			}
		}
	}
	_, err := g.TopoSort()
	return err
}

// TopoSort returns nodes with every dependency ahead of its dependents. Ties
// keep insertion order so the output is stable across runs.
func (g *Graph) TopoSort() ([]*Node, error) {
	sorted := make([]*Node, 0, len(g.order))
	tempmark := make(map[string]bool)
	mark := make(map[string]bool)

	for _, id := range g.order {
		if err := g.visit(id, &sorted, tempmark, mark, nil); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}

func (g *Graph) visit(id string, sorted *[]*Node, tempmark, mark map[string]bool, path []string) error {
	if tempmark[id] {
		return fmt.Errorf("%w: %s", domain.ErrCycle, strings.Join(append(path, id), " -> "))
	}
	if mark[id] {
		return nil
	}
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownNode, id)
	}
	tempmark[id] = true
	for _, dep := range n.DependsOn {
		if err := g.visit(dep, sorted, tempmark, mark, append(path, id)); err != nil {
			return err
		}
	}
	tempmark[id] = false
	mark[id] = true
	*sorted = append(*sorted, n)
	return nil
}

// DeletionOrder is the reverse of TopoSort: dependents go first.
func (g *Graph) DeletionOrder() ([]*Node, error) {
	sorted, err := g.TopoSort()
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}
	return sorted, nil
}
