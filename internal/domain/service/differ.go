package service

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/lite-lake/infra-siteops/internal/domain/graph"
	"github.com/lite-lake/infra-siteops/internal/domain/valueobject"
)

// DifferService compares the graph last handed to the engine for a stage
// with a freshly provisioned one.
type DifferService struct {
	previous *graph.Graph
}

func NewDifferService(previous *graph.Graph) *DifferService {
	return &DifferService{previous: previous}
}

// PlanStage appends the changes for one stage to plan. Creates and updates
// come in creation order, deletes in deletion order after them.
func (s *DifferService) PlanStage(plan *valueobject.Plan, stage string, next *graph.Graph) error {
	if !plan.Scope().Matches(stage) {
		return nil
	}

	prev := s.previous
	if prev == nil {
		prev = graph.New(next.Environment())
	}

	ordered, err := next.TopoSort()
	if err != nil {
		return fmt.Errorf("stage %s: %w", stage, err)
	}
	for _, n := range ordered {
		old, exists := prev.Node(n.ID)
		if !exists {
			plan.AddChange(valueobject.NewChange(valueobject.ChangeTypeCreate, stage, string(n.Kind), n.ID).
				WithNewState(n).
				WithActions(fmt.Sprintf("create %s %s", n.Kind.ResourceType(), n.ID)))
			continue
		}
		diffs, err := NodeDiff(old, n)
		if err != nil {
			return fmt.Errorf("stage %s: node %s: %w", stage, n.ID, err)
		}
		if len(diffs) == 0 {
			continue
		}
		actions := make([]string, 0, len(diffs))
		for _, d := range diffs {
			actions = append(actions, fmt.Sprintf("update %s %s: %s", n.Kind.ResourceType(), n.ID, d))
		}
		plan.AddChange(valueobject.NewChange(valueobject.ChangeTypeUpdate, stage, string(n.Kind), n.ID).
			WithOldState(old).
			WithNewState(n).
			WithActions(actions...))
	}

	removed, err := prev.DeletionOrder()
	if err != nil {
		return fmt.Errorf("stage %s: previous graph: %w", stage, err)
	}
	for _, n := range removed {
		if _, exists := next.Node(n.ID); exists {
			continue
		}
		plan.AddChange(valueobject.NewChange(valueobject.ChangeTypeDelete, stage, string(n.Kind), n.ID).
			WithOldState(n).
			WithActions(fmt.Sprintf("delete %s %s", n.Kind.ResourceType(), n.ID)))
	}
	return nil
}

// NodeDiff lists what differs between two versions of a node. Properties are
// compared after normalisation so values read back from a manifest match
// freshly built ones.
func NodeDiff(a, b *graph.Node) ([]string, error) {
	var diffs []string
	if a.Kind != b.Kind {
		diffs = append(diffs, fmt.Sprintf("kind %s -> %s", a.Kind, b.Kind))
	}
	if !sameStrings(a.DependsOn, b.DependsOn) {
		diffs = append(diffs, fmt.Sprintf("depends_on %v -> %v", a.DependsOn, b.DependsOn))
	}

	pa, err := a.Properties.Normalize()
	if err != nil {
		return nil, err
	}
	pb, err := b.Properties.Normalize()
	if err != nil {
		return nil, err
	}

	keys := make(map[string]struct{}, len(pa)+len(pb))
	for k := range pa {
		keys[k] = struct{}{}
	}
	for k := range pb {
		keys[k] = struct{}{}
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	for _, k := range sorted {
		va, inA := pa[k]
		vb, inB := pb[k]
		switch {
		case !inA:
			diffs = append(diffs, fmt.Sprintf("+%s", k))
		case !inB:
			diffs = append(diffs, fmt.Sprintf("-%s", k))
		case !reflect.DeepEqual(va, vb):
			diffs = append(diffs, fmt.Sprintf("~%s", k))
		}
	}
	return diffs, nil
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
