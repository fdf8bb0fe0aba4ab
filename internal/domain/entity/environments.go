package entity

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/lite-lake/infra-siteops/internal/domain"
)

// StageEntry pairs a stage identifier with its environment configuration.
type StageEntry struct {
	ID     string
	Config EnvironmentConfig
}

// Environments is an ordered mapping from stage identifier to configuration.
// Document order is deployment order, so it is decoded from the raw node
// rather than into a Go map.
type Environments []StageEntry

func (e *Environments) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*e = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: environments must be a mapping (line %d)", domain.ErrConfigParseFailed, node.Line)
	}

	seen := make(map[string]bool, len(node.Content)/2)
	out := make(Environments, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		var id string
		if err := keyNode.Decode(&id); err != nil {
			return fmt.Errorf("environments key (line %d): %w", keyNode.Line, err)
		}
		if seen[id] {
			return fmt.Errorf("%w: %s (line %d)", domain.ErrDuplicateStage, id, keyNode.Line)
		}
		seen[id] = true

		var cfg EnvironmentConfig
		if !(valueNode.Kind == yaml.ScalarNode && valueNode.Tag == "!!null") {
			if err := valueNode.Decode(&cfg); err != nil {
				return fmt.Errorf("environments[%s]: %w", id, err)
			}
		}
		out = append(out, StageEntry{ID: id, Config: cfg})
	}
	*e = out
	return nil
}

func (e Environments) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, st := range e {
		var value yaml.Node
		if err := value.Encode(st.Config); err != nil {
			return nil, fmt.Errorf("environments[%s]: %w", st.ID, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: st.ID},
			&value,
		)
	}
	return node, nil
}

func (e Environments) IDs() []string {
	ids := make([]string, len(e))
	for i, st := range e {
		ids[i] = st.ID
	}
	return ids
}

func (e Environments) Get(id string) (EnvironmentConfig, bool) {
	for _, st := range e {
		if st.ID == id {
			return st.Config, true
		}
	}
	return EnvironmentConfig{}, false
}
