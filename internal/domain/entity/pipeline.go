package entity

import (
	"fmt"
	"strings"

	"github.com/lite-lake/infra-siteops/internal/domain"
)

type Synth struct {
	Commands      []string `yaml:"commands"`
	DockerEnabled bool     `yaml:"docker_enabled,omitempty"`
}

func (s *Synth) Validate() error {
	for i, cmd := range s.Commands {
		if strings.TrimSpace(cmd) == "" {
			return fmt.Errorf("commands[%d]: %w", i, domain.ErrEmptyValue)
		}
	}
	return nil
}

// PipelineConfig is the full input of one pipeline evaluation.
type PipelineConfig struct {
	Project             string              `yaml:"project,omitempty"`
	Name                string              `yaml:"name,omitempty"`
	Source              Source              `yaml:"source"`
	Synth               Synth               `yaml:"synth"`
	RegistryCredentials *RegistryCredential `yaml:"registry_credentials,omitempty"`
	Environments        Environments        `yaml:"-"`
}

func (c *PipelineConfig) EffectiveProject() string {
	if c.Project == "" {
		return domain.DefaultProject
	}
	return c.Project
}

func (c *PipelineConfig) EffectiveName() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf(domain.PipelineNameFormat, c.EffectiveProject())
}

func (c *PipelineConfig) StackName() string {
	return fmt.Sprintf(domain.StackNameFormat, c.EffectiveProject())
}

// Validate checks each section in isolation. Cross-section checks such as
// derived-name collisions live in service.Validator.
func (c *PipelineConfig) Validate() error {
	if err := c.Source.Validate(); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := c.Synth.Validate(); err != nil {
		return fmt.Errorf("synth: %w", err)
	}
	if c.RegistryCredentials != nil {
		if err := c.RegistryCredentials.Validate(); err != nil {
			return fmt.Errorf("registry_credentials: %w", err)
		}
	}
	for _, st := range c.Environments {
		if st.ID == "" {
			return fmt.Errorf("environments: %w: stage identifier is empty", domain.ErrInvalidName)
		}
		if err := st.Config.Validate(); err != nil {
			return fmt.Errorf("environments[%s]: %w", st.ID, err)
		}
	}
	return nil
}
