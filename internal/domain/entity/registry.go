package entity

import (
	"fmt"

	"github.com/lite-lake/infra-siteops/internal/domain"
	"github.com/lite-lake/infra-siteops/internal/domain/valueobject"
)

// RegistryCredential gives every build step access to an external image
// registry. The referenced secret holds a JSON document with a username and
// a secret key.
type RegistryCredential struct {
	Registry      string                `yaml:"registry,omitempty"`
	Secret        valueobject.SecretRef `yaml:"secret"`
	UsernameField string                `yaml:"username_field,omitempty"`
	SecretField   string                `yaml:"secret_field,omitempty"`
}

func (r *RegistryCredential) EffectiveRegistry() string {
	if r.Registry == "" {
		return domain.DefaultRegistry
	}
	return r.Registry
}

func (r *RegistryCredential) EffectiveUsernameField() string {
	if r.UsernameField == "" {
		return domain.DefaultRegistryUser
	}
	return r.UsernameField
}

func (r *RegistryCredential) EffectiveSecretField() string {
	if r.SecretField == "" {
		return domain.DefaultRegistrySecret
	}
	return r.SecretField
}

func (r *RegistryCredential) Validate() error {
	if err := r.Secret.Validate(); err != nil {
		return fmt.Errorf("secret: %w", err)
	}
	return nil
}
