// Package secrets tracks the secret references a pipeline consumes and
// resolves them for local runs.
package secrets

import (
	"fmt"

	"github.com/lite-lake/infra-siteops/internal/domain/entity"
	"github.com/lite-lake/infra-siteops/internal/domain/valueobject"
)

// SecretResolver resolves references against a local table of secret ARN to
// SecretString fields. The deployed pipeline never uses it: there the engine
// resolves dynamic references itself.
type SecretResolver struct {
	secrets        map[string]map[string]string
	resolvedValues map[string]string
}

func NewSecretResolver(secrets map[string]map[string]string) *SecretResolver {
	if secrets == nil {
		secrets = make(map[string]map[string]string)
	}
	return &SecretResolver{
		secrets:        secrets,
		resolvedValues: make(map[string]string),
	}
}

func (r *SecretResolver) Resolve(ref valueobject.SecretRef, defaultField string) (string, error) {
	val, err := ref.Resolve(r.secrets, defaultField)
	if err != nil {
		return "", err
	}
	r.resolvedValues[cacheKey(ref, defaultField)] = val
	return val, nil
}

// ResolveAll checks that every input of the pipeline resolves.
func (r *SecretResolver) ResolveAll(cfg *entity.PipelineConfig) error {
	for _, in := range NewInventory(cfg).Inputs() {
		if _, err := r.Resolve(in.Ref, in.Field); err != nil {
			return fmt.Errorf("%s: %w", in.Consumer, err)
		}
	}
	return nil
}

// RegistryEnv returns the environment handed to every build step when
// registry credentials are configured. It is empty when they are not.
func (r *SecretResolver) RegistryEnv(cred *entity.RegistryCredential) ([]string, error) {
	if cred == nil {
		return nil, nil
	}
	user, err := r.Resolve(cred.Secret, cred.EffectiveUsernameField())
	if err != nil {
		return nil, fmt.Errorf("registry_credentials username: %w", err)
	}
	pass, err := r.Resolve(cred.Secret, cred.EffectiveSecretField())
	if err != nil {
		return nil, fmt.Errorf("registry_credentials secret: %w", err)
	}
	return []string{
		EnvRegistry + "=" + cred.EffectiveRegistry(),
		EnvRegistryUsername + "=" + user,
		EnvRegistryPassword + "=" + pass,
	}, nil
}

func (r *SecretResolver) GetResolvedValue(ref valueobject.SecretRef, defaultField string) string {
	if val, ok := r.resolvedValues[cacheKey(ref, defaultField)]; ok {
		return val
	}
	val, _ := r.Resolve(ref, defaultField)
	return val
}

func (r *SecretResolver) Len() int {
	return len(r.secrets)
}

func cacheKey(ref valueobject.SecretRef, defaultField string) string {
	return ref.Plain + "|" + ref.Secret + "|" + ref.FieldOr(defaultField)
}

const (
	EnvRegistry         = "SITEOPS_REGISTRY"
	EnvRegistryUsername = "SITEOPS_REGISTRY_USERNAME"
	EnvRegistryPassword = "SITEOPS_REGISTRY_PASSWORD"
)

