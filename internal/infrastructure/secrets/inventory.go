package secrets

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/lite-lake/infra-siteops/internal/domain"
	"github.com/lite-lake/infra-siteops/internal/domain/entity"
	"github.com/lite-lake/infra-siteops/internal/domain/valueobject"
)

// Input is one secret the pipeline reads, named by the setting that uses it.
type Input struct {
	Consumer string
	Ref      valueobject.SecretRef
	Field    string
}

// DynamicReference is what the deployed pipeline passes to the engine.
func (in Input) DynamicReference() string {
	return in.Ref.DynamicReference(in.Field)
}

type Inventory struct {
	inputs []Input
}

func NewInventory(cfg *entity.PipelineConfig) *Inventory {
	inv := &Inventory{}
	if cfg == nil {
		return inv
	}
	if cfg.Source.Auth != nil {
		inv.inputs = append(inv.inputs, Input{
			Consumer: "source.auth",
			Ref:      *cfg.Source.Auth,
			Field:    domain.DefaultSecretField,
		})
	}
	if rc := cfg.RegistryCredentials; rc != nil {
		inv.inputs = append(inv.inputs,
			Input{Consumer: "registry_credentials[" + rc.EffectiveRegistry() + "].username", Ref: rc.Secret, Field: rc.EffectiveUsernameField()},
			Input{Consumer: "registry_credentials[" + rc.EffectiveRegistry() + "].secret", Ref: rc.Secret, Field: rc.EffectiveSecretField()},
		)
	}
	return inv
}

func (i *Inventory) Inputs() []Input {
	return i.inputs
}

// ARNs lists each referenced secret once, sorted.
func (i *Inventory) ARNs() []string {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, in := range i.inputs {
		if in.Ref.IsSecret() {
			set.Add(in.Ref.Secret)
		}
	}
	out := set.ToSlice()
	sort.Strings(out)
	return out
}

// HasPlain reports whether any input carries its value inline.
func (i *Inventory) HasPlain() bool {
	for _, in := range i.inputs {
		if !in.Ref.IsSecret() {
			return true
		}
	}
	return false
}
