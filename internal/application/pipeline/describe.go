package pipeline

import (
	"fmt"

	"github.com/lite-lake/infra-siteops/internal/infrastructure/secrets"
)

type PhaseKind string

const (
	PhaseSynth  PhaseKind = "synth"
	PhaseDeploy PhaseKind = "deploy"
)

type Phase struct {
	Kind        PhaseKind
	Name        string
	Stage       string
	Environment string
	Stack       string
	Commands    []string
	Docker      bool
}

type Description struct {
	Pipeline string
	Repo     string
	Branch   string
	Registry string
	Phases   []Phase
	Secrets  []secrets.Input
}

// Describe lists the phases in execution order: one synth phase, then one
// deploy phase per stage.
func (o *Orchestrator) Describe() *Description {
	d := &Description{
		Pipeline: o.Name(),
		Secrets:  secrets.NewInventory(o.Config()).Inputs(),
	}
	if o.source != nil {
		d.Repo = o.source.Repo
		d.Branch = o.source.Branch
	}
	if o.registry != nil {
		d.Registry = o.registry.EffectiveRegistry()
	}
	d.Phases = append(d.Phases, Phase{
		Kind:     PhaseSynth,
		Name:     "Synth",
		Commands: append([]string(nil), o.buildSteps...),
		Docker:   o.docker,
	})
	for _, st := range o.stages {
		d.Phases = append(d.Phases, Phase{
			Kind:        PhaseDeploy,
			Name:        fmt.Sprintf("Deploy %s", st.ID()),
			Stage:       st.ID(),
			Environment: st.EnvironmentName(),
			Stack:       st.StackName(),
		})
	}
	return d
}
