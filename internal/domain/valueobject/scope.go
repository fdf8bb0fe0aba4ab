package valueobject

import "strings"

// Scope narrows a command to a subset of stages. Matching is case-insensitive
// so that a stage may be addressed by identifier or by environment name.
type Scope struct {
	Stages []string
}

func NewScope(stages ...string) *Scope {
	s := &Scope{}
	for _, st := range stages {
		if st != "" {
			s.Stages = append(s.Stages, st)
		}
	}
	return s
}

func (s *Scope) Equals(other *Scope) bool {
	if other == nil {
		return false
	}
	if len(s.Stages) != len(other.Stages) {
		return false
	}
	for i, st := range s.Stages {
		if st != other.Stages[i] {
			return false
		}
	}
	return true
}

func (s *Scope) Clone() *Scope {
	stages := make([]string, len(s.Stages))
	copy(stages, s.Stages)
	return &Scope{Stages: stages}
}

func (s *Scope) Matches(names ...string) bool {
	if s.IsEmpty() {
		return true
	}
	for _, want := range s.Stages {
		for _, n := range names {
			if strings.EqualFold(want, n) {
				return true
			}
		}
	}
	return false
}

func (s *Scope) IsEmpty() bool {
	return s == nil || len(s.Stages) == 0
}
