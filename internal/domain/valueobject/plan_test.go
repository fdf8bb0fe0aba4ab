package valueobject

import (
	"testing"
)

func TestPlan_NewPlan(t *testing.T) {
	plan := NewPlan()

	if plan == nil {
		t.Fatal("expected non-nil plan")
	}
	if plan.Changes() == nil {
		t.Error("expected initialized changes slice")
	}
	if plan.Scope() == nil {
		t.Error("expected initialized scope")
	}
}

func TestPlan_NewPlanWithScope_NilScope(t *testing.T) {
	plan := NewPlanWithScope(nil)

	if plan.Scope() == nil {
		t.Error("expected initialized scope")
	}
	if !plan.Scope().IsEmpty() {
		t.Error("expected empty scope")
	}
}

func TestPlan_HasChanges(t *testing.T) {
	t.Run("with changes", func(t *testing.T) {
		plan := NewPlan()
		plan.AddChange(NewChange(ChangeTypeCreate, "prod", "LogStorage", "prod-LogsBucket"))

		if !plan.HasChanges() {
			t.Error("expected HasChanges to return true")
		}
	})

	t.Run("with noop only", func(t *testing.T) {
		plan := NewPlan()
		plan.AddChange(NewChange(ChangeTypeNoop, "prod", "LogStorage", "prod-LogsBucket"))

		if plan.HasChanges() {
			t.Error("expected HasChanges to return false")
		}
	})

	t.Run("empty", func(t *testing.T) {
		if NewPlan().HasChanges() {
			t.Error("expected HasChanges to return false")
		}
	})
}

func TestPlan_FilterAndSummary(t *testing.T) {
	plan := NewPlan()
	plan.AddChange(NewChange(ChangeTypeCreate, "prod", "DnsRecord", "a"))
	plan.AddChange(NewChange(ChangeTypeUpdate, "prod", "Distribution", "d"))
	plan.AddChange(NewChange(ChangeTypeCreate, "staging", "DnsRecord", "b"))
	plan.AddChange(NewChange(ChangeTypeNoop, "staging", "LogStorage", "l"))

	if got := len(plan.FilterByType(ChangeTypeCreate)); got != 2 {
		t.Errorf("expected 2 create changes, got %d", got)
	}
	if got := len(plan.FilterByStage("staging")); got != 2 {
		t.Errorf("expected 2 staging changes, got %d", got)
	}

	summary := plan.Summary()
	if summary[ChangeTypeCreate] != 2 || summary[ChangeTypeUpdate] != 1 {
		t.Errorf("unexpected summary: %v", summary)
	}
	if _, ok := summary[ChangeTypeNoop]; ok {
		t.Error("summary should not count no-ops")
	}
}

func TestPlan_CloneAndEquals(t *testing.T) {
	plan := NewPlanWithScope(NewScope("prod"))
	plan.AddChange(NewChange(ChangeTypeUpdate, "prod", "Distribution", "d").WithActions("domain_names"))

	clone := plan.Clone()
	if !plan.Equals(clone) {
		t.Fatal("expected clone to equal original")
	}

	clone.AddChange(NewChange(ChangeTypeCreate, "prod", "Certificate", "c"))
	if plan.Equals(clone) {
		t.Error("expected plans to differ after mutation of clone")
	}
}

func TestChange_WithActionsCopies(t *testing.T) {
	actions := []string{"a", "b"}
	ch := NewChange(ChangeTypeUpdate, "prod", "Distribution", "d").WithActions(actions...)
	actions[0] = "mutated"

	if ch.Actions()[0] != "a" {
		t.Errorf("expected actions to be copied, got %v", ch.Actions())
	}
}

func TestChangeType_String(t *testing.T) {
	tests := map[ChangeType]string{
		ChangeTypeNoop:   "NOOP",
		ChangeTypeCreate: "CREATE",
		ChangeTypeUpdate: "UPDATE",
		ChangeTypeDelete: "DELETE",
		ChangeType(99):   "UNKNOWN",
	}
	for ct, want := range tests {
		if got := ct.String(); got != want {
			t.Errorf("ChangeType(%d).String() = %q, want %q", ct, got, want)
		}
	}
}

func TestScope_Matches(t *testing.T) {
	tests := []struct {
		name     string
		scope    *Scope
		names    []string
		expected bool
	}{
		{"empty scope matches all", &Scope{}, []string{"Prod", "prod"}, true},
		{"nil scope matches all", nil, []string{"Prod"}, true},
		{"identifier match", NewScope("Prod"), []string{"Prod", "prod"}, true},
		{"case-insensitive match", NewScope("PROD"), []string{"Prod", "prod"}, true},
		{"no match", NewScope("staging"), []string{"Prod", "prod"}, false},
		{"blank entries ignored", NewScope("", ""), []string{"anything"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scope.Matches(tt.names...); got != tt.expected {
				t.Errorf("Matches() = %v, want %v", got, tt.expected)
			}
		})
	}
}
