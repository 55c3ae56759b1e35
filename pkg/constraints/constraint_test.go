package constraints

import (
	"errors"
	"testing"

	"github.com/openfroyo/farmplan/pkg/domain"
)

type recordingConstraint struct {
	name string
	log  *[]string
	err  error
}

func (c recordingConstraint) Apply(ctx *Context) error {
	*c.log = append(*c.log, c.name)
	return c.err
}

func TestSetApplySkipsDisabledConstraints(t *testing.T) {
	var log []string
	set := Set{
		{Name: "a", Enabled: true, Constraint: recordingConstraint{name: "a", log: &log}},
		{Name: "b", Enabled: false, Constraint: recordingConstraint{name: "b", log: &log}},
		{Name: "c", Enabled: true, Constraint: recordingConstraint{name: "c", log: &log}},
	}

	ctx := NewContext(nil, &domain.PlanInput{})
	if err := set.Apply(ctx); err != nil {
		t.Fatalf("Set.Apply() unexpected error: %v", err)
	}
	if len(log) != 2 || log[0] != "a" || log[1] != "c" {
		t.Errorf("Set.Apply() ran %v, want [a c] (b disabled)", log)
	}
}

func TestSetApplyStopsAtFirstError(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	set := Set{
		{Name: "a", Enabled: true, Constraint: recordingConstraint{name: "a", log: &log}},
		{Name: "b", Enabled: true, Constraint: recordingConstraint{name: "b", log: &log, err: boom}},
		{Name: "c", Enabled: true, Constraint: recordingConstraint{name: "c", log: &log}},
	}

	ctx := NewContext(nil, &domain.PlanInput{})
	err := set.Apply(ctx)
	if err == nil {
		t.Fatal("Set.Apply() expected an error")
	}
	if len(log) != 2 {
		t.Errorf("Set.Apply() ran %v after error, want exactly [a b]", log)
	}
	var pe *domain.PlanError
	if !errors.As(err, &pe) {
		t.Fatalf("Set.Apply() error type = %T, want *domain.PlanError", err)
	}
	if pe.Details["constraint"] != "b" {
		t.Errorf("Set.Apply() error details[constraint] = %v, want b", pe.Details["constraint"])
	}
}

func TestDefaultSetEnablesEveryStandardConstraint(t *testing.T) {
	set := Default()
	want := []string{
		"event_window", "occupancy", "area_use_link", "land_capacity",
		"fixed_area", "area_bounds", "labor", "roles", "resources",
	}
	if len(set) != len(want) {
		t.Fatalf("Default() has %d constraints, want %d", len(set), len(want))
	}
	for i, name := range want {
		if set[i].Name != name {
			t.Errorf("Default()[%d].Name = %q, want %q", i, set[i].Name, name)
		}
		if !set[i].Enabled {
			t.Errorf("Default()[%d] (%s) not enabled", i, name)
		}
	}
}
