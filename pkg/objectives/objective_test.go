package objectives

import (
	"testing"

	"github.com/openfroyo/farmplan/pkg/constraints"
	"github.com/openfroyo/farmplan/pkg/domain"
)

func TestFromConstraintContextCarriesIdleVars(t *testing.T) {
	plan := &domain.PlanInput{Horizon: 10}
	cc := constraints.NewContext(nil, plan)
	cc.Idle[constraints.IdleKey{Land: "land-1", Day: 3}] = 42

	ctx := FromConstraintContext(cc)

	if ctx.Plan != plan {
		t.Error("FromConstraintContext() did not carry the plan through")
	}
	if v, ok := ctx.Idle[constraints.IdleKey{Land: "land-1", Day: 3}]; !ok || v != 42 {
		t.Errorf("FromConstraintContext() Idle = %v, want it to carry the constraint context's idle vars", ctx.Idle)
	}
}

func TestStagesCoversEveryCanonicalStageName(t *testing.T) {
	stages := Stages()
	want := []string{"profit", "dispersion", "labor", "idle", "diversity"}
	if len(stages) != len(want) {
		t.Fatalf("Stages() has %d entries, want %d", len(stages), len(want))
	}
	for _, name := range want {
		if _, ok := stages[name]; !ok {
			t.Errorf("Stages() missing entry for %q", name)
		}
	}
}
