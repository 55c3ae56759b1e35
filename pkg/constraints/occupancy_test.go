package constraints

import (
	"testing"
	"time"

	"github.com/openfroyo/farmplan/pkg/domain"
	"github.com/openfroyo/farmplan/pkg/solver"
	"github.com/openfroyo/farmplan/pkg/variables"
)

func occupancyTestPlan() *domain.PlanInput {
	return &domain.PlanInput{
		Horizon: 5,
		Lands:   []domain.Land{{ID: "L1", AreaScaled: 10}},
		Crops:   []domain.Crop{{ID: "C1"}},
		Events: []domain.Event{
			{ID: "plant", CropID: "C1", UsesLand: true},
			{ID: "harvest", CropID: "C1", UsesLand: true},
		},
	}
}

// A crop with a planting event firing on day 1 and a harvest event
// firing on day 5 must hold the land for every day in between, not
// just days 1 and 5 (spec §4.2 "Occupancy derivation").
func TestOccupancyDerivesContiguousIntervalNotExactFiringDays(t *testing.T) {
	plan := occupancyTestPlan()
	reg := variables.New(plan)
	ctx := NewContext(reg, plan)

	plantR1, ok := reg.R("plant", 1)
	if !ok {
		t.Fatal("R(plant,1) not allowed")
	}
	harvestR5, ok := reg.R("harvest", 5)
	if !ok {
		t.Fatal("R(harvest,5) not allowed")
	}
	reg.Model.Fix(plantR1, 1)
	reg.Model.Fix(harvestR5, 1)
	for t := 1; t <= 5; t++ {
		if r, ok := reg.R("plant", t); ok && t != 1 {
			reg.Model.Fix(r, 0)
		}
		if r, ok := reg.R("harvest", t); ok && t != 5 {
			reg.Model.Fix(r, 0)
		}
	}

	if err := (OccupancyConstraint{}).Apply(ctx); err != nil {
		t.Fatalf("OccupancyConstraint.Apply() error: %v", err)
	}

	res := solver.Solve(reg.Model, solver.Options{Budget: time.Second})
	if !res.Status.IsSolved() {
		t.Fatalf("Solve() status = %v, want solved", res.Status)
	}

	for day := 1; day <= 5; day++ {
		occ := reg.Occ("C1", day)
		if got := res.Values[occ]; got != 1 {
			t.Errorf("occ[C1,%d] = %d, want 1 (contiguous span from day 1 to day 5)", day, got)
		}
	}
}

// With no land-using events for a crop, occupancy must be fixed to 0
// on every day.
func TestOccupancyFixesZeroWithNoLandUsingEvents(t *testing.T) {
	plan := &domain.PlanInput{
		Horizon: 3,
		Lands:   []domain.Land{{ID: "L1", AreaScaled: 10}},
		Crops:   []domain.Crop{{ID: "C1"}},
		Events: []domain.Event{
			{ID: "scout", CropID: "C1", UsesLand: false},
		},
	}
	reg := variables.New(plan)
	ctx := NewContext(reg, plan)

	if err := (OccupancyConstraint{}).Apply(ctx); err != nil {
		t.Fatalf("OccupancyConstraint.Apply() error: %v", err)
	}

	res := solver.Solve(reg.Model, solver.Options{Budget: time.Second})
	if !res.Status.IsSolved() {
		t.Fatalf("Solve() status = %v, want solved", res.Status)
	}
	for day := 1; day <= 3; day++ {
		occ := reg.Occ("C1", day)
		if got := res.Values[occ]; got != 0 {
			t.Errorf("occ[C1,%d] = %d, want 0 (no land-using events)", day, got)
		}
	}
}

// Blocked days on a land must zero that land's occupancy indicator
// even when the crop's occupancy span covers the day (spec §4.2
// "occupancy must not bridge blocked intervals").
func TestOccupancyCutsLandOccupancyOnBlockedDays(t *testing.T) {
	plan := occupancyTestPlan()
	plan.Lands[0].BlockedDays = []int{3}
	reg := variables.New(plan)
	ctx := NewContext(reg, plan)

	if err := (OccupancyConstraint{}).Apply(ctx); err != nil {
		t.Fatalf("OccupancyConstraint.Apply() error: %v", err)
	}

	occL, ok := reg.OccL("L1", "C1", 3)
	if !ok {
		t.Fatal("OccL(L1,C1,3) not allowed")
	}
	if lo, hi := reg.Model.Bounds(occL); lo != 0 || hi != 0 {
		t.Errorf("occL[L1,C1,3] bounds = [%d,%d], want [0,0] (fixed on a blocked day)", lo, hi)
	}
}
