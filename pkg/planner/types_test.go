package planner

import "testing"

func TestDefaultStagesOrderAndTolerance(t *testing.T) {
	stages := DefaultStages()
	if len(stages) != 2 {
		t.Fatalf("DefaultStages() has %d stages, want 2", len(stages))
	}
	if stages[0].Name != "profit" || stages[0].Tolerance != 0 {
		t.Errorf("DefaultStages()[0] = %+v, want {profit 0}", stages[0])
	}
	if stages[1].Name != "dispersion" || stages[1].Tolerance != 0 {
		t.Errorf("DefaultStages()[1] = %+v, want {dispersion 0}", stages[1])
	}
}
