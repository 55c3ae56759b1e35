package solver

import (
	"testing"
	"time"
)

func TestSolveFindsOptimalMinimum(t *testing.T) {
	m := NewModel()
	x := m.NewIntVar("x", 0, 10)
	y := m.NewIntVar("y", 0, 10)
	// x + y >= 7, minimize x + y -> optimum 7.
	m.AddRow("sum-floor", Expr{}.AddTerm(x, 1).AddTerm(y, 1), GE, 7)
	m.SetObjective(Expr{}.AddTerm(x, 1).AddTerm(y, 1), Minimize)

	res := Solve(m, Options{Budget: 2 * time.Second})

	if res.Status != StatusOptimal {
		t.Fatalf("Solve() status = %v, want OPTIMAL", res.Status)
	}
	if res.ObjectiveValue != 7 {
		t.Errorf("Solve() objective = %d, want 7", res.ObjectiveValue)
	}
}

func TestSolveDetectsInfeasibleModel(t *testing.T) {
	m := NewModel()
	x := m.NewIntVar("x", 0, 3)
	// x >= 5 is impossible given the domain [0, 3].
	m.AddRow("impossible", Expr{}.AddTerm(x, 1), GE, 5)

	res := Solve(m, Options{Budget: time.Second})

	if res.Status != StatusInfeasible {
		t.Fatalf("Solve() status = %v, want INFEASIBLE", res.Status)
	}
}

func TestSolveDetectsModelInvalid(t *testing.T) {
	m := NewModel()
	v := m.NewIntVar("x", 0, 5)
	// Force an inverted domain directly to simulate an upstream bug
	// producing a contradictory fixed bound (spec's MODEL_INVALID path).
	m.Fix(v, 3)
	m.vars[v].hi = 1 // lo=3, hi=1 after this: invalid.

	res := Solve(m, Options{Budget: time.Second})

	if res.Status != StatusModelInvalid {
		t.Fatalf("Solve() status = %v, want MODEL_INVALID", res.Status)
	}
}

func TestSolveRespectsHint(t *testing.T) {
	m := NewModel()
	x := m.NewIntVar("x", 0, 100)
	m.AddRow("floor", Expr{}.AddTerm(x, 1), GE, 50)
	m.SetObjective(Expr{}.AddTerm(x, 1), Minimize)

	res := Solve(m, Options{Budget: time.Second, Hint: map[VarID]int64{x: 50}})

	if !res.Status.IsSolved() {
		t.Fatalf("Solve() status = %v, want a solved status", res.Status)
	}
	if res.Values[x] != 50 {
		t.Errorf("Solve() x = %d, want 50", res.Values[x])
	}
}

func TestStatusIsSolved(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusOptimal, true},
		{StatusFeasible, true},
		{StatusInfeasible, false},
		{StatusModelInvalid, false},
		{StatusUnknown, false},
	}
	for _, tt := range tests {
		if got := tt.status.IsSolved(); got != tt.want {
			t.Errorf("%s.IsSolved() = %v, want %v", tt.status, got, tt.want)
		}
	}
}
