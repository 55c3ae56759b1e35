package solver

import "testing"

func TestNewIntVarClampsInvertedBounds(t *testing.T) {
	m := NewModel()
	v := m.NewIntVar("x", 5, 2)
	lo, hi := m.Bounds(v)
	if lo != 5 || hi != 5 {
		t.Errorf("Bounds(v) = (%d, %d), want (5, 5) when hi < lo", lo, hi)
	}
}

func TestNewBoolVarDomain(t *testing.T) {
	m := NewModel()
	v := m.NewBoolVar("flag")
	lo, hi := m.Bounds(v)
	if lo != 0 || hi != 1 {
		t.Errorf("Bounds(flag) = (%d, %d), want (0, 1)", lo, hi)
	}
}

func TestFixPinsExactValue(t *testing.T) {
	m := NewModel()
	v := m.NewIntVar("x", 0, 10)
	m.Fix(v, 7)
	lo, hi := m.Bounds(v)
	if lo != 7 || hi != 7 {
		t.Errorf("Bounds(v) after Fix(7) = (%d, %d), want (7, 7)", lo, hi)
	}
}

func TestExprEval(t *testing.T) {
	e := Expr{Const: 3}.AddTerm(0, 2).AddTerm(1, -1)
	values := []int64{5, 4}
	// 3 + 2*5 - 1*4 = 9
	if got := e.Eval(values); got != 9 {
		t.Errorf("Expr.Eval() = %d, want 9", got)
	}
}

func TestNumVars(t *testing.T) {
	m := NewModel()
	m.NewBoolVar("a")
	m.NewIntVar("b", 0, 1)
	if got := m.NumVars(); got != 2 {
		t.Errorf("NumVars() = %d, want 2", got)
	}
}
