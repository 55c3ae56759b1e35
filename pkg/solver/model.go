// Package solver implements the integer constraint model and the
// bounded branch-and-bound engine that solves it. Per spec §1 this is
// deliberately not a general CP/LP framework — see DESIGN.md — it
// supports exactly the linear relation shapes the constraint and
// objective libraries emit.
package solver

import "fmt"

// VarID identifies a decision variable within a Model.
type VarID int

// Sense is the optimization direction of an objective.
type Sense int

const (
	// Minimize drives the objective expression down.
	Minimize Sense = iota
	// Maximize drives the objective expression up.
	Maximize
)

// Op is the relational operator of a linear constraint row.
type Op int

const (
	// LE is less-than-or-equal.
	LE Op = iota
	// GE is greater-than-or-equal.
	GE
	// EQ is equality.
	EQ
)

// varInfo holds a variable's domain and debug name.
type varInfo struct {
	name    string
	lo, hi  int64
	boolean bool
}

// Term is one coefficient*variable product in a linear expression.
type Term struct {
	Var   VarID
	Coeff int64
}

// Expr is a linear expression: a constant plus a sum of terms.
type Expr struct {
	Const int64
	Terms []Term
}

// AddTerm appends a term to the expression, returning the expression
// for chaining.
func (e Expr) AddTerm(v VarID, coeff int64) Expr {
	e.Terms = append(e.Terms, Term{Var: v, Coeff: coeff})
	return e
}

// Row is one linear constraint: Expr Op RHS.
type Row struct {
	Name  string
	Expr  Expr
	Op    Op
	RHS   int64
}

// Model is a mutable integer-programming instance: a flat variable
// list plus a list of linear constraint rows and an objective. Each
// lexicographic stage builds a fresh Model (spec §4.4, §9 "no shared
// mutable state between stages").
type Model struct {
	vars      []varInfo
	rows      []Row
	objective Expr
	sense     Sense
	hasObj    bool
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{}
}

// NewBoolVar creates a boolean (0/1) variable.
func (m *Model) NewBoolVar(name string) VarID {
	m.vars = append(m.vars, varInfo{name: name, lo: 0, hi: 1, boolean: true})
	return VarID(len(m.vars) - 1)
}

// NewIntVar creates a bounded integer variable.
func (m *Model) NewIntVar(name string, lo, hi int64) VarID {
	if hi < lo {
		hi = lo
	}
	m.vars = append(m.vars, varInfo{name: name, lo: lo, hi: hi})
	return VarID(len(m.vars) - 1)
}

// NumVars returns the number of variables in the model.
func (m *Model) NumVars() int { return len(m.vars) }

// Bounds returns the domain of variable v.
func (m *Model) Bounds(v VarID) (lo, hi int64) {
	info := m.vars[v]
	return info.lo, info.hi
}

// Name returns the debug name of variable v.
func (m *Model) Name(v VarID) string { return m.vars[v].name }

// AddRow adds a linear constraint row to the model.
func (m *Model) AddRow(name string, expr Expr, op Op, rhs int64) {
	m.rows = append(m.rows, Row{Name: name, Expr: expr, Op: op, RHS: rhs})
}

// Fix pins a variable to an exact value by tightening its domain. The
// constraint and objective builders use it to force variables to 0;
// stage locks and hints do not go through it.
func (m *Model) Fix(v VarID, value int64) {
	m.vars[v].lo = value
	m.vars[v].hi = value
}

// SetObjective installs the stage objective expression and sense
// (spec §4.3). Only one objective is active at a time, matching "each
// stage installs its own objective" (spec §4.5).
func (m *Model) SetObjective(expr Expr, sense Sense) {
	m.objective = expr
	m.sense = sense
	m.hasObj = true
}

// Eval evaluates a linear expression given a full assignment.
func (e Expr) Eval(values []int64) int64 {
	total := e.Const
	for _, t := range e.Terms {
		total += t.Coeff * values[t.Var]
	}
	return total
}

func (m *Model) String() string {
	return fmt.Sprintf("Model{vars=%d rows=%d}", len(m.vars), len(m.rows))
}
