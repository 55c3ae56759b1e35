// Package objectives builds the single-expression objective installed
// for one lexicographic stage (spec §4.3, component C). Each
// objective is a toggleable unit exposing one expression plus sense;
// the planner installs exactly one per stage.
package objectives

import (
	"github.com/openfroyo/farmplan/pkg/constraints"
	"github.com/openfroyo/farmplan/pkg/domain"
	"github.com/openfroyo/farmplan/pkg/solver"
	"github.com/openfroyo/farmplan/pkg/variables"
)

// Context is the shared state an objective reads from while building
// its expression. It carries the registry, plan and idle variables
// copied from the constraint-building context so objectives that need constraint-owned auxiliaries (the idle
// objective needs the idle[l,t] variables LandCapacityConstraint
// creates) can reach them without a second pass over the model.
type Context struct {
	Reg   *variables.Registry
	Plan  *domain.PlanInput
	Idle  map[constraints.IdleKey]solver.VarID
}

// FromConstraintContext adapts a constraint-building context (after
// its constraints have run) into an objective-building context.
func FromConstraintContext(cc *constraints.Context) *Context {
	return &Context{Reg: cc.Reg, Plan: cc.Plan, Idle: cc.Idle}
}

// Objective produces the linear expression and optimization sense for
// one named stage.
type Objective interface {
	Build(ctx *Context) (solver.Expr, solver.Sense, error)
}

// Stages maps the canonical stage names of spec §4.5 to their
// objective implementation. Stage order is supplied by the caller
// (planner); this registry only resolves names to behavior.
func Stages() map[string]Objective {
	return map[string]Objective{
		"profit":     ProfitObjective{},
		"dispersion": DispersionObjective{},
		"labor":      LaborObjective{},
		"idle":       IdleObjective{},
		"diversity":  DiversityObjective{},
	}
}
