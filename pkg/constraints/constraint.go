// Package constraints builds the linear relations that make up one
// lexicographic stage's model (spec §4.2, component B). Each
// constraint is a small, independently toggleable unit — no
// registration machinery, matching the teacher's policy/unit pattern
// of a flag plus a single entry point.
package constraints

import (
	"github.com/openfroyo/farmplan/pkg/domain"
	"github.com/openfroyo/farmplan/pkg/solver"
	"github.com/openfroyo/farmplan/pkg/variables"
)

// IdleKey indexes the per-land, per-day idle-area auxiliary variable.
type IdleKey struct {
	Land string
	Day  int
}

// Context is the shared state constraints read from and write
// variables into while building one stage's model.
type Context struct {
	Reg  *variables.Registry
	Plan *domain.PlanInput

	// Idle holds idle[l,t], populated by LandCapacity and consumed by
	// the idle-minimization objective.
	Idle map[IdleKey]solver.VarID
}

// NewContext wraps a registry and plan for constraint construction.
func NewContext(reg *variables.Registry, plan *domain.PlanInput) *Context {
	return &Context{Reg: reg, Plan: plan, Idle: make(map[IdleKey]solver.VarID)}
}

// Constraint is one linear-relation unit. Apply adds rows (and any
// auxiliary variables it owns) to ctx.Reg.Model.
type Constraint interface {
	Apply(ctx *Context) error
}

// Set is an ordered, individually-toggleable list of constraints. A
// constraint with Enabled=false is skipped, letting a caller build a
// reduced model for diagnostics (spec §4.6) without restructuring the
// pipeline.
type Set []Enableable

// Enableable pairs a Constraint with its toggle.
type Enableable struct {
	Name      string
	Enabled   bool
	Constraint Constraint
}

// Apply runs every enabled constraint in order, stopping at the first
// error.
func (s Set) Apply(ctx *Context) error {
	for _, e := range s {
		if !e.Enabled {
			continue
		}
		if err := e.Constraint.Apply(ctx); err != nil {
			return domain.NewDomainError("constraint failed", err).WithDetail("constraint", e.Name)
		}
	}
	return nil
}

// Default returns the standard constraint set for a full-fidelity
// stage (spec §4.2 lists every one of these relations).
func Default() Set {
	return Set{
		{Name: "event_window", Enabled: true, Constraint: EventWindowConstraint{}},
		{Name: "occupancy", Enabled: true, Constraint: OccupancyConstraint{}},
		{Name: "area_use_link", Enabled: true, Constraint: AreaUseLinkConstraint{}},
		{Name: "land_capacity", Enabled: true, Constraint: LandCapacityConstraint{}},
		{Name: "fixed_area", Enabled: true, Constraint: FixedAreaConstraint{}},
		{Name: "area_bounds", Enabled: true, Constraint: AreaBoundsConstraint{}},
		{Name: "labor", Enabled: true, Constraint: LaborConstraint{}},
		{Name: "roles", Enabled: true, Constraint: RolesConstraint{}},
		{Name: "resources", Enabled: true, Constraint: ResourcesConstraint{}},
	}
}
