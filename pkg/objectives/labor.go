package objectives

import "github.com/openfroyo/farmplan/pkg/solver"

// LaborObjective minimizes Σ_{w,e,t} h[w,e,t], the total worked hours
// already committed by the labor constraint (spec §4.3). It reads the
// h variables the constraint created rather than recreating them —
// LaborConstraint must run before this objective is installed.
type LaborObjective struct{}

func (LaborObjective) Build(ctx *Context) (solver.Expr, solver.Sense, error) {
	expr := solver.Expr{}
	for _, v := range ctx.Reg.AllH() {
		expr = expr.AddTerm(v, 1)
	}
	return expr, solver.Minimize, nil
}
