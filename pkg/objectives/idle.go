package objectives

import "github.com/openfroyo/farmplan/pkg/solver"

// IdleObjective minimizes Σ_{l,t} (area(l) − Σ_c x[l,c,t]), the total
// unplanted land-days (spec §4.3). It sums the idle[l,t] auxiliary
// variables LandCapacityConstraint already balances against area(l).
type IdleObjective struct{}

func (IdleObjective) Build(ctx *Context) (solver.Expr, solver.Sense, error) {
	expr := solver.Expr{}
	for _, v := range ctx.Idle {
		expr = expr.AddTerm(v, 1)
	}
	return expr, solver.Minimize, nil
}
