package objectives

import "github.com/openfroyo/farmplan/pkg/solver"

// ProfitObjective maximizes Σ_{l,c} price[c] * x̄[l,c] (spec §4.3).
type ProfitObjective struct{}

func (ProfitObjective) Build(ctx *Context) (solver.Expr, solver.Sense, error) {
	expr := solver.Expr{}
	for _, land := range ctx.Plan.Lands {
		for _, crop := range ctx.Plan.Crops {
			if crop.PriceScaled == 0 {
				continue
			}
			xbar := ctx.Reg.XBar(land.ID, crop.ID)
			expr = expr.AddTerm(xbar, crop.PriceScaled)
		}
	}
	return expr, solver.Maximize, nil
}
