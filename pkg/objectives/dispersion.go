package objectives

import "github.com/openfroyo/farmplan/pkg/solver"

// DispersionObjective minimizes Σ_{l,c} z[l,c], preferring concentrated
// planting over spreading a crop thinly across many lands (spec §4.3).
type DispersionObjective struct{}

func (DispersionObjective) Build(ctx *Context) (solver.Expr, solver.Sense, error) {
	expr := solver.Expr{}
	for _, land := range ctx.Plan.Lands {
		for _, crop := range ctx.Plan.Crops {
			z := ctx.Reg.Z(land.ID, crop.ID)
			expr = expr.AddTerm(z, 1)
		}
	}
	return expr, solver.Minimize, nil
}
