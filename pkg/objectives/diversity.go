package objectives

import (
	"fmt"

	"github.com/openfroyo/farmplan/pkg/solver"
)

// DiversityObjective maximizes Σ_c use[c], where use[c] = 1 iff some
// land grows c (spec §4.3). It installs the z–use linking rows
// itself: z[l,c] ≤ use[c] and use[c] ≤ Σ_l z[l,c].
type DiversityObjective struct{}

func (DiversityObjective) Build(ctx *Context) (solver.Expr, solver.Sense, error) {
	expr := solver.Expr{}
	for _, crop := range ctx.Plan.Crops {
		use := ctx.Reg.Use(crop.ID)
		var zTerms []solver.Term
		for _, land := range ctx.Plan.Lands {
			z := ctx.Reg.Z(land.ID, crop.ID)
			zTerms = append(zTerms, solver.Term{Var: z, Coeff: 1})
			ctx.Reg.Model.AddRow(fmt.Sprintf("use_ge_z[%s,%s]", land.ID, crop.ID),
				solver.Expr{}.AddTerm(z, 1).AddTerm(use, -1), solver.LE, 0)
		}
		if len(zTerms) > 0 {
			sumExpr := solver.Expr{Terms: append([]solver.Term{{Var: use, Coeff: 1}}, negate(zTerms)...)}
			ctx.Reg.Model.AddRow(fmt.Sprintf("use_needs_z[%s]", crop.ID), sumExpr, solver.LE, 0)
		} else {
			ctx.Reg.Model.Fix(use, 0)
		}
		expr = expr.AddTerm(use, 1)
	}
	return expr, solver.Maximize, nil
}

func negate(terms []solver.Term) []solver.Term {
	out := make([]solver.Term, len(terms))
	for i, t := range terms {
		out[i] = solver.Term{Var: t.Var, Coeff: -t.Coeff}
	}
	return out
}
