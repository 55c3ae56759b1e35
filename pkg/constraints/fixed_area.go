package constraints

import (
	"fmt"

	"github.com/openfroyo/farmplan/pkg/domain"
	"github.com/openfroyo/farmplan/pkg/solver"
)

// FixedAreaConstraint enforces a committed minimum planted area for
// specific (land, crop) pairs (spec §4.2 "Fixed area"): the pair's area
// envelope x̄[l,c] must reach the committed area, and the area planted
// across the horizon must reach x̄[l,c]. Since x̄[l,c] never exceeds the
// land's area, a commitment larger than the land is infeasible.
type FixedAreaConstraint struct{}

func (FixedAreaConstraint) Apply(ctx *Context) error {
	reg := ctx.Reg
	if len(ctx.Plan.FixedAreas) == 0 {
		return nil
	}

	for _, fa := range ctx.Plan.FixedAreas {
		if _, ok := reg.Lands[fa.LandID]; !ok {
			continue
		}
		if _, ok := reg.Crops[fa.CropID]; !ok {
			continue
		}
		var terms []solver.Term
		for t := 1; t <= reg.Horizon; t++ {
			x, ok := reg.X(fa.LandID, fa.CropID, t)
			if !ok {
				continue
			}
			terms = append(terms, solver.Term{Var: x, Coeff: 1})
		}
		if len(terms) == 0 {
			continue
		}
		xbar := reg.XBar(fa.LandID, fa.CropID)
		reg.Model.AddRow(fmt.Sprintf("fixed_area[%s,%s]", fa.LandID, fa.CropID),
			solver.Expr{Terms: terms}.AddTerm(xbar, -1), solver.GE, 0)
		reg.Model.AddRow(fmt.Sprintf("fixed_area_xbar[%s,%s]", fa.LandID, fa.CropID),
			solver.Expr{}.AddTerm(xbar, 1), solver.GE, domain.ScaleArea(fa.Area))
	}
	return nil
}
