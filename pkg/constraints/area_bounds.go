package constraints

import (
	"fmt"

	"github.com/openfroyo/farmplan/pkg/domain"
	"github.com/openfroyo/farmplan/pkg/solver"
)

// AreaBoundsConstraint bounds a crop's planted area summed over every
// land, separately on each day of the horizon (spec §4.2 "Crop area
// bounds"). The minimum applies only on days the crop is in occupation
// (occ[c,t]=1); the maximum applies on every day. Each bound is
// optional; only the sides that are provided apply.
type AreaBoundsConstraint struct{}

func (AreaBoundsConstraint) Apply(ctx *Context) error {
	reg := ctx.Reg
	if len(ctx.Plan.CropAreaBounds) == 0 {
		return nil
	}

	for _, b := range ctx.Plan.CropAreaBounds {
		if _, ok := reg.Crops[b.CropID]; !ok {
			continue
		}
		for t := 1; t <= reg.Horizon; t++ {
			var terms []solver.Term
			for _, land := range ctx.Plan.Lands {
				x, ok := reg.X(land.ID, b.CropID, t)
				if !ok {
					continue
				}
				terms = append(terms, solver.Term{Var: x, Coeff: 1})
			}
			if len(terms) == 0 {
				continue
			}
			if b.Min != nil {
				// Σ_l x[l,c,t] >= min * occ[c,t]
				expr := solver.Expr{Terms: terms}.AddTerm(reg.Occ(b.CropID, t), -domain.ScaleArea(*b.Min))
				reg.Model.AddRow(fmt.Sprintf("area_min[%s,%d]", b.CropID, t), expr, solver.GE, 0)
			}
			if b.Max != nil {
				reg.Model.AddRow(fmt.Sprintf("area_max[%s,%d]", b.CropID, t), solver.Expr{Terms: terms}, solver.LE, domain.ScaleArea(*b.Max))
			}
		}
	}
	return nil
}
