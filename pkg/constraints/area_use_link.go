package constraints

import (
	"fmt"

	"github.com/openfroyo/farmplan/pkg/solver"
)

// AreaUseLinkConstraint ties the per-day realized area x[l,c,t] to
// the base envelope x̄[l,c] whenever the land is occupied that day,
// zeroes it otherwise, and links the envelope to the land-use
// indicator z[l,c] (spec §4.2 "Area–use link").
type AreaUseLinkConstraint struct{}

func (AreaUseLinkConstraint) Apply(ctx *Context) error {
	reg := ctx.Reg

	for _, land := range ctx.Plan.Lands {
		cap := land.AreaScaled
		for _, crop := range ctx.Plan.Crops {
			xbar := reg.XBar(land.ID, crop.ID)
			z := reg.Z(land.ID, crop.ID)
			// x̄[l,c] <= cap * z[l,c]
			reg.Model.AddRow(fmt.Sprintf("envelope_use[%s,%s]", land.ID, crop.ID),
				solver.Expr{}.AddTerm(xbar, 1).AddTerm(z, -cap), solver.LE, 0)

			for t := 1; t <= reg.Horizon; t++ {
				x, ok := reg.X(land.ID, crop.ID, t)
				if !ok {
					continue
				}
				if land.IsBlocked(t) {
					reg.Model.Fix(x, 0)
					if occL, ok := reg.OccL(land.ID, crop.ID, t); ok {
						reg.Model.Fix(occL, 0)
					}
					continue
				}
				occL, ok := reg.OccL(land.ID, crop.ID, t)
				if !ok {
					reg.Model.Fix(x, 0)
					continue
				}

				// x <= cap * occL
				reg.Model.AddRow(fmt.Sprintf("link_active[%s,%s,%d]", land.ID, crop.ID, t),
					solver.Expr{}.AddTerm(x, 1).AddTerm(occL, -cap), solver.LE, 0)
				// x <= x̄ + cap*(1-occL)  ==  x - x̄ + cap*occL <= cap
				reg.Model.AddRow(fmt.Sprintf("link_hi[%s,%s,%d]", land.ID, crop.ID, t),
					solver.Expr{}.AddTerm(x, 1).AddTerm(xbar, -1).AddTerm(occL, cap), solver.LE, cap)
				// x >= x̄ - cap*(1-occL)  ==  x̄ - x + cap*occL <= cap
				reg.Model.AddRow(fmt.Sprintf("link_lo[%s,%s,%d]", land.ID, crop.ID, t),
					solver.Expr{}.AddTerm(xbar, 1).AddTerm(x, -1).AddTerm(occL, cap), solver.LE, cap)
			}
		}
	}
	return nil
}
