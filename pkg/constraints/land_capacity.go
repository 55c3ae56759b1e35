package constraints

import (
	"fmt"

	"github.com/openfroyo/farmplan/pkg/solver"
)

// LandCapacityConstraint balances each land's daily area: planted
// area across every crop plus idle area equals the land's total area
// (spec §4.2 "Land capacity", §4.3 idle objective input).
type LandCapacityConstraint struct{}

func (LandCapacityConstraint) Apply(ctx *Context) error {
	reg := ctx.Reg

	for _, land := range ctx.Plan.Lands {
		cap := land.AreaScaled
		for t := 1; t <= reg.Horizon; t++ {
			key := IdleKey{Land: land.ID, Day: t}
			idle := reg.Model.NewIntVar(fmt.Sprintf("idle[%s,%d]", land.ID, t), 0, cap)
			ctx.Idle[key] = idle

			if land.IsBlocked(t) {
				reg.Model.Fix(idle, 0)
				continue
			}

			expr := solver.Expr{}.AddTerm(idle, 1)
			for _, crop := range ctx.Plan.Crops {
				x, ok := reg.X(land.ID, crop.ID, t)
				if !ok {
					continue
				}
				expr = expr.AddTerm(x, 1)
			}
			reg.Model.AddRow(fmt.Sprintf("land_balance[%s,%d]", land.ID, t), expr, solver.EQ, cap)
		}
	}
	return nil
}
