package constraints

import (
	"fmt"

	"github.com/openfroyo/farmplan/pkg/domain"
	"github.com/openfroyo/farmplan/pkg/solver"
)

// ResourcesConstraint caps each pooled resource's daily usage across
// events and, for events that declare required resources, requires
// enough resource-time to cover the labor-hours worked that day
// (spec §4.2 "Resources").
type ResourcesConstraint struct{}

func (ResourcesConstraint) Apply(ctx *Context) error {
	reg := ctx.Reg

	resourceDayTerms := make(map[string]map[int][]solver.Term)
	for _, res := range ctx.Plan.Resources {
		resourceDayTerms[res.ID] = make(map[int][]solver.Term)
	}

	for _, ev := range ctx.Plan.Events {
		if len(ev.RequiredResources) == 0 {
			continue
		}
		win := reg.EventWindow(ev.ID)
		if win.Empty() {
			continue
		}
		for _, t := range win.Days() {
			var lhs []solver.Term
			for _, resID := range ev.RequiredResources {
				uv, ok := reg.U(resID, ev.ID, t)
				if !ok {
					continue
				}
				lhs = append(lhs, solver.Term{Var: uv, Coeff: 1})
				resourceDayTerms[resID][t] = append(resourceDayTerms[resID][t], solver.Term{Var: uv, Coeff: 1})
			}
			if len(lhs) == 0 {
				continue
			}
			var rhs []solver.Term
			for _, w := range ctx.Plan.Workers {
				hv, ok := reg.H(w.ID, ev.ID, t)
				if !ok {
					continue
				}
				rhs = append(rhs, solver.Term{Var: hv, Coeff: -1})
			}
			expr := solver.Expr{Terms: append(lhs, rhs...)}
			reg.Model.AddRow(fmt.Sprintf("resource_covers_labor[%s,%d]", ev.ID, t), expr, solver.GE, 0)
		}
	}

	for _, res := range ctx.Plan.Resources {
		var cap int64 = 1 << 30
		if res.DailyCapHrs != nil {
			cap = int64(*res.DailyCapHrs*domain.TimeScale + 0.5)
		}
		for t := 1; t <= reg.Horizon; t++ {
			terms := resourceDayTerms[res.ID][t]
			if len(terms) == 0 {
				continue
			}
			reg.Model.AddRow(fmt.Sprintf("resource_cap[%s,%d]", res.ID, t), solver.Expr{Terms: terms}, solver.LE, cap)
		}
	}
	return nil
}
