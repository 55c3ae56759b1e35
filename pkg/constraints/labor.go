package constraints

import (
	"fmt"

	"github.com/openfroyo/farmplan/pkg/domain"
	"github.com/openfroyo/farmplan/pkg/solver"
)

// LaborConstraint links each event's worked hours to the area it
// covers with an exact rational conversion (spec §4.2 "Labor", §9
// "exact rational labor-time conversion"), enforces per-event daily
// labor caps, ties worker assignment to role/headcount requirements'
// activity flag, and bounds each worker's total hours per day.
type LaborConstraint struct{}

type workerDayKey struct {
	Worker string
	Day    int
}

func (LaborConstraint) Apply(ctx *Context) error {
	reg := ctx.Reg

	baseAreaSumByCrop := make(map[string]solver.Expr)
	for _, crop := range ctx.Plan.Crops {
		expr := solver.Expr{}
		for _, land := range ctx.Plan.Lands {
			xbar := reg.XBar(land.ID, crop.ID)
			expr = expr.AddTerm(xbar, 1)
		}
		baseAreaSumByCrop[crop.ID] = expr
	}

	workerDayTerms := make(map[workerDayKey][]solver.Term)

	for _, ev := range ctx.Plan.Events {
		win := reg.EventWindow(ev.ID)
		if win.Empty() {
			continue
		}

		p, q := ratePerScaledArea(ev.LaborHoursPerArea)
		sumArea := baseAreaSumByCrop[ev.CropID]

		var horizonHTerms []solver.Term
		for _, t := range win.Days() {
			rv, ok := reg.R(ev.ID, t)
			if !ok {
				continue
			}

			var dailyTerms []solver.Term
			var capSum int64
			for _, w := range ctx.Plan.Workers {
				hv, ok := reg.H(w.ID, ev.ID, t)
				if !ok {
					continue
				}
				av, _ := reg.A(w.ID, ev.ID, t)
				capW := int64(w.DailyCapHrs*domain.TimeScale + 0.5)
				capSum += capW

				// a <= r
				reg.Model.AddRow(fmt.Sprintf("assign_active[%s,%s,%d]", w.ID, ev.ID, t),
					solver.Expr{}.AddTerm(av, 1).AddTerm(rv, -1), solver.LE, 0)
				// h <= capW * a
				reg.Model.AddRow(fmt.Sprintf("hours_needs_assign[%s,%s,%d]", w.ID, ev.ID, t),
					solver.Expr{}.AddTerm(hv, 1).AddTerm(av, -capW), solver.LE, 0)
				// h <= capW * r
				reg.Model.AddRow(fmt.Sprintf("hours_needs_active[%s,%s,%d]", w.ID, ev.ID, t),
					solver.Expr{}.AddTerm(hv, 1).AddTerm(rv, -capW), solver.LE, 0)

				dailyTerms = append(dailyTerms, solver.Term{Var: hv, Coeff: 1})
				horizonHTerms = append(horizonHTerms, solver.Term{Var: hv, Coeff: 1})

				key := workerDayKey{Worker: w.ID, Day: t}
				workerDayTerms[key] = append(workerDayTerms[key], solver.Term{Var: hv, Coeff: 1})
			}

			if len(dailyTerms) == 0 {
				reg.Model.Fix(rv, 0)
				continue
			}
			// r <= sum(h): event only active if someone is actually working.
			sumNeg := negateAll(dailyTerms)
			reg.Model.AddRow(fmt.Sprintf("active_needs_hours[%s,%d]", ev.ID, t),
				solver.Expr{Terms: append([]solver.Term{{Var: rv, Coeff: 1}}, sumNeg...)}, solver.LE, 0)

			if ev.LaborDailyCapHrs > 0 {
				capScaled := int64(ev.LaborDailyCapHrs*domain.TimeScale + 0.5)
				reg.Model.AddRow(fmt.Sprintf("daily_cap[%s,%d]", ev.ID, t),
					solver.Expr{Terms: dailyTerms}.AddTerm(rv, -capScaled), solver.LE, 0)
			}

			if ev.Headcount > 0 {
				var assigns []solver.Term
				for _, w := range ctx.Plan.Workers {
					av, ok := reg.A(w.ID, ev.ID, t)
					if !ok {
						continue
					}
					assigns = append(assigns, solver.Term{Var: av, Coeff: 1})
				}
				if len(assigns) > 0 {
					expr := solver.Expr{Terms: assigns}.AddTerm(rv, -int64(ev.Headcount))
					reg.Model.AddRow(fmt.Sprintf("headcount[%s,%d]", ev.ID, t), expr, solver.GE, 0)
				}
			}
		}

		if len(horizonHTerms) == 0 || q == 0 {
			continue
		}
		// q * Σh == p * Σx̄  (exact, no rounding — spec §9)
		lhs := make([]solver.Term, len(horizonHTerms))
		for i, t := range horizonHTerms {
			lhs[i] = solver.Term{Var: t.Var, Coeff: t.Coeff * q}
		}
		for _, t := range sumArea.Terms {
			lhs = append(lhs, solver.Term{Var: t.Var, Coeff: -t.Coeff * p})
		}
		reg.Model.AddRow(fmt.Sprintf("labor_need[%s]", ev.ID), solver.Expr{Terms: lhs}, solver.EQ, 0)
	}

	for _, w := range ctx.Plan.Workers {
		capW := int64(w.DailyCapHrs*domain.TimeScale + 0.5)
		for t := 1; t <= reg.Horizon; t++ {
			terms := workerDayTerms[workerDayKey{Worker: w.ID, Day: t}]
			if len(terms) == 0 {
				continue
			}
			reg.Model.AddRow(fmt.Sprintf("worker_cap[%s,%d]", w.ID, t), solver.Expr{Terms: terms}, solver.LE, capW)
		}
	}
	return nil
}

// ratePerScaledArea converts a labor rate (hours per continuous area
// unit) into an exact p/q pair relating scaled hours to scaled area:
// h_scaled = (rate * TimeScale / AreaScale) * x̄_scaled.
func ratePerScaledArea(rate float64) (int64, int64) {
	p, q := domain.RationalFromFloat(rate, 6)
	return domain.ExactRatio(p*domain.TimeScale, q*domain.AreaScale)
}
