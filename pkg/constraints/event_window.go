package constraints

import (
	"fmt"

	"github.com/openfroyo/farmplan/pkg/solver"
)

// EventWindowConstraint restricts r[e,t] activity to each event's
// window W(e), enforces its minimum re-fire frequency, and gates it
// on a predecessor event's most recent firing within [lag_min,
// lag_max] days (spec §4.2 "Event window/frequency/lag").
type EventWindowConstraint struct{}

func (EventWindowConstraint) Apply(ctx *Context) error {
	reg := ctx.Reg

	for _, ev := range ctx.Plan.Events {
		win := reg.EventWindow(ev.ID)
		if win.Empty() {
			continue
		}

		if ev.FrequencyDays > 1 {
			f := ev.FrequencyDays
			for _, t := range win.Days() {
				hiT := t + f - 1
				if hiT > win.Hi {
					hiT = win.Hi
				}
				if hiT <= t {
					continue
				}
				var terms []solver.Term
				for tau := t; tau <= hiT; tau++ {
					v, ok := reg.R(ev.ID, tau)
					if !ok {
						continue
					}
					terms = append(terms, solver.Term{Var: v, Coeff: 1})
				}
				if len(terms) > 1 {
					reg.Model.AddRow(fmt.Sprintf("freq[%s,%d]", ev.ID, t), solver.Expr{Terms: terms}, solver.LE, 1)
				}
			}
		}

		if ev.HasPredecessor() && (ev.LagMin > 0 || ev.LagMax > 0) {
			lagMin := ev.LagMin
			lagMax := ev.LagMax
			if lagMax < lagMin {
				lagMax = lagMin
			}
			pred := ev.PredecessorEvent
			for _, t := range win.Days() {
				rt, ok := reg.R(ev.ID, t)
				if !ok {
					continue
				}
				if lagMin > 0 && (t-lagMin) < 1 {
					reg.Model.Fix(rt, 0)
					continue
				}
				fromT := t - lagMax
				if fromT < 1 {
					fromT = 1
				}
				toT := t - lagMin
				if toT < fromT {
					reg.Model.Fix(rt, 0)
					continue
				}

				var preds []solver.Term
				for tau := fromT; tau <= toT; tau++ {
					pv, ok := reg.R(pred, tau)
					if !ok {
						continue
					}
					preds = append(preds, solver.Term{Var: pv, Coeff: -1})
				}
				// rt <= sum(preds): at least one predecessor firing in window.
				preds = append(preds, solver.Term{Var: rt, Coeff: 1})
				reg.Model.AddRow(fmt.Sprintf("lag_req[%s,%d]", ev.ID, t), solver.Expr{Terms: preds}, solver.LE, 0)

				if lagMin > 0 {
					recentFrom := t - lagMin + 1
					if recentFrom < 1 {
						recentFrom = 1
					}
					for tau := recentFrom; tau <= t; tau++ {
						pv, ok := reg.R(pred, tau)
						if !ok {
							continue
						}
						reg.Model.AddRow(fmt.Sprintf("lag_recent[%s,%d,%d]", ev.ID, t, tau),
							solver.Expr{}.AddTerm(rt, 1).AddTerm(pv, 1), solver.LE, 1)
					}
				}
			}
		}
	}
	return nil
}
