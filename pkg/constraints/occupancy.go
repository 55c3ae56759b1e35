package constraints

import (
	"fmt"

	"github.com/openfroyo/farmplan/pkg/solver"
)

// OccupancyConstraint derives crop-level occupancy occ[c,t] as the
// contiguous interval from the earliest to the latest land-using event
// firing — occ[c,t] = prefix(t) ∧ suffix(t), prefix/suffix being
// "some firing has happened by t"/"some firing remains from t on"
// (spec §4.2 "Occupancy derivation") — then links it to land-level
// occupancy occL[l,c,t] in both directions, and cuts occL across each
// land's blocked-day segments so occupancy never bridges a blocked
// interval (spec §4.2 "segmented cuts").
type OccupancyConstraint struct{}

func (OccupancyConstraint) Apply(ctx *Context) error {
	reg := ctx.Reg

	useEventsByCrop := make(map[string][]string)
	for _, e := range ctx.Plan.Events {
		if e.UsesLand {
			useEventsByCrop[e.CropID] = append(useEventsByCrop[e.CropID], e.ID)
		}
	}

	for _, crop := range ctx.Plan.Crops {
		occByT := make(map[int]solver.VarID, reg.Horizon)
		for t := 1; t <= reg.Horizon; t++ {
			occByT[t] = reg.Occ(crop.ID, t)
		}

		evs := useEventsByCrop[crop.ID]
		if len(evs) == 0 {
			for t := 1; t <= reg.Horizon; t++ {
				reg.Model.Fix(occByT[t], 0)
			}
			continue
		}

		useAnyByT := make(map[int]solver.VarID, reg.Horizon)
		for t := 1; t <= reg.Horizon; t++ {
			var rTerms []solver.Term
			for _, eventID := range evs {
				if rv, ok := reg.R(eventID, t); ok {
					rTerms = append(rTerms, solver.Term{Var: rv, Coeff: 1})
				}
			}
			useAny := reg.Model.NewBoolVar(fmt.Sprintf("occ_use_any[%s,%d]", crop.ID, t))
			useAnyByT[t] = useAny
			if len(rTerms) == 0 {
				reg.Model.Fix(useAny, 0)
				continue
			}
			for _, term := range rTerms {
				// r <= use_any
				reg.Model.AddRow(fmt.Sprintf("occ_use_any_ub[%s,%d,%d]", crop.ID, t, term.Var),
					solver.Expr{}.AddTerm(term.Var, 1).AddTerm(useAny, -1), solver.LE, 0)
			}
			// sum(r) >= use_any  ==  use_any - sum(r) <= 0
			sumGE := solver.Expr{Terms: append([]solver.Term{{Var: useAny, Coeff: 1}}, negateAll(rTerms)...)}
			reg.Model.AddRow(fmt.Sprintf("occ_use_any_lb[%s,%d]", crop.ID, t), sumGE, solver.LE, 0)
			// sum(r) <= len(r)*use_any
			sumLE := solver.Expr{Terms: append(append([]solver.Term{}, rTerms...), solver.Term{Var: useAny, Coeff: -int64(len(rTerms))})}
			reg.Model.AddRow(fmt.Sprintf("occ_use_any_cap[%s,%d]", crop.ID, t), sumLE, solver.LE, 0)
		}

		prefixByT := make(map[int]solver.VarID, reg.Horizon)
		suffixByT := make(map[int]solver.VarID, reg.Horizon)
		for t := 1; t <= reg.Horizon; t++ {
			prefixByT[t] = reg.Model.NewBoolVar(fmt.Sprintf("occ_prefix[%s,%d]", crop.ID, t))
			suffixByT[t] = reg.Model.NewBoolVar(fmt.Sprintf("occ_suffix[%s,%d]", crop.ID, t))
		}

		// Prefix: has a use event fired by day t?
		reg.Model.AddRow(fmt.Sprintf("occ_prefix_base[%s]", crop.ID),
			solver.Expr{}.AddTerm(prefixByT[1], 1).AddTerm(useAnyByT[1], -1), solver.EQ, 0)
		for t := 2; t <= reg.Horizon; t++ {
			p, prev, use := prefixByT[t], prefixByT[t-1], useAnyByT[t]
			// prefix[t] >= prefix[t-1]
			reg.Model.AddRow(fmt.Sprintf("occ_prefix_ge_prev[%s,%d]", crop.ID, t),
				solver.Expr{}.AddTerm(prev, 1).AddTerm(p, -1), solver.LE, 0)
			// prefix[t] >= use_any[t]
			reg.Model.AddRow(fmt.Sprintf("occ_prefix_ge_use[%s,%d]", crop.ID, t),
				solver.Expr{}.AddTerm(use, 1).AddTerm(p, -1), solver.LE, 0)
			// prefix[t] <= prefix[t-1] + use_any[t]
			reg.Model.AddRow(fmt.Sprintf("occ_prefix_ub[%s,%d]", crop.ID, t),
				solver.Expr{}.AddTerm(p, 1).AddTerm(prev, -1).AddTerm(use, -1), solver.LE, 0)
		}

		// Suffix: does a use event remain from day t onward?
		reg.Model.AddRow(fmt.Sprintf("occ_suffix_base[%s]", crop.ID),
			solver.Expr{}.AddTerm(suffixByT[reg.Horizon], 1).AddTerm(useAnyByT[reg.Horizon], -1), solver.EQ, 0)
		for t := reg.Horizon - 1; t >= 1; t-- {
			s, next, use := suffixByT[t], suffixByT[t+1], useAnyByT[t]
			// suffix[t] >= suffix[t+1]
			reg.Model.AddRow(fmt.Sprintf("occ_suffix_ge_next[%s,%d]", crop.ID, t),
				solver.Expr{}.AddTerm(next, 1).AddTerm(s, -1), solver.LE, 0)
			// suffix[t] >= use_any[t]
			reg.Model.AddRow(fmt.Sprintf("occ_suffix_ge_use[%s,%d]", crop.ID, t),
				solver.Expr{}.AddTerm(use, 1).AddTerm(s, -1), solver.LE, 0)
			// suffix[t] <= suffix[t+1] + use_any[t]
			reg.Model.AddRow(fmt.Sprintf("occ_suffix_ub[%s,%d]", crop.ID, t),
				solver.Expr{}.AddTerm(s, 1).AddTerm(next, -1).AddTerm(use, -1), solver.LE, 0)
		}

		for t := 1; t <= reg.Horizon; t++ {
			occ, p, s := occByT[t], prefixByT[t], suffixByT[t]
			// occ <= prefix
			reg.Model.AddRow(fmt.Sprintf("occ_le_prefix[%s,%d]", crop.ID, t),
				solver.Expr{}.AddTerm(occ, 1).AddTerm(p, -1), solver.LE, 0)
			// occ <= suffix
			reg.Model.AddRow(fmt.Sprintf("occ_le_suffix[%s,%d]", crop.ID, t),
				solver.Expr{}.AddTerm(occ, 1).AddTerm(s, -1), solver.LE, 0)
			// occ >= prefix + suffix - 1
			reg.Model.AddRow(fmt.Sprintf("occ_ge_both[%s,%d]", crop.ID, t),
				solver.Expr{}.AddTerm(p, 1).AddTerm(s, 1).AddTerm(occ, -1), solver.LE, 1)
		}
	}

	for _, crop := range ctx.Plan.Crops {
		for t := 1; t <= reg.Horizon; t++ {
			occ := reg.Occ(crop.ID, t)
			var landTerms []solver.Term
			for _, land := range ctx.Plan.Lands {
				occL, ok := reg.OccL(land.ID, crop.ID, t)
				if !ok {
					continue
				}
				landTerms = append(landTerms, solver.Term{Var: occL, Coeff: 1})
				// occL <= occ
				reg.Model.AddRow(fmt.Sprintf("occ_implies[%s,%s,%d]", land.ID, crop.ID, t),
					solver.Expr{}.AddTerm(occL, 1).AddTerm(occ, -1), solver.LE, 0)
			}
			if len(landTerms) == 0 {
				reg.Model.Fix(occ, 0)
				continue
			}
			// occ <= sum(occL)
			sumExpr := solver.Expr{Terms: append([]solver.Term{{Var: occ, Coeff: 1}}, negateAll(landTerms)...)}
			reg.Model.AddRow(fmt.Sprintf("occ_needs_land[%s,%d]", crop.ID, t), sumExpr, solver.LE, 0)
		}
	}

	for _, land := range ctx.Plan.Lands {
		for _, crop := range ctx.Plan.Crops {
			for _, day := range land.BlockedDays {
				if occL, ok := reg.OccL(land.ID, crop.ID, day); ok {
					reg.Model.Fix(occL, 0)
				}
			}
		}
	}

	return nil
}

func negateAll(terms []solver.Term) []solver.Term {
	out := make([]solver.Term, len(terms))
	for i, t := range terms {
		out[i] = solver.Term{Var: t.Var, Coeff: -t.Coeff}
	}
	return out
}
