package planner

import (
	"fmt"

	"github.com/openfroyo/farmplan/pkg/constraints"
	"github.com/openfroyo/farmplan/pkg/solver"
)

// Diagnose produces human-readable probable-cause hints for a failed
// stage (spec §7 "constraint_hints[]", §4.5 "Failure modes"). It is a
// best-effort static scan over the plan, not a re-solve — the solver
// itself gives no certificate of infeasibility to point at.
func Diagnose(ctx *constraints.Context, stageName string, status solver.Status) []string {
	var hints []string

	if status == solver.StatusUnknown {
		hints = append(hints, fmt.Sprintf("stage %q did not finish within its solve budget; no solution was found", stageName))
	}

	workerRoles := make(map[string]bool)
	for _, w := range ctx.Plan.Workers {
		for _, r := range w.Roles {
			workerRoles[r] = true
		}
	}
	for _, e := range ctx.Plan.Events {
		for _, role := range e.RequiredRoles {
			if !workerRoles[role] {
				hints = append(hints, fmt.Sprintf("event %q requires role %q, which no worker carries", e.ID, role))
			}
		}
		for _, resID := range e.RequiredResources {
			if _, ok := ctx.Reg.Resources[resID]; !ok {
				hints = append(hints, fmt.Sprintf("event %q requires resource %q, which is not defined", e.ID, resID))
			}
		}
	}

	for _, fa := range ctx.Plan.FixedAreas {
		land, ok := ctx.Reg.Lands[fa.LandID]
		if !ok {
			continue
		}
		if fa.Area > 0 {
			scaled := int64(fa.Area*10 + 0.5)
			if scaled > land.AreaScaled {
				hints = append(hints, fmt.Sprintf("fixed_area for land %q crop %q (%.2f) exceeds the land's total area", fa.LandID, fa.CropID, fa.Area))
			}
		}
	}

	for _, b := range ctx.Plan.CropAreaBounds {
		if b.Min != nil && b.Max != nil && *b.Min > *b.Max {
			hints = append(hints, fmt.Sprintf("crop_area_bounds for %q has min > max", b.CropID))
		}
	}

	if len(hints) == 0 {
		hints = append(hints, fmt.Sprintf("stage %q is infeasible; no specific cause could be identified from static analysis", stageName))
	}
	return hints
}
