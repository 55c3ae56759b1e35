package constraints

import (
	"fmt"

	"github.com/openfroyo/farmplan/pkg/solver"
)

// RolesConstraint requires that, on any day an event fires, at least
// one assigned worker holds each of the event's required roles, and
// forbids assigning a worker who holds none of them (spec §4.2
// "Roles").
type RolesConstraint struct{}

func (RolesConstraint) Apply(ctx *Context) error {
	reg := ctx.Reg

	for _, ev := range ctx.Plan.Events {
		if len(ev.RequiredRoles) == 0 {
			continue
		}
		win := reg.EventWindow(ev.ID)
		if win.Empty() {
			continue
		}
		for _, t := range win.Days() {
			rv, ok := reg.R(ev.ID, t)
			if !ok {
				continue
			}

			byRole := make(map[string][]solver.Term)
			for _, w := range ctx.Plan.Workers {
				av, ok := reg.A(w.ID, ev.ID, t)
				if !ok {
					continue
				}
				hasAny := false
				for _, role := range ev.RequiredRoles {
					if w.HasRole(role) {
						byRole[role] = append(byRole[role], solver.Term{Var: av, Coeff: 1})
						hasAny = true
					}
				}
				if !hasAny {
					reg.Model.Fix(av, 0)
				}
			}

			for _, role := range ev.RequiredRoles {
				terms := byRole[role]
				if len(terms) == 0 {
					reg.Model.Fix(rv, 0)
					continue
				}
				// sum(assign with role) >= r
				expr := solver.Expr{Terms: terms}.AddTerm(rv, -1)
				reg.Model.AddRow(fmt.Sprintf("role_req[%s,%s,%d]", ev.ID, role, t), expr, solver.GE, 0)
			}
		}
	}
	return nil
}
