package solver

import (
	"time"
)

// canonRow is a row normalized to the single form
// sum(coeff_i * x_i) <= bound, the only shape the propagator needs to
// reason about. Equality and GE rows expand into one or two canonRows.
type canonRow struct {
	terms []Term
	bound int64
}

// domain is a variable's current [lo, hi] search-time bound.
type domain struct{ lo, hi int64 }

type searchState struct {
	rows      []canonRow
	objective Expr
	sense     Sense
	deadline  time.Time
	hint      []int64 // per-variable hint value; variables without a hint hold 0
	hasHint   bool

	bestKnown   bool
	bestObj     int64
	bestValues  []int64

	timedOut  bool
	nodeCount int
}

func canonicalize(m *Model) []canonRow {
	rows := make([]canonRow, 0, len(m.rows)*2)
	for _, r := range m.rows {
		switch r.Op {
		case LE:
			rows = append(rows, canonRow{terms: r.Expr.Terms, bound: r.RHS - r.Expr.Const})
		case GE:
			rows = append(rows, canonRow{terms: negateTerms(r.Expr.Terms), bound: -(r.RHS - r.Expr.Const)})
		case EQ:
			c := r.RHS - r.Expr.Const
			rows = append(rows, canonRow{terms: r.Expr.Terms, bound: c})
			rows = append(rows, canonRow{terms: negateTerms(r.Expr.Terms), bound: -c})
		}
	}
	return rows
}

func negateTerms(terms []Term) []Term {
	out := make([]Term, len(terms))
	for i, t := range terms {
		out[i] = Term{Var: t.Var, Coeff: -t.Coeff}
	}
	return out
}

// propagate tightens domains to bound-consistency for every row,
// iterating to a fixpoint. It returns false if any domain becomes
// empty (the subtree is infeasible).
func propagate(rows []canonRow, domains []domain) bool {
	changed := true
	for changed {
		changed = false
		for _, row := range rows {
			// minSum is the smallest value the expression can take
			// given current domains; used as the slack baseline.
			var minSum int64
			for _, t := range row.terms {
				d := domains[t.Var]
				if t.Coeff >= 0 {
					minSum += t.Coeff * d.lo
				} else {
					minSum += t.Coeff * d.hi
				}
			}
			if minSum > row.bound {
				return false
			}
			for _, t := range row.terms {
				if t.Coeff == 0 {
					continue
				}
				d := domains[t.Var]
				var contrib int64
				if t.Coeff >= 0 {
					contrib = t.Coeff * d.lo
				} else {
					contrib = t.Coeff * d.hi
				}
				slack := row.bound - (minSum - contrib)
				if t.Coeff > 0 {
					newHi := floorDiv(slack, t.Coeff)
					if newHi < d.hi {
						if newHi < d.lo {
							return false
						}
						domains[t.Var].hi = newHi
						changed = true
					}
				} else {
					newLo := ceilDiv(slack, t.Coeff)
					if newLo > d.lo {
						if newLo > d.hi {
							return false
						}
						domains[t.Var].lo = newLo
						changed = true
					}
				}
			}
		}
	}
	return true
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) == (b < 0)) {
		q++
	}
	return q
}

// objectiveBound computes the best achievable objective value given
// current domains (each term taken at its most favorable extreme),
// used to prune branches that cannot beat the incumbent.
func objectiveBound(expr Expr, sense Sense, domains []domain) int64 {
	total := expr.Const
	for _, t := range expr.Terms {
		d := domains[t.Var]
		if sense == Maximize {
			if t.Coeff >= 0 {
				total += t.Coeff * d.hi
			} else {
				total += t.Coeff * d.lo
			}
		} else {
			if t.Coeff >= 0 {
				total += t.Coeff * d.lo
			} else {
				total += t.Coeff * d.hi
			}
		}
	}
	return total
}

func better(val int64, bestVal int64, sense Sense) bool {
	if sense == Maximize {
		return val > bestVal
	}
	return val < bestVal
}

// pickBranchVar returns the first variable whose domain is not yet a
// singleton, preferring one referenced by the objective to shape
// search order toward improving solutions quickly.
func pickBranchVar(domains []domain, objective Expr) (VarID, bool) {
	for _, t := range objective.Terms {
		if domains[t.Var].lo != domains[t.Var].hi {
			return t.Var, true
		}
	}
	for v, d := range domains {
		if d.lo != d.hi {
			return VarID(v), true
		}
	}
	return 0, false
}

func (s *searchState) timeUp() bool {
	return time.Now().After(s.deadline)
}

func (s *searchState) search(domains []domain) {
	if s.timedOut {
		return
	}
	s.nodeCount++
	if s.timeUp() {
		s.timedOut = true
		return
	}

	if !propagate(s.rows, domains) {
		return
	}

	if s.bestKnown {
		bound := objectiveBound(s.objective, s.sense, domains)
		if !better(bound, s.bestObj, s.sense) {
			return
		}
	}

	v, found := pickBranchVar(domains, s.objective)
	if !found {
		values := make([]int64, len(domains))
		for i, d := range domains {
			values[i] = d.lo
		}
		obj := s.objective.Eval(values)
		if !s.bestKnown || better(obj, s.bestObj, s.sense) {
			s.bestKnown = true
			s.bestObj = obj
			s.bestValues = values
		}
		return
	}

	d := domains[v]
	mid := d.lo + (d.hi-d.lo)/2

	tryHintFirst := s.hasHint && s.hint[v] >= d.lo && s.hint[v] <= mid
	lowerDomains := cloneDomains(domains)
	lowerDomains[v].hi = mid
	upperDomains := cloneDomains(domains)
	upperDomains[v].lo = mid + 1

	if tryHintFirst {
		s.search(lowerDomains)
		if s.timedOut {
			return
		}
		s.search(upperDomains)
	} else {
		s.search(upperDomains)
		if s.timedOut {
			return
		}
		s.search(lowerDomains)
	}
}

func cloneDomains(domains []domain) []domain {
	out := make([]domain, len(domains))
	copy(out, domains)
	return out
}
