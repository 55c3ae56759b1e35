package solver

import "time"

// Options configures one Solve invocation (spec §4.4: wall-clock
// budget and worker-count hint; worker count only controls how many
// search branches may run concurrently should a future revision
// parallelize the tree walk — today's bounded DFS is single-threaded
// per stage, matching spec §5 "single-threaded within their thread").
type Options struct {
	Budget      time.Duration
	NumWorkers  int
	Hint        map[VarID]int64
}

// Result is the outcome of one Solve call.
type Result struct {
	Status         Status
	ObjectiveValue int64
	Values         []int64
	Duration       time.Duration
}

// Solve runs the bounded branch-and-bound search against m within the
// configured wall-clock budget, optionally warm-started with Hint
// values for a subset of variables (spec §4.4 "solution hinting").
func Solve(m *Model, opts Options) Result {
	start := time.Now()

	domains := make([]domain, m.NumVars())
	for i, v := range m.vars {
		if v.hi < v.lo {
			return Result{Status: StatusModelInvalid, Duration: time.Since(start)}
		}
		domains[i] = domain{lo: v.lo, hi: v.hi}
	}

	budget := opts.Budget
	if budget <= 0 {
		budget = 5 * time.Second
	}

	state := &searchState{
		rows:      canonicalize(m),
		objective: m.objective,
		sense:     m.sense,
		deadline:  start.Add(budget),
	}
	if len(opts.Hint) > 0 {
		state.hasHint = true
		state.hint = make([]int64, m.NumVars())
		for v, val := range opts.Hint {
			if int(v) < len(state.hint) {
				state.hint[v] = val
			}
		}
	}

	state.search(domains)

	elapsed := time.Since(start)
	switch {
	case state.bestKnown && state.timedOut:
		return Result{Status: StatusFeasible, ObjectiveValue: state.bestObj, Values: state.bestValues, Duration: elapsed}
	case state.bestKnown:
		return Result{Status: StatusOptimal, ObjectiveValue: state.bestObj, Values: state.bestValues, Duration: elapsed}
	case state.timedOut:
		return Result{Status: StatusUnknown, Duration: elapsed}
	default:
		return Result{Status: StatusInfeasible, Duration: elapsed}
	}
}
