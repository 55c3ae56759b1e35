package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/openfroyo/farmplan/pkg/constraints"
	"github.com/openfroyo/farmplan/pkg/domain"
	"github.com/openfroyo/farmplan/pkg/objectives"
	"github.com/openfroyo/farmplan/pkg/solver"
	"github.com/openfroyo/farmplan/pkg/variables"
)

// ProgressFunc reports stage-boundary progress in [0,1] and returns
// true if the caller should stop (spec §5 "cooperative cancellation
// without exceptions" — no panic/unwind, just a checked sentinel).
type ProgressFunc func(fraction float64, phase string) (cancel bool)

// Options configures one lexicographic run.
type Options struct {
	Stages      []Stage
	SolveBudget time.Duration
	Progress    ProgressFunc
}

// Run executes the stage sequence of opts against plan, building a
// fresh model and registry per stage, locking every previously
// completed stage's objective within its tolerance, and warm-starting
// each solve with the prior stage's solution (spec §4.5).
func Run(plan *domain.PlanInput, opts Options) Plan {
	stages := opts.Stages
	if len(stages) == 0 {
		stages = DefaultStages()
	}
	stages = ApplyPreferenceScript(plan.PreferenceScript, stages)

	stageObjectives := objectives.Stages()
	var results []StageResult
	var snapshot map[string]int64
	var lastReg *variables.Registry
	var lastValues []int64

	for i, stage := range stages {
		if opts.Progress != nil {
			frac := float64(i) / float64(len(stages))
			if opts.Progress(frac, fmt.Sprintf("stage:%s", stage.Name)) {
				return Plan{Status: solver.StatusUnknown, FailedStage: stage.Name, Diagnostics: []string{"canceled before stage start"}}
			}
		}

		obj, ok := stageObjectives[stage.Name]
		if !ok {
			return Plan{Status: solver.StatusModelInvalid, FailedStage: stage.Name, Diagnostics: []string{fmt.Sprintf("unknown stage %q", stage.Name)}}
		}

		reg := variables.New(plan)
		cctx := constraints.NewContext(reg, plan)
		if err := constraints.Default().Apply(cctx); err != nil {
			return Plan{Status: solver.StatusModelInvalid, FailedStage: stage.Name, Diagnostics: []string{err.Error()}}
		}
		octx := objectives.FromConstraintContext(cctx)

		for j, locked := range results[:i] {
			lockedObj := stageObjectives[stages[j].Name]
			expr, sense, err := lockedObj.Build(octx)
			if err != nil {
				return Plan{Status: solver.StatusModelInvalid, FailedStage: stage.Name, Diagnostics: []string{err.Error()}}
			}
			addLock(reg.Model, stages[j].Name, expr, sense, locked.ObjectiveValue, stages[j].Tolerance)
		}

		expr, sense, err := obj.Build(octx)
		if err != nil {
			return Plan{Status: solver.StatusModelInvalid, FailedStage: stage.Name, Diagnostics: []string{err.Error()}}
		}
		reg.Model.SetObjective(expr, sense)

		hint := buildHint(reg.Model, snapshot)
		res := solver.Solve(reg.Model, solver.Options{Budget: opts.SolveBudget, Hint: hint})

		results = append(results, StageResult{
			Name:           stage.Name,
			Status:         res.Status,
			ObjectiveValue: res.ObjectiveValue,
			Sense:          sense,
			Duration:       res.Duration,
		})

		if !res.Status.IsSolved() {
			diag := Diagnose(cctx, stage.Name, res.Status)
			out := Plan{
				Status:      res.Status,
				Stages:      results,
				FailedStage: stage.Name,
				Diagnostics: diag,
			}
			// A locked later stage going infeasible still leaves the
			// prior stage's optimum on the table (spec §4.5 "Failure
			// modes" — return the last feasible stage's solution).
			if lastReg != nil {
				out.Timeline = Extract(lastReg, plan, lastValues)
			}
			return out
		}

		snapshot = snapshotValues(reg.Model, res.Values)
		lastReg = reg
		lastValues = res.Values
	}

	if opts.Progress != nil {
		if opts.Progress(1, "post:timeline_build") {
			return Plan{Status: solver.StatusUnknown, Stages: results, Diagnostics: []string{"canceled during timeline build"}}
		}
	}

	timeline := Extract(lastReg, plan, lastValues)
	if opts.Progress != nil {
		opts.Progress(1, "done")
	}

	return Plan{
		Status:   results[len(results)-1].Status,
		Stages:   results,
		Timeline: timeline,
	}
}

// addLock bounds expr against a previously recorded optimum, relaxed
// by tolerance (spec §4.5 step 2).
func addLock(m *solver.Model, name string, expr solver.Expr, sense solver.Sense, optimum int64, tolerance float64) {
	if tolerance < 0 {
		tolerance = 0
	}
	if tolerance > 1 {
		tolerance = 1
	}
	if sense == solver.Maximize {
		bound := int64(math.Floor(float64(optimum) * (1 - tolerance)))
		m.AddRow(fmt.Sprintf("lock[%s]", name), expr, solver.GE, bound)
	} else {
		bound := int64(math.Ceil(float64(optimum) * (1 + tolerance)))
		m.AddRow(fmt.Sprintf("lock[%s]", name), expr, solver.LE, bound)
	}
}

// snapshotValues captures a solved model's values keyed by the
// variable's debug name, which is deterministic across stages for the
// same (land, crop, event, ...) tuple. This is the only channel by
// which one stage's solution reaches the next — never a live
// variable reference (spec §9 "no shared mutable state between
// stages").
func snapshotValues(m *solver.Model, values []int64) map[string]int64 {
	snap := make(map[string]int64, m.NumVars())
	for v := 0; v < m.NumVars(); v++ {
		snap[m.Name(solver.VarID(v))] = values[v]
	}
	return snap
}

// buildHint translates a name-keyed snapshot into the new stage's
// VarID space (spec §4.4 "solution hinting").
func buildHint(m *solver.Model, snapshot map[string]int64) map[solver.VarID]int64 {
	if len(snapshot) == 0 {
		return nil
	}
	hint := make(map[solver.VarID]int64)
	for v := 0; v < m.NumVars(); v++ {
		if val, ok := snapshot[m.Name(solver.VarID(v))]; ok {
			hint[solver.VarID(v)] = val
		}
	}
	return hint
}
