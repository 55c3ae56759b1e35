// Package planner sequences lexicographic stages over the constraint
// and objective libraries, extracts the solved variable values into a
// structured assignment, and produces infeasibility diagnostics (spec
// §4.5, component E's model-facing half).
package planner

import (
	"time"

	"github.com/openfroyo/farmplan/pkg/solver"
)

// Stage is one named step in the lexicographic sequence, with an
// optional relaxation tolerance applied against the prior stage's
// locked objective (spec §4.5).
type Stage struct {
	// Name selects the objective from objectives.Stages().
	Name string
	// Tolerance is the fractional slack allowed when locking this
	// stage's own objective for later stages, in [0,1].
	Tolerance float64
}

// DefaultStages is the canonical two-stage pipeline (spec §4.5).
func DefaultStages() []Stage {
	return []Stage{
		{Name: "profit", Tolerance: 0},
		{Name: "dispersion", Tolerance: 0},
	}
}

// StageResult records one completed stage's outcome for locking and
// reporting.
type StageResult struct {
	Name           string
	Status         solver.Status
	ObjectiveValue int64
	Sense          solver.Sense
	Duration       time.Duration
}

// Plan is the assembled output of a full lexicographic run (spec §4.5
// "Plan extraction").
type Plan struct {
	Status      solver.Status
	Stages      []StageResult
	FailedStage string
	Timeline    Timeline
	Diagnostics []string
}

// Timeline is the day-indexed schedule extracted from the final
// stage's solved variables.
type Timeline struct {
	LandSpans     []LandSpan
	EventFirings  []EventFiring
}

// LandSpan is a contiguous run of days during which a land carried a
// constant per-crop area allocation (spec §4.5 "Runs of constant
// per-crop area ... compressed into spans").
type LandSpan struct {
	LandID  string
	CropID  string
	StartDay int
	EndDay   int
	Area     float64
}

// EventFiring is one day an event fired, with the workers, hours, and
// resources it consumed.
type EventFiring struct {
	EventID   string
	CropID    string
	Day       int
	Workers   []WorkerUsage
	Resources []ResourceUsage
	Area      float64
}

// WorkerUsage is one worker's contribution to an event firing.
type WorkerUsage struct {
	WorkerID string
	Hours    float64
}

// ResourceUsage is one resource's contribution to an event firing.
type ResourceUsage struct {
	ResourceID string
	Hours      float64
	Unit       string
}
