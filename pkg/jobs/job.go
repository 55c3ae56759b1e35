package jobs

import (
	"time"

	"github.com/openfroyo/farmplan/pkg/planner"
)

// Result is the terminal payload of a job, carrying the same fields
// the HTTP surface's OptimizationResult would report (spec §6).
type Result struct {
	Status         string         `json:"status"`
	ObjectiveValue *int64         `json:"objective_value,omitempty"`
	Stages         []planner.StageResult `json:"stages,omitempty"`
	Timeline       *planner.Timeline     `json:"timeline,omitempty"`
	Warnings       []string       `json:"warnings,omitempty"`
	ErrorMessage   string         `json:"error_message,omitempty"`
}

// Info is the externally visible snapshot of a job (spec §6 "Job info
// payload"): job_id, status, progress, result?, submitted_at,
// completed_at?.
type Info struct {
	JobID       string     `json:"job_id"`
	Status      Status     `json:"status"`
	Progress    float64    `json:"progress"`
	Phase       string     `json:"phase,omitempty"`
	Result      *Result    `json:"result,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// EnqueueOptions parameterizes one submission.
type EnqueueOptions struct {
	// SolveBudget bounds each stage's solve wall-clock time.
	SolveBudget time.Duration
	// Stages overrides the default lexicographic stage sequence.
	Stages []planner.Stage
	// IdempotencyKey, when non-empty, lets a durable backend dedupe
	// resubmissions of the same logical request (spec §6).
	IdempotencyKey string
	// TTL sets a durable job row's expires_at to its submission time
	// plus TTL; rows are not removed when it passes.
	TTL time.Duration
}
