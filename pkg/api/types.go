// Package api implements the HTTP surface of spec §6: synchronous and
// asynchronous optimize endpoints plus job status/cancel, as thin
// net/http handlers over pkg/jobs.Orchestrator. Routing, auth, CORS,
// and rate limiting are out of scope; ServiceConfig carries
// passthrough knobs for a reverse proxy or middleware layer that
// would add them.
package api

import (
	"time"

	"github.com/openfroyo/farmplan/pkg/domain"
	"github.com/openfroyo/farmplan/pkg/jobs"
	"github.com/openfroyo/farmplan/pkg/planner"
)

// OptimizeRequest is the body of POST /optimize and /optimize/async.
type OptimizeRequest struct {
	Plan           *domain.PlanInput `json:"plan"`
	TimeoutMs      *int64            `json:"timeout_ms,omitempty"`
	IdempotencyKey string            `json:"idempotency_key,omitempty"`
	Priority       string            `json:"priority,omitempty"`
}

// ResultStatus is the status field of OptimizationResult.
type ResultStatus string

const (
	ResultOK         ResultStatus = "ok"
	ResultInfeasible ResultStatus = "infeasible"
	ResultTimeout    ResultStatus = "timeout"
	ResultError      ResultStatus = "error"
)

// OptimizationResult is the POST /optimize response body (spec §6
// "Result payload shape").
type OptimizationResult struct {
	Status          ResultStatus   `json:"status"`
	ObjectiveValue  *int64         `json:"objective_value"`
	Solution        *Timeline      `json:"solution"`
	Stats           map[string]any `json:"stats"`
	Warnings        []string       `json:"warnings"`
	Timeline        *Timeline      `json:"timeline"`
	ConstraintHints []string       `json:"constraint_hints,omitempty"`
}

// Timeline mirrors planner.Timeline in the wire shape spec §6 defines
// (land_spans, events, entity_names), decoupling the HTTP contract
// from the planner's internal field names.
type Timeline struct {
	LandSpans    []LandSpanView `json:"land_spans"`
	Events       []EventView    `json:"events"`
	EntityNames  map[string]string `json:"entity_names"`
}

// LandSpanView is one contiguous per-crop area allocation on a land.
type LandSpanView struct {
	LandID   string  `json:"land_id"`
	CropID   string  `json:"crop_id"`
	StartDay int     `json:"start_day"`
	EndDay   int     `json:"end_day"`
	Area     float64 `json:"area"`
}

// EventView is one day an event fired.
type EventView struct {
	Day            int               `json:"day"`
	EventID        string            `json:"event_id"`
	CropID         string            `json:"crop_id"`
	LandIDs        []string          `json:"land_ids"`
	WorkerUsages   []WorkerUsageView `json:"worker_usages"`
	ResourceUsages []ResourceUsageView `json:"resource_usages"`
	EventName      string            `json:"event_name"`
}

// WorkerUsageView is one worker's contribution to an event firing.
type WorkerUsageView struct {
	WorkerID string  `json:"worker_id"`
	Hours    float64 `json:"hours"`
}

// ResourceUsageView is one resource's contribution to an event firing.
type ResourceUsageView struct {
	ResourceID string  `json:"resource_id"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit"`
}

// JobInfoResponse is the GET /jobs/{id} response body (spec §6 "Job
// info payload").
type JobInfoResponse struct {
	JobID       string               `json:"job_id"`
	Status      jobs.Status          `json:"status"`
	Progress    float64              `json:"progress"`
	Result      *OptimizationResult  `json:"result,omitempty"`
	SubmittedAt time.Time            `json:"submitted_at"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
}

// toEnqueueOptions turns the HTTP deadline hint into
// jobs.EnqueueOptions, leaving the stage sequence at its default
// unless a future extension threads preferences through here.
func toEnqueueOptions(req OptimizeRequest, defaultBudget time.Duration) jobs.EnqueueOptions {
	budget := defaultBudget
	if req.TimeoutMs != nil && *req.TimeoutMs > 0 {
		budget = time.Duration(*req.TimeoutMs) * time.Millisecond
	}
	return jobs.EnqueueOptions{
		SolveBudget:    budget,
		IdempotencyKey: req.IdempotencyKey,
	}
}

func toTimeline(t planner.Timeline, plan *domain.PlanInput) *Timeline {
	names := entityNames(plan)

	spans := make([]LandSpanView, 0, len(t.LandSpans))
	for _, s := range t.LandSpans {
		spans = append(spans, LandSpanView{
			LandID: s.LandID, CropID: s.CropID,
			StartDay: s.StartDay - 1, EndDay: s.EndDay - 1, Area: s.Area,
		})
	}

	events := make([]EventView, 0, len(t.EventFirings))
	for _, f := range t.EventFirings {
		workers := make([]WorkerUsageView, 0, len(f.Workers))
		for _, w := range f.Workers {
			workers = append(workers, WorkerUsageView{WorkerID: w.WorkerID, Hours: w.Hours})
		}
		resources := make([]ResourceUsageView, 0, len(f.Resources))
		for _, r := range f.Resources {
			resources = append(resources, ResourceUsageView{ResourceID: r.ResourceID, Quantity: r.Hours, Unit: r.Unit})
		}
		events = append(events, EventView{
			Day: f.Day - 1, EventID: f.EventID, CropID: f.CropID,
			WorkerUsages: workers, ResourceUsages: resources,
			EventName: names[f.EventID],
		})
	}

	return &Timeline{LandSpans: spans, Events: events, EntityNames: names}
}

// entityNames collects a flat id->display-name lookup (spec §6
// "entity_names{}") for crops, events and workers, so timeline
// consumers don't need to resolve ids back against the submitted plan
// themselves. Lands carry no display name and are not included.
func entityNames(plan *domain.PlanInput) map[string]string {
	names := make(map[string]string, len(plan.Lands)+len(plan.Crops)+len(plan.Events)+len(plan.Workers))
	for _, c := range plan.Crops {
		names[c.ID] = c.Name
	}
	for _, e := range plan.Events {
		names[e.ID] = e.Name
	}
	for _, w := range plan.Workers {
		names[w.ID] = w.Name
	}
	return names
}
