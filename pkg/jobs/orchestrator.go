package jobs

import (
	"context"
	"time"

	"github.com/openfroyo/farmplan/pkg/domain"
)

// Orchestrator is the uniform interface spec §4.6 requires of both
// backends: enqueue, get-status, cancel, snapshot, shutdown.
type Orchestrator interface {
	// Enqueue submits plan for asynchronous execution and returns a
	// job id in StatusQueued.
	Enqueue(ctx context.Context, plan *domain.PlanInput, opts EnqueueOptions) (string, error)
	// GetStatus returns a snapshot of jobID's current state.
	GetStatus(ctx context.Context, jobID string) (*Info, error)
	// Cancel requests cooperative cancellation of jobID.
	Cancel(ctx context.Context, jobID string) error
	// Shutdown stops accepting new work and waits for in-flight jobs
	// to reach a terminal state, or ctx to expire.
	Shutdown(ctx context.Context) error
}

// SyncRunner is implemented by backends that can also run a plan while
// the caller waits, bounded by deadline (spec §6 "POST /optimize").
type SyncRunner interface {
	RunSync(ctx context.Context, plan *domain.PlanInput, opts EnqueueOptions, deadline time.Duration) Result
}

var (
	_ Orchestrator = (*InProcess)(nil)
	_ SyncRunner   = (*InProcess)(nil)
	_ Orchestrator = (*Durable)(nil)
)
