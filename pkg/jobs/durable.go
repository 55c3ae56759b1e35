package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/openfroyo/farmplan/pkg/domain"
	"github.com/openfroyo/farmplan/pkg/planner"
	"github.com/openfroyo/farmplan/pkg/solver"
	"github.com/openfroyo/farmplan/pkg/telemetry"
)

// Row is the durable backend's persisted job record (spec §6 "Durable
// backend persisted schema").
type Row struct {
	JobID         string
	Status        Status
	Progress      float64
	Phase         string
	SubmittedAt   time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time
	LastHeartbeat *time.Time
	CancelFlag    bool
	ExpiresAt     time.Time
	IdemKey       string
	RequestRef    string
	ResultRef     string
	ErrorMessage  string
}

// ErrCanceled is returned by a conditional progress update once
// cancel_flag has been observed set.
var ErrCanceled = domain.NewDomainError("job canceled", nil).WithCode("job_canceled")

// TableStore is the transactional job table the durable backend reads
// and writes (spec §4.6/§6). Implementations must make UpdateProgress
// and RequestCancel atomic/conditional as described on each method.
type TableStore interface {
	Insert(ctx context.Context, row Row) error
	Get(ctx context.Context, jobID string) (*Row, error)
	FindByIdemKey(ctx context.Context, idemKey string) (*Row, error)
	// TransitionToRunning moves a queued row to running, stamping
	// started_at and last_heartbeat.
	TransitionToRunning(ctx context.Context, jobID string) error
	// UpdateProgress conditionally writes progress/phase/heartbeat; it
	// returns ErrCanceled if cancel_flag is set instead of writing.
	UpdateProgress(ctx context.Context, jobID string, progress float64, phase string) error
	// Complete atomically sets a terminal status, completed_at, and
	// either result_ref (success) or error_message (failure).
	Complete(ctx context.Context, jobID string, status Status, resultRef, errMsg string) error
	// RequestCancel sets canceled directly for a queued row, or only
	// cancel_flag for a running one; returns the resulting status.
	RequestCancel(ctx context.Context, jobID string) (Status, error)
}

// BlobStore is the request/result payload store (spec §6 "Blob store
// layout: requests/{job_id}.json and results/{job_id}.json").
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Queue is the message bus carrying job-id notifications from Enqueue
// to a worker process (spec §6 "Message bus payload:
// {\"job_id\": \"...\"}").
type Queue interface {
	Publish(ctx context.Context, jobID string) error
	Receive(ctx context.Context) (jobID string, ack func(), err error)
}

func requestKey(jobID string) string { return "requests/" + jobID + ".json" }
func resultKey(jobID string) string  { return "results/" + jobID + ".json" }

// Durable is the durable job backend of spec §4.6: enqueue writes the
// request to blob storage, inserts a table row, and publishes a
// job-id message; a separate DurableWorker process consumes the
// queue and drives the actual solve.
type Durable struct {
	Table TableStore
	Blob  BlobStore
	Queue Queue
	TTL   time.Duration
}

// NewDurable wires the three storage collaborators into one backend.
func NewDurable(table TableStore, blob BlobStore, queue Queue, ttl time.Duration) *Durable {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Durable{Table: table, Blob: blob, Queue: queue, TTL: ttl}
}

// Enqueue implements Orchestrator.
func (d *Durable) Enqueue(ctx context.Context, plan *domain.PlanInput, opts EnqueueOptions) (string, error) {
	if opts.IdempotencyKey != "" {
		if existing, err := d.Table.FindByIdemKey(ctx, opts.IdempotencyKey); err == nil && existing != nil {
			return existing.JobID, nil
		}
	}

	jobID := uuid.New().String()
	payload, err := json.Marshal(requestEnvelope{Plan: plan, Opts: opts})
	if err != nil {
		return "", domain.NewInternalError("failed to marshal job request", err)
	}
	if err := d.Blob.Put(ctx, requestKey(jobID), payload); err != nil {
		return "", domain.NewInternalError("failed to persist job request", err)
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = d.TTL
	}
	now := time.Now()
	row := Row{
		JobID:       jobID,
		Status:      StatusQueued,
		SubmittedAt: now,
		ExpiresAt:   now.Add(ttl),
		IdemKey:     opts.IdempotencyKey,
		RequestRef:  requestKey(jobID),
	}
	if err := d.Table.Insert(ctx, row); err != nil {
		return "", domain.NewInternalError("failed to persist job row", err)
	}

	if err := d.Queue.Publish(ctx, jobID); err != nil {
		return "", domain.NewInternalError("failed to publish job message", err)
	}

	return jobID, nil
}

// GetStatus implements Orchestrator.
func (d *Durable) GetStatus(ctx context.Context, jobID string) (*Info, error) {
	row, err := d.Table.Get(ctx, jobID)
	if err != nil {
		return nil, domain.NewDomainError("job not found", err).WithCode("job_not_found").WithResource(jobID)
	}
	return rowToInfo(ctx, d.Blob, row), nil
}

// Cancel implements Orchestrator: queued jobs transition directly to
// canceled; running jobs only have cancel_flag set, observed by the
// worker on its next heartbeat (spec §4.6).
func (d *Durable) Cancel(ctx context.Context, jobID string) error {
	_, err := d.Table.RequestCancel(ctx, jobID)
	return err
}

// Shutdown is a no-op for the durable backend: job execution lives in
// a separate worker process whose lifecycle this orchestrator does
// not own.
func (d *Durable) Shutdown(ctx context.Context) error { return nil }

type requestEnvelope struct {
	Plan *domain.PlanInput `json:"plan"`
	Opts EnqueueOptions    `json:"opts"`
}

func rowToInfo(ctx context.Context, blob BlobStore, row *Row) *Info {
	info := &Info{
		JobID:       row.JobID,
		Status:      row.Status,
		Progress:    row.Progress,
		Phase:       row.Phase,
		SubmittedAt: row.SubmittedAt,
		StartedAt:   row.StartedAt,
		CompletedAt: row.CompletedAt,
	}
	if row.Status.IsTerminal() && row.ResultRef != "" {
		data, err := blob.Get(ctx, row.ResultRef)
		if err == nil {
			var result Result
			if json.Unmarshal(data, &result) == nil {
				info.Result = &result
			}
		}
	}
	if row.ErrorMessage != "" && info.Result == nil {
		info.Result = &Result{Status: "error", ErrorMessage: row.ErrorMessage}
	}
	return info
}

// DurableWorker is the separate process that consumes queued job ids,
// loads the request, runs the lexicographic plan, and persists
// progress/result back through Table and Blob (spec §4.6, the worker
// half of the durable backend; wired up by cmd/worker).
type DurableWorker struct {
	Table           TableStore
	Blob            BlobStore
	Queue           Queue
	HeartbeatPeriod time.Duration
}

// NewDurableWorker constructs a worker with a default heartbeat period.
func NewDurableWorker(table TableStore, blob BlobStore, queue Queue) *DurableWorker {
	return &DurableWorker{Table: table, Blob: blob, Queue: queue, HeartbeatPeriod: 2 * time.Second}
}

// Run consumes messages until ctx is canceled, processing jobs
// serially. Production deployments run many instances of this loop
// concurrently across processes, coordinated only through Table.
func (w *DurableWorker) Run(ctx context.Context) error {
	log := telemetry.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		jobID, ack, err := w.Queue.Receive(ctx)
		if err != nil {
			return err
		}
		if jobID == "" {
			continue
		}

		w.processOne(ctx, jobID)
		ack()
		log.WithJobID(jobID).Debug("job processed")
	}
}

func (w *DurableWorker) processOne(ctx context.Context, jobID string) {
	log := telemetry.FromContext(ctx).WithJobID(jobID)

	row, err := w.Table.Get(ctx, jobID)
	if err != nil {
		log.WithError(err).Error("job row missing")
		return
	}
	if row.Status.IsTerminal() {
		return
	}

	payload, err := w.Blob.Get(ctx, row.RequestRef)
	if err != nil {
		_ = w.Table.Complete(ctx, jobID, StatusFailed, "", "failed to re-read job request: "+err.Error())
		return
	}
	var env requestEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		_ = w.Table.Complete(ctx, jobID, StatusFailed, "", "corrupt job request payload")
		return
	}

	if err := w.Table.TransitionToRunning(ctx, jobID); err != nil {
		log.WithError(err).Error("failed to transition job to running")
		return
	}

	canceled := false
	out := planner.Run(env.Plan, planner.Options{
		Stages:      env.Opts.Stages,
		SolveBudget: env.Opts.SolveBudget,
		Progress: func(fraction float64, phase string) bool {
			if err := w.Table.UpdateProgress(ctx, jobID, fraction, phase); err != nil {
				canceled = true
			}
			return canceled
		},
	})

	if canceled {
		_ = w.Table.Complete(ctx, jobID, StatusCanceled, "", "")
		return
	}

	result := toResult(out)
	data, err := json.Marshal(result)
	if err != nil {
		_ = w.Table.Complete(ctx, jobID, StatusFailed, "", "failed to marshal result: "+err.Error())
		return
	}
	if err := w.Blob.Put(ctx, resultKey(jobID), data); err != nil {
		_ = w.Table.Complete(ctx, jobID, StatusFailed, "", "failed to persist result: "+err.Error())
		return
	}

	switch out.Status {
	case solver.StatusOptimal, solver.StatusFeasible:
		_ = w.Table.Complete(ctx, jobID, StatusSucceeded, resultKey(jobID), "")
	case solver.StatusUnknown:
		_ = w.Table.Complete(ctx, jobID, StatusTimeout, resultKey(jobID), "")
	default:
		_ = w.Table.Complete(ctx, jobID, StatusFailed, resultKey(jobID), result.ErrorMessage)
	}
}
