package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openfroyo/farmplan/pkg/domain"
	"github.com/openfroyo/farmplan/pkg/planner"
	"github.com/openfroyo/farmplan/pkg/solver"
	"github.com/openfroyo/farmplan/pkg/telemetry"
)

// InProcess is the bounded-worker-pool job backend of spec §4.6: jobs
// submitted here are queued on a buffered channel and drained by a
// fixed pool of goroutines, each running the full lexicographic plan
// synchronously and updating shared, mutex-protected job state as it
// goes — mirrored from the teacher's ParallelScheduler worker-pool
// shape, simplified to one job per worker slot instead of per plan
// unit.
type InProcess struct {
	workers int
	queue   chan *task

	mu   sync.RWMutex
	jobs map[string]*jobState

	wg       sync.WaitGroup
	shutdown chan struct{}
	once     sync.Once
}

type jobState struct {
	info   Info
	flag   *cancelFlag
	plan   *domain.PlanInput
	opts   EnqueueOptions
}

type task struct {
	jobID string
}

// NewInProcess starts a worker pool of the given size draining a
// queue of the given depth.
func NewInProcess(workers, queueDepth int) *InProcess {
	if workers <= 0 {
		workers = 4
	}
	if queueDepth <= 0 {
		queueDepth = 64
	}
	ip := &InProcess{
		workers:  workers,
		queue:    make(chan *task, queueDepth),
		jobs:     make(map[string]*jobState),
		shutdown: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		ip.wg.Add(1)
		go ip.worker(i)
	}
	return ip
}

// Enqueue submits a plan for asynchronous execution and returns
// immediately with a job id in StatusQueued.
func (ip *InProcess) Enqueue(ctx context.Context, plan *domain.PlanInput, opts EnqueueOptions) (string, error) {
	select {
	case <-ip.shutdown:
		return "", domain.NewInternalError("orchestrator is shut down", nil).WithCode("shutting_down")
	default:
	}
	jobID := uuid.New().String()
	st := &jobState{
		info: Info{
			JobID:       jobID,
			Status:      StatusQueued,
			SubmittedAt: time.Now(),
		},
		flag: &cancelFlag{},
		plan: plan,
		opts: opts,
	}

	ip.mu.Lock()
	ip.jobs[jobID] = st
	ip.mu.Unlock()

	select {
	case ip.queue <- &task{jobID: jobID}:
	default:
		ip.mu.Lock()
		delete(ip.jobs, jobID)
		ip.mu.Unlock()
		return "", domain.NewInternalError("job queue is full", nil).WithCode("queue_full")
	}

	return jobID, nil
}

// RunSync executes plan on its own goroutine and waits for it,
// bypassing the queue entirely (spec §6 "POST /optimize" synchronous
// path). deadline bounds the whole run, not just one stage: once it
// passes, RunSync returns a timeout result and stops waiting for the
// run it started.
func (ip *InProcess) RunSync(ctx context.Context, plan *domain.PlanInput, opts EnqueueOptions, deadline time.Duration) Result {
	budget := opts.SolveBudget
	if deadline > 0 {
		budget = deadline
	}
	done := make(chan planner.Plan, 1)
	go func() {
		done <- planner.Run(plan, planner.Options{
			Stages:      opts.Stages,
			SolveBudget: budget,
		})
	}()
	if deadline <= 0 {
		return toResult(<-done)
	}
	timer := time.NewTimer(deadline)
	defer timer.Stop()
	select {
	case out := <-done:
		return toResult(out)
	case <-timer.C:
		return Result{Status: "timeout", ErrorMessage: "synchronous deadline exceeded"}
	}
}

// GetStatus returns the current snapshot for jobID.
func (ip *InProcess) GetStatus(ctx context.Context, jobID string) (*Info, error) {
	ip.mu.RLock()
	defer ip.mu.RUnlock()
	st, ok := ip.jobs[jobID]
	if !ok {
		return nil, domain.NewDomainError("job not found", nil).WithCode("job_not_found").WithResource(jobID)
	}
	infoCopy := st.info
	return &infoCopy, nil
}

// Cancel requests cooperative cancellation of jobID. A queued job is
// marked canceled immediately; a running job's flag is set and the
// worker observes it at the next stage boundary.
func (ip *InProcess) Cancel(ctx context.Context, jobID string) error {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	st, ok := ip.jobs[jobID]
	if !ok {
		return domain.NewDomainError("job not found", nil).WithCode("job_not_found").WithResource(jobID)
	}
	if st.info.Status.IsTerminal() {
		return nil
	}
	if st.info.Status == StatusQueued {
		ip.transitionLocked(st, StatusCanceled, 1, "canceled")
		return nil
	}
	st.flag.set()
	return nil
}

// Shutdown stops accepting new work and waits for in-flight jobs to
// reach a terminal state.
func (ip *InProcess) Shutdown(ctx context.Context) error {
	ip.once.Do(func() { close(ip.shutdown) })
	done := make(chan struct{})
	go func() {
		ip.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (ip *InProcess) worker(id int) {
	defer ip.wg.Done()
	log := telemetry.FromContext(context.Background()).WithField("worker", id)

	for {
		select {
		case <-ip.shutdown:
			return
		case t, ok := <-ip.queue:
			if !ok {
				return
			}
			ip.runJob(t.jobID)
			log.WithJobID(t.jobID).Debug("job drained")
		}
	}
}

func (ip *InProcess) runJob(jobID string) {
	ip.mu.Lock()
	st, ok := ip.jobs[jobID]
	if !ok {
		ip.mu.Unlock()
		return
	}
	if st.info.Status.IsTerminal() {
		ip.mu.Unlock()
		return
	}
	now := time.Now()
	ip.transitionLocked(st, StatusRunning, 0, "")
	st.info.StartedAt = &now
	ip.mu.Unlock()

	log := telemetry.FromContext(context.Background()).WithJobID(jobID)
	log.Info("job running")

	rec := &progressRecorder{
		flag: st.flag,
		report: func(fraction float64, phase string) {
			ip.mu.Lock()
			st.info.Progress = fraction
			st.info.Phase = phase
			ip.mu.Unlock()
		},
	}

	out := planner.Run(st.plan, planner.Options{
		Stages:      st.opts.Stages,
		SolveBudget: st.opts.SolveBudget,
		Progress:    rec.Func(),
	})

	ip.mu.Lock()
	defer ip.mu.Unlock()

	if st.flag.isSet() {
		ip.transitionLocked(st, StatusCanceled, st.info.Progress, "canceled")
		log.Info("job canceled")
		return
	}

	result := toResult(out)
	switch out.Status {
	case solver.StatusOptimal, solver.StatusFeasible:
		ip.transitionLocked(st, StatusSucceeded, 1, "done")
	case solver.StatusUnknown:
		ip.transitionLocked(st, StatusTimeout, st.info.Progress, "timeout")
	default:
		ip.transitionLocked(st, StatusFailed, st.info.Progress, "failed")
	}
	st.info.Result = &result
	log.WithField("status", string(st.info.Status)).Info("job finished")
}

// transitionLocked moves st.info.Status forward, stamping completion
// time on entry to a terminal state. Caller must hold ip.mu.
func (ip *InProcess) transitionLocked(st *jobState, next Status, progress float64, phase string) {
	if !st.info.Status.nextValid(next) && st.info.Status != next {
		return
	}
	st.info.Status = next
	st.info.Progress = progress
	if phase != "" {
		st.info.Phase = phase
	}
	if next.IsTerminal() {
		now := time.Now()
		st.info.CompletedAt = &now
	}
}

func toResult(p planner.Plan) Result {
	r := Result{}
	switch p.Status {
	case solver.StatusOptimal, solver.StatusFeasible:
		r.Status = "ok"
		if len(p.Stages) > 0 {
			v := p.Stages[len(p.Stages)-1].ObjectiveValue
			r.ObjectiveValue = &v
		}
		r.Timeline = &p.Timeline
	case solver.StatusInfeasible:
		r.Status = "infeasible"
		// A later locked stage can go infeasible after an earlier one
		// solved; p.Timeline then still carries that prior optimum
		// (spec §4.5 "Failure modes").
		if len(p.Timeline.LandSpans) > 0 || len(p.Timeline.EventFirings) > 0 {
			r.Timeline = &p.Timeline
		}
	case solver.StatusUnknown:
		r.Status = "timeout"
	default:
		r.Status = "error"
	}
	r.Stages = p.Stages
	r.Warnings = p.Diagnostics
	if p.FailedStage != "" {
		r.ErrorMessage = fmt.Sprintf("stage %q did not complete", p.FailedStage)
	}
	return r
}
