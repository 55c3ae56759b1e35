package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openfroyo/farmplan/pkg/config"
	"github.com/openfroyo/farmplan/pkg/domain"
	"github.com/openfroyo/farmplan/pkg/jobs"
)

// fakeOrchestrator is a minimal in-memory stand-in for pkg/jobs that
// lets the handler tests exercise request/response shaping without a
// real solver run.
type fakeOrchestrator struct {
	enqueueErr error
	jobID      string
	infos      map[string]*jobs.Info
	syncResult jobs.Result
	cancelErr  error
}

func newFakeOrchestrator() *fakeOrchestrator {
	return &fakeOrchestrator{jobID: "job-1", infos: map[string]*jobs.Info{}}
}

func (f *fakeOrchestrator) Enqueue(_ context.Context, _ *domain.PlanInput, _ jobs.EnqueueOptions) (string, error) {
	if f.enqueueErr != nil {
		return "", f.enqueueErr
	}
	f.infos[f.jobID] = &jobs.Info{
		JobID:       f.jobID,
		Status:      jobs.StatusQueued,
		SubmittedAt: time.Now(),
	}
	return f.jobID, nil
}

func (f *fakeOrchestrator) GetStatus(_ context.Context, jobID string) (*jobs.Info, error) {
	info, ok := f.infos[jobID]
	if !ok {
		return nil, domain.NewDomainError("job not found", nil).WithCode(domain.ErrCodeNotFound)
	}
	return info, nil
}

func (f *fakeOrchestrator) Cancel(_ context.Context, jobID string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	if _, ok := f.infos[jobID]; !ok {
		return domain.NewDomainError("job not found", nil).WithCode(domain.ErrCodeNotFound)
	}
	return nil
}

func (f *fakeOrchestrator) Shutdown(_ context.Context) error { return nil }

func (f *fakeOrchestrator) RunSync(_ context.Context, _ *domain.PlanInput, _ jobs.EnqueueOptions, _ time.Duration) jobs.Result {
	return f.syncResult
}

func validPlanJSON() []byte {
	plan := domain.PlanInput{
		Horizon: 30,
		Lands:   []domain.Land{{ID: "l1", Area: 10}},
		Crops:   []domain.Crop{{ID: "c1", Name: "wheat"}},
		Events:  []domain.Event{{ID: "e1", CropID: "c1", Name: "sow", UsesLand: true}},
	}
	body, _ := json.Marshal(OptimizeRequest{Plan: &plan})
	return body
}

func TestHandleOptimizeReturnsResult(t *testing.T) {
	f := newFakeOrchestrator()
	f.syncResult = jobs.Result{Status: "ok", ObjectiveValue: int64Ptr(42)}
	s := NewServer(f, nil, config.DefaultServiceConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/optimize", bytes.NewReader(validPlanJSON()))
	rec := httptest.NewRecorder()
	s.HandleOptimize(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got OptimizationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Status != ResultOK {
		t.Errorf("expected status ok, got %s", got.Status)
	}
	if got.ObjectiveValue == nil || *got.ObjectiveValue != 42 {
		t.Errorf("expected objective_value 42, got %v", got.ObjectiveValue)
	}
}

func TestHandleOptimizeRejectsInvalidPlan(t *testing.T) {
	f := newFakeOrchestrator()
	s := NewServer(f, nil, config.DefaultServiceConfig(), nil)

	body, _ := json.Marshal(OptimizeRequest{Plan: &domain.PlanInput{}})
	req := httptest.NewRequest(http.MethodPost, "/v1/optimize", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.HandleOptimize(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	var doc ProblemDocument
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("failed to decode problem document: %v", err)
	}
	if len(doc.Errors) == 0 {
		t.Error("expected validation errors to be populated")
	}
}

func TestHandleOptimizeWithoutSyncRunner(t *testing.T) {
	s := &Server{Orchestrator: newFakeOrchestrator(), Config: config.DefaultServiceConfig()}

	req := httptest.NewRequest(http.MethodPost, "/v1/optimize", bytes.NewReader(validPlanJSON()))
	rec := httptest.NewRecorder()
	s.HandleOptimize(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestHandleOptimizeAsyncEnqueuesJob(t *testing.T) {
	f := newFakeOrchestrator()
	s := NewServer(f, nil, config.DefaultServiceConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/optimize/async", bytes.NewReader(validPlanJSON()))
	rec := httptest.NewRecorder()
	s.HandleOptimizeAsync(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var info JobInfoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if info.JobID != "job-1" {
		t.Errorf("expected job id job-1, got %s", info.JobID)
	}
	if info.Status != jobs.StatusQueued {
		t.Errorf("expected status queued, got %s", info.Status)
	}
}

func TestHandleJobGetMissing(t *testing.T) {
	f := newFakeOrchestrator()
	s := NewServer(f, nil, config.DefaultServiceConfig(), nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs/does-not-exist", nil)
	rec := httptest.NewRecorder()
	s.HandleJob(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleJobGetAndCancel(t *testing.T) {
	f := newFakeOrchestrator()
	s := NewServer(f, nil, config.DefaultServiceConfig(), nil)

	async := httptest.NewRequest(http.MethodPost, "/v1/optimize/async", bytes.NewReader(validPlanJSON()))
	asyncRec := httptest.NewRecorder()
	s.HandleOptimizeAsync(asyncRec, async)

	getReq := httptest.NewRequest(http.MethodGet, "/v1/jobs/job-1", nil)
	getRec := httptest.NewRecorder()
	s.HandleJob(getRec, getReq)
	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", getRec.Code)
	}

	delReq := httptest.NewRequest(http.MethodDelete, "/v1/jobs/job-1", nil)
	delRec := httptest.NewRecorder()
	s.HandleJob(delRec, delReq)
	if delRec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", delRec.Code)
	}
}

func TestIdempotencyKeyHeaderFallsBackToXPrefixed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/optimize/async", nil)
	req.Header.Set("X-Idempotency-Key", "abc")
	if got := idempotencyKeyHeader(req); got != "abc" {
		t.Errorf("expected abc, got %s", got)
	}
}

func int64Ptr(v int64) *int64 { return &v }
