package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/openfroyo/farmplan/pkg/config"
	"github.com/openfroyo/farmplan/pkg/domain"
	"github.com/openfroyo/farmplan/pkg/jobs"
	"github.com/openfroyo/farmplan/pkg/policy"
	"github.com/openfroyo/farmplan/pkg/telemetry"
)

// Server holds the dependencies the handlers close over: the
// orchestrator driving both sync and async execution, and the sync
// deadline pulled from service configuration.
type Server struct {
	Orchestrator jobs.Orchestrator
	SyncRunner   jobs.SyncRunner // nil when the backend cannot run synchronously
	Policy       *policy.Engine  // nil disables admission policy evaluation
	Config       config.ServiceConfig
	Logger       *telemetry.Logger
}

// NewServer wires an Orchestrator (and its SyncRunner facet, if any)
// behind the HTTP surface of spec §6.
func NewServer(orch jobs.Orchestrator, eng *policy.Engine, cfg config.ServiceConfig, logger *telemetry.Logger) *Server {
	s := &Server{Orchestrator: orch, Policy: eng, Config: cfg, Logger: logger}
	if sr, ok := orch.(jobs.SyncRunner); ok {
		s.SyncRunner = sr
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, doc ProblemDocument) {
	writeJSON(w, doc.Status, doc)
}

// HandleOptimize serves POST /v1/optimize.
func (s *Server) HandleOptimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeProblem(w, ProblemDocument{Status: http.StatusMethodNotAllowed, Title: "Method Not Allowed", Detail: "use POST"})
		return
	}

	req, plan, ok := s.decodeAndValidate(w, r)
	if !ok {
		return
	}

	if s.SyncRunner == nil {
		writeProblem(w, ProblemDocument{
			Status: http.StatusServiceUnavailable,
			Title:  "Request Refused",
			Detail: "synchronous execution is not available on this backend",
			Code:   domain.ErrCodeUnavailable,
		})
		return
	}

	deadline := s.Config.SyncDeadline
	if req.TimeoutMs != nil && *req.TimeoutMs > 0 {
		deadline = time.Duration(*req.TimeoutMs) * time.Millisecond
	}

	result := s.SyncRunner.RunSync(r.Context(), plan, toEnqueueOptions(req, deadline), deadline)
	writeJSON(w, http.StatusOK, toOptimizationResult(result, plan))
}

// HandleOptimizeAsync serves POST /v1/optimize/async.
func (s *Server) HandleOptimizeAsync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeProblem(w, ProblemDocument{Status: http.StatusMethodNotAllowed, Title: "Method Not Allowed", Detail: "use POST"})
		return
	}

	req, plan, ok := s.decodeAndValidate(w, r)
	if !ok {
		return
	}
	if key := idempotencyKeyHeader(r); key != "" && req.IdempotencyKey == "" {
		req.IdempotencyKey = key
	}

	opts := toEnqueueOptions(req, s.Config.SyncDeadline)
	opts.TTL = s.Config.AsyncJobTTL
	jobID, err := s.Orchestrator.Enqueue(r.Context(), plan, opts)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Error("failed to enqueue job")
		}
		writeProblem(w, problemFromError(err))
		return
	}

	info, err := s.Orchestrator.GetStatus(r.Context(), jobID)
	if err != nil {
		writeProblem(w, problemFromError(err))
		return
	}
	writeJSON(w, http.StatusAccepted, toJobInfoResponse(*info, plan))
}

// HandleJob serves GET and DELETE /v1/jobs/{id}; the id is the final
// path segment, matching the router-free style the rest of this
// package follows.
func (s *Server) HandleJob(w http.ResponseWriter, r *http.Request) {
	jobID := pathTail(r.URL.Path, "/v1/jobs/")
	if jobID == "" {
		writeProblem(w, ProblemDocument{Status: http.StatusNotFound, Title: "Not Found", Detail: "missing job id"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetJob(w, r, jobID)
	case http.MethodDelete:
		s.handleCancelJob(w, r, jobID)
	default:
		writeProblem(w, ProblemDocument{Status: http.StatusMethodNotAllowed, Title: "Method Not Allowed", Detail: "use GET or DELETE"})
	}
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	info, err := s.Orchestrator.GetStatus(r.Context(), jobID)
	if err != nil {
		if domain.IsDomain(err) {
			writeProblem(w, problemFromError(err))
			return
		}
		writeProblem(w, ProblemDocument{Status: http.StatusNotFound, Title: "Not Found", Detail: "no such job", Code: domain.ErrCodeNotFound})
		return
	}
	writeJSON(w, http.StatusOK, toJobInfoResponse(*info, nil))
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request, jobID string) {
	if err := s.Orchestrator.Cancel(r.Context(), jobID); err != nil {
		writeProblem(w, ProblemDocument{Status: http.StatusNotFound, Title: "Not Found", Detail: "no such job", Code: domain.ErrCodeNotFound})
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// decodeAndValidate reads the request body, decodes it into
// OptimizeRequest, shifts the embedded plan's 0-based wire day
// indices to the 1-based indices every other package assumes, runs
// struct-tag plus semantic validation, and normalizes its units. On
// any failure it writes the appropriate problem document itself and
// returns ok=false.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request) (OptimizeRequest, *domain.PlanInput, bool) {
	var req OptimizeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeProblem(w, ProblemDocument{
			Status: http.StatusUnprocessableEntity,
			Title:  "Validation Error",
			Detail: "request body is not valid JSON: " + err.Error(),
			Code:   domain.ErrCodeValidation,
		})
		return req, nil, false
	}
	if req.Plan == nil {
		writeProblem(w, ProblemDocument{
			Status: http.StatusUnprocessableEntity,
			Title:  "Validation Error",
			Detail: "plan is required",
			Code:   domain.ErrCodeValidation,
		})
		return req, nil, false
	}

	req.Plan.ShiftDayIndices(1)

	issues, err := domain.ValidatePlan(req.Plan)
	if len(issues) > 0 {
		writeProblem(w, problemFromValidation(issues))
		return req, nil, false
	}
	if err != nil {
		writeProblem(w, problemFromError(err))
		return req, nil, false
	}

	domain.NormalizeUnits(req.Plan)

	if s.Policy != nil {
		result, err := s.Policy.Evaluate(r.Context(), req.Plan)
		if err != nil {
			writeProblem(w, problemFromError(domain.NewInternalError("policy evaluation failed", err)))
			return req, nil, false
		}
		if !result.Allowed {
			writeProblem(w, problemFromPolicy(result))
			return req, nil, false
		}
	}

	return req, req.Plan, true
}

func toOptimizationResult(r jobs.Result, plan *domain.PlanInput) OptimizationResult {
	out := OptimizationResult{
		Status:   ResultStatus(r.Status),
		Stats:    map[string]any{},
		Warnings: r.Warnings,
	}
	if r.ObjectiveValue != nil {
		out.ObjectiveValue = r.ObjectiveValue
	}
	if r.Timeline != nil {
		tl := toTimeline(*r.Timeline, plan)
		out.Solution = tl
		out.Timeline = tl
	}
	for _, st := range r.Stages {
		out.Stats[st.Name+"_duration_ms"] = st.Duration.Milliseconds()
	}
	if out.Status == ResultInfeasible {
		out.ConstraintHints = r.Warnings
	}
	return out
}

func toJobInfoResponse(info jobs.Info, plan *domain.PlanInput) JobInfoResponse {
	resp := JobInfoResponse{
		JobID:       info.JobID,
		Status:      info.Status,
		Progress:    info.Progress,
		SubmittedAt: info.SubmittedAt,
		CompletedAt: info.CompletedAt,
	}
	if info.Result != nil {
		r := toOptimizationResult(*info.Result, plan)
		resp.Result = &r
	}
	return resp
}

// idempotencyKeyHeader reads Idempotency-Key, falling back to
// X-Idempotency-Key (spec §6 "Accepts Idempotency-Key/X-Idempotency-Key
// header as alias").
func idempotencyKeyHeader(r *http.Request) string {
	if v := r.Header.Get("Idempotency-Key"); v != "" {
		return v
	}
	return r.Header.Get("X-Idempotency-Key")
}

func pathTail(path, prefix string) string {
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	tail := strings.TrimPrefix(path, prefix)
	return strings.Trim(tail, "/")
}

// Mux builds the plain net/http handler tree for the four endpoints of
// spec §6; no routing framework is used since HTTP transport concerns
// beyond dispatch are out of scope.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/optimize", s.HandleOptimize)
	mux.HandleFunc("/v1/optimize/async", s.HandleOptimizeAsync)
	mux.HandleFunc("/v1/jobs/", s.HandleJob)
	return mux
}
