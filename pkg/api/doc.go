// Package api implements the versioned HTTP surface: POST /v1/optimize,
// POST /v1/optimize/async, and GET/DELETE /v1/jobs/{id}. Handlers are
// plain net/http.HandlerFunc values registered on a stock
// http.ServeMux — no routing framework, since HTTP transport concerns
// beyond dispatch (auth, CORS, rate limiting) are carried as
// passthrough configuration rather than implemented here.
//
// Server closes over a pkg/jobs.Orchestrator (and its SyncRunner facet
// when the backend supports it) and renders every error path, success
// or failure, through the common ProblemDocument / OptimizationResult
// shapes so a client never has to special-case the transport.
package api
