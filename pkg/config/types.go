package config

import "time"

// JobBackend selects which pkg/jobs.Orchestrator implementation the
// service starts.
type JobBackend string

const (
	// JobBackendInProcess runs jobs on an in-memory worker pool; state
	// is lost on restart.
	JobBackendInProcess JobBackend = "in_process"

	// JobBackendDurable persists jobs to a SQLite table and blob store
	// and survives restarts.
	JobBackendDurable JobBackend = "durable"
)

// ServiceConfig is the environment configuration of the farmplan
// service: everything needed to start the sync/async job API without
// touching a single plan submission. It is loaded from a CUE document
// (service_config.go) and a handful of its fields are safe to change
// live via hot reload (watch.go).
type ServiceConfig struct {
	// LogLevel is the zerolog level name ("debug", "info", "warn",
	// "error"). Hot-reloadable.
	LogLevel string `json:"log_level" validate:"required,oneof=debug info warn error"`

	// SolverWorkers is the size of the in-process worker pool. The
	// durable worker runs a single serial loop and does not read it.
	SolverWorkers int `json:"solver_workers" validate:"required,min=1"`

	// SyncDeadline bounds how long POST /optimize will block; once it
	// passes, the response carries a timeout result.
	SyncDeadline time.Duration `json:"sync_deadline" validate:"required"`

	// AsyncJobTTL sets a durable job row's expires_at to its submission
	// time plus this duration. The in-process backend ignores it, and
	// nothing removes rows once they expire.
	AsyncJobTTL time.Duration `json:"async_job_ttl" validate:"required"`

	// Backend selects the job orchestrator implementation.
	Backend JobBackend `json:"backend" validate:"required,oneof=in_process durable"`

	// QueueDepth bounds the in-process backend's pending-job channel,
	// and the durable backend's in-memory notification queue buffer.
	QueueDepth int `json:"queue_depth" validate:"required,min=1"`

	// TableName is the durable backend's job table name.
	TableName string `json:"table_name,omitempty"`

	// TablePath is the SQLite database file path for the durable
	// backend's job table.
	TablePath string `json:"table_path,omitempty"`

	// BlobRoot is the filesystem root the durable backend stores
	// request/result payloads under.
	BlobRoot string `json:"blob_root,omitempty"`

	// RateLimit configures request rate limiting. Rate limiting itself
	// is out of scope; these fields are carried as passthrough
	// configuration for a future reverse proxy or middleware layer.
	RateLimit RateLimitConfig `json:"rate_limit,omitempty"`

	// CORSOrigins lists allowed CORS origins, carried as passthrough
	// configuration for the same reason as RateLimit.
	CORSOrigins []string `json:"cors_origins,omitempty"`
}

// RateLimitConfig is passthrough configuration; see ServiceConfig.RateLimit.
type RateLimitConfig struct {
	Enabled           bool `json:"enabled"`
	RequestsPerMinute int  `json:"requests_per_minute,omitempty"`
	Burst             int  `json:"burst,omitempty"`
}

// DefaultServiceConfig returns the configuration used when no file is
// supplied.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		LogLevel:      "info",
		SolverWorkers: 4,
		SyncDeadline:  5 * time.Second,
		AsyncJobTTL:   24 * time.Hour,
		Backend:       JobBackendInProcess,
		QueueDepth:    64,
		TableName:     "jobs",
		TablePath:     "farmplan.db",
		BlobRoot:      "./blobs",
	}
}

// ValidationError represents a single CUE or struct-tag validation
// failure with location information.
type ValidationError struct {
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Path     string `json:"path,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity" validate:"required,oneof=error warning info"`
}
