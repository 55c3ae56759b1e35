// Package config loads farmplan's service configuration: the
// environment knobs a deployment sets once at startup (solver worker
// count, sync/async deadlines, job backend selection, durable-backend
// table/blob locations, queue depth) plus a handful that are safe to
// change while the process is running (log level, rate-limit knobs).
//
// The document is written in CUE and validated two ways: structurally
// against a schema (#Service in schemas.go) and then, after decoding
// into a ServiceConfig, against Go struct tags via
// github.com/go-playground/validator/v10 — the same two-layer
// approach plan input payloads go through in pkg/domain.
//
// # Usage
//
//	cfg, err := config.LoadServiceConfig("farmplan.cue")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Watching for live changes to the hot-reloadable subset of fields:
//
//	w := config.NewWatcher("farmplan.cue", cfg, logger)
//	stop := make(chan struct{})
//	err = w.Watch(stop, func(cfg *config.ServiceConfig) {
//	    logger = logger.Level(parseLevel(cfg.LogLevel))
//	})
//
// # Document shape
//
//	log_level:      "info"
//	solver_workers: 8
//	sync_deadline:  5000000000  // nanoseconds
//	async_job_ttl:  86400000000000
//	backend:        "durable"
//	queue_depth:    256
//	table_path:     "/var/lib/farmplan/jobs.db"
//	blob_root:      "/var/lib/farmplan/blobs"
//
// Fields outside the hot-reloadable subset (backend, table_path,
// blob_root, queue_depth, solver_workers) are read once at process
// start; changing them in the file has no effect on a running
// process, since they are bound into an already-constructed
// orchestrator, table, or worker pool.
package config
