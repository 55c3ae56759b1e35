// Package telemetry provides structured logging (zerolog), metrics
// (Prometheus), and distributed tracing (OpenTelemetry) for the
// planning engine (SPEC_FULL.md §10.1).
//
// # Usage
//
// Initialize telemetry at process start:
//
//	cfg := telemetry.DefaultConfig()
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tel.Shutdown(context.Background())
//
//	if err := tel.StartMetricsServer(); err != nil {
//	    log.Fatal(err)
//	}
//
// Add telemetry to a context so request-scoped fields propagate
// without threading a logger through every signature:
//
//	ctx = tel.WithContext(ctx)
//
// # Structured logging
//
//	logger := tel.Logger.NewComponentLogger("planner")
//	logger = logger.WithJobID("job-123").WithStageName("profit")
//	logger.Info("stage started")
//	logger.WithError(err).Error("stage failed")
//
// # Tracing
//
// One span per job, one child span per stage, one per solve:
//
//	ctx = telemetry.WithJobContext(ctx, jobID)
//	defer telemetry.EndJobContext(ctx, jobID, status, duration, err)
//
//	ctx = telemetry.WithStageContext(ctx, jobID, stageName)
//	defer telemetry.EndStageContext(ctx, stageName, status, duration, err)
//
// # Metrics
//
//	tel.Metrics.RecordJobStarted()
//	tel.Metrics.RecordJobCompleted(string(jobs.StatusSucceeded), duration)
//	tel.Metrics.RecordStageExecution(stageName, "succeeded", duration)
//	tel.Metrics.RecordSolve(stageName, duration, variableCount)
//
// Metrics are exposed via HTTP at /metrics (default :9090).
//
// # Configuration
//
//	cfg := telemetry.DevelopmentConfig() // verbose logs, stdout traces
//	cfg := telemetry.ProductionConfig()  // JSON logs, OTLP traces, 10% sampling
package telemetry
