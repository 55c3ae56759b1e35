package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Telemetry combines logging, tracing, and metrics into one handle
// carried through the process.
type Telemetry struct {
	Logger  *Logger
	Tracer  *Tracer
	Metrics *Metrics
	Config  *Config
}

// telemetryContextKey is the context key for telemetry instances.
type telemetryContextKey struct{}

// NewTelemetry creates a new telemetry instance from configuration.
func NewTelemetry(cfg *Config) (*Telemetry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := NewLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	tracer, err := NewTracer(cfg.Tracing, cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, err
	}

	metrics, err := NewMetrics(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	return &Telemetry{Logger: logger, Tracer: tracer, Metrics: metrics, Config: cfg}, nil
}

// WithContext adds the telemetry instance (and its logger) to ctx.
func (t *Telemetry) WithContext(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, telemetryContextKey{}, t)
	return t.Logger.WithContext(ctx)
}

// FromTelemetryContext retrieves the telemetry instance from ctx, or
// nil if none was attached.
func FromTelemetryContext(ctx context.Context) *Telemetry {
	if t, ok := ctx.Value(telemetryContextKey{}).(*Telemetry); ok {
		return t
	}
	return nil
}

// Shutdown gracefully shuts down the tracer.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.Tracer.Shutdown(ctx)
}

// Flush forces all pending trace data to be exported.
func (t *Telemetry) Flush(ctx context.Context) error {
	return t.Tracer.ForceFlush(ctx)
}

// StartMetricsServer starts the metrics HTTP server if metrics are enabled.
func (t *Telemetry) StartMetricsServer() error {
	return t.Metrics.StartMetricsServer()
}

type jobSpanKey struct{}
type stageSpanKey struct{}

// WithJobContext starts the top-level span and job-scoped logger for
// one job's lexicographic run, and records the started metric.
func WithJobContext(ctx context.Context, jobID string) context.Context {
	tel := FromTelemetryContext(ctx)
	if tel == nil {
		return ctx
	}

	spanCtx, span := tel.Tracer.StartJobSpan(ctx, jobID)
	logger := tel.Logger.WithJobID(jobID)
	spanCtx = logger.WithContext(spanCtx)
	tel.Metrics.RecordJobStarted()
	spanCtx = context.WithValue(spanCtx, jobSpanKey{}, span)
	return spanCtx
}

// EndJobContext completes the job span and records completion metrics.
func EndJobContext(ctx context.Context, jobID, status string, duration time.Duration, err error) {
	tel := FromTelemetryContext(ctx)
	if tel == nil {
		return
	}
	if span, ok := ctx.Value(jobSpanKey{}).(trace.Span); ok {
		if err != nil {
			RecordError(span, err)
		} else {
			RecordSuccess(span)
		}
		span.End()
	}
	tel.Metrics.RecordJobCompleted(status, duration)
}

// WithStageContext starts a child span and stage-scoped logger for one
// lexicographic stage.
func WithStageContext(ctx context.Context, jobID, stage string) context.Context {
	tel := FromTelemetryContext(ctx)
	if tel == nil {
		return ctx
	}

	spanCtx, span := tel.Tracer.StartStageSpan(ctx, jobID, stage)
	logger := tel.Logger.WithJobID(jobID).WithStageName(stage)
	spanCtx = logger.WithContext(spanCtx)
	spanCtx = context.WithValue(spanCtx, stageSpanKey{}, span)
	return spanCtx
}

// EndStageContext completes the stage span and records stage metrics.
func EndStageContext(ctx context.Context, stage, status string, duration time.Duration, err error) {
	tel := FromTelemetryContext(ctx)
	if tel == nil {
		return
	}
	if span, ok := ctx.Value(stageSpanKey{}).(trace.Span); ok {
		if err != nil {
			RecordError(span, err)
		} else {
			RecordSuccess(span)
		}
		span.End()
	}
	tel.Metrics.RecordStageExecution(stage, status, duration)
}

// RecordSolveOperation wraps one solver invocation with a span,
// duration metric, and variable-count metric.
func RecordSolveOperation(ctx context.Context, stage string, numVars int, fn func() error) error {
	tel := FromTelemetryContext(ctx)

	var span trace.Span
	if tel != nil {
		ctx, span = tel.Tracer.StartSolveSpan(ctx, stage)
		defer span.End()
	}

	timer := NewTimer()
	err := fn()

	if tel != nil {
		duration := timer.Duration()
		tel.Metrics.RecordSolve(stage, duration, numVars)
		if err != nil {
			RecordError(span, err)
		} else {
			RecordSuccess(span)
		}
	}

	return err
}
