package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the planning engine: jobs,
// stages, and solves (SPEC_FULL.md §11).
type Metrics struct {
	config MetricsConfig

	jobsStarted   *prometheus.CounterVec
	jobsCompleted *prometheus.CounterVec
	jobDuration   *prometheus.HistogramVec

	stagesExecuted *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec

	solveDuration     *prometheus.HistogramVec
	variablesCreated  *prometheus.HistogramVec

	errorsByClass *prometheus.CounterVec
	errorsByCode  *prometheus.CounterVec

	activeJobs prometheus.Gauge
	queuedJobs prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		jobsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "jobs_started_total", Help: "Total number of jobs started"},
			nil,
		),
		jobsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "jobs_completed_total", Help: "Total number of jobs completed, by terminal status"},
			[]string{"status"},
		),
		jobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Namespace: namespace, Name: "job_duration_seconds", Help: "Duration of a full job (all stages)", Buckets: buckets},
			[]string{"status"},
		),

		stagesExecuted: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "stages_executed_total", Help: "Total number of lexicographic stages executed"},
			[]string{"stage", "status"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Namespace: namespace, Name: "stage_duration_seconds", Help: "Duration of one stage's solve", Buckets: buckets},
			[]string{"stage"},
		),

		solveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Namespace: namespace, Name: "solve_duration_seconds", Help: "Duration of one branch-and-bound solve", Buckets: buckets},
			[]string{"stage"},
		),
		variablesCreated: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solve_variables_created",
				Help:      "Number of decision variables created for one stage's model",
				Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
			},
			[]string{"stage"},
		),

		errorsByClass: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "errors_by_class_total", Help: "Total number of errors by error class"},
			[]string{"class"},
		),
		errorsByCode: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "errors_by_code_total", Help: "Total number of errors by error code"},
			[]string{"code"},
		),

		activeJobs: prometheus.NewGauge(
			prometheus.GaugeOpts{Namespace: namespace, Name: "active_jobs", Help: "Current number of running jobs"},
		),
		queuedJobs: prometheus.NewGauge(
			prometheus.GaugeOpts{Namespace: namespace, Name: "queued_jobs", Help: "Current number of queued jobs"},
		),
	}

	registry.MustRegister(
		m.jobsStarted, m.jobsCompleted, m.jobDuration,
		m.stagesExecuted, m.stageDuration,
		m.solveDuration, m.variablesCreated,
		m.errorsByClass, m.errorsByCode,
		m.activeJobs, m.queuedJobs,
	)

	return m, nil
}

// RecordJobStarted increments the started-jobs counter and the
// active-jobs gauge.
func (m *Metrics) RecordJobStarted() {
	if m.jobsStarted == nil {
		return
	}
	m.jobsStarted.WithLabelValues().Inc()
	m.activeJobs.Inc()
}

// RecordJobCompleted records a job's terminal status and total duration.
func (m *Metrics) RecordJobCompleted(status string, duration time.Duration) {
	if m.jobsCompleted == nil {
		return
	}
	m.jobsCompleted.WithLabelValues(status).Inc()
	m.jobDuration.WithLabelValues(status).Observe(duration.Seconds())
	m.activeJobs.Dec()
}

// RecordStageExecution records one lexicographic stage's outcome.
func (m *Metrics) RecordStageExecution(stage, status string, duration time.Duration) {
	if m.stagesExecuted == nil {
		return
	}
	m.stagesExecuted.WithLabelValues(stage, status).Inc()
	m.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordSolve records one branch-and-bound invocation's duration and
// model size.
func (m *Metrics) RecordSolve(stage string, duration time.Duration, numVars int) {
	if m.solveDuration == nil {
		return
	}
	m.solveDuration.WithLabelValues(stage).Observe(duration.Seconds())
	m.variablesCreated.WithLabelValues(stage).Observe(float64(numVars))
}

// RecordError records an error by class and optionally by code.
func (m *Metrics) RecordError(errorClass, errorCode string) {
	if m.errorsByClass == nil {
		return
	}
	m.errorsByClass.WithLabelValues(errorClass).Inc()
	if errorCode != "" && m.errorsByCode != nil {
		m.errorsByCode.WithLabelValues(errorCode).Inc()
	}
}

// SetQueuedJobs sets the current number of queued jobs.
func (m *Metrics) SetQueuedJobs(count float64) {
	if m.queuedJobs == nil {
		return
	}
	m.queuedJobs.Set(count)
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer { return &Timer{start: time.Now()} }

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration { return time.Since(t.start) }

// ObserveDuration is a helper to time an operation and record it.
func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(t.Duration().Seconds())
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// StartMetricsServer starts an HTTP server to expose metrics.
func (m *Metrics) StartMetricsServer() error {
	if !m.config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("metrics server error: %v\n", err)
		}
	}()

	return nil
}
