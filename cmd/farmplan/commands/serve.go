package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/openfroyo/farmplan/pkg/api"
	"github.com/openfroyo/farmplan/pkg/config"
	"github.com/openfroyo/farmplan/pkg/jobs"
	"github.com/openfroyo/farmplan/pkg/policy"
	"github.com/openfroyo/farmplan/pkg/stores"
	"github.com/openfroyo/farmplan/pkg/telemetry"
)

func newServeCommand() *cobra.Command {
	var (
		addr       string
		noPolicy   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP optimize/job API",
		Long: `Start the versioned HTTP surface (POST /v1/optimize, POST
/v1/optimize/async, GET/DELETE /v1/jobs/{id}) backed by the job
orchestrator selected in service configuration: in-process for a
single replica, or durable (SQLite table + file blob store + queue)
when job execution should survive a process restart. Because the
bundled queue is in-process, the durable worker loop also runs inside
this process; cmd/worker is the standalone entrypoint for a deployment
with its table/blob/queue backed by real shared infrastructure.`,
		Example: `  farmplan serve --config farmplan.cue --addr :8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServiceConfig()
			if err != nil {
				return err
			}

			tel, err := telemetry.NewTelemetry(telemetryConfig(cfg))
			if err != nil {
				return fmt.Errorf("failed to initialize telemetry: %w", err)
			}

			orch, worker, cleanup, err := buildOrchestrator(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			var engine *policy.Engine
			if !noPolicy {
				engine, err = policy.NewEngine(zerologFromLevel(cfg.LogLevel))
				if err != nil {
					return fmt.Errorf("failed to build policy engine: %w", err)
				}
			}

			srv := api.NewServer(orch, engine, cfg, tel.Logger)
			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           srv.Mux(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			tel.Logger.Infof("farmplan listening on %s (backend=%s)", addr, cfg.Backend)

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if worker != nil {
				go func() {
					if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
						tel.Logger.WithError(err).Error("durable worker loop exited")
					}
				}()
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				_ = httpSrv.Shutdown(shutdownCtx)
				_ = orch.Shutdown(shutdownCtx)
			}()

			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	cmd.Flags().BoolVar(&noPolicy, "no-policy", false, "disable admission policy evaluation")

	return cmd
}

func loadServiceConfig() (config.ServiceConfig, error) {
	if configPath == "" {
		return config.DefaultServiceConfig(), nil
	}
	cfg, err := config.LoadServiceConfig(configPath)
	if err != nil {
		return config.ServiceConfig{}, fmt.Errorf("failed to load service config: %w", err)
	}
	return *cfg, nil
}

func telemetryConfig(cfg config.ServiceConfig) *telemetry.Config {
	tc := telemetry.DefaultConfig()
	tc.Logging.Level = cfg.LogLevel
	return tc
}

// buildOrchestrator wires the job backend selected by cfg.Backend. For
// the durable backend it also returns the paired *jobs.DurableWorker:
// stores.MemoryQueue is an in-process channel (see pkg/stores/queue.go),
// so until this deployment is backed by a real message broker, the
// worker loop that drains it has to run inside the same process as the
// API server rather than in the standalone cmd/worker binary. cleanup
// releases any opened resources (the SQLite handle).
func buildOrchestrator(ctx context.Context, cfg config.ServiceConfig) (jobs.Orchestrator, *jobs.DurableWorker, func(), error) {
	switch cfg.Backend {
	case config.JobBackendDurable:
		table, err := stores.NewSQLiteTable(stores.Config{Path: cfg.TablePath})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to construct table store: %w", err)
		}
		if err := table.Init(ctx); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to open job table: %w", err)
		}
		if err := table.Migrate(ctx); err != nil {
			_ = table.Close()
			return nil, nil, nil, fmt.Errorf("failed to migrate job table: %w", err)
		}

		blob, err := stores.NewFileBlob(cfg.BlobRoot)
		if err != nil {
			_ = table.Close()
			return nil, nil, nil, fmt.Errorf("failed to construct blob store: %w", err)
		}

		queue := stores.NewMemoryQueue(cfg.QueueDepth)
		orch := jobs.NewDurable(table, blob, queue, cfg.AsyncJobTTL)
		worker := jobs.NewDurableWorker(table, blob, queue)
		return orch, worker, func() { _ = table.Close() }, nil

	default:
		orch := jobs.NewInProcess(cfg.SolverWorkers, cfg.QueueDepth)
		return orch, nil, func() {}, nil
	}
}
