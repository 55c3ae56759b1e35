// Package main implements the standalone durable-backend worker
// process: it consumes queued job ids, loads the persisted request,
// runs the lexicographic plan, and writes progress/result back through
// the same TableStore/BlobStore/Queue interfaces the API server's
// durable orchestrator uses (spec §4.6, §5 "one worker process per
// message").
//
// The bundled stores.MemoryQueue is an in-process channel (see
// pkg/stores/queue.go), so running this binary as a genuinely separate
// OS process only observes the jobs published into its own queue
// instance, not one owned by a concurrently running `farmplan serve`.
// It is wired against the same TableStore/BlobStore/Queue interfaces a
// real deployment would use, so pointing it at shared infrastructure
// (a network-backed queue, a shared SQLite file, a shared blob bucket)
// makes it a genuine separate-process worker without code changes; see
// cmd/farmplan/commands/serve.go for the in-process fallback this
// limitation forces today.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/openfroyo/farmplan/pkg/config"
	"github.com/openfroyo/farmplan/pkg/jobs"
	"github.com/openfroyo/farmplan/pkg/stores"
)

func main() {
	configPath := flag.String("config", "", "service config file path (CUE)")
	flag.Parse()

	setupLogging()

	cfg := config.DefaultServiceConfig()
	if *configPath != "" {
		loaded, err := config.LoadServiceConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load service config")
		}
		cfg = *loaded
	}
	if cfg.Backend != config.JobBackendDurable {
		log.Fatal().Str("backend", string(cfg.Backend)).Msg("worker requires backend=durable")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("received interrupt signal, draining in-flight job")
		cancel()
	}()

	table, err := stores.NewSQLiteTable(stores.Config{Path: cfg.TablePath})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct table store")
	}
	if err := table.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to open job table")
	}
	defer table.Close()
	if err := table.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate job table")
	}

	blob, err := stores.NewFileBlob(cfg.BlobRoot)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct blob store")
	}

	queue := stores.NewMemoryQueue(cfg.QueueDepth)
	worker := jobs.NewDurableWorker(table, blob, queue)

	log.Info().Str("table", cfg.TablePath).Str("blob_root", cfg.BlobRoot).Msg("worker starting")
	if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("worker loop exited")
	}
	log.Info().Msg("worker stopped")
}

func setupLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
