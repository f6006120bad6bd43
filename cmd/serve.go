package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	gpubsub "cloud.google.com/go/pubsub"
	gcsclient "cloud.google.com/go/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mwai-ops/doc-intel/internal/analysis"
	"github.com/mwai-ops/doc-intel/internal/analysis/azure"
	analysislocal "github.com/mwai-ops/doc-intel/internal/analysis/local"
	"github.com/mwai-ops/doc-intel/internal/api"
	"github.com/mwai-ops/doc-intel/internal/config"
	"github.com/mwai-ops/doc-intel/internal/extract"
	"github.com/mwai-ops/doc-intel/internal/journal"
	"github.com/mwai-ops/doc-intel/internal/progress"
	"github.com/mwai-ops/doc-intel/internal/progress/sinks"
	"github.com/mwai-ops/doc-intel/internal/publisher"
	publishermemory "github.com/mwai-ops/doc-intel/internal/publisher/memory"
	publisherpubsub "github.com/mwai-ops/doc-intel/internal/publisher/pubsub"
	"github.com/mwai-ops/doc-intel/internal/storage"
	"github.com/mwai-ops/doc-intel/internal/storage/gcs"
	storagelocal "github.com/mwai-ops/doc-intel/internal/storage/local"
	storagememory "github.com/mwai-ops/doc-intel/internal/storage/memory"
)

const shutdownGrace = 15 * time.Second

// newServeCmd creates the 'serve' subcommand, which runs the HTTP service.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Starts the extraction HTTP service",
		Long: `Runs the document extraction API: uploads, progress streaming over
SSE and WebSocket, run history, health, and Prometheus metrics.`,
		RunE: runServeCommand,
	}
}

func runServeCommand(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := buildServiceDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.close(logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promSink, err := sinks.NewPrometheusSink(registry)
	if err != nil {
		return fmt.Errorf("init prometheus sink: %w", err)
	}

	progressStore := progress.NewStore()
	orchestrator, err := extract.NewOrchestrator(extract.OrchestratorConfig{
		Analyzer:  deps.analyzer,
		Progress:  progressStore,
		Artifacts: deps.artifacts,
		Journal:   deps.journal,
		Publisher: deps.publisher,
		Topic:     cfg.Publisher.TopicName,
		Sinks: []progress.Sink{
			sinks.NewLogSink(logger.Named("progress")),
			promSink,
		},
		Driver: extract.Driver{
			Poll: time.Duration(cfg.Analysis.PollIntervalMs) * time.Millisecond,
			Emit: time.Duration(cfg.Analysis.EmitIntervalMs) * time.Millisecond,
		},
		Logger: logger.Named("extract"),
	})
	if err != nil {
		return fmt.Errorf("init orchestrator: %w", err)
	}

	streamer := progress.NewStreamer(progressStore, time.Duration(cfg.Stream.PollIntervalMs)*time.Millisecond)
	server := api.NewServer(orchestrator, progressStore, streamer, deps.journal, cfg, logger.Named("api"), registry)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Info("http server stopped")
	return nil
}

// serviceDeps holds the provider-selected collaborators plus their cleanup.
type serviceDeps struct {
	analyzer  analysis.Client
	artifacts storage.ArtifactStore
	journal   journal.Repository
	publisher publisher.Publisher

	closers []func() error
}

func (d *serviceDeps) close(logger *zap.Logger) {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			logger.Warn("dependency close failed", zap.Error(err))
		}
	}
}

func buildServiceDeps(ctx context.Context, cfg config.Config, logger *zap.Logger) (*serviceDeps, error) {
	deps := &serviceDeps{}

	analyzer, err := buildAnalyzer(cfg, logger)
	if err != nil {
		return nil, err
	}
	deps.analyzer = analyzer

	switch cfg.Storage.Provider {
	case "local":
		store, err := storagelocal.New(storagelocal.Config{BaseDir: cfg.Storage.BaseDir})
		if err != nil {
			return nil, fmt.Errorf("init local storage: %w", err)
		}
		deps.artifacts = store
	case "memory":
		deps.artifacts = storagememory.New()
	case "gcs":
		client, err := gcsclient.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("init gcs client: %w", err)
		}
		deps.closers = append(deps.closers, client.Close)
		store, err := gcs.New(client, gcs.Config{
			Bucket: cfg.Storage.GCSBucket,
			Prefix: cfg.Storage.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("init gcs storage: %w", err)
		}
		deps.artifacts = store
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Storage.Provider)
	}

	repo, repoCloser, err := buildJournal(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if repoCloser != nil {
		deps.closers = append(deps.closers, repoCloser)
	}
	deps.journal = repo

	switch cfg.Publisher.Provider {
	case "noop":
		deps.publisher = publisher.Noop{}
	case "memory":
		deps.publisher = publishermemory.New()
	case "pubsub":
		client, err := gpubsub.NewClient(ctx, cfg.Publisher.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("init pubsub client: %w", err)
		}
		deps.closers = append(deps.closers, client.Close)
		pub := publisherpubsub.New(client.Topic(cfg.Publisher.TopicName))
		deps.closers = append(deps.closers, func() error {
			pub.Stop()
			return nil
		})
		deps.publisher = pub
	default:
		return nil, fmt.Errorf("unknown publisher provider: %s", cfg.Publisher.Provider)
	}

	return deps, nil
}

func buildAnalyzer(cfg config.Config, logger *zap.Logger) (analysis.Client, error) {
	switch cfg.Analysis.Provider {
	case "azure":
		client, err := azure.New(azure.Config{
			Endpoint: cfg.Analysis.Endpoint,
			Key:      cfg.Analysis.Key,
			Model:    cfg.Analysis.Model,
		}, nil, logger.Named("azure"))
		if err != nil {
			return nil, fmt.Errorf("init azure client: %w", err)
		}
		return client, nil
	case "local":
		return analysislocal.New(), nil
	default:
		return nil, fmt.Errorf("unknown analysis provider: %s", cfg.Analysis.Provider)
	}
}

func buildJournal(ctx context.Context, cfg config.Config) (journal.Repository, func() error, error) {
	switch cfg.Journal.Provider {
	case "memory":
		return journal.NewMemory(), nil, nil
	case "postgres":
		repo, err := journal.NewPostgres(ctx, journal.PostgresConfig{DSN: cfg.Journal.DSN})
		if err != nil {
			return nil, nil, fmt.Errorf("init postgres journal: %w", err)
		}
		return repo, func() error {
			repo.Close()
			return nil
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown journal provider: %s", cfg.Journal.Provider)
	}
}

func syncLogger(logger *zap.Logger) {
	// Sync on stderr returns EINVAL on some platforms; nothing to do about it.
	_ = logger.Sync()
}
