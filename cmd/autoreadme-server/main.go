// Package main provides the autoreadme API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raphaelgruber/autoreadme/internal/config"
	"github.com/raphaelgruber/autoreadme/internal/fetch"
	"github.com/raphaelgruber/autoreadme/internal/llm"
	"github.com/raphaelgruber/autoreadme/internal/metrics"
	"github.com/raphaelgruber/autoreadme/internal/publish"
	"github.com/raphaelgruber/autoreadme/internal/server"
	"github.com/raphaelgruber/autoreadme/internal/service"
	"github.com/raphaelgruber/autoreadme/internal/store"
)

func main() {
	cfg := config.Load()

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("failed to close log file", "error", err)
		}
	}()
	slog.SetDefault(logger)

	slog.Info("starting autoreadme-server",
		"port", cfg.ServerPort,
		"store", cfg.StoreDriver,
		"llm_provider", cfg.LLMProvider)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := newStore(cfg)
	if err != nil {
		cancel()
		slog.Error("failed to open job store", "error", err)
		os.Exit(1)
	}

	model, err := llm.NewModel(ctx, cfg)
	if err != nil {
		cancel()
		slog.Error("failed to initialize LLM", "error", err)
		os.Exit(1)
	}

	publisher, err := publish.NewS3Publisher(ctx, cfg.AWSRegion, cfg.S3Bucket)
	cancel()
	if err != nil {
		slog.Error("failed to initialize publisher", "error", err)
		os.Exit(1)
	}

	mc := metrics.NewCollector()
	summarizer := service.NewFileSummarizer(model, cfg.SummarizeWorkers, cfg.SummarizeRetries, mc)
	pipeline := service.NewPipeline(st, fetch.NewGitFetcher(cfg.MaxFileBytes), summarizer, publisher, mc)
	manager := service.NewJobManager(st, pipeline, cfg.JobWorkers)

	srv := server.New(cfg.ServerPort, manager, mc, logger)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// newStore selects the job store driver from configuration.
func newStore(cfg config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		return store.OpenSQLite(cfg.StorePath)
	default:
		return store.NewMemoryStore(), nil
	}
}
