package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kurihiro0119/portfolio-manifest/internal/aggregator"
	"github.com/kurihiro0119/portfolio-manifest/internal/api"
	"github.com/kurihiro0119/portfolio-manifest/internal/config"
	"github.com/kurihiro0119/portfolio-manifest/internal/logging"
	"github.com/kurihiro0119/portfolio-manifest/internal/manifest"
	"github.com/kurihiro0119/portfolio-manifest/internal/storage"
	"github.com/kurihiro0119/portfolio-manifest/internal/storage/postgres"
	"github.com/kurihiro0119/portfolio-manifest/internal/storage/sqlite"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize the project source
	source, closeSource, err := newSource(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize project source", "error", err)
		os.Exit(1)
	}
	defer closeSource()

	agg := aggregator.NewAggregator(source)
	handler := api.NewHandler(agg)
	router := api.SetupRoutes(handler, logger, prometheus.NewRegistry())

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	server := &http.Server{Addr: addr, Handler: router}

	go func() {
		logger.Info("starting API server", "addr", addr, "storage", cfg.StorageType)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
}

// newSource returns the mirror database when one is configured, otherwise
// the manifest file reloaded on change
func newSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.ProjectReader, func(), error) {
	var store storage.Storage
	var err error

	switch cfg.StorageType {
	case "postgres":
		store, err = postgres.NewPostgresStorage(cfg.PostgresURL)
	case "sqlite":
		store, err = sqlite.NewSQLiteStorage(cfg.SQLitePath)
	default:
		fs, err := manifest.NewFileSource(cfg.ManifestPath, cfg.ManifestOwner, logger)
		if err != nil {
			return nil, nil, err
		}
		go func() {
			if err := fs.Watch(ctx); err != nil {
				logger.Warn("manifest watcher stopped", "path", cfg.ManifestPath, "error", err)
			}
		}()
		return fs, func() {}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}
