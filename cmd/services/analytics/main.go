package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gradelens/gradelens/internal/compression"
	"github.com/gradelens/gradelens/internal/config"
	"github.com/gradelens/gradelens/internal/logging"
	"github.com/gradelens/gradelens/internal/metrics"
	"github.com/gradelens/gradelens/internal/queue"
	"github.com/gradelens/gradelens/internal/router"
	"github.com/gradelens/gradelens/internal/services"
	"github.com/gradelens/gradelens/internal/utils"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Analytics service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
		logger.Info("Metrics enabled", "path", cfg.Metrics.Path)
	}

	events, err := newEventPublisher(cfg, logger, m)
	if err != nil {
		logger.Fatal("Failed to set up analytics events", "error", err)
	}
	defer func() { _ = events.Close() }()

	// Log authentication status
	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	svc := services.NewAnalyticsService(logger, m, events, cfg.GPAScale(), cfg.Grading.Decimals)
	app := router.New(logger, svc, m, *cfg, Version)

	// Start server in goroutine
	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), utils.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

// newEventPublisher connects the configured queue. Disabled events yield a
// publisher that drops everything.
func newEventPublisher(cfg *config.Config, logger *logging.Logger, m *metrics.Metrics) (*services.EventPublisher, error) {
	if !cfg.Events.Enabled {
		logger.Info("Analytics events disabled")
		return services.NewEventPublisher(nil, nil, cfg.Events.SubjectPrefix, logger, m), nil
	}

	algo, err := compression.ParseAlgorithm(cfg.Events.Compression)
	if err != nil {
		return nil, err
	}
	compressor, err := compression.GetCompressor(algo)
	if err != nil {
		return nil, err
	}

	logger.Info("Connecting to Queue", "type", cfg.Events.Type, "url", cfg.Events.URL)
	queueClient, err := queue.NewQueue(cfg.Events)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to queue: %w", err)
	}
	logger.Info("Queue connection established",
		"subject_prefix", cfg.Events.SubjectPrefix, "compression", algo.String())

	return services.NewEventPublisher(queueClient, compressor, cfg.Events.SubjectPrefix, logger, m), nil
}
