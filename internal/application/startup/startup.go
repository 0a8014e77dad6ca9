// Package startup handles application bootstrap and graceful shutdown.
package startup

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HearthApp/hearth-go/internal/application/container"
	"github.com/HearthApp/hearth-go/internal/infrastructure/caching/cleanup"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/logging"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/performance"
	"github.com/HearthApp/hearth-go/internal/infrastructure/persistence/database"
	"github.com/HearthApp/hearth-go/internal/presentation/http/server"
	"github.com/HearthApp/hearth-go/pkg/config"
	"github.com/getsentry/sentry-go"
)

const shutdownTimeout = 10 * time.Second

// Initialize boots the application and blocks until shutdown completes.
func Initialize() error {
	logger, err := buildLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Startup().Info("Starting Hearth analytics engine", "port", config.Port)

	if config.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              config.SentryDSN,
			AttachStacktrace: true,
		}); err != nil {
			logger.Startup().Warn("Sentry initialization failed", "error", err.Error())
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	perfTracker := performance.NewTracker()

	db, err := database.Connect(logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if config.LibSQLURL == "" {
		if err := database.NewTableCreator().CreateSchema(db.DB); err != nil {
			return fmt.Errorf("failed to create database schema: %w", err)
		}
	}

	appContainer := container.New(db, logger, perfTracker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupWorker := cleanup.NewWorker(appContainer.CacheManager, cleanup.NewConfigFromDefaults(), logger)
	go cleanupWorker.Start(ctx)

	srv := server.New(config.Port, appContainer)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Shutdown().Info("Received shutdown signal", "signal", sig.String())
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Shutdown().Info("Shutdown complete")
	return nil
}

func buildLogger() (*logging.ChanneledLogger, error) {
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = config.LogToFile
	cfg.LogDirectory = config.LogDirectory
	cfg.JSONFormat = config.LogJSONFormat
	return logging.NewChanneledLogger(cfg)
}
