package cleanup

import (
	"context"
	"time"

	"github.com/HearthApp/hearth-go/internal/infrastructure/caching/interfaces"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/logging"
)

// Worker handles background cache cleanup operations
type Worker struct {
	cache  interfaces.ReportCache
	config *Config
	logger *logging.ChanneledLogger
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(cache interfaces.ReportCache, config *Config, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		cache:  cache,
		config: config,
		logger: logger,
	}
}

// Start begins the cleanup worker routine, using the configured interval.
// Blocks until the context is cancelled; run it in its own goroutine.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.Cache().Info("Cache cleanup worker started", "interval", w.config.CleanupInterval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Shutdown().Info("Cache cleanup worker stopping...")
			return
		case <-ticker.C:
			w.performCleanup()
		}
	}
}

func (w *Worker) performCleanup() {
	start := time.Now()
	removed := w.cache.PurgeExpired(time.Now().UTC())

	if removed > 0 {
		w.logger.Cache().Info("Cache cleanup finished", "removed", removed, "duration", time.Since(start))
	} else {
		w.logger.Cache().Debug("Cache cleanup completed - no expired items found", "duration", time.Since(start))
	}
}
