// Package cleanup provides background worker
package cleanup

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Purger is a cache that can drop its expired entries
type Purger interface {
	SummarySource
	PurgeExpired() int
}

// Worker handles background cache cleanup operations
type Worker struct {
	cache    Purger
	config   *Config
	logger   *slog.Logger
	reporter *Reporter
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(cache Purger, config *Config, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		cache:    cache,
		config:   config,
		logger:   logger,
		reporter: NewReporter(cache),
	}
}

// Start begins the cleanup worker routine, using the configured interval
func (w *Worker) Start(ctx context.Context) {
	interval := w.config.CleanupInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.Info("Cache cleanup worker started", "interval", interval, "verbose", w.config.VerboseReporting)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Cache cleanup worker stopping")
			return
		case <-ticker.C:
			w.RunOnce()
		}
	}
}

// RunOnce performs a single sweep and returns how many entries were removed
func (w *Worker) RunOnce() int {
	start := time.Now()

	if w.config.VerboseReporting {
		w.reporter.LogStage("PERIODIC CACHE CLEANUP")
		io.WriteString(w.reporter.out, w.reporter.GenerateCacheReport())
	}

	cleaned := w.cache.PurgeExpired()
	duration := time.Since(start)

	if cleaned > 0 {
		w.logger.Info("Cache cleanup finished", "cleaned", cleaned, "duration", duration)
	} else {
		w.logger.Debug("Cache cleanup completed - no expired items found", "duration", duration)
	}
	return cleaned
}
