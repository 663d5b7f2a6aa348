// Package retention prunes stored submissions older than a configured TTL.
package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/ashureev/widget-assist/internal/shared"
)

// DefaultInterval is how often the worker sweeps.
const DefaultInterval = 5 * time.Minute

const (
	sweepMaxRetries = 3
	sweepBaseDelay  = 100 * time.Millisecond
)

// Pruner is the store capability the worker needs.
type Pruner interface {
	DeleteSubmissionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Worker periodically deletes submissions older than TTL.
type Worker struct {
	store    Pruner
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// NewWorker creates a retention worker. A non-positive interval uses DefaultInterval.
func NewWorker(store Pruner, ttl, interval time.Duration, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Worker{store: store, ttl: ttl, interval: interval, now: time.Now, logger: logger}
}

// Start runs the sweep loop in a goroutine until ctx is canceled.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	go func() {
		defer ticker.Stop()
		w.logger.Info("Retention worker started", "interval", w.interval, "ttl", w.ttl)

		for {
			select {
			case <-ticker.C:
				w.Sweep(ctx)
			case <-ctx.Done():
				w.logger.Info("Retention worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

// Sweep deletes expired submissions once and returns how many were removed.
// Busy or locked databases are retried with exponential backoff.
func (w *Worker) Sweep(ctx context.Context) int64 {
	cutoff := w.now().Add(-w.ttl)

	for i := 0; i < sweepMaxRetries; i++ {
		deleted, err := w.store.DeleteSubmissionsBefore(ctx, cutoff)
		if err == nil {
			if deleted > 0 {
				w.logger.Info("Retention worker pruned submissions", "count", deleted)
			}
			return deleted
		}

		if !shared.IsSQLiteConflictError(err) || i == sweepMaxRetries-1 {
			w.logger.Error("Retention worker failed to prune submissions", "error", err, "attempt", i+1)
			return 0
		}

		delay := sweepBaseDelay * time.Duration(1<<i) // 100ms, 200ms
		w.logger.Debug("Retention sweep hit SQLITE_BUSY, retrying", "attempt", i+1, "delay", delay)

		select {
		case <-ctx.Done():
			w.logger.Debug("Retention sweep canceled", "error", ctx.Err())
			return 0
		case <-time.After(delay):
		}
	}

	return 0
}
