package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/panjf2000/ants/v2"
)

const (
	sendTimeout     = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// PoolDispatcher runs sends on a bounded ants worker pool so that a slow
// or failing SMS gateway never blocks the request path.
type PoolDispatcher struct {
	logger *slog.Logger
	sender Sender
	pool   *ants.Pool
}

// PoolConfig sizes the dispatch pool
type PoolConfig struct {
	Size int
}

// NewPoolDispatcher creates a dispatcher backed by a worker pool
func NewPoolDispatcher(logger *slog.Logger, sender Sender, cfg PoolConfig) (*PoolDispatcher, error) {
	pool, err := ants.NewPool(cfg.Size)
	if err != nil {
		return nil, err
	}

	return &PoolDispatcher{
		logger: logger,
		sender: sender,
		pool:   pool,
	}, nil
}

// Dispatch hands the message to the pool and returns. A saturated pool
// briefly blocks until a worker frees, never for a full gateway timeout.
// If the pool rejects the task the message is dropped with a log line;
// notification delivery is best-effort by contract.
func (d *PoolDispatcher) Dispatch(msg Message) {
	err := d.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := d.sender.Send(ctx, msg); err != nil {
			d.logger.Error("Failed to send notification", "to", msg.To, "error", err)
		}
	})
	if err != nil {
		d.logger.Error("Failed to submit notification to worker pool", "to", msg.To, "error", err)
	}
}

// Shutdown drains in-flight sends and releases the worker pool
func (d *PoolDispatcher) Shutdown() {
	d.logger.Info("Shutting down notification dispatcher", "running_workers", d.pool.Running())
	if err := d.pool.ReleaseTimeout(shutdownTimeout); err != nil {
		d.logger.Warn("Notification pool did not drain in time", "error", err)
	}
}

// Running returns the number of in-flight sends
func (d *PoolDispatcher) Running() int {
	return d.pool.Running()
}
