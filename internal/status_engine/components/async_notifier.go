package components

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fiat-wallet-ledger/internal/status_engine/service"
	"github.com/panjf2000/ants/v2"
)

// AsyncNotifier runs notifications on a bounded worker pool so a transition never waits on delivery
type AsyncNotifier struct {
	next    service.TransitionNotifier
	pool    *ants.Pool
	timeout time.Duration
	logger  *slog.Logger
}

type AsyncNotifierConfig struct {
	Size    int
	Timeout time.Duration
}

func NewAsyncNotifier(next service.TransitionNotifier, config AsyncNotifierConfig, logger *slog.Logger) (*AsyncNotifier, error) {
	if config.Size <= 0 {
		return nil, fmt.Errorf("notification pool size must be positive, got %d", config.Size)
	}
	pool, err := ants.NewPool(config.Size,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(p interface{}) {
			logger.Error("Recovered panic in notification worker", "panic", fmt.Sprint(p))
		}),
	)
	if err != nil {
		return nil, err
	}

	return &AsyncNotifier{
		next:    next,
		pool:    pool,
		timeout: config.Timeout,
		logger:  logger,
	}, nil
}

// NotifyTransition submits the notification and returns immediately.
// The work runs on a context detached from the caller's cancellation.
func (n *AsyncNotifier) NotifyTransition(ctx context.Context, transition *service.Transition, policy service.NotificationPolicy) {
	detached := context.WithoutCancel(ctx)

	err := n.pool.Submit(func() {
		taskCtx, cancel := context.WithTimeout(detached, n.timeout)
		defer cancel()
		n.next.NotifyTransition(taskCtx, transition, policy)
	})
	if err != nil {
		n.logger.Error("Failed to submit notification to worker pool",
			"user_id", transition.Entry.UserID.String(),
			"transaction_id", transition.Entry.ID.String(),
			"error", err,
		)
	}
}

// Shutdown waits up to timeout for queued notifications to finish
func (n *AsyncNotifier) Shutdown(timeout time.Duration) {
	n.logger.Info("Shutting down notification pool", "running_workers", n.pool.Running())
	if err := n.pool.ReleaseTimeout(timeout); err != nil {
		n.logger.Warn("Notification pool did not drain in time", "error", err)
	}
}

// Running returns the number of running workers in the pool.
func (n *AsyncNotifier) Running() int {
	return n.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (n *AsyncNotifier) Capacity() int {
	return n.pool.Cap()
}
