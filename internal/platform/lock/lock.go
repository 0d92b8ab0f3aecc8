// Package lock provides per-key mutual exclusion, in-process or across processes via Redis.
package lock

import (
	"context"
	"errors"
)

var (
	// ErrLockTimeout is returned when the lock could not be acquired within the wait bound.
	// Callers should treat it as retryable.
	ErrLockTimeout = errors.New("timed out waiting for lock")
	// ErrLockLost is returned on release when the lease had already expired or moved to another holder.
	ErrLockLost = errors.New("lock no longer held")
)

// Guard is held while the lock is owned. Release is safe to call more than once.
type Guard interface {
	Release(ctx context.Context) error
}

// Locker hands out exclusive guards per key
type Locker interface {
	Acquire(ctx context.Context, key string) (Guard, error)
}

// WithLock runs fn while holding key and returns fn's result.
// The lock is released on every exit path, including panics. Release failures are
// reported by the Locker implementation and do not override fn's outcome.
func WithLock[T any](ctx context.Context, locker Locker, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	guard, err := locker.Acquire(ctx, key)
	if err != nil {
		var zero T
		return zero, err
	}
	defer func() {
		_ = guard.Release(context.WithoutCancel(ctx))
	}()

	return fn(ctx)
}

// IsTimeout reports whether err came from a bounded wait expiring
func IsTimeout(err error) bool {
	return errors.Is(err, ErrLockTimeout)
}
