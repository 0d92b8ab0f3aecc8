package components

import (
	"log/slog"

	"github.com/fiat-wallet-ledger/internal/config"
	"github.com/fiat-wallet-ledger/internal/platform/lock"
)

// NewLocker picks the lock backend. A nil client forces the in-process locker.
func NewLocker(cfg *config.LockConfig, client lock.RedisClient, logger *slog.Logger) lock.Locker {
	if cfg.Backend == config.LockBackendRedis && client != nil {
		logger.Info("Using redis status locks", "ttl", cfg.TTL, "wait_timeout", cfg.WaitTimeout)
		return lock.NewRedisLocker(client, lock.RedisLockerConfig{
			Prefix:        "lock:",
			TTL:           cfg.TTL,
			WaitTimeout:   cfg.WaitTimeout,
			RetryInterval: cfg.RetryInterval,
		}, logger.With("component", "redis_locker"))
	}

	logger.Warn("Using in-process status locks; entries are not protected across instances")
	return lock.NewMemoryLocker(cfg.WaitTimeout)
}
