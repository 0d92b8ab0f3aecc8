package lock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only if it still carries our token
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisClient is the subset of *redis.Client the lock needs
type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

var _ RedisClient = (*redis.Client)(nil)

// RedisLockerConfig tunes lease and wait behaviour
type RedisLockerConfig struct {
	Prefix        string
	TTL           time.Duration
	WaitTimeout   time.Duration
	RetryInterval time.Duration
}

// RedisLocker implements Locker with SET NX PX and a token-checked release
type RedisLocker struct {
	client RedisClient
	cfg    RedisLockerConfig
	logger *slog.Logger
}

func NewRedisLocker(client RedisClient, cfg RedisLockerConfig, logger *slog.Logger) *RedisLocker {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 50 * time.Millisecond
	}
	return &RedisLocker{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (Guard, error) {
	redisKey := l.cfg.Prefix + key
	token := uuid.NewString()

	var deadline <-chan time.Time
	if l.cfg.WaitTimeout > 0 {
		timer := time.NewTimer(l.cfg.WaitTimeout)
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(l.cfg.RetryInterval)
	defer ticker.Stop()

	for {
		acquired, err := l.client.SetNX(ctx, redisKey, token, l.cfg.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire redis lock %s: %w", key, err)
		}
		if acquired {
			l.logger.Debug("Acquired lock", "key", key)
			return &redisGuard{locker: l, key: redisKey, token: token}, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire lock %s: %w", key, ctx.Err())
		case <-deadline:
			l.logger.Warn("Timed out waiting for lock", "key", key, "wait_timeout", l.cfg.WaitTimeout.String())
			return nil, fmt.Errorf("acquire lock %s: %w", key, ErrLockTimeout)
		case <-ticker.C:
		}
	}
}

type redisGuard struct {
	locker *RedisLocker
	key    string
	token  string
	once   sync.Once
	err    error
}

func (g *redisGuard) Release(ctx context.Context) error {
	g.once.Do(func() {
		deleted, err := g.locker.client.Eval(ctx, releaseScript, []string{g.key}, g.token).Int64()
		if err != nil {
			g.locker.logger.Error("Failed to release lock", "key", g.key, "error", err)
			g.err = fmt.Errorf("failed to release redis lock %s: %w", g.key, err)
			return
		}
		if deleted == 0 {
			g.locker.logger.Warn("Lock lease expired before release", "key", g.key)
			g.err = fmt.Errorf("release %s: %w", g.key, ErrLockLost)
		}
	})
	return g.err
}
