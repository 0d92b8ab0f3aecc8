// Package config loads and validates the status engine's environment-based configuration.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config holds the complete application configuration. Every section is
// validated once at startup.
type Config struct {
	Application  ApplicationConfig
	Logging      LoggingConfig
	Server       ServerConfig
	Kafka        KafkaConfig
	Postgres     PostgresConfig
	MongoDB      MongoDBConfig
	Redis        RedisConfig
	Lock         LockConfig
	Outbox       OutboxConfig
	WorkerPool   WorkerPoolConfig
	Notification NotificationConfig
	Review       ReviewConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig configures the ops HTTP server (health and readiness)
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ReadyTimeout    time.Duration // Upper bound for all readiness probes together
}

// KafkaConfig contains Kafka configuration
type KafkaConfig struct {
	Brokers           string
	StatusTopic       string // Inbound status update requests
	PushTopic         string // Outbound push instructions
	EmailTopic        string // Outbound email instructions
	NumPartitions     int
	ReplicationFactor int
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	DLQTopic          string
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LockConfig controls per-entry mutual exclusion
type LockConfig struct {
	Backend       string        // "redis" or "memory"
	TTL           time.Duration // Lease length of a Redis lock
	WaitTimeout   time.Duration // Longest time a caller waits to acquire
	RetryInterval time.Duration // Poll interval while waiting on Redis
}

// OutboxConfig contains escrow release outbox configuration
type OutboxConfig struct {
	PollingInterval  time.Duration
	BatchSize        int
	MaxRetryAttempts int
}

// WorkerPoolConfig sizes the side-effect dispatch pool
type WorkerPoolConfig struct {
	Size int
}

// NotificationConfig controls which transitions produce emails
type NotificationConfig struct {
	PrimaryCurrency       string
	EmailTransactionTypes []string
	DispatchTimeout       time.Duration
}

// ReviewConfig configures manual review resolution
type ReviewConfig struct {
	ReconciliationCurrency string
}

const (
	LockBackendRedis  = "redis"
	LockBackendMemory = "memory"
)

// validate checks every section and reports all violations at once
func (c *Config) validate() error {
	var validationErrors []string

	// Server
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadyTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READY_TIMEOUT must be greater than 0")
	}

	// Kafka
	if len(c.Kafka.Brokers) == 0 {
		validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
	}
	if c.Kafka.StatusTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_STATUS_TOPIC is required")
	}
	if c.Kafka.PushTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_PUSH_TOPIC is required")
	}
	if c.Kafka.EmailTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_EMAIL_TOPIC is required")
	}
	if c.Kafka.ConsumerGroup == "" {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_GROUP is required")
	}
	if c.Kafka.MinBytes <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
	}
	if c.Kafka.MaxBytes <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_BYTES must be greater than 0")
	}
	if c.Kafka.MaxWait <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
	}
	if c.Kafka.DLQTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_DLQ_TOPIC is required")
	}

	// PostgreSQL
	if c.Postgres.URL == "" {
		validationErrors = append(validationErrors, "POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.Postgres.ConnMaxLifetime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.Postgres.ConnMaxIdleTime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// MongoDB
	if c.MongoDB.URI == "" {
		validationErrors = append(validationErrors, "MONGO_URI is required")
	}
	if c.MongoDB.Database == "" {
		validationErrors = append(validationErrors, "MONGO_DATABASE is required")
	}
	if c.MongoDB.Timeout <= 0 {
		validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
	}
	if c.MongoDB.MaxPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MinPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MIN_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MaxConnIdleTime <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Lock and Redis
	switch c.Lock.Backend {
	case LockBackendRedis:
		if c.Redis.Addr == "" {
			validationErrors = append(validationErrors, "REDIS_ADDR is required when LOCK_BACKEND is redis")
		}
		if c.Lock.TTL <= 0 {
			validationErrors = append(validationErrors, "LOCK_TTL must be greater than 0")
		}
		if c.Lock.RetryInterval <= 0 {
			validationErrors = append(validationErrors, "LOCK_RETRY_INTERVAL must be greater than 0")
		}
	case LockBackendMemory:
	default:
		validationErrors = append(validationErrors, "LOCK_BACKEND must be one of redis, memory")
	}
	if c.Lock.WaitTimeout <= 0 {
		validationErrors = append(validationErrors, "LOCK_WAIT_TIMEOUT must be greater than 0")
	}

	// Outbox
	if c.Outbox.PollingInterval <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_POLLING_INTERVAL must be greater than 0")
	}
	if c.Outbox.BatchSize <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_BATCH_SIZE must be greater than 0")
	}
	if c.Outbox.MaxRetryAttempts <= 0 {
		validationErrors = append(validationErrors, "OUTBOX_MAX_RETRY_ATTEMPTS must be greater than 0")
	}

	// WorkerPool
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	// Notification and review
	if len(c.Notification.PrimaryCurrency) != 3 {
		validationErrors = append(validationErrors, "NOTIFICATION_PRIMARY_CURRENCY must be a 3-letter code")
	}
	if c.Notification.DispatchTimeout <= 0 {
		validationErrors = append(validationErrors, "NOTIFICATION_DISPATCH_TIMEOUT must be greater than 0")
	}
	if len(c.Review.ReconciliationCurrency) != 3 {
		validationErrors = append(validationErrors, "REVIEW_RECONCILIATION_CURRENCY must be a 3-letter code")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
