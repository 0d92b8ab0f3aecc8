package producers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fiat-wallet-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

const (
	topicReadAttempts = 5
	topicReadBackoff  = 2 * time.Second
)

// topicConfigFor applies the configured partitioning to one of the engine's topics.
// Unset values fall back to a single partition and replica.
func topicConfigFor(cfg *config.KafkaConfig, topic string) kafka.TopicConfig {
	tc := kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     cfg.NumPartitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}
	if tc.NumPartitions <= 0 {
		tc.NumPartitions = 1
	}
	if tc.ReplicationFactor <= 0 {
		tc.ReplicationFactor = 1
	}
	return tc
}

// ensureTopic creates the status, instruction or DLQ topic when the broker does not report it
func ensureTopic(admin topicAdmin, tc kafka.TopicConfig, attempts int, backoff time.Duration, log *slog.Logger) error {
	var partitions []kafka.Partition
	var err error

	for attempt := 1; attempt <= attempts; attempt++ {
		partitions, err = admin.ReadPartitions(tc.Topic)
		if err == nil {
			break
		}
		log.Warn("Failed to read topic partitions", "topic", tc.Topic, "attempt", attempt, "error", err)
		if attempt < attempts {
			time.Sleep(backoff)
		}
	}

	if len(partitions) > 0 {
		if err != nil {
			log.Warn("Topic exists but last partition read failed", "topic", tc.Topic, "error", err)
		}
		return nil
	}

	log.Info("Creating Kafka topic",
		"topic", tc.Topic,
		"partitions", tc.NumPartitions,
		"replication_factor", tc.ReplicationFactor,
		"last_read_error", err,
	)
	if err := admin.CreateTopics(tc); err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", tc.Topic, err)
	}
	return nil
}
