package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fiat-wallet-ledger/internal/config"
	"github.com/fiat-wallet-ledger/internal/data/mongo"
	"github.com/fiat-wallet-ledger/internal/data/postgres"
	"github.com/fiat-wallet-ledger/internal/logger"
	"github.com/fiat-wallet-ledger/internal/ops_server"
	opsservice "github.com/fiat-wallet-ledger/internal/ops_server/service"
	"github.com/fiat-wallet-ledger/internal/platform/lock"
	"github.com/fiat-wallet-ledger/internal/platform/messaging/consumers"
	"github.com/fiat-wallet-ledger/internal/platform/messaging/producers"
	"github.com/fiat-wallet-ledger/internal/platform/persistence"
	"github.com/fiat-wallet-ledger/internal/status_engine/components"
	"github.com/fiat-wallet-ledger/internal/status_engine/consumer"
	"github.com/fiat-wallet-ledger/internal/status_engine/outbox_poller"
	"github.com/redis/go-redis/v9"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("status_engine")
	if err != nil {
		// logger is not initialized yet
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Status Engine",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Lock.Backend == config.LockBackendRedis {
		redisClient, err = persistence.NewRedisClient(appCtx, log, &cfg.Redis)
		if err != nil {
			log.Error("Failed to initialize Redis", "error", err)
			os.Exit(1)
		}
	}

	var lockClient lock.RedisClient
	if redisClient != nil {
		lockClient = redisClient
	}
	locker := components.NewLocker(&cfg.Lock, lockClient, log)

	directoryRepo := postgres.NewDirectoryRepository(log, postgresDB)
	historyRepo := mongo.NewStatusHistoryRepository(log, mongoDB.Database())
	repos := components.Repositories{
		Transactions:     postgres.NewTransactionRepository(log, postgresDB),
		FiatTransactions: postgres.NewFiatWalletTransactionRepository(log, postgresDB),
		Wallets:          postgres.NewFiatWalletRepository(log, postgresDB),
		Escrow:           postgres.NewEscrowRepository(log, postgresDB),
		Outbox:           postgres.NewOutboxRepository(log, postgresDB),
		History:          historyRepo,
		Inbox:            mongo.NewNotificationRepository(log, mongoDB.Database()),
		Users:            directoryRepo,
		Profiles:         directoryRepo,
	}

	pushProducer, err := producers.NewTopicProducer(appCtx, log, &cfg.Kafka, cfg.Kafka.PushTopic)
	if err != nil {
		log.Error("Failed to initialize push Kafka producer", "error", err)
		os.Exit(1)
	}
	emailProducer, err := producers.NewTopicProducer(appCtx, log, &cfg.Kafka, cfg.Kafka.EmailTopic)
	if err != nil {
		log.Error("Failed to initialize email Kafka producer", "error", err)
		os.Exit(1)
	}
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}

	statusServices := components.CreateStatusServices(
		locker,
		postgresDB,
		repos,
		components.Publishers{Push: pushProducer, Email: emailProducer},
		log,
		cfg,
	)

	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)
	statusEventHandler := consumer.NewStatusEventHandler(
		log.With("component", "status_consumer"),
		statusServices.Transactions,
		statusServices.FiatTransactions,
		dlqProducer,
	)

	poller := outbox_poller.NewPoller(
		&cfg.Outbox,
		repos.Outbox,
		statusServices.Releaser,
		log.With("component", "outbox_poller"),
	)

	checks := map[string]opsservice.HealthCheck{
		"postgres": postgresDB.Ping,
		"mongo":    mongoDB.Ping,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	server := ops_server.NewServer(
		log,
		cfg,
		statusServices,
		opsservice.NewReadinessService(log, cfg.Server.ReadyTimeout, checks),
		opsservice.NewHistoryService(log, historyRepo),
	)

	errChan := make(chan error, 1)
	var wg sync.WaitGroup

	if err := kafkaConsumer.Subscribe(appCtx, cfg.Kafka.StatusTopic, cfg.Kafka.ConsumerGroup, statusEventHandler.HandleMessage); err != nil {
		log.Error("Failed to subscribe to status topic", "topic", cfg.Kafka.StatusTopic, "error", err)
		os.Exit(1)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Start(appCtx)
	}()

	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("ops server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	cancelAppCtx()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Starting graceful shutdown...")

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Error during ops server shutdown", "error", err)
	}

	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()
	select {
	case <-wgChan:
		log.Info("Outbox poller stopped")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	// Queued notifications still need their producers and Mongo
	statusServices.Shutdown(cfg.Server.ShutdownTimeout)

	var shutdownErr error
	if err := kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
		shutdownErr = err
	}
	for name, p := range map[string]producers.MessagePublisher{"push": pushProducer, "email": emailProducer} {
		if err := p.Close(); err != nil {
			log.Error("Error closing Kafka producer", "producer", name, "error", err)
			shutdownErr = err
		}
	}
	if dlqProducer != nil {
		if err := dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
			shutdownErr = err
		}
	}

	postgresDB.Close()

	if err := mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
		shutdownErr = err
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", "error", err)
			shutdownErr = err
		}
	}

	if serviceErr != nil || shutdownErr != nil {
		log.Error("Status Engine shutdown completed with errors", "service_error", serviceErr, "shutdown_error", shutdownErr)
		os.Exit(1)
	}
	log.Info("Status Engine shutdown completed successfully")
}
