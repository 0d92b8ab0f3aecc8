package components

import (
	"log/slog"
	"time"

	"github.com/fiat-wallet-ledger/internal/config"
	"github.com/fiat-wallet-ledger/internal/domain/directory"
	"github.com/fiat-wallet-ledger/internal/domain/escrow"
	"github.com/fiat-wallet-ledger/internal/domain/fiatwallet"
	"github.com/fiat-wallet-ledger/internal/domain/history"
	"github.com/fiat-wallet-ledger/internal/domain/notification"
	"github.com/fiat-wallet-ledger/internal/domain/outbox"
	"github.com/fiat-wallet-ledger/internal/domain/transaction"
	"github.com/fiat-wallet-ledger/internal/platform/lock"
	"github.com/fiat-wallet-ledger/internal/platform/messaging/producers"
	"github.com/fiat-wallet-ledger/internal/platform/persistence"
	"github.com/fiat-wallet-ledger/internal/status_engine/outbox_poller"
	"github.com/fiat-wallet-ledger/internal/status_engine/service"
)

// Repositories groups the stores the status services read and write
type Repositories struct {
	Transactions     transaction.Repository
	FiatTransactions fiatwallet.TransactionRepository
	Wallets          fiatwallet.WalletRepository
	Escrow           escrow.Repository
	Outbox           outbox.Repository
	History          history.Repository
	Inbox            notification.Inbox
	Users            directory.UserDirectory
	Profiles         directory.ProfileDirectory
}

// Publishers are the outbound notification topics
type Publishers struct {
	Push  producers.MessagePublisher
	Email producers.MessagePublisher
}

// StatusServices is everything the consumer and poller need
type StatusServices struct {
	Transactions     service.TransactionStatusService
	FiatTransactions service.FiatWalletTransactionStatusService
	Review           service.ReviewResolutionService
	Releaser         service.EscrowReleaser

	asyncNotifier *AsyncNotifier
}

// Shutdown drains queued notifications
func (s *StatusServices) Shutdown(timeout time.Duration) {
	if s.asyncNotifier != nil {
		s.asyncNotifier.Shutdown(timeout)
	}
}

// CreateStatusServices creates the status engines with all their dependencies.
func CreateStatusServices(
	locker lock.Locker,
	db persistence.TxExecutor,
	repos Repositories,
	publishers Publishers,
	logger *slog.Logger,
	cfg *config.Config,
) *StatusServices {
	composer := NewNotificationComposer(cfg.Notification.PrimaryCurrency, cfg.Notification.EmailTransactionTypes)
	dispatcher := NewNotificationDispatcher(repos.Inbox, publishers.Push, publishers.Email, logger.With("component", "notification_dispatcher"))
	baseNotifier := NewTransitionNotifier(composer, dispatcher, repos.Users, repos.Profiles, logger.With("component", "transition_notifier"))

	var notifier service.TransitionNotifier = baseNotifier
	asyncNotifier, err := NewAsyncNotifier(
		baseNotifier,
		AsyncNotifierConfig{
			Size:    cfg.WorkerPool.Size,
			Timeout: cfg.Notification.DispatchTimeout,
		},
		logger.With("component", "worker_pool"),
	)
	if err != nil {
		logger.Error("Failed to create notification worker pool, notifying inline", "error", err)
		asyncNotifier = nil
	} else {
		notifier = asyncNotifier
		logger.Info("Created notification worker pool", "pool_size", cfg.WorkerPool.Size)
	}

	historyRecorder := NewHistoryRecorder(repos.History, logger.With("component", "history_recorder"))

	txEngine := service.NewTransactionStatusService(locker, repos.Transactions, notifier, historyRecorder, logger.With("component", "transaction_status"))
	fiatEngine := service.NewFiatWalletTransactionStatusService(locker, repos.FiatTransactions, historyRecorder, logger.With("component", "fiat_wallet_transaction_status"))

	releaser := outbox_poller.NewEscrowReleaser(repos.Outbox, repos.Escrow, logger.With("component", "escrow_releaser"))
	review := service.NewReviewResolutionService(
		locker,
		db,
		repos.Transactions,
		repos.FiatTransactions,
		repos.Escrow,
		txEngine,
		fiatEngine,
		NewRefundManager(repos.Transactions, repos.FiatTransactions, repos.Wallets, logger),
		NewOutboxManager(repos.Outbox, logger),
		releaser,
		cfg.Review.ReconciliationCurrency,
		logger.With("component", "review_resolution"),
	)

	return &StatusServices{
		Transactions:     txEngine,
		FiatTransactions: fiatEngine,
		Review:           review,
		Releaser:         releaser,
		asyncNotifier:    asyncNotifier,
	}
}
