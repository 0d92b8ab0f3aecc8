package service

import (
	"context"

	"github.com/fiat-wallet-ledger/internal/domain/fiatwallet"
	"github.com/fiat-wallet-ledger/internal/domain/history"
	"github.com/fiat-wallet-ledger/internal/domain/notification"
	"github.com/fiat-wallet-ledger/internal/domain/outbox"
	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/fiat-wallet-ledger/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionStatusService moves generic ledger entries through their lifecycle.
type TransactionStatusService interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, target shared.TransactionStatus, metadata *shared.StatusMetadata, policy NotificationPolicy) (*transaction.Transaction, error)
}

// FiatWalletTransactionStatusService moves wallet-provider legs through their lifecycle.
// Wallet legs never notify the user; their linked Transaction does.
type FiatWalletTransactionStatusService interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, target shared.TransactionStatus, metadata *shared.StatusMetadata) (*fiatwallet.Transaction, error)
}

// ReviewResolutionService resolves entries parked in REVIEW by an operator.
type ReviewResolutionService interface {
	UpdateInReviewTransactionStatus(ctx context.Context, id uuid.UUID, target shared.TransactionStatus, metadata *shared.StatusMetadata) (*transaction.Transaction, error)
}

// TransitionNotifier receives every genuine status change of a Transaction.
// Implementations must not block on or return delivery failures.
type TransitionNotifier interface {
	NotifyTransition(ctx context.Context, transition *Transition, policy NotificationPolicy)
}

// NotificationDispatcher hands instructions to the delivery channels
type NotificationDispatcher interface {
	NotifyInApp(ctx context.Context, instruction *notification.Instruction) error
	NotifyPush(ctx context.Context, instruction *notification.PushInstruction) error
	SendEmail(ctx context.Context, instruction *notification.EmailInstruction) error
}

// HistoryRecorder appends to the status audit trail, best-effort
type HistoryRecorder interface {
	Record(ctx context.Context, event *history.StatusEvent)
}

// EscrowReleaser releases the hold named by an outbox message and marks the message processed
type EscrowReleaser interface {
	Release(ctx context.Context, message *outbox.Message) error
}

// RefundManager writes the compensating entries and credits the wallet inside tx
type RefundManager interface {
	CreateRefund(ctx context.Context, tx pgx.Tx, original *transaction.Transaction, originalLeg *fiatwallet.Transaction, held int64) (*Refund, error)
}

// OutboxManager queues the escrow release so it survives a crash after commit
type OutboxManager interface {
	CreateReleaseEntry(ctx context.Context, tx pgx.Tx, original *transaction.Transaction, refund *Refund, heldAmount int64) (*outbox.Message, error)
}

// Refund groups the entries written for one compensated transaction
type Refund struct {
	Entry  *transaction.Transaction
	Leg    *fiatwallet.Transaction
	Wallet *fiatwallet.Wallet
}
