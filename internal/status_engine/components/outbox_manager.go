package components

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fiat-wallet-ledger/internal/domain/escrow"
	"github.com/fiat-wallet-ledger/internal/domain/outbox"
	"github.com/fiat-wallet-ledger/internal/domain/transaction"
	"github.com/fiat-wallet-ledger/internal/status_engine/service"
	"github.com/jackc/pgx/v5"
)

type OutboxManagerImpl struct {
	outboxRepo outbox.Repository
	logger     *slog.Logger
}

func NewOutboxManager(outboxRepo outbox.Repository, logger *slog.Logger) service.OutboxManager {
	return &OutboxManagerImpl{
		outboxRepo: outboxRepo,
		logger:     logger,
	}
}

// CreateReleaseEntry queues the escrow release for the refunded transaction inside tx
func (m *OutboxManagerImpl) CreateReleaseEntry(ctx context.Context, tx pgx.Tx, original *transaction.Transaction, refund *service.Refund, heldAmount int64) (*outbox.Message, error) {
	outboxRepoTx := m.outboxRepo.WithTx(tx)

	request := &escrow.ReleaseRequest{
		TransactionID: original.ID,
		RefundID:      refund.Entry.ID,
		UserID:        original.UserID,
		Currency:      original.Asset,
		Amount:        heldAmount,
		RequestedAt:   time.Now().UTC(),
	}

	outboxMessage, err := outbox.NewMessage(request)
	if err != nil {
		m.logger.Error("Failed to create new outbox message (marshal payload)",
			"transaction_id", original.ID.String(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to create outbox message payload for tx %s: %w", original.ID, err)
	}

	if err = outboxRepoTx.Create(ctx, outboxMessage); err != nil {
		m.logger.Error("Failed to create outbox message",
			"transaction_id", original.ID.String(),
			"user_id", original.UserID.String(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to create outbox message for tx %s: %w", original.ID, err)
	}
	m.logger.Info("Escrow release queued",
		"transaction_id", original.ID.String(),
		"outbox_id", outboxMessage.ID,
		"amount", heldAmount,
	)

	return outboxMessage, nil
}
