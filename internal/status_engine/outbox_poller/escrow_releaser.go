package outbox_poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fiat-wallet-ledger/internal/domain/escrow"
	"github.com/fiat-wallet-ledger/internal/domain/outbox"
	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/fiat-wallet-ledger/internal/status_engine/service"
)

// EscrowReleaserImpl releases the hold behind an outbox message, then marks the message processed.
// Both steps are idempotent, so a release retried after a crash is safe.
type EscrowReleaserImpl struct {
	outboxRepo outbox.Repository
	escrowRepo escrow.Repository
	logger     *slog.Logger
}

func NewEscrowReleaser(
	outboxRepo outbox.Repository,
	escrowRepo escrow.Repository,
	logger *slog.Logger,
) service.EscrowReleaser {
	return &EscrowReleaserImpl{
		outboxRepo: outboxRepo,
		escrowRepo: escrowRepo,
		logger:     logger,
	}
}

func (r *EscrowReleaserImpl) Release(ctx context.Context, message *outbox.Message) error {
	req, err := message.ReleaseRequest()
	if err != nil {
		r.logger.Error("Failed to unmarshal release request from outbox payload",
			"outbox_id", message.ID, "transaction_id", message.TransactionID.String(), "error", err,
		)
		if updateErr := r.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			r.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error", "outbox_id", message.ID, "update_error", updateErr)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	logger := r.logger
	if req.CorrelationID != "" {
		logger = r.logger.With("correlation_id", req.CorrelationID)
	}

	if err := r.escrowRepo.Release(ctx, req.TransactionID); err != nil {
		return fmt.Errorf("failed to release escrow for %s: %w", req.TransactionID, err)
	}

	if err := r.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		logger.Error("Failed to update outbox message status to PROCESSED",
			"outbox_id", message.ID, "transaction_id", req.TransactionID.String(), "error", err,
		)
		return fmt.Errorf("escrow for %s released, but failed to mark outbox %d as PROCESSED: %w", req.TransactionID, message.ID, err)
	}

	logger.Info("Escrow released",
		"outbox_id", message.ID,
		"transaction_id", req.TransactionID.String(),
		"refund_transaction_id", req.RefundID.String(),
		"amount", req.Amount,
		"currency", req.Currency,
	)
	return nil
}
