package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/fiat-wallet-ledger/internal/logger"
	"github.com/fiat-wallet-ledger/internal/platform/lock"
	"github.com/fiat-wallet-ledger/internal/platform/messaging/producers"
	"github.com/fiat-wallet-ledger/internal/status_engine/service"
)

// StatusEventHandler applies status update requests consumed from Kafka
type StatusEventHandler struct {
	transactions     service.TransactionStatusService
	fiatTransactions service.FiatWalletTransactionStatusService
	producer         producers.DeadLetterPublisher
	logger           *slog.Logger
}

func NewStatusEventHandler(
	logger *slog.Logger,
	transactions service.TransactionStatusService,
	fiatTransactions service.FiatWalletTransactionStatusService,
	producer producers.DeadLetterPublisher,
) *StatusEventHandler {
	return &StatusEventHandler{
		transactions:     transactions,
		fiatTransactions: fiatTransactions,
		producer:         producer,
		logger:           logger,
	}
}

// HandleMessage returns nil to commit the offset. Requests that can never succeed are
// parked on the DLQ and committed; everything else is left for redelivery.
func (h *StatusEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var request shared.StatusUpdateRequest
	if err := json.Unmarshal(value, &request); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal status update request from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)
		return h.deadLetter(ctx, h.logger, key, value, fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error()), err)
	}

	log := logger.WithCorrelation(h.logger, request.CorrelationID).With(
		"entry_kind", string(request.EntryKind),
		"entry_id", request.EntryID.String(),
	)

	if err := request.Validate(); err != nil {
		log.Warn("Rejected status update request", "status", string(request.Status), "error", err)
		return h.deadLetter(ctx, log, key, value, err.Error(), err)
	}

	log.Info("Received status update request",
		"status", string(request.Status),
		"requested_at", request.RequestedAt,
	)

	err := h.apply(ctx, &request)
	switch {
	case err == nil:
		log.Info("Applied status update request", "status", string(request.Status))
		return nil
	case shared.IsNotFound(err), shared.IsInvalidOperation(err):
		log.Warn("Status update request cannot be applied", "status", string(request.Status), "error", err)
		return h.deadLetter(ctx, log, key, value, err.Error(), err)
	case lock.IsTimeout(err):
		log.Warn("Entry busy, leaving status update for redelivery", "status", string(request.Status))
		return fmt.Errorf("status update for %s %s deferred: %w", request.EntryKind, request.EntryID, err)
	default:
		log.Error("Failed to apply status update request", "status", string(request.Status), "error", err)
		return fmt.Errorf("status update for %s %s failed: %w", request.EntryKind, request.EntryID, err)
	}
}

func (h *StatusEventHandler) apply(ctx context.Context, request *shared.StatusUpdateRequest) error {
	switch request.EntryKind {
	case shared.EntryKindTransaction:
		_, err := h.transactions.UpdateStatus(ctx, request.EntryID, request.Status, request.StatusMetadata(), service.NotifyAll)
		return err
	case shared.EntryKindFiatWalletTransaction:
		_, err := h.fiatTransactions.UpdateStatus(ctx, request.EntryID, request.Status, request.StatusMetadata())
		return err
	}
	return shared.NewInvalidOperation("unknown entry kind %q", request.EntryKind)
}

// deadLetter parks the raw message. It returns nil when the message may be committed.
func (h *StatusEventHandler) deadLetter(ctx context.Context, log *slog.Logger, key, value []byte, reason string, cause error) error {
	if h.producer == nil {
		log.Warn("DLQ not configured, dropping message", "message_key", string(key), "reason", reason)
		return nil
	}

	dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, reason)
	switch {
	case dlqErr == nil:
		log.Info("Published unprocessable message to DLQ", "message_key", string(key), "reason", reason)
		return nil
	case errors.Is(dlqErr, producers.ErrDLQDisabled):
		log.Warn("DLQ disabled, dropping message", "message_key", string(key), "reason", reason)
		return nil
	}

	log.Error("Failed to publish message to DLQ",
		"dlq_error", dlqErr,
		"original_error", cause,
		"message_key", string(key),
	)
	return fmt.Errorf("failed to dead-letter message: %w", cause)
}
