package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fiat-wallet-ledger/internal/domain/fiatwallet"
	"github.com/fiat-wallet-ledger/internal/domain/history"
	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/fiat-wallet-ledger/internal/platform/lock"
	"github.com/google/uuid"
)

type FiatWalletTransactionStatusServiceImpl struct {
	locker  lock.Locker
	repo    fiatwallet.TransactionRepository
	history HistoryRecorder
	logger  *slog.Logger
	now     func() time.Time
}

func NewFiatWalletTransactionStatusService(
	locker lock.Locker,
	repo fiatwallet.TransactionRepository,
	history HistoryRecorder,
	logger *slog.Logger,
) *FiatWalletTransactionStatusServiceImpl {
	return &FiatWalletTransactionStatusServiceImpl{
		locker:  locker,
		repo:    repo,
		history: history,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// UpdateStatus follows the same rules as the Transaction engine and also honours provider_request_ref
func (s *FiatWalletTransactionStatusServiceImpl) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	target shared.TransactionStatus,
	metadata *shared.StatusMetadata,
) (*fiatwallet.Transaction, error) {
	if !target.IsValid() {
		return nil, shared.NewInvalidOperation("unknown status %q", target)
	}

	var previous shared.TransactionStatus
	var changed bool
	updated, err := lock.WithLock(ctx, s.locker, shared.EntryKindFiatWalletTransaction.StatusLockKey(id),
		func(ctx context.Context) (*fiatwallet.Transaction, error) {
			current, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			previous = current.Status

			var applied *fiatwallet.Transaction
			applied, changed, err = s.applyTransition(ctx, s.repo, current, target, metadata)
			return applied, err
		})
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("Failed to update fiat wallet transaction status",
				"fiat_wallet_transaction_id", id.String(),
				"target_status", string(target),
				"error", err,
			)
		}
		return nil, err
	}

	if changed {
		s.logger.Info("Fiat wallet transaction status changed",
			"fiat_wallet_transaction_id", id.String(),
			"transaction_id", updated.TransactionID.String(),
			"from_status", string(previous),
			"to_status", string(updated.Status),
		)
		s.recordHistory(ctx, updated, previous)
	}

	return updated, nil
}

func (s *FiatWalletTransactionStatusServiceImpl) applyTransition(
	ctx context.Context,
	repo fiatwallet.TransactionRepository,
	current *fiatwallet.Transaction,
	target shared.TransactionStatus,
	metadata *shared.StatusMetadata,
) (*fiatwallet.Transaction, bool, error) {
	plan := planTransition(current.Status, target, current.ProviderMetadata, metadata, s.now(), true)
	if plan.changes.IsEmpty() {
		return current, false, nil
	}

	updated, err := repo.Update(ctx, current.ID, plan.changes)
	if err != nil {
		return nil, false, err
	}
	return updated, plan.statusChanged, nil
}

func (s *FiatWalletTransactionStatusServiceImpl) recordHistory(ctx context.Context, entry *fiatwallet.Transaction, previous shared.TransactionStatus) {
	event := &history.StatusEvent{
		EntryKind:  shared.EntryKindFiatWalletTransaction,
		EntryID:    entry.ID,
		UserID:     entry.UserID,
		FromStatus: previous,
		ToStatus:   entry.Status,
		Amount:     entry.Amount,
		Asset:      entry.Currency,
		OccurredAt: s.now(),
	}
	if entry.FailureReason != nil {
		event.FailureReason = *entry.FailureReason
	}
	s.history.Record(ctx, event)
}
