package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fiat-wallet-ledger/internal/domain/history"
	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/fiat-wallet-ledger/internal/domain/transaction"
	"github.com/fiat-wallet-ledger/internal/platform/lock"
	"github.com/google/uuid"
)

type TransactionStatusServiceImpl struct {
	locker   lock.Locker
	txRepo   transaction.Repository
	notifier TransitionNotifier
	history  HistoryRecorder
	logger   *slog.Logger
	now      func() time.Time
}

func NewTransactionStatusService(
	locker lock.Locker,
	txRepo transaction.Repository,
	notifier TransitionNotifier,
	history HistoryRecorder,
	logger *slog.Logger,
) *TransactionStatusServiceImpl {
	return &TransactionStatusServiceImpl{
		locker:   locker,
		txRepo:   txRepo,
		notifier: notifier,
		history:  history,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// UpdateStatus moves the entry to target under its per-entry lock.
// Side effects run after the lock is released and only when the status actually changed.
func (s *TransactionStatusServiceImpl) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	target shared.TransactionStatus,
	metadata *shared.StatusMetadata,
	policy NotificationPolicy,
) (*transaction.Transaction, error) {
	if !target.IsValid() {
		return nil, shared.NewInvalidOperation("unknown status %q", target)
	}

	var previous shared.TransactionStatus
	var changed bool
	updated, err := lock.WithLock(ctx, s.locker, shared.EntryKindTransaction.StatusLockKey(id),
		func(ctx context.Context) (*transaction.Transaction, error) {
			current, err := s.txRepo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			previous = current.Status

			var applied *transaction.Transaction
			applied, changed, err = s.applyTransition(ctx, s.txRepo, current, target, metadata)
			return applied, err
		})
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("Failed to update transaction status",
				"transaction_id", id.String(),
				"target_status", string(target),
				"error", err,
			)
		}
		return nil, err
	}

	if changed {
		s.logger.Info("Transaction status changed",
			"transaction_id", id.String(),
			"from_status", string(previous),
			"to_status", string(updated.Status),
		)
		s.afterTransition(ctx, updated, previous, policy)
	}

	return updated, nil
}

// applyTransition persists the planned changes through repo without taking the lock.
// The refund path calls it with a tx-bound repository.
func (s *TransactionStatusServiceImpl) applyTransition(
	ctx context.Context,
	repo transaction.Repository,
	current *transaction.Transaction,
	target shared.TransactionStatus,
	metadata *shared.StatusMetadata,
) (*transaction.Transaction, bool, error) {
	plan := planTransition(current.Status, target, current.Metadata, metadata, s.now(), false)
	if plan.changes.IsEmpty() {
		s.logger.Debug("Ignoring status update for terminal transaction",
			"transaction_id", current.ID.String(),
			"status", string(current.Status),
			"target_status", string(target),
		)
		return current, false, nil
	}

	updated, err := repo.Update(ctx, current.ID, plan.changes)
	if err != nil {
		return nil, false, err
	}
	return updated, plan.statusChanged, nil
}

// afterTransition records history and hands the change to the notifier
func (s *TransactionStatusServiceImpl) afterTransition(
	ctx context.Context,
	entry *transaction.Transaction,
	previous shared.TransactionStatus,
	policy NotificationPolicy,
) {
	event := &history.StatusEvent{
		EntryKind:  shared.EntryKindTransaction,
		EntryID:    entry.ID,
		UserID:     entry.UserID,
		FromStatus: previous,
		ToStatus:   entry.Status,
		Amount:     entry.Amount,
		Asset:      entry.Asset,
		OccurredAt: s.now(),
	}
	if entry.FailureReason != nil {
		event.FailureReason = *entry.FailureReason
	}
	s.history.Record(ctx, event)

	transition := &Transition{Entry: entry, From: previous}
	if policy == NotifySilent || !transition.Notifiable() {
		return
	}
	transition.Subject = s.notificationSubject(ctx, entry)
	s.notifier.NotifyTransition(ctx, transition, policy)
}

// notificationSubject returns the entry whose amount the user should see.
// Exchange legs show their source leg; a missing parent falls back to the entry itself.
func (s *TransactionStatusServiceImpl) notificationSubject(ctx context.Context, entry *transaction.Transaction) *transaction.Transaction {
	parentID, ok := entry.NotificationParentID()
	if !ok {
		return entry
	}

	parent, err := s.txRepo.GetByID(ctx, parentID)
	if err != nil {
		s.logger.Warn("Parent transaction unavailable for exchange notification, using entry amount",
			"transaction_id", entry.ID.String(),
			"parent_transaction_id", parentID.String(),
			"error", err,
		)
		return entry
	}
	return parent
}
