package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fiat-wallet-ledger/internal/domain/escrow"
	"github.com/fiat-wallet-ledger/internal/domain/fiatwallet"
	"github.com/fiat-wallet-ledger/internal/domain/outbox"
	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/fiat-wallet-ledger/internal/domain/transaction"
	"github.com/fiat-wallet-ledger/internal/platform/lock"
	"github.com/fiat-wallet-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ReviewResolutionServiceImpl struct {
	locker                 lock.Locker
	db                     persistence.TxExecutor
	txRepo                 transaction.Repository
	fiatTxRepo             fiatwallet.TransactionRepository
	escrowRepo             escrow.Repository
	txEngine               *TransactionStatusServiceImpl
	fiatEngine             *FiatWalletTransactionStatusServiceImpl
	refundManager          RefundManager
	outboxManager          OutboxManager
	releaser               EscrowReleaser
	reconciliationCurrency string
	logger                 *slog.Logger
}

func NewReviewResolutionService(
	locker lock.Locker,
	db persistence.TxExecutor,
	txRepo transaction.Repository,
	fiatTxRepo fiatwallet.TransactionRepository,
	escrowRepo escrow.Repository,
	txEngine *TransactionStatusServiceImpl,
	fiatEngine *FiatWalletTransactionStatusServiceImpl,
	refundManager RefundManager,
	outboxManager OutboxManager,
	releaser EscrowReleaser,
	reconciliationCurrency string,
	logger *slog.Logger,
) *ReviewResolutionServiceImpl {
	return &ReviewResolutionServiceImpl{
		locker:                 locker,
		db:                     db,
		txRepo:                 txRepo,
		fiatTxRepo:             fiatTxRepo,
		escrowRepo:             escrowRepo,
		txEngine:               txEngine,
		fiatEngine:             fiatEngine,
		refundManager:          refundManager,
		outboxManager:          outboxManager,
		releaser:               releaser,
		reconciliationCurrency: reconciliationCurrency,
		logger:                 logger,
	}
}

// resolution is what the DB transaction committed
type resolution struct {
	original       *transaction.Transaction
	previousStatus shared.TransactionStatus
	failed         *transaction.Transaction
	failedLeg      *fiatwallet.Transaction
	legPrevious    shared.TransactionStatus
	refund         *Refund
	release        *outbox.Message
}

// UpdateInReviewTransactionStatus fails an entry held in REVIEW and refunds any escrowed funds.
// Failing the entry, writing the refund and crediting the wallet commit together or not at all.
func (s *ReviewResolutionServiceImpl) UpdateInReviewTransactionStatus(
	ctx context.Context,
	id uuid.UUID,
	target shared.TransactionStatus,
	metadata *shared.StatusMetadata,
) (*transaction.Transaction, error) {
	logger := s.logger.With("transaction_id", id.String())

	res, err := lock.WithLock(ctx, s.locker, shared.EntryKindTransaction.StatusLockKey(id),
		func(ctx context.Context) (*resolution, error) {
			original, err := s.txRepo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if err := s.checkPreconditions(original, target); err != nil {
				return nil, err
			}
			return s.resolveWithLegLock(ctx, original, metadata)
		})
	if err != nil {
		if shared.IsInvalidOperation(err) || shared.IsNotFound(err) {
			logger.Warn("Review resolution rejected", "target_status", string(target), "error", err)
			return nil, err
		}
		logger.Error("Review resolution failed, entry stays in review", "error", err)
		return nil, err
	}

	logger.Info("Review resolved as failed",
		"user_id", res.original.UserID.String(),
		"refunded", res.refund != nil,
	)
	s.afterCommit(ctx, res)

	return res.failed, nil
}

func (s *ReviewResolutionServiceImpl) checkPreconditions(original *transaction.Transaction, target shared.TransactionStatus) error {
	if original.Asset != s.reconciliationCurrency {
		return shared.NewInvalidOperation("review resolution is only supported for %s entries, got %s", s.reconciliationCurrency, original.Asset)
	}
	if original.Status == shared.TransactionStatusCompleted {
		return shared.NewInvalidOperation("transaction %s is already completed", original.ID)
	}
	if original.Status != shared.TransactionStatusReview {
		return shared.NewInvalidOperation("transaction %s is %s, not in review", original.ID, original.Status)
	}
	if target != shared.TransactionStatusFailed {
		return shared.NewInvalidOperation("review can only be resolved to %s, got %s", shared.TransactionStatusFailed, target)
	}
	return nil
}

// resolveWithLegLock holds the linked leg's status lock around resolve so the
// FiatWalletTransaction engine cannot move the leg while it is being failed.
// Locks are always taken transaction first, then leg.
func (s *ReviewResolutionServiceImpl) resolveWithLegLock(ctx context.Context, original *transaction.Transaction, metadata *shared.StatusMetadata) (*resolution, error) {
	leg, err := s.fiatTxRepo.GetByTransactionID(ctx, original.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return s.resolve(ctx, original, metadata)
		}
		return nil, shared.NewInternalError("review resolution", fmt.Errorf("failed to load fiat wallet transaction: %w", err))
	}
	return lock.WithLock(ctx, s.locker, shared.EntryKindFiatWalletTransaction.StatusLockKey(leg.ID),
		func(ctx context.Context) (*resolution, error) {
			return s.resolve(ctx, original, metadata)
		})
}

// resolve runs the fail-and-refund procedure in one DB transaction
func (s *ReviewResolutionServiceImpl) resolve(ctx context.Context, original *transaction.Transaction, metadata *shared.StatusMetadata) (*resolution, error) {
	res := &resolution{original: original, previousStatus: original.Status}

	err := s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		held, err := s.escrowRepo.WithTx(tx).GetHeldAmount(ctx, original.ID)
		if err != nil {
			return fmt.Errorf("failed to read escrow hold: %w", err)
		}

		failed, _, err := s.txEngine.applyTransition(ctx, s.txRepo.WithTx(tx), original, shared.TransactionStatusFailed, metadata)
		if err != nil {
			return fmt.Errorf("failed to mark transaction failed: %w", err)
		}
		res.failed = failed

		leg, err := s.failLinkedLeg(ctx, tx, original.ID, metadata)
		if err != nil {
			return err
		}
		if leg != nil {
			res.failedLeg = leg.updated
			res.legPrevious = leg.previous
		}

		if held <= 0 {
			return nil
		}

		var originalLeg *fiatwallet.Transaction
		if leg != nil {
			originalLeg = leg.updated
		}
		refund, err := s.refundManager.CreateRefund(ctx, tx, original, originalLeg, held)
		if err != nil {
			return err
		}
		res.refund = refund

		release, err := s.outboxManager.CreateReleaseEntry(ctx, tx, original, refund, held)
		if err != nil {
			return err
		}
		res.release = release
		return nil
	})
	if err != nil {
		return nil, shared.NewInternalError("review resolution", err)
	}

	return res, nil
}

type legTransition struct {
	updated  *fiatwallet.Transaction
	previous shared.TransactionStatus
}

// failLinkedLeg fails the wallet leg of the entry when one exists and is still open
func (s *ReviewResolutionServiceImpl) failLinkedLeg(ctx context.Context, tx pgx.Tx, transactionID uuid.UUID, metadata *shared.StatusMetadata) (*legTransition, error) {
	repo := s.fiatTxRepo.WithTx(tx)

	leg, err := repo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load fiat wallet transaction: %w", err)
	}
	if leg.Status.IsTerminal() {
		return &legTransition{updated: leg, previous: leg.Status}, nil
	}

	previous := leg.Status
	var legMetadata *shared.StatusMetadata
	if metadata != nil {
		legMetadata = &shared.StatusMetadata{FailureReason: metadata.FailureReason}
	}
	updated, _, err := s.fiatEngine.applyTransition(ctx, repo, leg, shared.TransactionStatusFailed, legMetadata)
	if err != nil {
		return nil, fmt.Errorf("failed to mark fiat wallet transaction failed: %w", err)
	}
	return &legTransition{updated: updated, previous: previous}, nil
}

// afterCommit records history, completes the refund entries and releases escrow.
// Failures here never undo the committed refund.
func (s *ReviewResolutionServiceImpl) afterCommit(ctx context.Context, res *resolution) {
	// The refund completion below is what the user is told about.
	s.txEngine.afterTransition(ctx, res.failed, res.previousStatus, NotifySilent)
	if res.failedLeg != nil && res.legPrevious != res.failedLeg.Status {
		s.fiatEngine.recordHistory(ctx, res.failedLeg, res.legPrevious)
	}

	if res.refund == nil {
		return
	}

	refundID := res.refund.Entry.ID
	if _, err := s.txEngine.UpdateStatus(ctx, refundID, shared.TransactionStatusCompleted, nil, NotifyAll); err != nil {
		s.logger.Error("Failed to complete refund transaction",
			"transaction_id", res.original.ID.String(),
			"refund_transaction_id", refundID.String(),
			"error", err,
		)
	}
	if res.refund.Leg != nil {
		if _, err := s.fiatEngine.UpdateStatus(ctx, res.refund.Leg.ID, shared.TransactionStatusCompleted, nil); err != nil {
			s.logger.Error("Failed to complete refund fiat wallet transaction",
				"transaction_id", res.original.ID.String(),
				"fiat_wallet_transaction_id", res.refund.Leg.ID.String(),
				"error", err,
			)
		}
	}

	if res.release == nil {
		return
	}
	if err := s.releaser.Release(ctx, res.release); err != nil {
		s.logger.Warn("Escrow release deferred to outbox poller",
			"transaction_id", res.original.ID.String(),
			"outbox_id", res.release.ID,
			"error", err,
		)
	}
}
