package components

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fiat-wallet-ledger/internal/domain/fiatwallet"
	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/fiat-wallet-ledger/internal/domain/transaction"
	"github.com/fiat-wallet-ledger/internal/status_engine/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RefundManagerImpl implements the RefundManager interface
type RefundManagerImpl struct {
	txRepo     transaction.Repository
	fiatTxRepo fiatwallet.TransactionRepository
	walletRepo fiatwallet.WalletRepository
	logger     *slog.Logger
}

func NewRefundManager(
	txRepo transaction.Repository,
	fiatTxRepo fiatwallet.TransactionRepository,
	walletRepo fiatwallet.WalletRepository,
	logger *slog.Logger,
) service.RefundManager {
	return &RefundManagerImpl{
		txRepo:     txRepo,
		fiatTxRepo: fiatTxRepo,
		walletRepo: walletRepo,
		logger:     logger,
	}
}

// refundAmounts returns the refund entry's signed amount and the wallet credit.
// The entry reverses the original's sign; the wallet always gains what escrow held.
func refundAmounts(originalAmount, held int64) (entryAmount, credit int64) {
	credit = held
	if credit < 0 {
		credit = -credit
	}
	if originalAmount > 0 {
		return -credit, credit
	}
	return credit, credit
}

// CreateRefund locks the user's wallet, writes the refund entry and its wallet leg,
// and credits the wallet with the held amount, all through tx.
func (m *RefundManagerImpl) CreateRefund(ctx context.Context, tx pgx.Tx, original *transaction.Transaction, originalLeg *fiatwallet.Transaction, held int64) (*service.Refund, error) {
	logger := m.logger.With("transaction_id", original.ID.String(), "user_id", original.UserID.String())

	entryAmount, credit := refundAmounts(original.Amount, held)
	if credit == 0 {
		return nil, fmt.Errorf("refund of %s has nothing held in escrow", original.ID)
	}
	if absAmount(original.Amount) != credit {
		// Escrow is what actually left the wallet, so it wins over the entry amount.
		logger.Warn("Escrow hold differs from entry amount", "held", held, "amt", original.Amount)
	}

	walletRepoTx := m.walletRepo.WithTx(tx)

	wallet, err := walletRepoTx.LockForUpdate(ctx, original.UserID, original.Asset)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			logger.Warn("Wallet not found for refund", "currency", original.Asset, "original_error", err)
			return nil, err
		}
		logger.Error("Failed to lock wallet", "currency", original.Asset, "error", err)
		return nil, fmt.Errorf("failed to lock wallet for refund of %s: %w", original.ID, err)
	}
	logger.Info("Wallet locked", "wallet_id", wallet.ID.String(), "bal", wallet.Balance, "ver", wallet.Version)

	refundMetadata, err := shared.NewMetadata(map[string]any{"refunded_transaction_id": original.ID.String()})
	if err != nil {
		return nil, err
	}

	entry, err := transaction.NewTransaction(transaction.NewParams{
		UserID:          original.UserID,
		Asset:           original.Asset,
		Amount:          entryAmount,
		BalanceBefore:   wallet.Balance,
		Status:          shared.TransactionStatusPending,
		TransactionType: shared.TransactionTypeRefund,
		Category:        original.Category,
		Scope:           shared.TransactionScopeInternal,
		Reference:       "refund-" + original.Reference,
		Description:     "Refund for " + original.Reference,
		ParentID:        &original.ID,
		Metadata:        refundMetadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build refund transaction: %w", err)
	}
	entry.BalanceAfter = wallet.Balance + credit

	var legParent *uuid.UUID
	if originalLeg != nil {
		legParent = &originalLeg.ID
	}
	leg, err := fiatwallet.NewTransactionFor(wallet, entry.ID, shared.TransactionTypeRefund, credit, legParent)
	if err != nil {
		return nil, fmt.Errorf("failed to build refund wallet transaction: %w", err)
	}

	if err := m.txRepo.WithTx(tx).Create(ctx, entry); err != nil {
		logger.Error("Failed to create refund transaction", "error", err)
		return nil, err
	}
	if err := m.fiatTxRepo.WithTx(tx).Create(ctx, leg); err != nil {
		logger.Error("Failed to create refund wallet transaction", "refund_transaction_id", entry.ID.String(), "error", err)
		return nil, err
	}

	version := wallet.Version
	if err := wallet.ApplyDelta(credit); err != nil {
		logger.Warn("Refund cannot be applied to wallet", "bal", wallet.Balance, "amt", credit, "error", err)
		return nil, err
	}
	if err := walletRepoTx.UpdateBalance(ctx, wallet.ID, credit, version); err != nil {
		var conflict fiatwallet.ErrConcurrentModification
		if errors.As(err, &conflict) {
			logger.Warn("Concurrent modification on wallet update", "wallet_id", wallet.ID.String())
		} else {
			logger.Error("Failed to update wallet balance", "wallet_id", wallet.ID.String(), "error", err)
		}
		return nil, err
	}
	logger.Info("Refund written",
		"refund_transaction_id", entry.ID.String(),
		"amount", entry.Amount,
		"credit", credit,
		"new_bal", wallet.Balance,
	)

	return &service.Refund{Entry: entry, Leg: leg, Wallet: wallet}, nil
}

func absAmount(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
