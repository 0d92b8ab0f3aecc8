package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fiat-wallet-ledger/internal/domain/fiatwallet"
	"github.com/fiat-wallet-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// FiatWalletRepository implements fiatwallet.WalletRepository for PostgreSQL
type FiatWalletRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewFiatWalletRepository(logger *slog.Logger, db *persistence.PostgresDB) fiatwallet.WalletRepository {
	return &FiatWalletRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *FiatWalletRepository) WithTx(tx pgx.Tx) fiatwallet.WalletRepository {
	return &FiatWalletRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// LockForUpdate holds a row lock until the surrounding transaction ends
func (r *FiatWalletRepository) LockForUpdate(ctx context.Context, userID uuid.UUID, currency string) (*fiatwallet.Wallet, error) {
	query := `
		SELECT id, user_id, currency, balance, version, created_at, updated_at
		FROM fiat_wallets
		WHERE user_id = $1 AND currency = $2
		FOR UPDATE
	`

	var w fiatwallet.Wallet
	err := r.querier.QueryRow(ctx, query, userID, currency).Scan(
		&w.ID,
		&w.UserID,
		&w.Currency,
		&w.Balance,
		&w.Version,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fiatwallet.ErrWalletNotFound{UserID: userID, Currency: currency}
		}
		r.logger.Error("Failed to lock fiat wallet",
			"user_id", userID.String(),
			"currency", currency,
			"error", err,
		)
		return nil, fmt.Errorf("failed to lock fiat wallet: %w", err)
	}

	return &w, nil
}

// UpdateBalance applies delta if the stored version still matches
func (r *FiatWalletRepository) UpdateBalance(ctx context.Context, id uuid.UUID, delta int64, version int) error {
	query := `
		UPDATE fiat_wallets
		SET balance = balance + $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4
	`

	result, err := r.querier.Exec(ctx, query, delta, time.Now().UTC(), id, version)
	if err != nil {
		r.logger.Error("Failed to update fiat wallet balance",
			"fiat_wallet_id", id.String(),
			"delta", delta,
			"error", err,
		)
		return fmt.Errorf("failed to update fiat wallet balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fiatwallet.ErrConcurrentModification{WalletID: id}
	}

	return nil
}
