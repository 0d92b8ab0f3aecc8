package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fiat-wallet-ledger/internal/domain/fiatwallet"
	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/fiat-wallet-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const fiatWalletTransactionColumns = "id, transaction_id, fiat_wallet_id, user_id, currency, amount, balance_before, balance_after, status, transaction_type, provider_reference, provider_request_ref, provider_metadata, failure_reason, parent_id, processed_at, completed_at, failed_at, created_at, updated_at"

var fiatWalletTransactionStatusColumns = statusColumns{
	table:              "fiat_wallet_transactions",
	referenceColumn:    "provider_reference",
	metadataColumn:     "provider_metadata",
	supportsRequestRef: true,
	returning:          fiatWalletTransactionColumns,
}

// FiatWalletTransactionRepository implements fiatwallet.TransactionRepository for PostgreSQL
type FiatWalletTransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
	now     func() time.Time
}

func NewFiatWalletTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) fiatwallet.TransactionRepository {
	return &FiatWalletTransactionRepository{
		querier: db.Pool(),
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *FiatWalletTransactionRepository) WithTx(tx pgx.Tx) fiatwallet.TransactionRepository {
	return &FiatWalletTransactionRepository{
		querier: tx,
		logger:  r.logger,
		now:     r.now,
	}
}

func (r *FiatWalletTransactionRepository) Create(ctx context.Context, txn *fiatwallet.Transaction) error {
	query := `
		INSERT INTO fiat_wallet_transactions (id, transaction_id, fiat_wallet_id, user_id, currency, amount, balance_before, balance_after, status, transaction_type, provider_reference, provider_request_ref, provider_metadata, failure_reason, parent_id, processed_at, completed_at, failed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	providerMetadata, err := txn.ProviderMetadata.Bytes()
	if err != nil {
		return fmt.Errorf("failed to encode provider metadata: %w", err)
	}

	_, err = r.querier.Exec(ctx, query,
		txn.ID,
		txn.TransactionID,
		txn.FiatWalletID,
		txn.UserID,
		txn.Currency,
		txn.Amount,
		txn.BalanceBefore,
		txn.BalanceAfter,
		txn.Status,
		txn.TransactionType,
		txn.ProviderReference,
		txn.ProviderRequestRef,
		providerMetadata,
		txn.FailureReason,
		txn.ParentID,
		txn.ProcessedAt,
		txn.CompletedAt,
		txn.FailedAt,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create fiat wallet transaction",
			"fiat_wallet_transaction_id", txn.ID.String(),
			"transaction_id", txn.TransactionID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create fiat wallet transaction: %w", err)
	}

	return nil
}

func (r *FiatWalletTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*fiatwallet.Transaction, error) {
	query := "SELECT " + fiatWalletTransactionColumns + " FROM fiat_wallet_transactions WHERE id = $1"

	txn, err := scanFiatWalletTransaction(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fiatwallet.ErrTransactionNotFound{ID: id}
		}
		r.logger.Error("Failed to get fiat wallet transaction", "fiat_wallet_transaction_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get fiat wallet transaction: %w", err)
	}

	return txn, nil
}

// GetByTransactionID finds the wallet leg linked to a ledger entry
func (r *FiatWalletTransactionRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*fiatwallet.Transaction, error) {
	query := "SELECT " + fiatWalletTransactionColumns + " FROM fiat_wallet_transactions WHERE transaction_id = $1"

	txn, err := scanFiatWalletTransaction(r.querier.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fiatwallet.ErrTransactionNotFound{}
		}
		r.logger.Error("Failed to get fiat wallet transaction by ledger entry", "transaction_id", transactionID.String(), "error", err)
		return nil, fmt.Errorf("failed to get fiat wallet transaction: %w", err)
	}

	return txn, nil
}

func (r *FiatWalletTransactionRepository) Update(ctx context.Context, id uuid.UUID, changes shared.StatusChanges) (*fiatwallet.Transaction, error) {
	query, args, err := buildStatusUpdate(fiatWalletTransactionStatusColumns, id, changes, r.now())
	if err != nil {
		return nil, err
	}

	txn, err := scanFiatWalletTransaction(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fiatwallet.ErrTransactionNotFound{ID: id}
		}
		r.logger.Error("Failed to update fiat wallet transaction", "fiat_wallet_transaction_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to update fiat wallet transaction: %w", err)
	}

	return txn, nil
}

func scanFiatWalletTransaction(row pgx.Row) (*fiatwallet.Transaction, error) {
	var (
		txn              fiatwallet.Transaction
		providerMetadata []byte
		parentID         uuid.NullUUID
	)
	err := row.Scan(
		&txn.ID,
		&txn.TransactionID,
		&txn.FiatWalletID,
		&txn.UserID,
		&txn.Currency,
		&txn.Amount,
		&txn.BalanceBefore,
		&txn.BalanceAfter,
		&txn.Status,
		&txn.TransactionType,
		&txn.ProviderReference,
		&txn.ProviderRequestRef,
		&providerMetadata,
		&txn.FailureReason,
		&parentID,
		&txn.ProcessedAt,
		&txn.CompletedAt,
		&txn.FailedAt,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.ProviderMetadata, err = shared.ParseMetadata(providerMetadata)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		id := parentID.UUID
		txn.ParentID = &id
	}
	return &txn, nil
}
