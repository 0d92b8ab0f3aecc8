package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/fiat-wallet-ledger/internal/domain/transaction"
	"github.com/fiat-wallet-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const transactionColumns = "id, user_id, asset, amount, balance_before, balance_after, status, transaction_type, category, transaction_scope, reference, description, external_reference, failure_reason, metadata, parent_transaction_id, processed_at, completed_at, failed_at, created_at, updated_at, deleted_at"

var transactionStatusColumns = statusColumns{
	table:           "transactions",
	referenceColumn: "external_reference",
	metadataColumn:  "metadata",
	returning:       transactionColumns,
}

// TransactionRepository implements transaction.Repository for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier // *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
	now     func() time.Time
}

func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) transaction.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithTx returns a copy bound to tx
func (r *TransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
		now:     r.now,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, asset, amount, balance_before, balance_after, status, transaction_type, category, transaction_scope, reference, description, external_reference, failure_reason, metadata, parent_transaction_id, processed_at, completed_at, failed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`

	metadata, err := txn.Metadata.Bytes()
	if err != nil {
		return fmt.Errorf("failed to encode transaction metadata: %w", err)
	}

	_, err = r.querier.Exec(ctx, query,
		txn.ID,
		txn.UserID,
		txn.Asset,
		txn.Amount,
		txn.BalanceBefore,
		txn.BalanceAfter,
		txn.Status,
		txn.TransactionType,
		txn.Category,
		txn.Scope,
		txn.Reference,
		txn.Description,
		txn.ExternalReference,
		txn.FailureReason,
		metadata,
		txn.ParentID,
		txn.ProcessedAt,
		txn.CompletedAt,
		txn.FailedAt,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create transaction", "transaction_id", txn.ID.String(), "error", err)
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := "SELECT " + transactionColumns + " FROM transactions WHERE id = $1"

	txn, err := scanTransaction(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get transaction", "transaction_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return txn, nil
}

// Update writes only the columns carried by changes and returns the stored row
func (r *TransactionRepository) Update(ctx context.Context, id uuid.UUID, changes shared.StatusChanges) (*transaction.Transaction, error) {
	query, args, err := buildStatusUpdate(transactionStatusColumns, id, changes, r.now())
	if err != nil {
		return nil, err
	}

	txn, err := scanTransaction(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to update transaction", "transaction_id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return txn, nil
}

func scanTransaction(row pgx.Row) (*transaction.Transaction, error) {
	var (
		txn      transaction.Transaction
		metadata []byte
		parentID uuid.NullUUID
	)
	err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&txn.Asset,
		&txn.Amount,
		&txn.BalanceBefore,
		&txn.BalanceAfter,
		&txn.Status,
		&txn.TransactionType,
		&txn.Category,
		&txn.Scope,
		&txn.Reference,
		&txn.Description,
		&txn.ExternalReference,
		&txn.FailureReason,
		&metadata,
		&parentID,
		&txn.ProcessedAt,
		&txn.CompletedAt,
		&txn.FailedAt,
		&txn.CreatedAt,
		&txn.UpdatedAt,
		&txn.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.Metadata, err = shared.ParseMetadata(metadata)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		id := parentID.UUID
		txn.ParentID = &id
	}
	return &txn, nil
}
