package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fiat-wallet-ledger/internal/domain/escrow"
	"github.com/fiat-wallet-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EscrowRepository implements escrow.Repository for PostgreSQL
type EscrowRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewEscrowRepository(logger *slog.Logger, db *persistence.PostgresDB) escrow.Repository {
	return &EscrowRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *EscrowRepository) WithTx(tx pgx.Tx) escrow.Repository {
	return &EscrowRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func (r *EscrowRepository) GetHeldAmount(ctx context.Context, transactionID uuid.UUID) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM escrow_holds
		WHERE transaction_id = $1 AND status = $2
	`

	var held int64
	if err := r.querier.QueryRow(ctx, query, transactionID, escrow.HoldStatusHeld).Scan(&held); err != nil {
		r.logger.Error("Failed to read escrow amount", "transaction_id", transactionID.String(), "error", err)
		return 0, fmt.Errorf("failed to read escrow amount: %w", err)
	}

	return held, nil
}

// Release marks every HELD hold of the transaction RELEASED. No matching rows is not an error.
func (r *EscrowRepository) Release(ctx context.Context, transactionID uuid.UUID) error {
	query := `
		UPDATE escrow_holds
		SET status = $1, released_at = $2
		WHERE transaction_id = $3 AND status = $4
	`

	result, err := r.querier.Exec(ctx, query, escrow.HoldStatusReleased, time.Now().UTC(), transactionID, escrow.HoldStatusHeld)
	if err != nil {
		r.logger.Error("Failed to release escrow", "transaction_id", transactionID.String(), "error", err)
		return fmt.Errorf("failed to release escrow: %w", err)
	}

	r.logger.Info("Released escrow holds",
		"transaction_id", transactionID.String(),
		"holds", result.RowsAffected(),
	)
	return nil
}
