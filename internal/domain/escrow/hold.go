// Package escrow models funds held against a transaction pending review.
package escrow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// HoldStatus defines escrow hold states
type HoldStatus string

const (
	HoldStatusHeld     HoldStatus = "HELD"
	HoldStatusReleased HoldStatus = "RELEASED"
	HoldStatusRefunded HoldStatus = "REFUNDED"
)

// Hold is an amount reserved from a wallet for one transaction
type Hold struct {
	ID            uuid.UUID  `json:"id"`
	TransactionID uuid.UUID  `json:"transaction_id"`
	UserID        uuid.UUID  `json:"user_id"`
	Currency      string     `json:"currency"`
	Amount        int64      `json:"amount"`
	Status        HoldStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ReleasedAt    *time.Time `json:"released_at,omitempty"`
}

// ReleaseRequest is the outbox payload asking for a hold to be released
type ReleaseRequest struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	RefundID      uuid.UUID `json:"refund_id"`
	UserID        uuid.UUID `json:"user_id"`
	Currency      string    `json:"currency"`
	Amount        int64     `json:"amount"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	RequestedAt   time.Time `json:"requested_at"`
}

// Repository reads and releases holds
type Repository interface {
	// GetHeldAmount sums the holds still HELD for the transaction; 0 when none exist
	GetHeldAmount(ctx context.Context, transactionID uuid.UUID) (int64, error)
	// Release moves HELD holds to RELEASED; releasing twice is a no-op
	Release(ctx context.Context, transactionID uuid.UUID) error
	WithTx(tx pgx.Tx) Repository
}
