// Package history records every genuine status transition for audit.
package history

import (
	"context"
	"time"

	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// StatusEvent is one transition of one ledger entry
type StatusEvent struct {
	EntryKind     shared.EntryKind         `json:"entry_kind" bson:"entry_kind"`
	EntryID       uuid.UUID                `json:"entry_id" bson:"entry_id"`
	UserID        uuid.UUID                `json:"user_id" bson:"user_id"`
	FromStatus    shared.TransactionStatus `json:"from_status" bson:"from_status"`
	ToStatus      shared.TransactionStatus `json:"to_status" bson:"to_status"`
	Amount        int64                    `json:"amount" bson:"amount"`
	Asset         string                   `json:"asset" bson:"asset"`
	FailureReason string                   `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	OccurredAt    time.Time                `json:"occurred_at" bson:"occurred_at"`
}

// Repository stores and lists status events
type Repository interface {
	Append(ctx context.Context, event *StatusEvent) error
	ListByEntry(ctx context.Context, kind shared.EntryKind, entryID uuid.UUID, limit int) ([]*StatusEvent, error)
}
