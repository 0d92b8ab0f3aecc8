package service

import (
	"context"

	"github.com/fiat-wallet-ledger/internal/domain/history"
	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// ReadinessService reports whether every dependency answers
type ReadinessService interface {
	// Check returns one entry per registered dependency; a nil error means healthy
	Check(ctx context.Context) map[string]error
}

// HistoryService reads the status audit trail of one entry
type HistoryService interface {
	// ListHistory returns events newest first, at most limit of them
	ListHistory(ctx context.Context, kind shared.EntryKind, entryID uuid.UUID, limit int) ([]*history.StatusEvent, error)
}
