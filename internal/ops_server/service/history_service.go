package service

import (
	"context"
	"log/slog"

	"github.com/fiat-wallet-ledger/internal/domain/history"
	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
)

type HistoryServiceImpl struct {
	repo   history.Repository
	logger *slog.Logger
}

func NewHistoryService(logger *slog.Logger, repo history.Repository) HistoryService {
	return &HistoryServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

// ListHistory rejects unknown kinds and clamps limit to [1, MaxHistoryLimit]
func (s *HistoryServiceImpl) ListHistory(ctx context.Context, kind shared.EntryKind, entryID uuid.UUID, limit int) ([]*history.StatusEvent, error) {
	if !kind.IsValid() {
		return nil, shared.NewInvalidOperation("unknown entry kind %q", kind)
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	events, err := s.repo.ListByEntry(ctx, kind, entryID, limit)
	if err != nil {
		s.logger.Error("Failed to list status history",
			"entry_kind", string(kind),
			"entry_id", entryID.String(),
			"error", err,
		)
		return nil, shared.NewInternalError("list status history", err)
	}
	return events, nil
}
