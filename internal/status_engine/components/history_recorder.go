package components

import (
	"context"
	"log/slog"

	"github.com/fiat-wallet-ledger/internal/domain/history"
	"github.com/fiat-wallet-ledger/internal/status_engine/service"
)

// HistoryRecorderImpl appends status events and never fails the caller
type HistoryRecorderImpl struct {
	repo   history.Repository
	logger *slog.Logger
}

func NewHistoryRecorder(repo history.Repository, logger *slog.Logger) service.HistoryRecorder {
	return &HistoryRecorderImpl{
		repo:   repo,
		logger: logger,
	}
}

func (r *HistoryRecorderImpl) Record(ctx context.Context, event *history.StatusEvent) {
	if err := r.repo.Append(context.WithoutCancel(ctx), event); err != nil {
		r.logger.Error("Failed to record status history",
			"entry_kind", string(event.EntryKind),
			"entry_id", event.EntryID.String(),
			"user_id", event.UserID.String(),
			"to_status", string(event.ToStatus),
			"error", err,
		)
	}
}
