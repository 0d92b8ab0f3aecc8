package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fiat-wallet-ledger/internal/domain/history"
	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// StatusHistoryCollectionName is the audit trail of status transitions
	StatusHistoryCollectionName = "status_history"
)

// StatusHistoryRepository implements history.Repository for MongoDB
type StatusHistoryRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

func NewStatusHistoryRepository(logger *slog.Logger, db *mongo.Database) history.Repository {
	return &StatusHistoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *StatusHistoryRepository) Append(ctx context.Context, event *history.StatusEvent) error {
	collection := r.db.Collection(StatusHistoryCollectionName)

	if _, err := collection.InsertOne(ctx, event); err != nil {
		r.logger.Error("Failed to append status event",
			"entry_kind", string(event.EntryKind),
			"entry_id", event.EntryID.String(),
			"to_status", string(event.ToStatus),
			"error", err)
		return fmt.Errorf("failed to append status event: %w", err)
	}

	return nil
}

// ListByEntry returns the newest transitions of one entry first
func (r *StatusHistoryRepository) ListByEntry(ctx context.Context, kind shared.EntryKind, entryID uuid.UUID, limit int) ([]*history.StatusEvent, error) {
	collection := r.db.Collection(StatusHistoryCollectionName)

	filter := bson.M{"entry_kind": kind, "entry_id": entryID}
	opts := options.Find().
		SetSort(bson.M{"occurred_at": -1}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list status events",
			"entry_id", entryID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to list status events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*history.StatusEvent
	if err := cursor.All(ctx, &events); err != nil {
		r.logger.Error("Failed to decode status events",
			"entry_id", entryID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode status events: %w", err)
	}

	return events, nil
}
