// Package mongo provides MongoDB implementations of the notification and history stores.
package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fiat-wallet-ledger/internal/domain/notification"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	// NotificationCollectionName holds in-app notifications shown in the user's inbox
	NotificationCollectionName = "notifications"
)

// NotificationRepository stores in-app notifications
type NotificationRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

func NewNotificationRepository(logger *slog.Logger, db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Insert writes one in-app notification
func (r *NotificationRepository) Insert(ctx context.Context, instruction *notification.Instruction) error {
	collection := r.db.Collection(NotificationCollectionName)

	if _, err := collection.InsertOne(ctx, instruction); err != nil {
		r.logger.Error("Failed to store in-app notification",
			"user_id", instruction.UserID.String(),
			"kind", string(instruction.Kind),
			"error", err)
		return fmt.Errorf("failed to store in-app notification: %w", err)
	}

	return nil
}
