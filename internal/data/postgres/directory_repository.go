package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fiat-wallet-ledger/internal/domain/directory"
	"github.com/fiat-wallet-ledger/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DirectoryRepository serves user and profile lookups from PostgreSQL
type DirectoryRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

var (
	_ directory.UserDirectory    = (*DirectoryRepository)(nil)
	_ directory.ProfileDirectory = (*DirectoryRepository)(nil)
)

func NewDirectoryRepository(logger *slog.Logger, db *persistence.PostgresDB) *DirectoryRepository {
	return &DirectoryRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

func (r *DirectoryRepository) FindUser(ctx context.Context, userID uuid.UUID) (*directory.User, error) {
	query := `
		SELECT id, email, first_name, last_name
		FROM users
		WHERE id = $1
	`

	var u directory.User
	err := r.querier.QueryRow(ctx, query, userID).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, directory.ErrUserNotFound{UserID: userID}
		}
		r.logger.Error("Failed to find user", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &u, nil
}

func (r *DirectoryRepository) FindProfile(ctx context.Context, userID uuid.UUID) (*directory.Profile, error) {
	query := `
		SELECT user_id, notification_token
		FROM user_profiles
		WHERE user_id = $1
	`

	var p directory.Profile
	err := r.querier.QueryRow(ctx, query, userID).Scan(&p.UserID, &p.NotificationToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, directory.ErrUserNotFound{UserID: userID}
		}
		r.logger.Error("Failed to find user profile", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to find user profile: %w", err)
	}

	return &p, nil
}
