package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/fiat-wallet-ledger/internal/domain/directory"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryRepository_FindUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &DirectoryRepository{querier: mock, logger: discardLogger()}
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "first_name", "last_name"}).
			AddRow(userID, "ada@example.com", "Ada", "Obi"))

	u, err := repo.FindUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "Ada", u.FirstName)
}

func TestDirectoryRepository_FindProfile(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := &DirectoryRepository{querier: mock, logger: discardLogger()}
		mock.ExpectQuery(regexp.QuoteMeta("FROM user_profiles")).
			WithArgs(userID).
			WillReturnRows(pgxmock.NewRows([]string{"user_id", "notification_token"}).AddRow(userID, "fcm-token"))

		p, err := repo.FindProfile(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "fcm-token", p.NotificationToken)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := &DirectoryRepository{querier: mock, logger: discardLogger()}
		mock.ExpectQuery(regexp.QuoteMeta("FROM user_profiles")).
			WithArgs(userID).
			WillReturnError(pgx.ErrNoRows)

		_, err = repo.FindProfile(ctx, userID)
		assert.ErrorIs(t, err, directory.ErrUserNotFound{UserID: userID})
	})
}
