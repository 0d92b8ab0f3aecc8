package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/fiat-wallet-ledger/internal/domain/fiatwallet"
	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiatWalletRepository_LockForUpdate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := &FiatWalletRepository{querier: mock, logger: discardLogger()}
		walletID := uuid.New()
		now := time.Now().UTC()

		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WithArgs(userID, "NGN").
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "currency", "balance", "version", "created_at", "updated_at"}).
				AddRow(walletID, userID, "NGN", int64(2500), 4, now, now))

		w, err := repo.LockForUpdate(ctx, userID, "NGN")
		require.NoError(t, err)
		assert.Equal(t, walletID, w.ID)
		assert.Equal(t, int64(2500), w.Balance)
		assert.Equal(t, 4, w.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := &FiatWalletRepository{querier: mock, logger: discardLogger()}
		mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
			WithArgs(userID, "USD").
			WillReturnError(pgx.ErrNoRows)

		_, err = repo.LockForUpdate(ctx, userID, "USD")
		assert.ErrorIs(t, err, shared.ErrNotFound)
		var notFound fiatwallet.ErrWalletNotFound
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "USD", notFound.Currency)
	})
}

func TestFiatWalletRepository_UpdateBalance(t *testing.T) {
	testCases := []struct {
		name         string
		rowsAffected int64
		execErr      error
		expectConcur bool
		expectErr    bool
	}{
		{name: "Success", rowsAffected: 1},
		{name: "VersionMismatch", rowsAffected: 0, expectConcur: true, expectErr: true},
		{name: "DatabaseError", execErr: errors.New("deadlock detected"), expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			repo := &FiatWalletRepository{querier: mock, logger: discardLogger()}
			walletID := uuid.New()

			exp := mock.ExpectExec(regexp.QuoteMeta("UPDATE fiat_wallets")).
				WithArgs(int64(5000), pgxmock.AnyArg(), walletID, 3)
			if tc.execErr != nil {
				exp.WillReturnError(tc.execErr)
			} else {
				exp.WillReturnResult(pgxmock.NewResult("UPDATE", tc.rowsAffected))
			}

			err = repo.UpdateBalance(context.Background(), walletID, 5000, 3)
			if !tc.expectErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var concurrent fiatwallet.ErrConcurrentModification
			assert.Equal(t, tc.expectConcur, errors.As(err, &concurrent))
		})
	}
}
