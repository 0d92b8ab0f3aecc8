package transaction

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		txn, err := NewTransaction(NewParams{
			UserID:          userID,
			Asset:           "NGN",
			Amount:          -5000,
			BalanceBefore:   20000,
			TransactionType: shared.TransactionTypeWithdrawal,
			Category:        shared.TransactionCategoryFiat,
			Scope:           shared.TransactionScopeExternal,
			Reference:       "wd-001",
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, txn.ID)
		assert.Equal(t, shared.TransactionStatusPending, txn.Status)
		assert.Equal(t, int64(15000), txn.BalanceAfter)
		assert.NotNil(t, txn.Metadata)
		assert.Nil(t, txn.ProcessedAt)
	})

	testCases := []struct {
		name        string
		params      NewParams
		expectedErr error
	}{
		{"InvalidAsset", NewParams{Asset: "NAIRA", Amount: 1, Reference: "r"}, shared.ErrInvalidCurrency},
		{"ZeroAmount", NewParams{Asset: "NGN", Amount: 0, Reference: "r"}, ErrZeroAmount},
		{"EmptyReference", NewParams{Asset: "NGN", Amount: 1}, ErrEmptyReference},
		{"UnknownStatus", NewParams{Asset: "NGN", Amount: 1, Reference: "r", Status: "SETTLED"}, shared.ErrInvalidStatus},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			txn, err := NewTransaction(tc.params)
			assert.Nil(t, txn)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestTransaction_NotificationParentID(t *testing.T) {
	parentID := uuid.New()

	exchange := &Transaction{TransactionType: shared.TransactionTypeExchange, ParentID: &parentID}
	id, ok := exchange.NotificationParentID()
	assert.True(t, ok)
	assert.Equal(t, parentID, id)

	refund := &Transaction{TransactionType: shared.TransactionTypeRefund, ParentID: &parentID}
	_, ok = refund.NotificationParentID()
	assert.False(t, ok, "only exchange legs defer to their parent")

	orphanExchange := &Transaction{TransactionType: shared.TransactionTypeExchange}
	_, ok = orphanExchange.NotificationParentID()
	assert.False(t, ok)
}

func TestErrTransactionNotFound_Is(t *testing.T) {
	id := uuid.New()
	err := fmt.Errorf("lookup: %w", ErrTransactionNotFound{TransactionID: id})

	assert.True(t, errors.Is(err, shared.ErrNotFound))
	assert.True(t, errors.Is(err, ErrTransactionNotFound{}))
	assert.True(t, errors.Is(err, ErrTransactionNotFound{TransactionID: id}))
	assert.False(t, errors.Is(err, ErrTransactionNotFound{TransactionID: uuid.New()}))
	assert.False(t, errors.Is(err, shared.ErrInvalidOperation))
}
