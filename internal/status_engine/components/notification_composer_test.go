package components

import (
	"testing"
	"time"

	"github.com/fiat-wallet-ledger/internal/domain/directory"
	"github.com/fiat-wallet-ledger/internal/domain/notification"
	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/fiat-wallet-ledger/internal/domain/transaction"
	"github.com/fiat-wallet-ledger/internal/status_engine/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntry(txType shared.TransactionType, status shared.TransactionStatus, amount int64, asset string) *transaction.Transaction {
	return &transaction.Transaction{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		Asset:           asset,
		Amount:          amount,
		Status:          status,
		TransactionType: txType,
		Reference:       "ref-001",
	}
}

func newTestComposer() *NotificationComposer {
	c := NewNotificationComposer("ngn", []string{"WITHDRAWAL", " deposit "})
	c.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestNotificationComposer_Compose(t *testing.T) {
	composer := newTestComposer()
	reason := "bank rejected"

	testCases := []struct {
		name            string
		entry           *transaction.Transaction
		subject         *transaction.Transaction
		expectedKind    notification.Kind
		expectedTitle   string
		expectedMessage string
		expectedAsset   string
	}{
		{
			name:            "WithdrawalCompleted",
			entry:           sampleEntry(shared.TransactionTypeWithdrawal, shared.TransactionStatusCompleted, -150000, "NGN"),
			expectedKind:    notification.KindSuccess,
			expectedTitle:   "Withdrawal successful",
			expectedMessage: "Your withdrawal of ₦1,500.00 was successful.",
			expectedAsset:   "NGN",
		},
		{
			name:            "DepositFailed",
			entry:           sampleEntry(shared.TransactionTypeDeposit, shared.TransactionStatusFailed, 2500, "USD"),
			expectedKind:    notification.KindFailed,
			expectedTitle:   "Deposit failed",
			expectedMessage: "Your deposit of $25.00 failed. Any debited funds will be returned to your wallet.",
			expectedAsset:   "USD",
		},
		{
			name:            "TransferInSaysMoneyReceived",
			entry:           sampleEntry(shared.TransactionTypeTransferIn, shared.TransactionStatusCompleted, 10000, "NGN"),
			expectedKind:    notification.KindSuccess,
			expectedTitle:   "Money received",
			expectedMessage: "You received ₦100.00.",
			expectedAsset:   "NGN",
		},
		{
			name:            "Refund",
			entry:           sampleEntry(shared.TransactionTypeRefund, shared.TransactionStatusCompleted, 500, "NGN"),
			expectedKind:    notification.KindSuccess,
			expectedTitle:   "Refund successful",
			expectedMessage: "₦5.00 has been refunded to your wallet.",
			expectedAsset:   "NGN",
		},
		{
			name:            "ExchangeShowsSubjectAmount",
			entry:           sampleEntry(shared.TransactionTypeExchange, shared.TransactionStatusCompleted, 1000, "USD"),
			subject:         sampleEntry(shared.TransactionTypeExchange, shared.TransactionStatusCompleted, -1650000, "NGN"),
			expectedKind:    notification.KindSuccess,
			expectedTitle:   "Exchange successful",
			expectedMessage: "Your exchange of ₦16,500.00 was successful.",
			expectedAsset:   "NGN",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			composed := composer.Compose(&service.Transition{Entry: tc.entry, Subject: tc.subject})

			require.NotNil(t, composed.InApp)
			assert.Equal(t, tc.entry.UserID, composed.InApp.UserID)
			assert.Equal(t, tc.expectedKind, composed.InApp.Kind)
			assert.Equal(t, tc.expectedTitle, composed.InApp.Title)
			assert.Equal(t, tc.expectedMessage, composed.InApp.Message)
			assert.Equal(t, tc.expectedTitle, composed.PushTitle)
			assert.Equal(t, tc.expectedMessage, composed.PushBody)
			assert.Equal(t, tc.expectedAsset, composed.InApp.Metadata["asset"])
			assert.Equal(t, tc.entry.ID.String(), composed.InApp.Metadata["transaction_id"])
			assert.False(t, composed.InApp.Read)
		})
	}

	t.Run("FailureReasonInMetadata", func(t *testing.T) {
		entry := sampleEntry(shared.TransactionTypeWithdrawal, shared.TransactionStatusFailed, -100, "NGN")
		entry.FailureReason = &reason

		composed := composer.Compose(&service.Transition{Entry: entry})

		assert.Equal(t, reason, composed.InApp.Metadata["failure_reason"])
	})
}

func TestNotificationComposer_EmailEligible(t *testing.T) {
	composer := newTestComposer()

	testCases := []struct {
		name     string
		entry    *transaction.Transaction
		subject  *transaction.Transaction
		expected bool
	}{
		{"PrimaryCurrencyAllowedType", sampleEntry(shared.TransactionTypeWithdrawal, shared.TransactionStatusCompleted, -100, "NGN"), nil, true},
		{"TrimmedAllowListEntry", sampleEntry(shared.TransactionTypeDeposit, shared.TransactionStatusCompleted, 100, "NGN"), nil, true},
		{"OtherCurrency", sampleEntry(shared.TransactionTypeWithdrawal, shared.TransactionStatusCompleted, -100, "USD"), nil, false},
		{"TypeNotListed", sampleEntry(shared.TransactionTypeReward, shared.TransactionStatusCompleted, 100, "NGN"), nil, false},
		{
			"SubjectCurrencyDecides",
			sampleEntry(shared.TransactionTypeWithdrawal, shared.TransactionStatusCompleted, 100, "USD"),
			sampleEntry(shared.TransactionTypeWithdrawal, shared.TransactionStatusCompleted, -100, "NGN"),
			true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, composer.EmailEligible(&service.Transition{Entry: tc.entry, Subject: tc.subject}))
		})
	}
}

func TestNotificationComposer_ComposeEmail(t *testing.T) {
	composer := newTestComposer()
	entry := sampleEntry(shared.TransactionTypeWithdrawal, shared.TransactionStatusFailed, -150000, "NGN")
	user := &directory.User{ID: entry.UserID, Email: "ada@example.com", FirstName: "Ada"}
	transition := &service.Transition{Entry: entry}
	composed := composer.Compose(transition)

	email := composer.ComposeEmail(transition, composed, user)

	assert.Equal(t, "transaction_withdrawal_failed", email.Template)
	assert.Equal(t, "ada@example.com", email.To)
	assert.Equal(t, user.ID, email.UserID)
	assert.Equal(t, "Withdrawal failed", email.Subject)
	assert.Equal(t, "NGN", email.Asset)
	assert.Equal(t, "WITHDRAWAL", email.TransactionType)
	assert.Equal(t, "Ada", email.Values["first_name"])
	assert.Equal(t, "₦1,500.00", email.Values["amount"])
	assert.Equal(t, composed.InApp.Message, email.Values["message"])
}
