package components

import (
	"context"
	"errors"
	"testing"

	"github.com/fiat-wallet-ledger/internal/domain/notification"
	"github.com/fiat-wallet-ledger/internal/status_engine/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestNotificationDispatcher(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	testCases := []struct {
		name          string
		setupMocks    func(inbox *MockInbox, push, email *MockPublisher)
		call          func(d service.NotificationDispatcher) error
		expectedError string
	}{
		{
			name: "InAppGoesToInbox",
			setupMocks: func(inbox *MockInbox, push, email *MockPublisher) {
				inbox.On("Insert", ctx, mock.AnythingOfType("*notification.Instruction")).Return(nil).Once()
			},
			call: func(d service.NotificationDispatcher) error {
				return d.NotifyInApp(ctx, &notification.Instruction{ID: uuid.New(), UserID: userID})
			},
		},
		{
			name: "InboxFailure",
			setupMocks: func(inbox *MockInbox, push, email *MockPublisher) {
				inbox.On("Insert", ctx, mock.Anything).Return(errors.New("write concern")).Once()
			},
			call: func(d service.NotificationDispatcher) error {
				return d.NotifyInApp(ctx, &notification.Instruction{UserID: userID})
			},
			expectedError: "failed to store in-app notification",
		},
		{
			name: "PushKeyedByUser",
			setupMocks: func(inbox *MockInbox, push, email *MockPublisher) {
				push.On("Publish", ctx, userID.String(), mock.AnythingOfType("*notification.PushInstruction")).Return(nil).Once()
			},
			call: func(d service.NotificationDispatcher) error {
				return d.NotifyPush(ctx, &notification.PushInstruction{UserID: userID, Token: "tok"})
			},
		},
		{
			name: "EmailPublishFailure",
			setupMocks: func(inbox *MockInbox, push, email *MockPublisher) {
				email.On("Publish", ctx, userID.String(), mock.Anything).Return(errors.New("broker unavailable")).Once()
			},
			call: func(d service.NotificationDispatcher) error {
				return d.SendEmail(ctx, &notification.EmailInstruction{UserID: userID, Template: "transaction_deposit_success"})
			},
			expectedError: "failed to publish email instruction",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			inbox := &MockInbox{}
			push := &MockPublisher{}
			email := &MockPublisher{}
			tc.setupMocks(inbox, push, email)

			dispatcher := NewNotificationDispatcher(inbox, push, email, discardLogger())
			err := tc.call(dispatcher)

			if tc.expectedError != "" {
				assert.ErrorContains(t, err, tc.expectedError)
			} else {
				assert.NoError(t, err)
			}
			inbox.AssertExpectations(t)
			push.AssertExpectations(t)
			email.AssertExpectations(t)
		})
	}
}
