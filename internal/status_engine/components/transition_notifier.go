package components

import (
	"context"
	"log/slog"

	"github.com/fiat-wallet-ledger/internal/domain/directory"
	"github.com/fiat-wallet-ledger/internal/domain/notification"
	"github.com/fiat-wallet-ledger/internal/status_engine/service"
)

// TransitionNotifierImpl fans a genuine transition out to in-app, push and email.
// Every delivery failure is logged and swallowed.
type TransitionNotifierImpl struct {
	composer   *NotificationComposer
	dispatcher service.NotificationDispatcher
	users      directory.UserDirectory
	profiles   directory.ProfileDirectory
	logger     *slog.Logger
}

func NewTransitionNotifier(
	composer *NotificationComposer,
	dispatcher service.NotificationDispatcher,
	users directory.UserDirectory,
	profiles directory.ProfileDirectory,
	logger *slog.Logger,
) *TransitionNotifierImpl {
	return &TransitionNotifierImpl{
		composer:   composer,
		dispatcher: dispatcher,
		users:      users,
		profiles:   profiles,
		logger:     logger,
	}
}

func (n *TransitionNotifierImpl) NotifyTransition(ctx context.Context, transition *service.Transition, policy service.NotificationPolicy) {
	entry := transition.Entry
	logger := n.logger.With(
		"user_id", entry.UserID.String(),
		"transaction_id", entry.ID.String(),
	)

	composed := n.composer.Compose(transition)

	if policy.AllowsInApp() {
		if err := n.dispatcher.NotifyInApp(ctx, composed.InApp); err != nil {
			logger.Error("Failed to send in-app notification", "error", err)
		}
	}

	if !policy.AllowsExternal() {
		return
	}

	n.sendPush(ctx, logger, transition, composed)

	if n.composer.EmailEligible(transition) {
		n.sendEmail(ctx, logger, transition, composed)
	}
}

func (n *TransitionNotifierImpl) sendPush(ctx context.Context, logger *slog.Logger, transition *service.Transition, composed *ComposedNotification) {
	profile, err := n.profiles.FindProfile(ctx, transition.Entry.UserID)
	if err != nil {
		logger.Error("Failed to load profile for push notification", "error", err)
		return
	}
	if profile.NotificationToken == "" {
		logger.Debug("No notification token, skipping push")
		return
	}

	err = n.dispatcher.NotifyPush(ctx, &notification.PushInstruction{
		UserID: transition.Entry.UserID,
		Token:  profile.NotificationToken,
		Title:  composed.PushTitle,
		Body:   composed.PushBody,
	})
	if err != nil {
		logger.Error("Failed to send push notification", "error", err)
	}
}

func (n *TransitionNotifierImpl) sendEmail(ctx context.Context, logger *slog.Logger, transition *service.Transition, composed *ComposedNotification) {
	user, err := n.users.FindUser(ctx, transition.Entry.UserID)
	if err != nil {
		logger.Error("Failed to load user for email", "error", err)
		return
	}
	if user.Email == "" {
		logger.Debug("User has no email address, skipping email")
		return
	}

	if err := n.dispatcher.SendEmail(ctx, n.composer.ComposeEmail(transition, composed, user)); err != nil {
		logger.Error("Failed to send email", "error", err)
	}
}
