package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fiat-wallet-ledger/internal/domain/notification"
	"github.com/fiat-wallet-ledger/internal/platform/messaging/producers"
	"github.com/fiat-wallet-ledger/internal/status_engine/service"
)

// NotificationDispatcherImpl writes in-app notifications to the inbox and publishes
// push and email instructions for the delivery services
type NotificationDispatcherImpl struct {
	inbox  notification.Inbox
	push   producers.MessagePublisher
	email  producers.MessagePublisher
	logger *slog.Logger
}

func NewNotificationDispatcher(
	inbox notification.Inbox,
	push producers.MessagePublisher,
	email producers.MessagePublisher,
	logger *slog.Logger,
) service.NotificationDispatcher {
	return &NotificationDispatcherImpl{
		inbox:  inbox,
		push:   push,
		email:  email,
		logger: logger,
	}
}

func (d *NotificationDispatcherImpl) NotifyInApp(ctx context.Context, instruction *notification.Instruction) error {
	if err := d.inbox.Insert(ctx, instruction); err != nil {
		return fmt.Errorf("failed to store in-app notification: %w", err)
	}
	return nil
}

func (d *NotificationDispatcherImpl) NotifyPush(ctx context.Context, instruction *notification.PushInstruction) error {
	if err := d.push.Publish(ctx, instruction.UserID.String(), instruction); err != nil {
		return fmt.Errorf("failed to publish push instruction: %w", err)
	}
	return nil
}

func (d *NotificationDispatcherImpl) SendEmail(ctx context.Context, instruction *notification.EmailInstruction) error {
	if err := d.email.Publish(ctx, instruction.UserID.String(), instruction); err != nil {
		return fmt.Errorf("failed to publish email instruction: %w", err)
	}
	d.logger.Debug("Email instruction published",
		"user_id", instruction.UserID.String(),
		"template", instruction.Template,
	)
	return nil
}
