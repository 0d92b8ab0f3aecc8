package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/fiat-wallet-ledger/internal/domain/directory"
	"github.com/fiat-wallet-ledger/internal/domain/notification"
	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/fiat-wallet-ledger/internal/status_engine/service"
	"github.com/google/uuid"
)

// ComposedNotification is everything the dispatcher may be asked to deliver for one transition
type ComposedNotification struct {
	InApp     *notification.Instruction
	PushTitle string
	PushBody  string
}

// NotificationComposer turns a transition into user-facing copy
type NotificationComposer struct {
	primaryCurrency string
	emailTypes      map[shared.TransactionType]bool
	now             func() time.Time
}

func NewNotificationComposer(primaryCurrency string, emailTypes []string) *NotificationComposer {
	types := make(map[shared.TransactionType]bool, len(emailTypes))
	for _, t := range emailTypes {
		types[shared.TransactionType(strings.ToUpper(strings.TrimSpace(t)))] = true
	}
	return &NotificationComposer{
		primaryCurrency: strings.ToUpper(primaryCurrency),
		emailTypes:      types,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func kindFor(status shared.TransactionStatus) notification.Kind {
	if status == shared.TransactionStatusFailed {
		return notification.KindFailed
	}
	return notification.KindSuccess
}

// typeLabel is the lower-case noun used in copy, e.g. "transfer"
func typeLabel(t shared.TransactionType) string {
	switch t {
	case shared.TransactionTypeDeposit:
		return "deposit"
	case shared.TransactionTypeWithdrawal:
		return "withdrawal"
	case shared.TransactionTypeTransferIn, shared.TransactionTypeTransferOut:
		return "transfer"
	case shared.TransactionTypeExchange:
		return "exchange"
	case shared.TransactionTypeReward:
		return "reward"
	case shared.TransactionTypeRefund:
		return "refund"
	case shared.TransactionTypeFee:
		return "fee"
	}
	return "transaction"
}

func titleFor(t shared.TransactionType, kind notification.Kind) string {
	label := typeLabel(t)
	label = strings.ToUpper(label[:1]) + label[1:]
	if kind == notification.KindFailed {
		return label + " failed"
	}
	if t == shared.TransactionTypeTransferIn {
		return "Money received"
	}
	return label + " successful"
}

func messageFor(t shared.TransactionType, kind notification.Kind, amount string) string {
	if kind == notification.KindFailed {
		return fmt.Sprintf("Your %s of %s failed. Any debited funds will be returned to your wallet.", typeLabel(t), amount)
	}
	switch t {
	case shared.TransactionTypeTransferIn:
		return fmt.Sprintf("You received %s.", amount)
	case shared.TransactionTypeRefund:
		return fmt.Sprintf("%s has been refunded to your wallet.", amount)
	}
	return fmt.Sprintf("Your %s of %s was successful.", typeLabel(t), amount)
}

// Compose builds the in-app instruction and push copy. The amount shown comes from the subject.
func (c *NotificationComposer) Compose(transition *service.Transition) *ComposedNotification {
	entry := transition.Entry
	subject := transition.Subject
	if subject == nil {
		subject = entry
	}

	kind := kindFor(entry.Status)
	amount := FormatAmount(subject.Amount, subject.Asset)
	title := titleFor(entry.TransactionType, kind)
	message := messageFor(entry.TransactionType, kind, amount)

	metadata := map[string]string{
		"transaction_id":   entry.ID.String(),
		"transaction_type": string(entry.TransactionType),
		"status":           string(entry.Status),
		"asset":            subject.Asset,
		"amount":           amount,
		"reference":        entry.Reference,
	}
	if entry.FailureReason != nil {
		metadata["failure_reason"] = *entry.FailureReason
	}

	return &ComposedNotification{
		InApp: &notification.Instruction{
			ID:        uuid.New(),
			UserID:    entry.UserID,
			Kind:      kind,
			Title:     title,
			Message:   message,
			Metadata:  metadata,
			CreatedAt: c.now(),
		},
		PushTitle: title,
		PushBody:  message,
	}
}

// EmailEligible reports whether the transition's type and asset may produce an email
func (c *NotificationComposer) EmailEligible(transition *service.Transition) bool {
	subject := transition.Subject
	if subject == nil {
		subject = transition.Entry
	}
	return strings.EqualFold(subject.Asset, c.primaryCurrency) && c.emailTypes[transition.Entry.TransactionType]
}

// ComposeEmail names the template and the values it is rendered with
func (c *NotificationComposer) ComposeEmail(transition *service.Transition, composed *ComposedNotification, user *directory.User) *notification.EmailInstruction {
	entry := transition.Entry
	kind := composed.InApp.Kind

	values := map[string]string{
		"first_name": user.FirstName,
		"title":      composed.InApp.Title,
		"message":    composed.InApp.Message,
	}
	for k, v := range composed.InApp.Metadata {
		values[k] = v
	}

	return &notification.EmailInstruction{
		UserID:          user.ID,
		To:              user.Email,
		Template:        fmt.Sprintf("transaction_%s_%s", strings.ToLower(string(entry.TransactionType)), strings.ToLower(string(kind))),
		Subject:         composed.InApp.Title,
		TransactionType: string(entry.TransactionType),
		Asset:           values["asset"],
		Values:          values,
	}
}
