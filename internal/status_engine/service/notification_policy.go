package service

import (
	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/fiat-wallet-ledger/internal/domain/transaction"
)

// NotificationPolicy narrows which channels a genuine transition may use
type NotificationPolicy int

const (
	NotifyAll NotificationPolicy = iota
	NotifyInAppOnly
	NotifySilent
)

func (p NotificationPolicy) String() string {
	switch p {
	case NotifyAll:
		return "all"
	case NotifyInAppOnly:
		return "in_app_only"
	case NotifySilent:
		return "silent"
	}
	return "unknown"
}

// AllowsInApp reports whether the in-app inbox may be written
func (p NotificationPolicy) AllowsInApp() bool {
	return p == NotifyAll || p == NotifyInAppOnly
}

// AllowsExternal reports whether push and email may be sent
func (p NotificationPolicy) AllowsExternal() bool {
	return p == NotifyAll
}

// Transition describes one genuine status change handed to the notifier
type Transition struct {
	Entry *transaction.Transaction
	// Subject supplies the amount and asset shown to the user; the parent leg for exchanges.
	Subject *transaction.Transaction
	From    shared.TransactionStatus
}

// Notifiable reports whether the new status is one users are told about
func (t *Transition) Notifiable() bool {
	return t.Entry.Status == shared.TransactionStatusCompleted || t.Entry.Status == shared.TransactionStatusFailed
}
