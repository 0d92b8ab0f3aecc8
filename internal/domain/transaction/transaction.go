// Package transaction models the generic ledger entry every monetary movement produces.
package transaction

import (
	"errors"
	"time"

	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

var (
	ErrEmptyReference = errors.New("reference cannot be empty")
	ErrZeroAmount     = errors.New("amount cannot be zero")
)

// Transaction is the user-facing ledger entry
type Transaction struct {
	ID                uuid.UUID                  `json:"id"`
	UserID            uuid.UUID                  `json:"user_id"`
	Asset             string                     `json:"asset"`
	Amount            int64                      `json:"amount"` // Signed, in the asset's smallest unit
	BalanceBefore     int64                      `json:"balance_before"`
	BalanceAfter      int64                      `json:"balance_after"`
	Status            shared.TransactionStatus   `json:"status"`
	TransactionType   shared.TransactionType     `json:"transaction_type"`
	Category          shared.TransactionCategory `json:"category"`
	Scope             shared.TransactionScope    `json:"transaction_scope"`
	Reference         string                     `json:"reference"`
	Description       string                     `json:"description"`
	ExternalReference *string                    `json:"external_reference,omitempty"`
	FailureReason     *string                    `json:"failure_reason,omitempty"`
	Metadata          shared.Metadata            `json:"metadata"`
	ParentID          *uuid.UUID                 `json:"parent_transaction_id,omitempty"`
	ProcessedAt       *time.Time                 `json:"processed_at,omitempty"`
	CompletedAt       *time.Time                 `json:"completed_at,omitempty"`
	FailedAt          *time.Time                 `json:"failed_at,omitempty"`
	CreatedAt         time.Time                  `json:"created_at"`
	UpdatedAt         time.Time                  `json:"updated_at"`
	DeletedAt         *time.Time                 `json:"deleted_at,omitempty"`
}

// NewParams carries the caller-supplied fields for a new entry
type NewParams struct {
	UserID          uuid.UUID
	Asset           string
	Amount          int64
	BalanceBefore   int64
	Status          shared.TransactionStatus
	TransactionType shared.TransactionType
	Category        shared.TransactionCategory
	Scope           shared.TransactionScope
	Reference       string
	Description     string
	ParentID        *uuid.UUID
	Metadata        shared.Metadata
}

// NewTransaction creates an entry with balance_after derived from balance_before and amount
func NewTransaction(p NewParams) (*Transaction, error) {
	if len(p.Asset) != 3 {
		return nil, shared.ErrInvalidCurrency
	}
	if p.Amount == 0 {
		return nil, ErrZeroAmount
	}
	if p.Reference == "" {
		return nil, ErrEmptyReference
	}
	status := p.Status
	if status == "" {
		status = shared.TransactionStatusPending
	}
	if !status.IsValid() {
		return nil, shared.ErrInvalidStatus
	}
	metadata := p.Metadata
	if metadata == nil {
		metadata = shared.Metadata{}
	}

	now := time.Now().UTC()
	return &Transaction{
		ID:              uuid.New(),
		UserID:          p.UserID,
		Asset:           p.Asset,
		Amount:          p.Amount,
		BalanceBefore:   p.BalanceBefore,
		BalanceAfter:    p.BalanceBefore + p.Amount,
		Status:          status,
		TransactionType: p.TransactionType,
		Category:        p.Category,
		Scope:           p.Scope,
		Reference:       p.Reference,
		Description:     p.Description,
		Metadata:        metadata,
		ParentID:        p.ParentID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// IsTerminal reports whether the entry can no longer change status
func (t *Transaction) IsTerminal() bool {
	return t.Status.IsTerminal()
}

// NotificationParentID returns the entry whose amount should be shown to the user.
// Exchange legs defer to their source leg.
func (t *Transaction) NotificationParentID() (uuid.UUID, bool) {
	if !t.TransactionType.IsExchange() || t.ParentID == nil {
		return uuid.Nil, false
	}
	return *t.ParentID, true
}
