package fiatwallet

import (
	"time"

	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Transaction is the wallet-provider leg linked 1:1 to a generic ledger Transaction
type Transaction struct {
	ID                 uuid.UUID                `json:"id"`
	TransactionID      uuid.UUID                `json:"transaction_id"`
	FiatWalletID       uuid.UUID                `json:"fiat_wallet_id"`
	UserID             uuid.UUID                `json:"user_id"`
	Currency           string                   `json:"currency"`
	Amount             int64                    `json:"amount"`
	BalanceBefore      int64                    `json:"balance_before"`
	BalanceAfter       int64                    `json:"balance_after"`
	Status             shared.TransactionStatus `json:"status"`
	TransactionType    shared.TransactionType   `json:"transaction_type"`
	ProviderReference  *string                  `json:"provider_reference,omitempty"`
	ProviderRequestRef *string                  `json:"provider_request_ref,omitempty"`
	ProviderMetadata   shared.Metadata          `json:"provider_metadata"`
	FailureReason      *string                  `json:"failure_reason,omitempty"`
	ParentID           *uuid.UUID               `json:"parent_id,omitempty"`
	ProcessedAt        *time.Time               `json:"processed_at,omitempty"`
	CompletedAt        *time.Time               `json:"completed_at,omitempty"`
	FailedAt           *time.Time               `json:"failed_at,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

// NewTransactionFor builds the wallet leg mirroring a ledger entry against wallet w
func NewTransactionFor(w *Wallet, ledgerID uuid.UUID, txType shared.TransactionType, amount int64, parentID *uuid.UUID) (*Transaction, error) {
	if amount == 0 {
		return nil, ErrZeroDelta
	}
	now := time.Now().UTC()
	return &Transaction{
		ID:               uuid.New(),
		TransactionID:    ledgerID,
		FiatWalletID:     w.ID,
		UserID:           w.UserID,
		Currency:         w.Currency,
		Amount:           amount,
		BalanceBefore:    w.Balance,
		BalanceAfter:     w.Balance + amount,
		Status:           shared.TransactionStatusPending,
		TransactionType:  txType,
		ProviderMetadata: shared.Metadata{},
		ParentID:         parentID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}
