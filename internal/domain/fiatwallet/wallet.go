// Package fiatwallet models per-currency user wallets and the provider-side entries
// that move money in and out of them.
package fiatwallet

import (
	"errors"
	"time"

	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds in wallet")
	ErrZeroDelta         = errors.New("balance delta cannot be zero")
)

// Wallet holds a user's balance in one currency
type Wallet struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Currency  string    `json:"currency"`
	Balance   int64     `json:"balance"` // Smallest currency unit
	Version   int       `json:"version"` // For optimistic locking
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewWallet creates an empty wallet
func NewWallet(userID uuid.UUID, currency string) (*Wallet, error) {
	if len(currency) != 3 {
		return nil, shared.ErrInvalidCurrency
	}
	now := time.Now().UTC()
	return &Wallet{
		ID:        uuid.New(),
		UserID:    userID,
		Currency:  currency,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyDelta adds a signed amount to the balance, refusing to go negative
func (w *Wallet) ApplyDelta(delta int64) error {
	if delta == 0 {
		return ErrZeroDelta
	}
	if w.Balance+delta < 0 {
		return ErrInsufficientFunds
	}
	w.Balance += delta
	w.UpdatedAt = time.Now().UTC()
	w.Version++
	return nil
}
