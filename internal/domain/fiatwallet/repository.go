package fiatwallet

import (
	"context"

	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepository manages wallet-leg persistence
type TransactionRepository interface {
	Create(ctx context.Context, txn *Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*Transaction, error)
	Update(ctx context.Context, id uuid.UUID, changes shared.StatusChanges) (*Transaction, error)
	WithTx(tx pgx.Tx) TransactionRepository
}

// WalletRepository manages wallet balances
type WalletRepository interface {
	// LockForUpdate acquires a row lock on the user's wallet for the currency
	LockForUpdate(ctx context.Context, userID uuid.UUID, currency string) (*Wallet, error)
	// UpdateBalance uses optimistic locking on the version read before the change
	UpdateBalance(ctx context.Context, id uuid.UUID, delta int64, version int) error
	WithTx(tx pgx.Tx) WalletRepository
}

// ErrTransactionNotFound indicates a missing wallet leg
type ErrTransactionNotFound struct {
	ID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "fiat wallet transaction not found: " + e.ID.String()
}

// Is matches shared.ErrNotFound and any ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	if target == shared.ErrNotFound {
		return true
	}
	t, ok := target.(ErrTransactionNotFound)
	return ok && (t.ID == uuid.Nil || t.ID == e.ID)
}

// ErrWalletNotFound indicates the user holds no wallet in the currency
type ErrWalletNotFound struct {
	UserID   uuid.UUID
	Currency string
}

func (e ErrWalletNotFound) Error() string {
	return "fiat wallet not found for user " + e.UserID.String() + " in " + e.Currency
}

func (e ErrWalletNotFound) Is(target error) bool {
	if target == shared.ErrNotFound {
		return true
	}
	_, ok := target.(ErrWalletNotFound)
	return ok
}

// ErrConcurrentModification indicates optimistic lock failure
type ErrConcurrentModification struct {
	WalletID uuid.UUID
}

func (e ErrConcurrentModification) Error() string {
	return "concurrent modification detected for wallet: " + e.WalletID.String()
}
