// Package directory exposes the user and profile lookups notifications need.
package directory

import (
	"context"

	"github.com/fiat-wallet-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// User carries the fields used to personalise emails
type User struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
}

// Profile carries the push token, which may be empty
type Profile struct {
	UserID            uuid.UUID
	NotificationToken string
}

// UserDirectory finds users
type UserDirectory interface {
	FindUser(ctx context.Context, userID uuid.UUID) (*User, error)
}

// ProfileDirectory finds profiles
type ProfileDirectory interface {
	FindProfile(ctx context.Context, userID uuid.UUID) (*Profile, error)
}

// ErrUserNotFound indicates a missing user or profile row
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e ErrUserNotFound) Error() string {
	return "user not found: " + e.UserID.String()
}

func (e ErrUserNotFound) Is(target error) bool {
	if target == shared.ErrNotFound {
		return true
	}
	_, ok := target.(ErrUserNotFound)
	return ok
}
