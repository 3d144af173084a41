package users

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when signup hits an existing email.
	ErrEmailTaken = errors.New("email already registered")
)

// Repo defines persistence operations for user accounts.
type Repo interface {
	Create(ctx context.Context, user User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
	// Upsert refreshes profile fields for OAuth sign-ins keyed by email.
	Upsert(ctx context.Context, user User) (User, error)
}
