package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the persistence contract for durable accounts.
type Repository interface {
	// ExistsByEmailAndRole reports whether an active account holds the
	// (email, role) identity.
	ExistsByEmailAndRole(ctx context.Context, email string, role Role) (bool, error)

	// FindByEmailAndRole returns ErrUserNotFound when absent.
	FindByEmailAndRole(ctx context.Context, email string, role Role) (*User, error)

	// FindByID returns ErrUserNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// Create persists a new account; ErrEmailConflict when the
	// (email, role) pair is already taken.
	Create(ctx context.Context, u *User) error

	// SetPassword replaces the stored password hash.
	// ErrUserNotFound when no account matches (email, role).
	SetPassword(ctx context.Context, email string, role Role, passwordHash string) error
}
