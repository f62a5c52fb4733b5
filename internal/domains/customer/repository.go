package customer

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// GetByUserID returns ErrProfileNotFound when the customer has not
	// filled a profile yet.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Customer, error)

	// Upsert creates or replaces the profile for c.UserID.
	Upsert(ctx context.Context, c *Customer) error
}
