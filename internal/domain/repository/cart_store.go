package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/cart"
)

// CartStore persists one cart per staff member
type CartStore interface {
	// Load returns the saved cart, or (nil, nil) when none exists
	Load(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	Save(ctx context.Context, userID uuid.UUID, c *cart.Cart) error
	Delete(ctx context.Context, userID uuid.UUID) error
}
