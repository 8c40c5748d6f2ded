package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
)

// IdempotencyRepository keeps the stored responses of replayable POSTs.
// Keys are scoped per user.
type IdempotencyRepository interface {
	Find(ctx context.Context, userID uuid.UUID, key string) (*entity.IdempotencyKey, error)
	// Store inserts the key or overwrites an expired one with the same name
	Store(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Purge deletes keys that expired before the given time
	Purge(ctx context.Context, before time.Time) (int64, error)
}
