package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
)

// AlertRepository defines the interface for inventory alerts
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Alert, error)
	ListActive(ctx context.Context) ([]entity.Alert, error)
	CountActive(ctx context.Context) (int64, error)
	Resolve(ctx context.Context, id uuid.UUID, at time.Time) error
	// ResolveWhere closes every open alert of kind for the given items
	ResolveWhere(ctx context.Context, kind enum.AlertType, itemIDs []uuid.UUID, at time.Time) (int64, error)
}
