package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/pkg/pagination"
)

// SaleRepository defines the interface for checkout sale records
type SaleRepository interface {
	// Create stores the sale together with its lines
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetByReference(ctx context.Context, reference string) (*entity.Sale, error)
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Sale, int64, error)
	ListSince(ctx context.Context, since time.Time) ([]entity.Sale, error)
	TotalRevenue(ctx context.Context) (int64, error)
}
