package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/pkg/pagination"
)

// InventoryItemRepository defines the interface for inventory item data operations
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	CreateBatch(ctx context.Context, items []entity.InventoryItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error)
	// GetByIDs retrieves multiple items in a single query
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.InventoryItem, error)
	GetBySKU(ctx context.Context, sku string) (*entity.InventoryItem, error)
	Update(ctx context.Context, item *entity.InventoryItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ItemFilterParams) ([]entity.InventoryItem, int64, error)
	ListAll(ctx context.Context) ([]entity.InventoryItem, error)
	GetLowStock(ctx context.Context) ([]entity.InventoryItem, error)
	CountLowStock(ctx context.Context) (int64, error)
	// StockLevels returns current stock keyed by item id. Missing or deleted
	// items are absent from the map.
	StockLevels(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error)
	// DecrementStock subtracts amount only if enough stock remains.
	// Returns (false, nil) when stock is insufficient or the item is gone.
	DecrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error)
	IncrementStock(ctx context.Context, id uuid.UUID, amount int) error
	SetStock(ctx context.Context, id uuid.UUID, stock int) error
	// SwapStock sets stock only while it still equals expected.
	// Returns (false, nil) when another write got there first.
	SwapStock(ctx context.Context, id uuid.UUID, expected, stock int) (bool, error)
}

// ItemFilterParams contains filtering parameters for inventory item queries
type ItemFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CategoryID *uuid.UUID
	Supplier   string
	LowStock   bool
	SortBy     string
	SortOrder  string
}

// InventoryCategoryRepository defines the interface for category data operations
type InventoryCategoryRepository interface {
	Create(ctx context.Context, category *entity.InventoryCategory) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.InventoryCategory, error)
	GetBySlug(ctx context.Context, slug string) (*entity.InventoryCategory, error)
	Update(ctx context.Context, category *entity.InventoryCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.InventoryCategory, int64, error)
}
