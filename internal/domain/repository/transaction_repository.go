package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	"github.com/sangkips/salonpro-api/pkg/pagination"
)

// InventoryTransactionRepository is the append-only stock ledger.
// There is deliberately no Update or Delete.
type InventoryTransactionRepository interface {
	Create(ctx context.Context, txn *entity.InventoryTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.InventoryTransaction, error)
	// GetLatestForItemByCreator returns the newest ledger row for the item
	// written by creator, or (nil, nil) when there is none.
	GetLatestForItemByCreator(ctx context.Context, itemID, creatorID uuid.UUID) (*entity.InventoryTransaction, error)
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]entity.InventoryTransaction, error)
	// List returns up to limit+1 rows, newest first, so callers can detect a next page
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.InventoryTransaction, error)
}

// TransactionFilterParams contains cursor-based filtering for ledger queries
type TransactionFilterParams struct {
	Cursor    *pagination.CursorParams
	ItemID    *uuid.UUID
	Type      *enum.TransactionType
	CreatedBy *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}
