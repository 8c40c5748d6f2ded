package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	domainRepo "github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/pkg/pagination"
	"gorm.io/gorm"
)

type inventoryTransactionRepository struct {
	db *gorm.DB
}

// NewInventoryTransactionRepository creates the ledger repository
func NewInventoryTransactionRepository(db *gorm.DB) domainRepo.InventoryTransactionRepository {
	return &inventoryTransactionRepository{db: db}
}

func (r *inventoryTransactionRepository) Create(ctx context.Context, txn *entity.InventoryTransaction) error {
	return conn(ctx, r.db).Create(txn).Error
}

func (r *inventoryTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.InventoryTransaction, error) {
	var txn entity.InventoryTransaction
	err := conn(ctx, r.db).
		Preload("Item").
		First(&txn, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *inventoryTransactionRepository) GetLatestForItemByCreator(ctx context.Context, itemID, creatorID uuid.UUID) (*entity.InventoryTransaction, error) {
	var txn entity.InventoryTransaction
	err := conn(ctx, r.db).
		Preload("Item").
		Where("item_id = ? AND created_by = ?", itemID, creatorID).
		Order("created_at DESC").
		First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &txn, err
}

func (r *inventoryTransactionRepository) ListBySale(ctx context.Context, saleID uuid.UUID) ([]entity.InventoryTransaction, error) {
	var txns []entity.InventoryTransaction
	err := conn(ctx, r.db).
		Preload("Item").
		Where("sale_id = ?", saleID).
		Order("created_at ASC").
		Find(&txns).Error
	return txns, err
}

func (r *inventoryTransactionRepository) List(ctx context.Context, params *domainRepo.TransactionFilterParams) ([]entity.InventoryTransaction, error) {
	var txns []entity.InventoryTransaction

	if params.Cursor == nil {
		params.Cursor = &pagination.CursorParams{}
	}
	params.Cursor.Validate()

	query := conn(ctx, r.db).Model(&entity.InventoryTransaction{})
	if params.ItemID != nil {
		query = query.Where("item_id = ?", *params.ItemID)
	}
	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.CreatedBy != nil {
		query = query.Where("created_by = ?", *params.CreatedBy)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at < ?", *params.EndDate)
	}

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		// Newest first, so the next page holds strictly older rows
		query = query.Where("created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	err = query.Limit(params.Cursor.Limit + 1).
		Preload("Item").
		Order("created_at DESC, id DESC").
		Find(&txns).Error

	return txns, err
}
