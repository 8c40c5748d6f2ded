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

var itemSortColumns = map[string]bool{
	"name":          true,
	"sku":           true,
	"current_stock": true,
	"unit_price":    true,
	"expiry_date":   true,
	"created_at":    true,
}

type inventoryItemRepository struct {
	db *gorm.DB
}

// NewInventoryItemRepository creates a new inventory item repository
func NewInventoryItemRepository(db *gorm.DB) domainRepo.InventoryItemRepository {
	return &inventoryItemRepository{db: db}
}

func (r *inventoryItemRepository) Create(ctx context.Context, item *entity.InventoryItem) error {
	return conn(ctx, r.db).Create(item).Error
}

func (r *inventoryItemRepository) CreateBatch(ctx context.Context, items []entity.InventoryItem) error {
	if len(items) == 0 {
		return nil
	}
	return conn(ctx, r.db).CreateInBatches(items, 100).Error
}

func (r *inventoryItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := conn(ctx, r.db).
		Preload("Category").
		First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *inventoryItemRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.InventoryItem, error) {
	if len(ids) == 0 {
		return []entity.InventoryItem{}, nil
	}
	var items []entity.InventoryItem
	err := conn(ctx, r.db).
		Preload("Category").
		Where("id IN ?", ids).
		Find(&items).Error
	return items, err
}

func (r *inventoryItemRepository) GetBySKU(ctx context.Context, sku string) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := conn(ctx, r.db).First(&item, "sku = ?", sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

// Update saves descriptive fields. Stock is never written here; it only
// moves through the ledger operations below.
func (r *inventoryItemRepository) Update(ctx context.Context, item *entity.InventoryItem) error {
	return conn(ctx, r.db).Model(item).
		Select("name", "sku", "category_id", "min_stock", "max_stock", "unit_price", "expiry_date", "supplier", "description").
		Updates(item).Error
}

func (r *inventoryItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.InventoryItem{}, "id = ?", id).Error
}

func (r *inventoryItemRepository) filtered(ctx context.Context, params *domainRepo.ItemFilterParams) *gorm.DB {
	query := conn(ctx, r.db).Model(&entity.InventoryItem{})

	if params.Search != "" {
		pattern := contains(params.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", pattern, pattern)
	}
	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}
	if params.Supplier != "" {
		query = query.Where("LOWER(supplier) LIKE ?", contains(params.Supplier))
	}
	if params.LowStock {
		query = query.Where("current_stock <= min_stock")
	}
	return query
}

func (r *inventoryItemRepository) List(ctx context.Context, params *domainRepo.ItemFilterParams) ([]entity.InventoryItem, int64, error) {
	var items []entity.InventoryItem
	var total int64

	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}

	if err := r.filtered(ctx, params).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := r.filtered(ctx, params).
		Preload("Category").
		Order(orderClause(params.SortBy, params.SortOrder, itemSortColumns, "name")).
		Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Find(&items).Error

	return items, total, err
}

func (r *inventoryItemRepository) ListAll(ctx context.Context) ([]entity.InventoryItem, error) {
	var items []entity.InventoryItem
	err := conn(ctx, r.db).Preload("Category").Order("name ASC").Find(&items).Error
	return items, err
}

func (r *inventoryItemRepository) GetLowStock(ctx context.Context) ([]entity.InventoryItem, error) {
	var items []entity.InventoryItem
	err := conn(ctx, r.db).
		Where("current_stock <= min_stock").
		Order("current_stock ASC").
		Find(&items).Error
	return items, err
}

func (r *inventoryItemRepository) CountLowStock(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.InventoryItem{}).
		Where("current_stock <= min_stock").
		Count(&count).Error
	return count, err
}

func (r *inventoryItemRepository) StockLevels(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	levels := make(map[uuid.UUID]int, len(ids))
	if len(ids) == 0 {
		return levels, nil
	}

	var rows []struct {
		ID           uuid.UUID
		CurrentStock int
	}
	err := conn(ctx, r.db).Model(&entity.InventoryItem{}).
		Select("id", "current_stock").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		levels[row.ID] = row.CurrentStock
	}
	return levels, nil
}

// DecrementStock runs
// UPDATE inventory_items SET current_stock = current_stock - n WHERE id = ? AND current_stock >= n
// so concurrent deductions serialize on the row and can never go negative.
func (r *inventoryItemRepository) DecrementStock(ctx context.Context, id uuid.UUID, amount int) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.InventoryItem{}).
		Where("id = ? AND current_stock >= ?", id, amount).
		Update("current_stock", gorm.Expr("current_stock - ?", amount))

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *inventoryItemRepository) IncrementStock(ctx context.Context, id uuid.UUID, amount int) error {
	result := conn(ctx, r.db).Model(&entity.InventoryItem{}).
		Where("id = ?", id).
		Update("current_stock", gorm.Expr("current_stock + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *inventoryItemRepository) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	result := conn(ctx, r.db).Model(&entity.InventoryItem{}).
		Where("id = ?", id).
		Update("current_stock", stock)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *inventoryItemRepository) SwapStock(ctx context.Context, id uuid.UUID, expected, stock int) (bool, error) {
	result := conn(ctx, r.db).Model(&entity.InventoryItem{}).
		Where("id = ? AND current_stock = ?", id, expected).
		Update("current_stock", stock)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

type inventoryCategoryRepository struct {
	db *gorm.DB
}

// NewInventoryCategoryRepository creates a new category repository
func NewInventoryCategoryRepository(db *gorm.DB) domainRepo.InventoryCategoryRepository {
	return &inventoryCategoryRepository{db: db}
}

func (r *inventoryCategoryRepository) Create(ctx context.Context, category *entity.InventoryCategory) error {
	return conn(ctx, r.db).Create(category).Error
}

func (r *inventoryCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.InventoryCategory, error) {
	var category entity.InventoryCategory
	err := conn(ctx, r.db).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *inventoryCategoryRepository) GetBySlug(ctx context.Context, slug string) (*entity.InventoryCategory, error) {
	var category entity.InventoryCategory
	err := conn(ctx, r.db).First(&category, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &category, err
}

func (r *inventoryCategoryRepository) Update(ctx context.Context, category *entity.InventoryCategory) error {
	return conn(ctx, r.db).Save(category).Error
}

func (r *inventoryCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.InventoryCategory{}, "id = ?", id).Error
}

func (r *inventoryCategoryRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.InventoryCategory, int64, error) {
	var categories []entity.InventoryCategory
	var total int64

	query := conn(ctx, r.db).Model(&entity.InventoryCategory{})
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", contains(search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&categories).Error

	return categories, total, err
}
