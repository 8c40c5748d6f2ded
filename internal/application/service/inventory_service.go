package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	"github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/pkg/apperror"
	"github.com/sangkips/salonpro-api/pkg/money"
	"github.com/sangkips/salonpro-api/pkg/pagination"
	"github.com/sangkips/salonpro-api/pkg/utils"
	"go.uber.org/zap"
)

const (
	openingStockReason = "Opening stock"
	adjustAttempts     = 3
)

// InventoryService manages stocked items, their categories and the stock ledger
type InventoryService struct {
	itemRepo     repository.InventoryItemRepository
	categoryRepo repository.InventoryCategoryRepository
	txnRepo      repository.InventoryTransactionRepository
	transactor   repository.Transactor
	receipts     *ReceiptService
	notifier     changeNotifier
	log          *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	itemRepo repository.InventoryItemRepository,
	categoryRepo repository.InventoryCategoryRepository,
	txnRepo repository.InventoryTransactionRepository,
	transactor repository.Transactor,
	receipts *ReceiptService,
	publisher repository.ChangePublisher,
	log *zap.Logger,
) *InventoryService {
	return &InventoryService{
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		txnRepo:      txnRepo,
		transactor:   transactor,
		receipts:     receipts,
		notifier:     newChangeNotifier(publisher, log),
		log:          log,
	}
}

// CreateItemInput represents the create item input
type CreateItemInput struct {
	UserID       uuid.UUID
	CategoryID   *uuid.UUID
	Name         string
	SKU          string
	CurrentStock int
	MinStock     int
	MaxStock     int
	UnitPrice    float64
	ExpiryDate   *time.Time
	Supplier     string
	Description  *string
}

// CreateItem creates an item. Opening stock is written to the ledger as a
// stock_in row in the same transaction.
func (s *InventoryService) CreateItem(ctx context.Context, input *CreateItemInput) (*entity.InventoryItem, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "Name is required")
	}
	if input.CurrentStock < 0 {
		return nil, apperror.NewFieldError("current_stock", "Stock cannot be negative")
	}
	if input.UnitPrice < 0 {
		return nil, apperror.NewFieldError("unit_price", "Price cannot be negative")
	}

	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		sku = utils.GenerateSKU()
	}
	existing, err := s.itemRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to check SKU")
	}
	if existing != nil {
		return nil, apperror.NewConflictError("SKU already exists")
	}

	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	item := &entity.InventoryItem{
		CategoryID:   input.CategoryID,
		Name:         name,
		SKU:          sku,
		CurrentStock: input.CurrentStock,
		MinStock:     input.MinStock,
		MaxStock:     input.MaxStock,
		UnitPrice:    money.FromDecimal(input.UnitPrice),
		ExpiryDate:   input.ExpiryDate,
		Supplier:     strings.TrimSpace(input.Supplier),
		Description:  input.Description,
		CreatedBy:    input.UserID,
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.itemRepo.Create(ctx, item); err != nil {
			return err
		}
		if item.CurrentStock == 0 {
			return nil
		}
		reason := openingStockReason
		return s.txnRepo.Create(ctx, &entity.InventoryTransaction{
			ItemID:     item.ID,
			Type:       enum.TransactionTypeStockIn,
			Quantity:   item.CurrentStock,
			UnitPrice:  item.UnitPrice,
			StockAfter: item.CurrentStock,
			Reason:     &reason,
			CreatedBy:  input.UserID,
		})
	})
	if err != nil {
		s.log.Error("Failed to create inventory item", zap.String("name", name), zap.Error(err))
		return nil, apperror.Wrap(err, "Failed to create item")
	}

	s.notifier.notify(ctx, repository.TableInventoryItems, repository.ChangeInsert, item.ID)
	return s.GetItem(ctx, item.ID)
}

func (s *InventoryService) ensureCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	category, err := s.categoryRepo.GetByID(ctx, *id)
	if err != nil {
		return apperror.Wrap(err, "Failed to load category")
	}
	if category == nil {
		return apperror.NewNotFoundError("Category")
	}
	return nil
}

// GetItem retrieves an item by ID
func (s *InventoryService) GetItem(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load item")
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Item")
	}
	return item, nil
}

// ListItems lists items with filtering
func (s *InventoryService) ListItems(ctx context.Context, params *repository.ItemFilterParams) (*pagination.PaginatedResult[entity.InventoryItem], error) {
	items, total, err := s.itemRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to list items")
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

// GetLowStockItems returns items at or below their reorder threshold
func (s *InventoryService) GetLowStockItems(ctx context.Context) ([]entity.InventoryItem, error) {
	items, err := s.itemRepo.GetLowStock(ctx)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to list low stock items")
	}
	return items, nil
}

// UpdateItemInput represents the update item input. Stock is not editable
// here; it only moves through RecordTransaction and checkout.
type UpdateItemInput struct {
	ID          uuid.UUID
	CategoryID  *uuid.UUID
	Name        *string
	SKU         *string
	MinStock    *int
	MaxStock    *int
	UnitPrice   *float64
	ExpiryDate  *time.Time
	Supplier    *string
	Description *string
}

// UpdateItem updates an item's catalogue fields
func (s *InventoryService) UpdateItem(ctx context.Context, input *UpdateItemInput) (*entity.InventoryItem, error) {
	item, err := s.GetItem(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.SKU != nil && *input.SKU != item.SKU {
		existing, err := s.itemRepo.GetBySKU(ctx, *input.SKU)
		if err != nil {
			return nil, apperror.Wrap(err, "Failed to check SKU")
		}
		if existing != nil && existing.ID != item.ID {
			return nil, apperror.NewConflictError("SKU already exists")
		}
		item.SKU = *input.SKU
	}
	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
			return nil, err
		}
		item.CategoryID = input.CategoryID
		item.Category = nil
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewFieldError("name", "Name is required")
		}
		item.Name = name
	}
	if input.MinStock != nil {
		item.MinStock = *input.MinStock
	}
	if input.MaxStock != nil {
		item.MaxStock = *input.MaxStock
	}
	if input.UnitPrice != nil {
		if *input.UnitPrice < 0 {
			return nil, apperror.NewFieldError("unit_price", "Price cannot be negative")
		}
		item.UnitPrice = money.FromDecimal(*input.UnitPrice)
	}
	if input.ExpiryDate != nil {
		item.ExpiryDate = input.ExpiryDate
	}
	if input.Supplier != nil {
		item.Supplier = strings.TrimSpace(*input.Supplier)
	}
	if input.Description != nil {
		item.Description = input.Description
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		s.log.Error("Failed to update inventory item", zap.String("item_id", item.ID.String()), zap.Error(err))
		return nil, apperror.Wrap(err, "Failed to update item")
	}

	s.notifier.notify(ctx, repository.TableInventoryItems, repository.ChangeUpdate, item.ID)
	return s.GetItem(ctx, item.ID)
}

// DeleteItem soft deletes an item. Its ledger history is kept.
func (s *InventoryService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return apperror.Wrap(err, "Failed to delete item")
	}
	s.notifier.notify(ctx, repository.TableInventoryItems, repository.ChangeDelete, id)
	return nil
}

// RecordTransactionInput represents one manual stock movement
type RecordTransactionInput struct {
	UserID          uuid.UUID
	ItemID          uuid.UUID
	Type            enum.TransactionType
	Quantity        int
	UnitPrice       *float64
	Reason          *string
	ReferenceNumber *string
}

// TransactionResult is a recorded movement, the item after it and the slip
type TransactionResult struct {
	Transaction *entity.InventoryTransaction `json:"transaction"`
	Item        *entity.InventoryItem        `json:"item"`
	Receipt     *entity.Receipt              `json:"receipt,omitempty"`
}

// RecordTransaction appends a ledger row and moves the stock counter in one
// database transaction.
//
// stock_out only succeeds if enough stock remains; otherwise nothing is
// written. stock_in adds quantity. adjustment treats quantity as the counted
// stock: the counter is set to it and the ledger row records the size of
// the correction.
func (s *InventoryService) RecordTransaction(ctx context.Context, input *RecordTransactionInput) (*TransactionResult, error) {
	if !input.Type.IsValid() {
		return nil, apperror.NewFieldError("type", "Type must be stock_in, stock_out or adjustment")
	}
	if input.Type == enum.TransactionTypeAdjustment {
		if input.Quantity < 0 {
			return nil, apperror.NewFieldError("quantity", "Counted stock cannot be negative")
		}
	} else if input.Quantity <= 0 {
		return nil, apperror.NewFieldError("quantity", "Quantity must be greater than zero")
	}

	item, err := s.GetItem(ctx, input.ItemID)
	if err != nil {
		return nil, err
	}

	unitPrice := item.UnitPrice
	if input.UnitPrice != nil {
		if *input.UnitPrice < 0 {
			return nil, apperror.NewFieldError("unit_price", "Price cannot be negative")
		}
		unitPrice = money.FromDecimal(*input.UnitPrice)
	}

	txn := &entity.InventoryTransaction{
		ItemID:          item.ID,
		Type:            input.Type,
		Quantity:        input.Quantity,
		UnitPrice:       unitPrice,
		Reason:          trimmedOrNil(input.Reason),
		ReferenceNumber: trimmedOrNil(input.ReferenceNumber),
		CreatedBy:       input.UserID,
	}

	var after *entity.InventoryItem
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		switch input.Type {
		case enum.TransactionTypeStockOut:
			ok, err := s.itemRepo.DecrementStock(ctx, item.ID, input.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return apperror.ErrInsufficientStock
			}
		case enum.TransactionTypeStockIn:
			if err := s.itemRepo.IncrementStock(ctx, item.ID, input.Quantity); err != nil {
				return err
			}
		case enum.TransactionTypeAdjustment:
			delta, err := s.adjustStock(ctx, item.ID, input.Quantity)
			if err != nil {
				return err
			}
			txn.Quantity = delta
		}

		current, err := s.itemRepo.GetByID(ctx, item.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return apperror.NewNotFoundError("Item")
		}
		after = current
		txn.StockAfter = current.CurrentStock

		return s.txnRepo.Create(ctx, txn)
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		s.log.Error("Failed to record inventory transaction",
			zap.String("item_id", item.ID.String()),
			zap.String("type", string(input.Type)),
			zap.Error(err),
		)
		return nil, apperror.Wrap(err, "Failed to record transaction")
	}

	s.notifier.notify(ctx, repository.TableInventoryTransactions, repository.ChangeInsert, txn.ID)
	s.notifier.notify(ctx, repository.TableInventoryItems, repository.ChangeUpdate, item.ID)

	result := &TransactionResult{Transaction: txn, Item: after}
	result.Receipt = s.latestReceipt(ctx, item.ID, input.UserID)
	return result, nil
}

// adjustStock sets the counted quantity and returns |counted - previous|.
// The write only lands if stock is still what was read; a concurrent
// sale in between forces a re-read.
func (s *InventoryService) adjustStock(ctx context.Context, itemID uuid.UUID, counted int) (int, error) {
	for attempt := 0; attempt < adjustAttempts; attempt++ {
		current, err := s.itemRepo.GetByID(ctx, itemID)
		if err != nil {
			return 0, err
		}
		if current == nil {
			return 0, apperror.NewNotFoundError("Item")
		}
		delta := counted - current.CurrentStock
		if delta == 0 {
			return 0, apperror.NewBadRequestError("Stock already matches the counted quantity")
		}
		ok, err := s.itemRepo.SwapStock(ctx, itemID, current.CurrentStock, counted)
		if err != nil {
			return 0, err
		}
		if ok {
			if delta < 0 {
				delta = -delta
			}
			return delta, nil
		}
	}
	return 0, apperror.NewConflictError("Stock changed during the adjustment, try again")
}

// latestReceipt looks up the caller's newest movement for the item and
// turns it into a slip. A failed or empty lookup only costs the receipt.
func (s *InventoryService) latestReceipt(ctx context.Context, itemID, userID uuid.UUID) *entity.Receipt {
	if s.receipts == nil {
		return nil
	}
	latest, err := s.txnRepo.GetLatestForItemByCreator(ctx, itemID, userID)
	if err != nil {
		s.log.Warn("Receipt lookup failed", zap.String("item_id", itemID.String()), zap.Error(err))
		return nil
	}
	if latest == nil {
		s.log.Warn("Receipt lookup found no transaction", zap.String("item_id", itemID.String()))
		return nil
	}
	return s.receipts.TransactionReceipt(ctx, latest)
}

// GetTransaction retrieves one ledger row
func (s *InventoryService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.InventoryTransaction, error) {
	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load transaction")
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}

// ListTransactions pages through the ledger newest first
func (s *InventoryService) ListTransactions(ctx context.Context, params *repository.TransactionFilterParams) (*pagination.CursorPaginatedResult[entity.InventoryTransaction], error) {
	if params.Cursor == nil {
		params.Cursor = &pagination.CursorParams{}
	}
	params.Cursor.Validate()
	if _, err := params.Cursor.DecodeCursor(); err != nil {
		return nil, apperror.NewFieldError("cursor", "Invalid cursor")
	}

	txns, err := s.txnRepo.List(ctx, params)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to list transactions")
	}

	return pagination.NewCursorPaginatedResult(txns, params.Cursor.Limit,
		func(t entity.InventoryTransaction) (string, time.Time) { return t.ID.String(), t.CreatedAt },
	), nil
}

// CreateCategory creates a category; the slug is derived from the name
func (s *InventoryService) CreateCategory(ctx context.Context, name string) (*entity.InventoryCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "Name is required")
	}

	slug := utils.Slugify(name)
	existing, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to check category")
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Category already exists")
	}

	category := &entity.InventoryCategory{Name: name, Slug: slug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, apperror.Wrap(err, "Failed to create category")
	}
	return category, nil
}

// GetCategory retrieves a category by ID
func (s *InventoryService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.InventoryCategory, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to load category")
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}
	return category, nil
}

// UpdateCategory renames a category
func (s *InventoryService) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*entity.InventoryCategory, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.NewFieldError("name", "Name is required")
	}
	slug := utils.Slugify(name)
	if slug != category.Slug {
		existing, err := s.categoryRepo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, apperror.Wrap(err, "Failed to check category")
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Category already exists")
		}
	}

	category.Name = name
	category.Slug = slug
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, apperror.Wrap(err, "Failed to update category")
	}
	return category, nil
}

// DeleteCategory deletes a category
func (s *InventoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return apperror.Wrap(err, "Failed to delete category")
	}
	return nil
}

// ListCategories lists categories with search
func (s *InventoryService) ListCategories(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.InventoryCategory], error) {
	categories, total, err := s.categoryRepo.List(ctx, params, search)
	if err != nil {
		return nil, apperror.Wrap(err, "Failed to list categories")
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(categories, pag), nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
