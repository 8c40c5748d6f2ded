package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	"github.com/sangkips/salonpro-api/internal/domain/repository"
	infraRepo "github.com/sangkips/salonpro-api/internal/infrastructure/repository"
	"github.com/sangkips/salonpro-api/internal/testutil"
	"github.com/sangkips/salonpro-api/pkg/apperror"
	"github.com/sangkips/salonpro-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ptr[T any](v T) *T { return &v }

func countLedger(t *testing.T, env *testEnv, itemID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.db.Model(&entity.InventoryTransaction{}).Where("item_id = ?", itemID).Count(&n).Error)
	return n
}

func TestCreateItemWritesOpeningStock(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, "manager@salon.test")

	item, err := env.inventory.CreateItem(context.Background(), &CreateItemInput{
		UserID: user.ID, Name: "  Argan Oil ", CurrentStock: 12, MinStock: 3, UnitPrice: 15.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "Argan Oil", item.Name)
	assert.Equal(t, int64(1550), item.UnitPrice)
	assert.NotEmpty(t, item.SKU)
	assert.Equal(t, int64(1), countLedger(t, env, item.ID))
	assert.Contains(t, env.publisher.tables(), repository.TableInventoryItems)

	_, err = env.inventory.CreateItem(context.Background(), &CreateItemInput{UserID: user.ID, Name: "Dup", SKU: item.SKU})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)

	_, err = env.inventory.CreateItem(context.Background(), &CreateItemInput{UserID: user.ID, Name: " "})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)
}

func TestStockOutBeyondStockWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, "cashier@salon.test")
	item := testutil.CreateItem(t, env.db, "Hair Spray", 4, 900)

	_, err := env.inventory.RecordTransaction(context.Background(), &RecordTransactionInput{
		UserID: user.ID, ItemID: item.ID, Type: enum.TransactionTypeStockOut, Quantity: 5,
	})

	require.ErrorIs(t, err, apperror.ErrInsufficientStock)
	assert.Equal(t, 4, testutil.StockOf(t, env.db, item.ID))
	assert.Zero(t, countLedger(t, env, item.ID))
	assert.Empty(t, env.publisher.tables())
}

func TestStockOutRecordsLedgerAndReceipt(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, "cashier@salon.test")
	item := testutil.CreateItem(t, env.db, "Hair Spray", 4, 900)

	result, err := env.inventory.RecordTransaction(context.Background(), &RecordTransactionInput{
		UserID: user.ID, ItemID: item.ID, Type: enum.TransactionTypeStockOut, Quantity: 3,
		Reason: ptr("Used in salon"), ReferenceNumber: ptr("  "),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, testutil.StockOf(t, env.db, item.ID))
	assert.Equal(t, 1, result.Item.CurrentStock)
	assert.Equal(t, 1, result.Transaction.StockAfter)
	assert.Equal(t, int64(2700), result.Transaction.TotalAmount)
	assert.Nil(t, result.Transaction.ReferenceNumber)

	require.NotNil(t, result.Receipt)
	assert.Equal(t, entity.ReceiptKindTransaction, result.Receipt.Kind)
	assert.Equal(t, "Stock out", result.Receipt.Movement)
	assert.Equal(t, "Used in salon", result.Receipt.Note)
	assert.Equal(t, "Test Staff", result.Receipt.Cashier)
	assert.Equal(t, "KES 27.00", result.Receipt.Total)

	assert.ElementsMatch(t,
		[]string{repository.TableInventoryTransactions, repository.TableInventoryItems},
		env.publisher.tables())
}

func TestStockInAndAdjustment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, env.db, "cashier@salon.test")
	item := testutil.CreateItem(t, env.db, "Gloves", 2, 100)

	_, err := env.inventory.RecordTransaction(ctx, &RecordTransactionInput{
		UserID: user.ID, ItemID: item.ID, Type: enum.TransactionTypeStockIn, Quantity: 10, UnitPrice: ptr(0.8),
	})
	require.NoError(t, err)
	assert.Equal(t, 12, testutil.StockOf(t, env.db, item.ID))

	result, err := env.inventory.RecordTransaction(ctx, &RecordTransactionInput{
		UserID: user.ID, ItemID: item.ID, Type: enum.TransactionTypeAdjustment, Quantity: 9,
	})
	require.NoError(t, err)
	assert.Equal(t, 9, testutil.StockOf(t, env.db, item.ID))
	assert.Equal(t, 3, result.Transaction.Quantity)
	assert.Equal(t, 9, result.Transaction.StockAfter)

	_, err = env.inventory.RecordTransaction(ctx, &RecordTransactionInput{
		UserID: user.ID, ItemID: item.ID, Type: enum.TransactionTypeAdjustment, Quantity: 9,
	})
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	_, err = env.inventory.RecordTransaction(ctx, &RecordTransactionInput{
		UserID: user.ID, ItemID: item.ID, Type: enum.TransactionTypeStockIn, Quantity: 0,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)

	_, err = env.inventory.RecordTransaction(ctx, &RecordTransactionInput{
		UserID: user.ID, ItemID: uuid.New(), Type: enum.TransactionTypeStockIn, Quantity: 1,
	})
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

// saleBeforeSwap sells units of the item right before each of the first
// `times` swaps, as a checkout committing mid-adjustment would.
type saleBeforeSwap struct {
	repository.InventoryItemRepository
	units int
	times int
}

func (r *saleBeforeSwap) SwapStock(ctx context.Context, id uuid.UUID, expected, stock int) (bool, error) {
	if r.times > 0 {
		r.times--
		if _, err := r.InventoryItemRepository.DecrementStock(ctx, id, r.units); err != nil {
			return false, err
		}
	}
	return r.InventoryItemRepository.SwapStock(ctx, id, expected, stock)
}

func inventoryWith(env *testEnv, items repository.InventoryItemRepository) *InventoryService {
	return NewInventoryService(items, infraRepo.NewInventoryCategoryRepository(env.db), env.ledger,
		infraRepo.NewTransactor(env.db), env.receipts, env.publisher, zap.NewNop())
}

func TestAdjustmentRereadsStockAfterConcurrentSale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, env.db, "cashier@salon.test")
	item := testutil.CreateItem(t, env.db, "Gloves", 10, 100)

	svc := inventoryWith(env, &saleBeforeSwap{InventoryItemRepository: env.items, units: 3, times: 1})
	result, err := svc.RecordTransaction(ctx, &RecordTransactionInput{
		UserID: user.ID, ItemID: item.ID, Type: enum.TransactionTypeAdjustment, Quantity: 5,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, testutil.StockOf(t, env.db, item.ID))
	assert.Equal(t, 2, result.Transaction.Quantity, "delta is taken from the stock left after the sale")
	assert.Equal(t, 5, result.Transaction.StockAfter)
}

func TestAdjustmentGivesUpWhenStockKeepsMoving(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, env.db, "cashier@salon.test")
	item := testutil.CreateItem(t, env.db, "Gloves", 10, 100)

	svc := inventoryWith(env, &saleBeforeSwap{InventoryItemRepository: env.items, units: 1, times: adjustAttempts})
	_, err := svc.RecordTransaction(ctx, &RecordTransactionInput{
		UserID: user.ID, ItemID: item.ID, Type: enum.TransactionTypeAdjustment, Quantity: 2,
	})
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
	assert.Equal(t, 10, testutil.StockOf(t, env.db, item.ID), "the rolled back transaction keeps the sales out too")
	assert.Zero(t, countLedger(t, env, item.ID))
}

func TestTransactionSucceedsWhenPublishFails(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.err = errors.New("redis down")
	user := testutil.CreateUser(t, env.db, "cashier@salon.test")
	item := testutil.CreateItem(t, env.db, "Foils", 20, 50)

	result, err := env.inventory.RecordTransaction(context.Background(), &RecordTransactionInput{
		UserID: user.ID, ItemID: item.ID, Type: enum.TransactionTypeStockOut, Quantity: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 15, result.Item.CurrentStock)
}

func TestListTransactionsPagesTheLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, env.db, "cashier@salon.test")
	item := testutil.CreateItem(t, env.db, "Towels", 100, 10)

	for i := 0; i < 3; i++ {
		_, err := env.inventory.RecordTransaction(ctx, &RecordTransactionInput{
			UserID: user.ID, ItemID: item.ID, Type: enum.TransactionTypeStockOut, Quantity: 1,
		})
		require.NoError(t, err)
	}

	page, err := env.inventory.ListTransactions(ctx, &repository.TransactionFilterParams{
		Cursor: &pagination.CursorParams{Limit: 2},
		ItemID: &item.ID,
	})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.Pagination.HasNext)

	_, err = env.inventory.ListTransactions(ctx, &repository.TransactionFilterParams{
		Cursor: &pagination.CursorParams{Cursor: "!!"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, apperror.GetAppError(err).Code)
}

func TestUpdateItemKeepsStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := testutil.CreateItem(t, env.db, "Clips", 6, 100)

	updated, err := env.inventory.UpdateItem(ctx, &UpdateItemInput{ID: item.ID, Name: ptr("Hair Clips"), UnitPrice: ptr(1.25)})
	require.NoError(t, err)
	assert.Equal(t, "Hair Clips", updated.Name)
	assert.Equal(t, int64(125), updated.UnitPrice)
	assert.Equal(t, 6, updated.CurrentStock)

	require.NoError(t, env.inventory.DeleteItem(ctx, item.ID))
	_, err = env.inventory.GetItem(ctx, item.ID)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	category, err := env.inventory.CreateCategory(ctx, "Hair Care")
	require.NoError(t, err)
	assert.Equal(t, "hair-care", category.Slug)

	_, err = env.inventory.CreateCategory(ctx, "hair care")
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)

	renamed, err := env.inventory.UpdateCategory(ctx, category.ID, "Hair & Scalp")
	require.NoError(t, err)
	assert.Equal(t, "hair-scalp", renamed.Slug)

	list, err := env.inventory.ListCategories(ctx, pagination.DefaultPagination(), "")
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	require.NoError(t, env.inventory.DeleteCategory(ctx, category.ID))
}
