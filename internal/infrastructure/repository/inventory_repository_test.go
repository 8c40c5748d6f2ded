package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	domainRepo "github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/internal/testutil"
	"github.com/sangkips/salonpro-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecrementStockIsConditional(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewInventoryItemRepository(db)
	ctx := context.Background()
	item := testutil.CreateItem(t, db, "Shampoo", 5, 1000)

	ok, err := repo.DecrementStock(ctx, item.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(ctx, item.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, testutil.StockOf(t, db, item.ID))

	ok, err = repo.DecrementStock(ctx, uuid.New(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConcurrentDecrementsNeverOversell(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewInventoryItemRepository(db)
	item := testutil.CreateItem(t, db, "Hair Gel", 10, 500)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.DecrementStock(context.Background(), item.ID, 3)
			if err == nil && ok {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 1, testutil.StockOf(t, db, item.ID))
}

func TestIncrementAndSetStock(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewInventoryItemRepository(db)
	ctx := context.Background()
	item := testutil.CreateItem(t, db, "Conditioner", 1, 800)

	require.NoError(t, repo.IncrementStock(ctx, item.ID, 4))
	assert.Equal(t, 5, testutil.StockOf(t, db, item.ID))

	require.NoError(t, repo.SetStock(ctx, item.ID, 12))
	assert.Equal(t, 12, testutil.StockOf(t, db, item.ID))

	assert.Error(t, repo.IncrementStock(ctx, uuid.New(), 1))

	ok, err := repo.SwapStock(ctx, item.ID, 11, 3)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 12, testutil.StockOf(t, db, item.ID))

	ok, err = repo.SwapStock(ctx, item.ID, 12, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, testutil.StockOf(t, db, item.ID))
}

func TestUpdateNeverTouchesStock(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewInventoryItemRepository(db)
	ctx := context.Background()
	item := testutil.CreateItem(t, db, "Comb", 7, 100)

	item.Name = "Wide Tooth Comb"
	item.CurrentStock = 999
	require.NoError(t, repo.Update(ctx, item))

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wide Tooth Comb", got.Name)
	assert.Equal(t, 7, got.CurrentStock)
}

func TestStockLevelsSkipsDeletedItems(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewInventoryItemRepository(db)
	ctx := context.Background()
	kept := testutil.CreateItem(t, db, "Serum", 4, 2500)
	deleted := testutil.CreateItem(t, db, "Old Serum", 9, 2500)
	require.NoError(t, repo.Delete(ctx, deleted.ID))

	levels, err := repo.StockLevels(ctx, []uuid.UUID{kept.ID, deleted.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int{kept.ID: 4}, levels)
}

func TestListFiltersAndLowStock(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewInventoryItemRepository(db)
	ctx := context.Background()
	testutil.CreateItem(t, db, "Argan Shampoo", 1, 1000)
	testutil.CreateItem(t, db, "Argan Mask", 20, 1500)
	testutil.CreateItem(t, db, "Nail Polish", 0, 300)

	items, total, err := repo.List(ctx, &domainRepo.ItemFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 10},
		Search:     "argan",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	low, err := repo.GetLowStock(ctx)
	require.NoError(t, err)
	assert.Len(t, low, 2)

	count, err := repo.CountLowStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, _, err = repo.List(ctx, &domainRepo.ItemFilterParams{SortBy: "name; DROP TABLE inventory_items", SortOrder: "asc"})
	require.NoError(t, err)
}

func TestTransactorRollsBackEverything(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := NewInventoryItemRepository(db)
	ledger := NewInventoryTransactionRepository(db)
	tx := NewTransactor(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "cashier@salon.test")
	a := testutil.CreateItem(t, db, "A", 5, 100)
	b := testutil.CreateItem(t, db, "B", 1, 100)

	boom := errors.New("insufficient")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		ok, err := items.DecrementStock(ctx, a.ID, 2)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, ledger.Create(ctx, &entity.InventoryTransaction{
			ItemID: a.ID, Type: enum.TransactionTypeStockOut, Quantity: 2, UnitPrice: 100, CreatedBy: user.ID,
		}))

		ok, err = items.DecrementStock(ctx, b.ID, 2)
		require.NoError(t, err)
		if !ok {
			return boom
		}
		return nil
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 5, testutil.StockOf(t, db, a.ID))
	assert.Equal(t, 1, testutil.StockOf(t, db, b.ID))

	var rows int64
	db.Model(&entity.InventoryTransaction{}).Count(&rows)
	assert.Zero(t, rows)
}

func TestTransactorNestedCallsJoinOuter(t *testing.T) {
	db := testutil.NewTestDB(t)
	items := NewInventoryItemRepository(db)
	tx := NewTransactor(db)
	a := testutil.CreateItem(t, db, "A", 5, 100)

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return tx.WithinTransaction(ctx, func(ctx context.Context) error {
			return items.SetStock(ctx, a.ID, 9)
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 9, testutil.StockOf(t, db, a.ID))
}

func TestCategoryRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewInventoryCategoryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.InventoryCategory{Name: "Hair Care", Slug: "hair-care"}))
	require.NoError(t, repo.Create(ctx, &entity.InventoryCategory{Name: "Nails", Slug: "nails"}))

	got, err := repo.GetBySlug(ctx, "nails")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Nails", got.Name)

	missing, err := repo.GetBySlug(ctx, "skin")
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, total, err := repo.List(ctx, pagination.DefaultPagination(), "hair")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
}
