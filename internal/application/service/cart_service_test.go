package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/cart"
	"github.com/sangkips/salonpro-api/internal/testutil"
	"github.com/sangkips/salonpro-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartScenarioA(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	item := testutil.CreateItem(t, env.db, "Shampoo", 10, 1000)

	for i := 0; i < 3; i++ {
		_, err := env.carts.AddToCart(ctx, userID, item.ID)
		require.NoError(t, err)
	}

	got, err := env.carts.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, got.Cart.Items, 1)
	assert.Equal(t, 3, got.Cart.Items[0].Quantity)
	assert.Equal(t, int64(3000), got.Cart.Total)
	assert.Empty(t, got.Adjustments)

	result, err := env.carts.UpdateQuantity(ctx, userID, item.ID, 12)
	assert.ErrorIs(t, err, apperror.ErrExceedsStock)
	assert.Equal(t, 3, result.Cart.Items[0].Quantity)

	got, err = env.carts.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Cart.Items[0].Quantity)
}

func TestAddOutOfStockReturnsUnchangedCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	empty := testutil.CreateItem(t, env.db, "Empty", 0, 500)

	result, err := env.carts.AddToCart(ctx, userID, empty.ID)
	assert.ErrorIs(t, err, apperror.ErrOutOfStock)
	require.NotNil(t, result)
	assert.True(t, result.Cart.IsEmpty())

	_, err = env.carts.AddToCart(ctx, userID, uuid.New())
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestGetCartReconcilesWithLiveStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	shrinking := testutil.CreateItem(t, env.db, "Serum", 5, 2000)
	vanishing := testutil.CreateItem(t, env.db, "Mask", 5, 1500)

	for i := 0; i < 4; i++ {
		_, err := env.carts.AddToCart(ctx, userID, shrinking.ID)
		require.NoError(t, err)
	}
	_, err := env.carts.AddToCart(ctx, userID, vanishing.ID)
	require.NoError(t, err)

	require.NoError(t, env.items.SetStock(ctx, shrinking.ID, 2))
	require.NoError(t, env.items.SetStock(ctx, vanishing.ID, 0))

	got, err := env.carts.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, got.Cart.Items, 1)
	assert.Equal(t, 2, got.Cart.Items[0].Quantity)
	assert.Equal(t, 2, got.Cart.Items[0].StockCeiling)
	assert.Equal(t, int64(4000), got.Cart.Total)
	assert.Equal(t, 2, got.Cart.ItemCount)
	require.Len(t, got.Adjustments, 2)

	saved, err := env.cartRepo.Load(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, saved.Items, 1)
}

func TestStaleCartIsReplaced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	item := testutil.CreateItem(t, env.db, "Gel", 5, 500)

	_, err := env.carts.AddToCart(ctx, userID, item.ID)
	require.NoError(t, err)

	env.carts.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }

	got, err := env.carts.GetCart(ctx, userID)
	require.NoError(t, err)
	assert.True(t, got.Cart.IsEmpty())
	assert.Zero(t, got.Cart.Total)
}

func TestUpdateToZeroAndRemove(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()
	a := testutil.CreateItem(t, env.db, "A", 5, 100)
	b := testutil.CreateItem(t, env.db, "B", 5, 200)

	_, err := env.carts.AddToCart(ctx, userID, a.ID)
	require.NoError(t, err)
	_, err = env.carts.AddToCart(ctx, userID, b.ID)
	require.NoError(t, err)

	result, err := env.carts.UpdateQuantity(ctx, userID, a.ID, 0)
	require.NoError(t, err)
	require.Len(t, result.Cart.Items, 1)
	assert.Equal(t, b.ID, result.Cart.Items[0].ItemID)

	result, err = env.carts.RemoveFromCart(ctx, userID, b.ID)
	require.NoError(t, err)
	assert.True(t, result.Cart.IsEmpty())

	_, err = env.carts.UpdateQuantity(ctx, userID, a.ID, 1)
	assert.ErrorIs(t, err, cart.ErrItemNotInCart)

	require.NoError(t, env.carts.ClearCart(ctx, userID))
}
