package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/salonpro-api/internal/config"
	"github.com/sangkips/salonpro-api/internal/domain/cart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestNewRedisClientPings(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := NewRedisClient(config.RedisConfig{Addr: addr}, zap.NewNop())
	require.NoError(t, err)
	defer client.Close()

	mr.Close()
	_, err = NewRedisClient(config.RedisConfig{Addr: addr}, zap.NewNop())
	assert.Error(t, err)
}

func TestCartStoreRoundTrip(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisCartStore(client, 7*24*time.Hour)
	ctx := context.Background()
	userID := uuid.New()

	missing, err := store.Load(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	c := cart.New()
	require.NoError(t, c.Add(cart.Snapshot{ItemID: uuid.New(), Name: "Shampoo", UnitPrice: 1000, CurrentStock: 3}))
	c.Touch(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(ctx, userID, c))

	assert.True(t, mr.Exists("cart:"+userID.String()))
	assert.Equal(t, 7*24*time.Hour, mr.TTL("cart:"+userID.String()))

	got, err := store.Load(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Shampoo", got.Items[0].Name)
	assert.Equal(t, int64(1000), got.Total)
	assert.True(t, got.LastUpdated.Equal(c.LastUpdated))

	require.NoError(t, store.Delete(ctx, userID))
	gone, err := store.Load(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestCartStoreExpiresAbandonedCarts(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisCartStore(client, time.Hour)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, store.Save(ctx, userID, cart.New()))
	mr.FastForward(2 * time.Hour)

	got, err := store.Load(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCartStoreDropsUnreadableBlob(t *testing.T) {
	mr, client := setupTestRedis(t)
	store := NewRedisCartStore(client, 0)
	userID := uuid.New()

	require.NoError(t, mr.Set("cart:"+userID.String(), "{not json"))

	got, err := store.Load(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists("cart:"+userID.String()))
}
