package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/domain/enum"
	"github.com/sangkips/salonpro-api/internal/testutil"
	"github.com/sangkips/salonpro-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCustomerSearch(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Customer{Name: "Jane Achieng", Phone: strPtr("0712345678")}))
	require.NoError(t, repo.Create(ctx, &entity.Customer{Name: "Mary Njeri", Email: strPtr("mary@example.com")}))

	list, total, err := repo.List(ctx, pagination.DefaultPagination(), "JANE")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Jane Achieng", list[0].Name)

	byPhone, err := repo.GetByPhone(ctx, "0712345678")
	require.NoError(t, err)
	require.NotNil(t, byPhone)

	_, total, err = repo.List(ctx, pagination.DefaultPagination(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestAlertResolution(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewAlertRepository(db)
	ctx := context.Background()
	item := testutil.CreateItem(t, db, "Bleach", 1, 900)
	now := time.Now()

	low := &entity.Alert{ItemID: item.ID, Type: enum.AlertTypeLowStock, Message: "Bleach is low"}
	expiring := &entity.Alert{ItemID: item.ID, Type: enum.AlertTypeExpiring, Message: "Bleach expires soon"}
	require.NoError(t, repo.Create(ctx, low))
	require.NoError(t, repo.Create(ctx, expiring))

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	n, err := repo.ResolveWhere(ctx, enum.AlertTypeLowStock, []uuid.UUID{item.ID}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.Resolve(ctx, expiring.ID, now))
	assert.Error(t, repo.Resolve(ctx, expiring.ID, now))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSaleWithLines(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSaleRepository(db)
	analytics := NewAnalyticsRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "cashier@salon.test")
	item := testutil.CreateItem(t, db, "Oil", 10, 500)

	sale := &entity.Sale{
		ReferenceNumber: "SALE-1",
		CustomerName:    "Jane",
		Total:           1000,
		ItemCount:       2,
		CreatedBy:       user.ID,
		Items:           []entity.SaleItem{{ItemID: item.ID, Name: "Oil", Quantity: 2, UnitPrice: 500, Total: 1000}},
	}
	require.NoError(t, repo.Create(ctx, sale))

	got, err := repo.GetByReference(ctx, "SALE-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Items, 1)

	revenue, err := repo.TotalRevenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), revenue)

	top, err := analytics.GetTopProducts(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, item.ID, top[0].ItemID)
	assert.Equal(t, 2, top[0].QuantitySold)
	assert.Equal(t, int64(1000), top[0].Revenue)
}

func TestTopCustomers(t *testing.T) {
	db := testutil.NewTestDB(t)
	customers := NewCustomerRepository(db)
	analytics := NewAnalyticsRepository(db)
	ctx := context.Background()
	w := testutil.CreateWorker(t, db, "Amina", 10)

	jane := &entity.Customer{Name: "Jane"}
	require.NoError(t, customers.Create(ctx, jane))
	s := testutil.CreateCompletedService(t, db, w, 4000, time.Now())
	require.NoError(t, db.Model(s).Update("customer_id", jane.ID).Error)

	top, err := analytics.GetTopCustomers(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Jane", top[0].CustomerName)
	assert.Equal(t, int64(4000), top[0].TotalSpent)
	assert.Equal(t, 1, top[0].VisitCount)
}

func TestIdempotencyKeys(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewIdempotencyRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, repo.Store(ctx, &entity.IdempotencyKey{
		Key: "abc", UserID: userID, Endpoint: "POST /api/v1/checkout",
		ResponseCode: 201, ResponseBody: "{}", ExpiresAt: time.Now().Add(-time.Minute),
	}))

	got, err := repo.Find(ctx, userID, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.ExpiredAt(time.Now()))

	// an expired key is overwritten in place
	require.NoError(t, repo.Store(ctx, &entity.IdempotencyKey{
		Key: "abc", UserID: userID, Endpoint: "POST /api/v1/checkout",
		ResponseCode: 200, ResponseBody: `{"again":true}`, ExpiresAt: time.Now().Add(time.Hour),
	}))
	got, err = repo.Find(ctx, userID, "abc")
	require.NoError(t, err)
	assert.Equal(t, 200, got.ResponseCode)
	assert.False(t, got.ExpiredAt(time.Now()))

	other, err := repo.Find(ctx, uuid.New(), "abc")
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, repo.Store(ctx, &entity.IdempotencyKey{
		Key: "old", UserID: userID, Endpoint: "POST /api/v1/checkout",
		ResponseCode: 201, ExpiresAt: time.Now().Add(-time.Hour),
	}))
	purged, err := repo.Purge(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestUserProviderLookup(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	providerID := "google-123"

	user := &entity.User{FirstName: "Grace", LastName: "W", Email: "grace@salon.test", Username: "grace", Provider: "google", ProviderID: &providerID}
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByProviderID(ctx, "google", providerID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)

	require.NoError(t, repo.TouchLastLogin(ctx, user.ID))
	got, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastLoginAt)
}
