package service

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/salonpro-api/internal/domain/enum"
	"github.com/sangkips/salonpro-api/internal/domain/repository"
	infraRepo "github.com/sangkips/salonpro-api/internal/infrastructure/repository"
	"github.com/sangkips/salonpro-api/internal/testutil"
	"github.com/sangkips/salonpro-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSubscriber struct {
	mu       sync.Mutex
	handlers map[string]repository.ChangeHandler
}

func (f *fakeSubscriber) Subscribe(table string, h repository.ChangeHandler) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.handlers == nil {
		f.handlers = map[string]repository.ChangeHandler{}
	}
	f.handlers[table] = h
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.handlers, table)
	}
}

func (f *fakeSubscriber) fire(ctx context.Context, table string) bool {
	f.mu.Lock()
	h, ok := f.handlers[table]
	f.mu.Unlock()
	if ok {
		h(ctx, repository.ChangeEvent{Table: table, Action: repository.ChangeUpdate})
	}
	return ok
}

func newAlertService(env *testEnv) *AlertService {
	return NewAlertService(infraRepo.NewAlertRepository(env.db), env.items, env.publisher, 30, zap.NewNop())
}

func TestRefreshInventoryAlerts(t *testing.T) {
	env := newTestEnv(t)
	svc := newAlertService(env)
	ctx := context.Background()

	low := testutil.CreateItem(t, env.db, "Toner", 1, 500)
	testutil.CreateItem(t, env.db, "Shampoo", 50, 800)
	expiring := testutil.CreateItem(t, env.db, "Hair dye", 40, 900)
	soon := time.Now().AddDate(0, 0, 10)
	require.NoError(t, env.db.Model(expiring).Update("expiry_date", soon).Error)

	result, err := svc.RefreshInventoryAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)

	// a second pass is idempotent
	result, err = svc.RefreshInventoryAlerts(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Created)
	assert.Zero(t, result.Resolved)

	alerts, err := svc.ListActiveAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	kinds := map[enum.AlertType]string{}
	for _, a := range alerts {
		kinds[a.Type] = a.Message
	}
	assert.Equal(t, "Toner is low on stock: 1 left (minimum 2)", kinds[enum.AlertTypeLowStock])
	assert.Contains(t, kinds[enum.AlertTypeExpiring], "Hair dye expires on")

	// restocking clears the low-stock alert
	require.NoError(t, env.items.IncrementStock(ctx, low.ID, 20))
	result, err = svc.RefreshInventoryAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Resolved)

	// deleting the item clears its expiry alert
	require.NoError(t, env.items.Delete(ctx, expiring.ID))
	result, err = svc.RefreshInventoryAlerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Resolved)

	alerts, err = svc.ListActiveAlerts(ctx)
	require.NoError(t, err)
	assert.Empty(t, alerts)
	assert.Contains(t, env.publisher.tables(), repository.TableAlerts)
}

func TestResolveAlert(t *testing.T) {
	env := newTestEnv(t)
	svc := newAlertService(env)
	ctx := context.Background()
	testutil.CreateItem(t, env.db, "Toner", 0, 500)

	_, err := svc.RefreshInventoryAlerts(ctx)
	require.NoError(t, err)
	alerts, err := svc.ListActiveAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	resolved, err := svc.ResolveAlert(ctx, alerts[0].ID)
	require.NoError(t, err)
	assert.True(t, resolved.IsResolved)
	require.NotNil(t, resolved.ResolvedAt)

	_, err = svc.ResolveAlert(ctx, alerts[0].ID)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
}

func TestAlertSubscriptionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	svc := newAlertService(env)
	sub := &fakeSubscriber{}
	ctx := context.Background()

	svc.Start(sub)
	svc.Start(sub)
	testutil.CreateItem(t, env.db, "Toner", 0, 500)

	require.True(t, sub.fire(ctx, repository.TableInventoryItems))
	alerts, err := svc.ListActiveAlerts(ctx)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)

	svc.Stop()
	svc.Stop()
	assert.False(t, sub.fire(ctx, repository.TableInventoryItems))
}
