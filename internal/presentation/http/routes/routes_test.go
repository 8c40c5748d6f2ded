package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/salonpro-api/internal/app"
	"github.com/sangkips/salonpro-api/internal/application/service"
	"github.com/sangkips/salonpro-api/internal/config"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/infrastructure/database"
	"github.com/sangkips/salonpro-api/internal/presentation/http/handler"
	"github.com/sangkips/salonpro-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiEnv struct {
	t      *testing.T
	app    *app.App
	router *gin.Engine
	admin  string
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		App:     config.AppConfig{Name: "salonpro-api", Timezone: "UTC"},
		JWT:     config.JWTConfig{Secret: "test-secret", ExpiryHours: time.Hour, RefreshExpiryHours: time.Hour},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Printer: config.PrinterConfig{Type: "none", StoreName: "Test Salon", Width: 32},
		Cart:    config.CartConfig{MaxAge: 24 * time.Hour},
		Alerts:  config.AlertsConfig{ExpiryWindowDays: 30},
	}
	log := zap.NewNop()
	require.NoError(t, database.SeedDefaultData(db, config.AdminConfig{}, log))
	a := app.New(cfg, db, rdb, log)

	router := Setup(&Handlers{
		Auth:      handler.NewAuthHandler(a.Auth, false, log),
		User:      handler.NewUserHandler(a.Users),
		Inventory: handler.NewInventoryHandler(a.Inventory),
		Sales:     handler.NewSalesHandler(a.Carts, a.Checkout),
		Payroll:   handler.NewPayrollHandler(a.Payroll, a.Reports, time.UTC),
		Customer:  handler.NewCustomerHandler(a.Customers),
		Dashboard: handler.NewDashboardHandler(a.Dashboard, a.Alerts),
		Printer:   handler.NewPrinterHandler(a.Receipts),
		Realtime:  handler.NewRealtimeHandler(a.Hub, log),
	}, &Deps{
		JWTManager:      a.JWTManager,
		Cfg:             cfg,
		IdempotencyRepo: a.IdempotencyRepo,
		Logger:          log,
	})

	env := &apiEnv{t: t, app: a, router: router}
	env.admin = env.signUp("owner@salon.test", "super-admin")
	return env
}

// signUp registers an account, optionally moves it to role, and returns an
// access token
func (e *apiEnv) signUp(email, role string) string {
	e.t.Helper()
	ctx := context.Background()
	user, err := e.app.Auth.Register(ctx, &service.RegisterInput{
		FirstName: "Salon", LastName: "Staff", Email: email, Password: "s3cret-pass",
	})
	require.NoError(e.t, err)

	if role != "" {
		var r entity.Role
		require.NoError(e.t, e.app.DB.Where("name = ?", role).First(&r).Error)
		_, err = e.app.Users.UpdateUserRoles(ctx, user.ID, []uint{r.ID})
		require.NoError(e.t, err)
	}

	out, err := e.app.Auth.Login(ctx, &service.LoginInput{Email: email, Password: "s3cret-pass"})
	require.NoError(e.t, err)
	return out.AccessToken
}

func (e *apiEnv) do(method, path, token string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if into != nil {
		require.NoError(t, json.Unmarshal(env.Data, into))
	}
	return env
}

func (e *apiEnv) createItem(name string, stock int, price float64) string {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/v1/inventory/items", e.admin, map[string]interface{}{
		"name": name, "current_stock": stock, "min_stock": 1, "max_stock": 50, "unit_price": price,
	})
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	var item struct {
		ID string `json:"id"`
	}
	decode(e.t, rec, &item)
	return item.ID
}

func TestHealth(t *testing.T) {
	env := newAPIEnv(t)
	rec := env.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "salonpro-api")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	env := newAPIEnv(t)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/v1/cart", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/v1/cart", "not-a-jwt", nil).Code)
}

func TestPermissionsGateRoutes(t *testing.T) {
	env := newAPIEnv(t)
	viewer := env.signUp("viewer@salon.test", "")

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/v1/dashboard/stats", viewer, nil).Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, "/api/v1/inventory/items", viewer, nil).Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, "/api/v1/checkout", viewer, map[string]string{"customer_name": "x"}).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/v1/inventory/items", env.admin, nil).Code)
}

func TestMalformedIDIsBadRequest(t *testing.T) {
	env := newAPIEnv(t)
	rec := env.do(http.MethodGet, "/api/v1/inventory/items/not-a-uuid", env.admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartAndCheckout(t *testing.T) {
	env := newAPIEnv(t)
	itemID := env.createItem("Argan Oil", 3, 12.5)

	for i := 0; i < 2; i++ {
		rec := env.do(http.MethodPost, "/api/v1/cart/items", env.admin, map[string]string{"item_id": itemID})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	var cart service.CartResult
	decode(t, env.do(http.MethodGet, "/api/v1/cart", env.admin, nil), &cart)
	require.Len(t, cart.Cart.Items, 1)
	assert.Equal(t, 2, cart.Cart.Items[0].Quantity)
	assert.Equal(t, int64(2500), cart.Cart.Total)

	body := map[string]interface{}{"customer_name": "Walk-in"}
	first := env.do(http.MethodPost, "/api/v1/checkout", env.admin, body, "Idempotency-Key", "sale-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	var result struct {
		Sale struct {
			ID        string  `json:"id"`
			Total     float64 `json:"total"`
			ItemCount int     `json:"item_count"`
		} `json:"sale"`
	}
	decode(t, first, &result)
	assert.InDelta(t, 25.0, result.Sale.Total, 0.001)
	assert.Equal(t, 2, result.Sale.ItemCount)

	replay := env.do(http.MethodPost, "/api/v1/checkout", env.admin, body, "Idempotency-Key", "sale-1")
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), replay.Body.String())

	var item struct {
		CurrentStock int `json:"current_stock"`
	}
	decode(t, env.do(http.MethodGet, "/api/v1/inventory/items/"+itemID, env.admin, nil), &item)
	assert.Equal(t, 1, item.CurrentStock)

	var movements []json.RawMessage
	decode(t, env.do(http.MethodGet, "/api/v1/sales/"+result.Sale.ID+"/movements", env.admin, nil), &movements)
	assert.Len(t, movements, 1)

	rec := env.do(http.MethodGet, "/api/v1/sales/"+result.Sale.ID+"/receipt", env.admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	empty := env.do(http.MethodPost, "/api/v1/checkout", env.admin, body)
	assert.Equal(t, http.StatusUnprocessableEntity, empty.Code)
}

func TestCheckoutWithoutNameIsFieldError(t *testing.T) {
	env := newAPIEnv(t)
	itemID := env.createItem("Shampoo", 4, 9)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/v1/cart/items", env.admin, map[string]string{"item_id": itemID}).Code)

	for _, body := range []map[string]interface{}{{}, {"customer_name": "   "}} {
		rec := env.do(http.MethodPost, "/api/v1/checkout", env.admin, body)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

		var got struct {
			Errors []struct {
				Field string `json:"field"`
			} `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got.Errors, 1)
		assert.Equal(t, "customer_name", got.Errors[0].Field)
	}
}

func TestIdempotencyKeyReusedForDifferentBody(t *testing.T) {
	env := newAPIEnv(t)
	itemID := env.createItem("Hair Dye", 5, 10)

	first := env.do(http.MethodPost, "/api/v1/inventory/transactions", env.admin,
		map[string]interface{}{"item_id": itemID, "type": "stock_in", "quantity": 2}, "Idempotency-Key", "k1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := env.do(http.MethodPost, "/api/v1/inventory/transactions", env.admin,
		map[string]interface{}{"item_id": itemID, "type": "stock_in", "quantity": 3}, "Idempotency-Key", "k1")
	assert.Equal(t, http.StatusUnprocessableEntity, second.Code)
}

func TestAddingPastStockReturnsCart(t *testing.T) {
	env := newAPIEnv(t)
	itemID := env.createItem("Nail Polish", 1, 5)

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/v1/cart/items", env.admin, map[string]string{"item_id": itemID}).Code)

	rec := env.do(http.MethodPost, "/api/v1/cart/items", env.admin, map[string]string{"item_id": itemID})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var cart service.CartResult
	env2 := decode(t, rec, &cart)
	assert.False(t, env2.Success)
	require.Len(t, cart.Cart.Items, 1)
	assert.Equal(t, 1, cart.Cart.Items[0].Quantity)
}

func TestStockOutBeyondStockIsRejected(t *testing.T) {
	env := newAPIEnv(t)
	itemID := env.createItem("Conditioner", 2, 7)

	rec := env.do(http.MethodPost, "/api/v1/inventory/transactions", env.admin,
		map[string]interface{}{"item_id": itemID, "type": "stock_out", "quantity": 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/v1/inventory/transactions", env.admin,
		map[string]interface{}{"item_id": itemID, "type": "refund", "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/inventory/transactions?item_id="+itemID, env.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items []json.RawMessage `json:"items"`
	}
	decode(t, rec, &page)
	assert.Len(t, page.Items, 1)
}

func TestPayrollRoutes(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/workers", env.admin, map[string]interface{}{
		"name": "Amina", "role": "Stylist", "commission_rate": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var worker struct {
		ID string `json:"id"`
	}
	decode(t, rec, &worker)

	rec = env.do(http.MethodPost, "/api/v1/services", env.admin, map[string]interface{}{
		"name": "Braids", "price": 100, "worker_id": worker.ID, "completed": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var earnings struct {
		TotalEarnings     float64 `json:"total_earnings"`
		ServicesPerformed int     `json:"services_performed"`
	}
	decode(t, env.do(http.MethodGet, "/api/v1/workers/"+worker.ID+"/earnings", env.admin, nil), &earnings)
	assert.InDelta(t, 10.0, earnings.TotalEarnings, 0.001)
	assert.Equal(t, 1, earnings.ServicesPerformed)

	rec = env.do(http.MethodPut, "/api/v1/workers/"+worker.ID+"/commission-rate", env.admin, map[string]interface{}{"commission_rate": 101})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPut, "/api/v1/workers/"+worker.ID+"/commission-rate", env.admin, map[string]interface{}{"commission_rate": 20})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &earnings)
	assert.InDelta(t, 20.0, earnings.TotalEarnings, 0.001)

	rec = env.do(http.MethodGet, "/api/v1/payroll/export", env.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=\"payroll-")
	assert.Equal(t, "PK", rec.Body.String()[:2])

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/v1/payroll/summary?month=03-2026", env.admin, nil).Code)
}

func TestCustomerHistoryRoute(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/customers", env.admin, map[string]interface{}{"name": "Grace", "phone": "0700000001"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var customer struct {
		ID string `json:"id"`
	}
	decode(t, rec, &customer)

	rec = env.do(http.MethodPost, "/api/v1/customers", env.admin, map[string]interface{}{"name": "Other", "phone": "0700000001"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/customers/"+customer.ID+"/history", env.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history struct {
		VisitCount int `json:"visit_count"`
	}
	decode(t, rec, &history)
	assert.Equal(t, 0, history.VisitCount)
}

func TestAlertRoutes(t *testing.T) {
	env := newAPIEnv(t)
	env.createItem("Bleach", 1, 3)

	rec := env.do(http.MethodPost, "/api/v1/alerts/refresh", env.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var alerts []struct {
		ID string `json:"id"`
	}
	decode(t, env.do(http.MethodGet, "/api/v1/alerts", env.admin, nil), &alerts)
	require.Len(t, alerts, 1)

	assert.Equal(t, http.StatusOK, env.do(http.MethodPut, "/api/v1/alerts/"+alerts[0].ID+"/resolve", env.admin, nil).Code)
	assert.Equal(t, http.StatusConflict, env.do(http.MethodPut, "/api/v1/alerts/"+alerts[0].ID+"/resolve", env.admin, nil).Code)
}

func TestUnknownRealtimeTable(t *testing.T) {
	env := newAPIEnv(t)
	rec := env.do(http.MethodGet, "/api/v1/realtime/payments", env.admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
