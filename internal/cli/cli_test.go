package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/salonpro-api/internal/app"
	"github.com/sangkips/salonpro-api/internal/config"
	"github.com/sangkips/salonpro-api/internal/domain/entity"
	"github.com/sangkips/salonpro-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedRuntime struct {
	app *app.App
}

func (r fixedRuntime) Open(context.Context, *RootOptions) (*app.App, func(), error) {
	return r.app, func() {}, nil
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	db := testutil.NewTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		App:     config.AppConfig{Name: "salonpro-api", Timezone: "UTC"},
		JWT:     config.JWTConfig{Secret: "test-secret", ExpiryHours: time.Hour, RefreshExpiryHours: time.Hour},
		Printer: config.PrinterConfig{Type: "none", StoreName: "Test Salon", Width: 32},
		Cart:    config.CartConfig{MaxAge: 24 * time.Hour},
		Alerts:  config.AlertsConfig{ExpiryWindowDays: 30},
	}
	return app.New(cfg, db, rdb, zap.NewNop())
}

func run(t *testing.T, a *app.App, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(fixedRuntime{app: a})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(fixedRuntime{})
	assert.Equal(t, "salonctl", cmd.Use)

	for _, path := range [][]string{{"migrate"}, {"seed"}, {"payroll"}, {"alerts", "refresh"}, {"alerts", "list"}, {"keys", "prune"}} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormatIsRejected(t *testing.T) {
	_, err := run(t, nil, "alerts", "list", "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestMigrateSeedsRoles(t *testing.T) {
	a := newTestApp(t)

	out, err := run(t, a, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded permissions and roles")

	var roles int64
	require.NoError(t, a.DB.Model(&entity.Role{}).Count(&roles).Error)
	assert.Equal(t, int64(4), roles)

	_, err = run(t, a, "migrate")
	require.NoError(t, err)
	require.NoError(t, a.DB.Model(&entity.Role{}).Count(&roles).Error)
	assert.Equal(t, int64(4), roles)
}

const seedYAML = `
categories: [Hair Care]
items:
  - name: Argan Shampoo
    sku: SH-500
    category: Hair Care
    stock: 12
    min_stock: 2
    max_stock: 40
    unit_price: 8.5
    expiry_date: 2027-01-31
workers:
  - name: Amina
    role: Stylist
    commission_rate: 10
customers:
  - name: Grace
    phone: "0700000001"
`

func TestSeedCreatesThenSkips(t *testing.T) {
	a := newTestApp(t)
	testutil.CreateUser(t, a.DB, "owner@salon.test")

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	out, err := run(t, a, "seed", "--file", path, "--as", "owner@salon.test", "--format", "json")
	require.NoError(t, err)

	var first SeedResult
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	assert.Equal(t, map[string]int{"categories": 1, "items": 1, "workers": 1, "customers": 1}, first.Created)

	var item entity.InventoryItem
	require.NoError(t, a.DB.Where("sku = ?", "SH-500").First(&item).Error)
	assert.Equal(t, 12, item.CurrentStock)
	assert.Equal(t, int64(850), item.UnitPrice)
	require.NotNil(t, item.CategoryID)

	var ledgerRows int64
	require.NoError(t, a.DB.Model(&entity.InventoryTransaction{}).Where("item_id = ?", item.ID).Count(&ledgerRows).Error)
	assert.Equal(t, int64(1), ledgerRows)

	out, err = run(t, a, "seed", "--file", path, "--as", "owner@salon.test", "--format", "json")
	require.NoError(t, err)

	var second SeedResult
	require.NoError(t, json.Unmarshal([]byte(out), &second))
	assert.Empty(t, second.Created)
	assert.Equal(t, map[string]int{"categories": 1, "items": 1, "workers": 1, "customers": 1}, second.Skipped)
}

func TestSeedRequiresKnownUser(t *testing.T) {
	a := newTestApp(t)
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	_, err := run(t, a, "seed", "--file", path, "--as", "nobody@salon.test")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestParseSeedFileRejectsUnknownKeys(t *testing.T) {
	_, err := ParseSeedFile(strings.NewReader("itemz: []\n"))
	assert.Error(t, err)

	f, err := ParseSeedFile(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.Items)
}

func TestPayrollJSON(t *testing.T) {
	a := newTestApp(t)
	worker := testutil.CreateWorker(t, a.DB, "Amina", 10)
	testutil.CreateCompletedService(t, a.DB, worker, 10000, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	testutil.CreateCompletedService(t, a.DB, worker, 20000, time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC))

	out, err := run(t, a, "payroll", "--month", "2026-03", "--format", "json")
	require.NoError(t, err)

	var summary struct {
		Month        string  `json:"month"`
		TotalPayroll float64 `json:"total_payroll"`
		Workers      []struct {
			TotalEarnings        float64 `json:"total_earnings"`
			CurrentMonthEarnings float64 `json:"current_month_earnings"`
		} `json:"workers"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "2026-03", summary.Month)
	assert.InDelta(t, 10.0, summary.TotalPayroll, 0.001)
	require.Len(t, summary.Workers, 1)
	assert.InDelta(t, 30.0, summary.Workers[0].TotalEarnings, 0.001)
	assert.InDelta(t, 10.0, summary.Workers[0].CurrentMonthEarnings, 0.001)

	out, err = run(t, a, "payroll", "--month", "2026-03")
	require.NoError(t, err)
	assert.Contains(t, out, "Payroll 2026-03")
	assert.Contains(t, out, "Amina")
}

func TestPayrollWritesWorkbook(t *testing.T) {
	a := newTestApp(t)
	testutil.CreateWorker(t, a.DB, "Amina", 10)

	path := filepath.Join(t.TempDir(), "payroll.xlsx")
	out, err := run(t, a, "payroll", "--month", "2026-03", "--xlsx", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data[:2]))
}

func TestPayrollRejectsBadMonth(t *testing.T) {
	a := newTestApp(t)
	_, err := run(t, a, "payroll", "--month", "March")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestAlertsRefreshAndList(t *testing.T) {
	a := newTestApp(t)
	testutil.CreateItem(t, a.DB, "Hair Dye", 1, 1500)

	out, err := run(t, a, "alerts", "refresh")
	require.NoError(t, err)
	assert.Contains(t, out, "Created 1 alert(s), resolved 0")

	out, err = run(t, a, "alerts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Hair Dye is low on stock")
}

func TestKeysPrune(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, a.IdempotencyRepo.Store(ctx, &entity.IdempotencyKey{
		Key: "stale", UserID: testutil.CreateUser(t, a.DB, "k@salon.test").ID,
		Endpoint: "POST /api/v1/checkout", ResponseCode: 201, ExpiresAt: time.Now().Add(-time.Hour),
	}))

	out, err := run(t, a, "keys", "prune")
	require.NoError(t, err)
	assert.Equal(t, "Deleted 1 expired key(s)\n", out)

	out, err = run(t, a, "keys", "prune", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"deleted":0}`, out)
}
