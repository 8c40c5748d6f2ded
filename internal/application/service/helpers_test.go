package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/internal/infrastructure/cache"
	infraRepo "github.com/sangkips/salonpro-api/internal/infrastructure/repository"
	"github.com/sangkips/salonpro-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []repository.ChangeEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e repository.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) tables() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Table)
	}
	return out
}

type capturePrinter struct {
	mu    sync.Mutex
	jobs  [][]byte
	fail  bool
	ready bool
}

func (p *capturePrinter) Print(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("paper jam")
	}
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *capturePrinter) Close() error      { return nil }
func (p *capturePrinter) IsConnected() bool { return p.ready }

// testEnv wires the stock services against sqlite and miniredis
type testEnv struct {
	db        *gorm.DB
	redis     *miniredis.Miniredis
	publisher *recordingPublisher
	printer   *capturePrinter

	items    repository.InventoryItemRepository
	ledger   repository.InventoryTransactionRepository
	sales    repository.SaleRepository
	cartRepo repository.CartStore

	receipts  *ReceiptService
	inventory *InventoryService
	carts     *CartService
	checkout  *CheckoutService
	payroll   *PayrollService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := zap.NewNop()
	env := &testEnv{
		db:        db,
		redis:     mr,
		publisher: &recordingPublisher{},
		printer:   &capturePrinter{},
		items:     infraRepo.NewInventoryItemRepository(db),
		ledger:    infraRepo.NewInventoryTransactionRepository(db),
		sales:     infraRepo.NewSaleRepository(db),
		cartRepo:  cache.NewRedisCartStore(client, 7*24*time.Hour),
	}
	transactor := infraRepo.NewTransactor(db)
	users := infraRepo.NewUserRepository(db)

	env.receipts = NewReceiptService(env.printer, ReceiptConfig{PrinterType: "network", StoreName: "SalonPro"},
		env.sales, env.ledger, users, log)
	env.inventory = NewInventoryService(env.items, infraRepo.NewInventoryCategoryRepository(db), env.ledger,
		transactor, env.receipts, env.publisher, log)
	env.carts = NewCartService(env.cartRepo, env.items, 7*24*time.Hour, log)
	env.checkout = NewCheckoutService(env.carts, env.items, env.ledger, env.sales,
		infraRepo.NewCustomerRepository(db), transactor, env.receipts, env.publisher, log)
	env.payroll = NewPayrollService(infraRepo.NewWorkerRepository(db), infraRepo.NewServiceRepository(db),
		infraRepo.NewCustomerRepository(db), env.publisher, time.UTC, log)
	return env
}
