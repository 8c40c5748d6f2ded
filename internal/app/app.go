// Package app wires configuration, storage and services into one value
// shared by the HTTP server and the salonctl commands.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sangkips/salonpro-api/internal/application/service"
	"github.com/sangkips/salonpro-api/internal/config"
	domainRepo "github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/internal/infrastructure/cache"
	"github.com/sangkips/salonpro-api/internal/infrastructure/realtime"
	"github.com/sangkips/salonpro-api/internal/infrastructure/repository"
	"github.com/sangkips/salonpro-api/pkg/oauth"
	"github.com/sangkips/salonpro-api/pkg/printer"
	"github.com/sangkips/salonpro-api/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds the wired services
type App struct {
	Config *config.Config
	Log    *zap.Logger
	DB     *gorm.DB
	Redis  *redis.Client
	Hub    *realtime.Hub

	JWTManager      *utils.JWTManager
	IdempotencyRepo domainRepo.IdempotencyRepository
	UserRepo        domainRepo.UserRepository

	Auth      *service.AuthService
	Users     *service.UserService
	Inventory *service.InventoryService
	Carts     *service.CartService
	Checkout  *service.CheckoutService
	Receipts  *service.ReceiptService
	Payroll   *service.PayrollService
	Customers *service.CustomerService
	Alerts    *service.AlertService
	Dashboard *service.DashboardService
	Reports   *service.ReportService

	printer   printer.Printer
	stopPurge context.CancelFunc
}

const keyPurgeInterval = time.Hour

// New builds every service on top of db and rdb. Neither connection is
// opened here so callers and tests can supply their own.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, log *zap.Logger) *App {
	loc := cfg.App.Location()
	hub := realtime.NewHub(rdb, log)

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	itemRepo := repository.NewInventoryItemRepository(db)
	categoryRepo := repository.NewInventoryCategoryRepository(db)
	txnRepo := repository.NewInventoryTransactionRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	transactor := repository.NewTransactor(db)

	thermal, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		log.Warn("Failed to initialize printer, receipts will not print", zap.Error(err))
		thermal = printer.NewNullPrinter()
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.ExpiryHours, cfg.JWT.RefreshExpiryHours)
	google := oauth.NewGoogleProvider(oauth.GoogleConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	receipts := service.NewReceiptService(thermal, service.ReceiptConfig{
		PrinterType: cfg.Printer.Type,
		StoreName:   cfg.Printer.StoreName,
		Address:     cfg.Printer.StoreAddress,
		Phone:       cfg.Printer.StorePhone,
		Width:       cfg.Printer.Width,
		Location:    loc,
	}, saleRepo, txnRepo, userRepo, log)

	carts := service.NewCartService(cache.NewRedisCartStore(rdb, cfg.Cart.MaxAge), itemRepo, cfg.Cart.MaxAge, log)
	payroll := service.NewPayrollService(workerRepo, serviceRepo, customerRepo, hub, loc, log)

	return &App{
		Config:          cfg,
		Log:             log,
		DB:              db,
		Redis:           rdb,
		Hub:             hub,
		JWTManager:      jwtManager,
		IdempotencyRepo: idempotencyRepo,
		UserRepo:        userRepo,

		Auth:      service.NewAuthService(userRepo, roleRepo, jwtManager, google, log),
		Users:     service.NewUserService(userRepo, roleRepo, permissionRepo, log),
		Inventory: service.NewInventoryService(itemRepo, categoryRepo, txnRepo, transactor, receipts, hub, log),
		Carts:     carts,
		Checkout:  service.NewCheckoutService(carts, itemRepo, txnRepo, saleRepo, customerRepo, transactor, receipts, hub, log),
		Receipts:  receipts,
		Payroll:   payroll,
		Customers: service.NewCustomerService(customerRepo, serviceRepo, hub, log),
		Alerts:    service.NewAlertService(alertRepo, itemRepo, hub, cfg.Alerts.ExpiryWindowDays, log),
		Dashboard: service.NewDashboardService(workerRepo, serviceRepo, saleRepo, itemRepo, alertRepo, customerRepo, analyticsRepo, loc),
		Reports:   service.NewReportService(payroll, log),

		printer: thermal,
	}
}

// Connect opens Redis from cfg and builds the App on db
func Connect(cfg *config.Config, db *gorm.DB, log *zap.Logger) (*App, error) {
	rdb, err := cache.NewRedisClient(cfg.Redis, log)
	if err != nil {
		return nil, err
	}
	return New(cfg, db, rdb, log), nil
}

// StartRealtime starts the change feed, subscribes the alert watcher to it
// and brings alerts up to date
func (a *App) StartRealtime(ctx context.Context) error {
	startCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := a.Hub.Start(startCtx); err != nil {
		return fmt.Errorf("start realtime hub: %w", err)
	}
	a.Alerts.Start(a.Hub)
	if _, err := a.Alerts.RefreshInventoryAlerts(ctx); err != nil {
		a.Log.Warn("Initial alert refresh failed", zap.Error(err))
	}

	purgeCtx, stop := context.WithCancel(ctx)
	a.stopPurge = stop
	go a.purgeLoop(purgeCtx, keyPurgeInterval)
	return nil
}

// PurgeIdempotencyKeys drops replay records that have expired
func (a *App) PurgeIdempotencyKeys(ctx context.Context) (int64, error) {
	return a.IdempotencyRepo.Purge(ctx, time.Now())
}

func (a *App) purgeLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.PurgeIdempotencyKeys(ctx)
			if err != nil {
				a.Log.Warn("Idempotency key purge failed", zap.Error(err))
				continue
			}
			if n > 0 {
				a.Log.Debug("Purged idempotency keys", zap.Int64("count", n))
			}
		}
	}
}

// Close stops background work and releases connections
func (a *App) Close() {
	if a.stopPurge != nil {
		a.stopPurge()
	}
	a.Alerts.Stop()
	a.Hub.Stop()
	if err := a.printer.Close(); err != nil {
		a.Log.Warn("Failed to close printer", zap.Error(err))
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
