package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salonpro-api/internal/app"
	"github.com/sangkips/salonpro-api/internal/config"
	"github.com/sangkips/salonpro-api/internal/infrastructure/database"
	"github.com/sangkips/salonpro-api/internal/presentation/http/handler"
	"github.com/sangkips/salonpro-api/internal/presentation/http/middleware"
	"github.com/sangkips/salonpro-api/internal/presentation/http/routes"
	"github.com/sangkips/salonpro-api/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log := logger.Must(logger.Config{
		Level:             cfg.Logger.Level,
		Encoding:          cfg.Logger.Encoding,
		Development:       !cfg.App.IsProduction(),
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	defer func() { _ = log.Sync() }()

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.AutoMigrate(db, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := database.SeedDefaultData(db, cfg.Admin, log); err != nil {
		log.Warn("Failed to seed default data", zap.Error(err))
	}

	a, err := app.Connect(cfg, db, log)
	if err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.StartRealtime(ctx); err != nil {
		log.Fatal("Failed to start realtime updates", zap.Error(err))
	}

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfigFor(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer limiter.Stop()

	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(a.Auth, cfg.App.IsProduction(), log),
		User:      handler.NewUserHandler(a.Users),
		Inventory: handler.NewInventoryHandler(a.Inventory),
		Sales:     handler.NewSalesHandler(a.Carts, a.Checkout),
		Payroll:   handler.NewPayrollHandler(a.Payroll, a.Reports, cfg.App.Location()),
		Customer:  handler.NewCustomerHandler(a.Customers),
		Dashboard: handler.NewDashboardHandler(a.Dashboard, a.Alerts),
		Printer:   handler.NewPrinterHandler(a.Receipts),
		Realtime:  handler.NewRealtimeHandler(a.Hub, log),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      a.JWTManager,
		Cfg:             cfg,
		IdempotencyRepo: a.IdempotencyRepo,
		RateLimiter:     limiter,
		Logger:          log,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(handlers.Realtime.Close)

	go func() {
		log.Info("Starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
