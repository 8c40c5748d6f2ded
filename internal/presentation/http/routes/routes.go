package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/salonpro-api/internal/config"
	domainRepo "github.com/sangkips/salonpro-api/internal/domain/repository"
	"github.com/sangkips/salonpro-api/internal/presentation/http/handler"
	"github.com/sangkips/salonpro-api/internal/presentation/http/middleware"
	"github.com/sangkips/salonpro-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Inventory *handler.InventoryHandler
	Sales     *handler.SalesHandler
	Payroll   *handler.PayrollHandler
	Customer  *handler.CustomerHandler
	Dashboard *handler.DashboardHandler
	Printer   *handler.PrinterHandler
	Realtime  *handler.RealtimeHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.RateLimiter
	Logger          *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, h)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		if deps.RateLimiter != nil {
			protected.Use(deps.RateLimiter.Middleware())
		}

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.GET("/google", h.Auth.GoogleLogin)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	idempotent := middleware.Idempotency(deps.IdempotencyRepo, deps.Logger)

	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	protected.GET("/realtime/:table", h.Realtime.Stream)

	registerDashboardRoutes(protected, h)
	registerInventoryRoutes(protected, h, idempotent)
	registerSalesRoutes(protected, h, idempotent)
	registerPayrollRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerPrinterRoutes(protected, h)
	registerUserRoutes(protected, h)
}

func registerDashboardRoutes(protected *gin.RouterGroup, h *Handlers) {
	dashboard := protected.Group("")
	dashboard.Use(middleware.RequirePermission("view-dashboard"))
	{
		dashboard.GET("/dashboard/stats", h.Dashboard.GetStats)
		dashboard.GET("/alerts", h.Dashboard.ListAlerts)
	}

	alerts := protected.Group("/alerts")
	alerts.Use(middleware.RequirePermission("manage-inventory"))
	{
		alerts.POST("/refresh", h.Dashboard.RefreshAlerts)
		alerts.PUT("/:id/resolve", h.Dashboard.ResolveAlert)
	}
}

func registerInventoryRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	inventory := protected.Group("/inventory")
	inventory.Use(middleware.RequirePermission("manage-inventory"))
	{
		inventory.GET("/items", h.Inventory.ListItems)
		inventory.POST("/items", h.Inventory.CreateItem)
		inventory.GET("/items/low-stock", h.Inventory.LowStock)
		inventory.GET("/items/:id", h.Inventory.GetItem)
		inventory.PUT("/items/:id", h.Inventory.UpdateItem)
		inventory.DELETE("/items/:id", h.Inventory.DeleteItem)

		inventory.GET("/categories", h.Inventory.ListCategories)
		inventory.POST("/categories", h.Inventory.CreateCategory)
		inventory.GET("/categories/:id", h.Inventory.GetCategory)
		inventory.PUT("/categories/:id", h.Inventory.UpdateCategory)
		inventory.DELETE("/categories/:id", h.Inventory.DeleteCategory)

		inventory.GET("/transactions", h.Inventory.ListTransactions)
		inventory.POST("/transactions", idempotent, h.Inventory.RecordTransaction)
		inventory.GET("/transactions/:id", h.Inventory.GetTransaction)
		inventory.GET("/transactions/:id/receipt", h.Printer.TransactionReceipt)
	}
}

func registerSalesRoutes(protected *gin.RouterGroup, h *Handlers, idempotent gin.HandlerFunc) {
	sales := protected.Group("")
	sales.Use(middleware.RequirePermission("manage-sales"))
	{
		sales.GET("/cart", h.Sales.GetCart)
		sales.POST("/cart/items", h.Sales.AddToCart)
		sales.PUT("/cart/items/:item_id", h.Sales.UpdateCartItem)
		sales.DELETE("/cart/items/:item_id", h.Sales.RemoveFromCart)
		sales.DELETE("/cart", h.Sales.ClearCart)

		sales.POST("/checkout", idempotent, h.Sales.Checkout)

		sales.GET("/sales", h.Sales.ListSales)
		sales.GET("/sales/:id", h.Sales.GetSale)
		sales.GET("/sales/:id/movements", h.Sales.GetSaleMovements)
		sales.GET("/sales/:id/receipt", h.Printer.SaleReceipt)
	}
}

func registerPayrollRoutes(protected *gin.RouterGroup, h *Handlers) {
	workers := protected.Group("/workers")
	workers.Use(middleware.RequirePermission("manage-workers"))
	{
		workers.GET("", h.Payroll.ListWorkers)
		workers.POST("", h.Payroll.CreateWorker)
		workers.GET("/:id", h.Payroll.GetWorker)
		workers.PUT("/:id", h.Payroll.UpdateWorker)
		workers.DELETE("/:id", h.Payroll.DeleteWorker)
		workers.GET("/:id/earnings", h.Payroll.GetWorkerEarnings)
		workers.GET("/:id/earnings/daily", h.Payroll.GetDailyEarnings)
		workers.PUT("/:id/commission-rate", h.Payroll.UpdateWorkerCommissionRate)
	}

	services := protected.Group("/services")
	services.Use(middleware.RequirePermission("manage-workers"))
	{
		services.GET("", h.Payroll.ListServices)
		services.POST("", h.Payroll.RecordService)
		services.GET("/:id", h.Payroll.GetService)
		services.PUT("/:id/complete", h.Payroll.CompleteService)
		services.PUT("/:id/cancel", h.Payroll.CancelService)
		services.PUT("/:id/commission-rate", h.Payroll.UpdateServiceCommissionRate)
		services.DELETE("/:id", h.Payroll.DeleteService)
	}

	payroll := protected.Group("/payroll")
	payroll.Use(middleware.RequirePermission("view-reports"))
	{
		payroll.GET("", h.Payroll.Roster)
		payroll.GET("/summary", h.Payroll.MonthlySummary)
		payroll.GET("/export", h.Payroll.ExportPayroll)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequirePermission("manage-customers"))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.GET("/:id/history", h.Customer.History)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printer := protected.Group("/printer")
	printer.Use(middleware.RequirePermission("manage-sales"))
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/test", h.Printer.TestPrint)
		printer.POST("/print", h.Printer.PrintReceipt)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("")
	users.Use(middleware.RequirePermission("manage-users"))
	{
		users.GET("/users", h.User.List)
		users.GET("/users/:id", h.User.Get)
		users.PUT("/users/:id/roles", h.User.UpdateRoles)
		users.PUT("/users/:id/active", h.User.SetActive)
		users.DELETE("/users/:id", h.User.Delete)
		users.GET("/roles", h.User.ListRoles)
		users.GET("/permissions", h.User.ListPermissions)
	}
}
