package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pahanaedu/pos-api/internal/config"
	domainRepo "github.com/pahanaedu/pos-api/internal/domain/repository"
	"github.com/pahanaedu/pos-api/internal/presentation/http/handler"
	"github.com/pahanaedu/pos-api/internal/presentation/http/middleware"
	"github.com/pahanaedu/pos-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Book      *handler.BookHandler
	Customer  *handler.CustomerHandler
	Billing   *handler.BillingHandler
	Bill      *handler.BillHandler
	Dashboard *handler.DashboardHandler
	Export    *handler.ExportHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
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

		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/auth/me", h.Auth.Me)
	protected.POST("/auth/change-password", h.Auth.ChangePassword)
	// New users are created by admins, not by self-signup.
	protected.POST("/auth/register", middleware.RequireAdmin(), h.Auth.Register)

	registerDashboardRoutes(protected, h)
	registerBookRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerBillingRoutes(protected, h, deps)
	registerBillRoutes(protected, h)
	registerExportRoutes(protected, h)
}

func registerDashboardRoutes(protected *gin.RouterGroup, h *Handlers) {
	dashboard := protected.Group("/dashboard")
	{
		dashboard.GET("/stats", h.Dashboard.Stats)
		dashboard.GET("/low-stock", h.Dashboard.LowStock)
	}
}

func registerBookRoutes(protected *gin.RouterGroup, h *Handlers) {
	books := protected.Group("/books")
	{
		books.GET("", h.Book.List)
		books.GET("/ref/:ref", h.Book.GetByReferenceNo)
		books.GET("/:id", h.Book.Get)
		books.POST("", middleware.RequireAdmin(), h.Book.Create)
		books.PUT("/:id", middleware.RequireAdmin(), h.Book.Update)
		books.DELETE("/:id", middleware.RequireAdmin(), h.Book.Delete)
	}

	categories := protected.Group("/categories")
	{
		categories.GET("", h.Book.ListCategories)
		categories.POST("", middleware.RequireAdmin(), h.Book.CreateCategory)
		categories.DELETE("/:id", middleware.RequireAdmin(), h.Book.DeleteCategory)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/account/:accountNo", h.Customer.GetByAccountNo)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", middleware.RequireAdmin(), h.Customer.Delete)
	}
}

func registerBillingRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	billing := protected.Group("/billing")
	{
		billing.POST("/sessions", h.Billing.StartSession)
		billing.GET("/sessions/:sessionID", h.Billing.GetSession)
		billing.DELETE("/sessions/:sessionID", h.Billing.EndSession)

		billing.POST("/sessions/:sessionID/lines", h.Billing.AddLine)
		billing.POST("/sessions/:sessionID/products", h.Billing.AddProduct)
		billing.PUT("/sessions/:sessionID/lines/:lineID/product", h.Billing.SetLineProduct)
		billing.PUT("/sessions/:sessionID/lines/:lineID/quantity", h.Billing.SetQuantity)
		billing.POST("/sessions/:sessionID/lines/:lineID/increment", h.Billing.IncrementLine)
		billing.DELETE("/sessions/:sessionID/lines/:lineID", h.Billing.RemoveLine)

		billing.PUT("/sessions/:sessionID/customer", h.Billing.SetCustomer)
		billing.PUT("/sessions/:sessionID/payment-method", h.Billing.SetPaymentMethod)
		billing.PUT("/sessions/:sessionID/bill-date", h.Billing.SetBillDate)
		billing.POST("/sessions/:sessionID/reset", h.Billing.ResetSession)
		billing.GET("/sessions/:sessionID/printable", h.Billing.Printable)

		// Checkout carries the idempotency middleware so a retried
		// submission replays the original bill instead of creating a
		// second one.
		billing.POST("/sessions/:sessionID/checkout",
			middleware.Idempotency(deps.IdempotencyRepo), h.Billing.Checkout)

		billing.POST("/sessions/:sessionID/drafts", h.Billing.SaveDraft)
		billing.POST("/sessions/:sessionID/drafts/:index/load", h.Billing.LoadDraft)
		billing.GET("/drafts", h.Billing.ListDrafts)
		billing.DELETE("/drafts/:index", h.Billing.DeleteDraft)

		billing.POST("/catalog/refresh", middleware.RequireAdmin(), h.Billing.RefreshCatalog)
	}
}

func registerBillRoutes(protected *gin.RouterGroup, h *Handlers) {
	bills := protected.Group("/bills")
	{
		bills.GET("", h.Bill.List)
		bills.GET("/:billNo", h.Bill.Get)
		bills.GET("/:billNo/receipt", h.Bill.Receipt)
	}
}

func registerExportRoutes(protected *gin.RouterGroup, h *Handlers) {
	exports := protected.Group("/exports")
	exports.Use(middleware.RequireAdmin())
	{
		exports.GET("/bills.csv", h.Export.BillsCSV)
		exports.GET("/bills.xlsx", h.Export.BillsXLSX)
		exports.GET("/books.csv", h.Export.BooksCSV)
	}
}
