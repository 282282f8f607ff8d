package main

import (
	"context"
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/pahanaedu/pos-api/internal/application/service"
	"github.com/pahanaedu/pos-api/internal/config"
	"github.com/pahanaedu/pos-api/internal/infrastructure/database"
	"github.com/pahanaedu/pos-api/internal/infrastructure/draftstore"
	infraRepo "github.com/pahanaedu/pos-api/internal/infrastructure/repository"
	"github.com/pahanaedu/pos-api/internal/presentation/http/handler"
	"github.com/pahanaedu/pos-api/internal/presentation/http/routes"
	"github.com/pahanaedu/pos-api/pkg/email"
	"github.com/pahanaedu/pos-api/pkg/receipt"
	"github.com/pahanaedu/pos-api/pkg/utils"
)

func main() {
	cfg := config.Load()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: failed to seed default data: %v", err)
	}

	// Redis holds the saved bill drafts.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Printf("Warning: redis unreachable, drafts unavailable: %v", err)
	}

	// JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours, cfg.JWT.RefreshExpiryHours)

	// Email service
	smtpPort, err := strconv.Atoi(cfg.Email.SMTPPort)
	if err != nil {
		smtpPort = 587
	}
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     smtpPort,
		SMTPUsername: cfg.Email.SMTPUser,
		SMTPPassword: cfg.Email.SMTPPass,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromAddress,
		FrontendURL:  cfg.Email.ResetURL,
	})

	// Repositories
	userRepo := infraRepo.NewUserRepository(db)
	passwordResetRepo := infraRepo.NewPasswordResetTokenRepository(db)
	bookRepo := infraRepo.NewBookRepository(db)
	categoryRepo := infraRepo.NewCategoryRepository(db)
	customerRepo := infraRepo.NewCustomerRepository(db)
	billRepo := infraRepo.NewBillRepository(db)
	idempotencyRepo := infraRepo.NewIdempotencyRepository(db)
	draftStore := draftstore.NewRedisDraftStore(redisClient)

	// Services
	authService := service.NewAuthService(userRepo, passwordResetRepo, jwtManager, emailService)
	bookService := service.NewBookService(bookRepo, categoryRepo)
	customerService := service.NewCustomerService(customerRepo)
	billingService := service.NewBillingService(bookRepo, customerRepo, billRepo, draftStore)
	dashboardService := service.NewDashboardService(billRepo, bookRepo, customerRepo)
	exportService := service.NewExportService(billRepo, bookRepo)

	if err := billingService.RefreshCatalog(context.Background()); err != nil {
		log.Printf("Warning: failed to load catalog snapshot: %v", err)
	}

	receiptRenderer := receipt.NewRenderer(cfg.Shop.Name, cfg.Shop.Tagline, cfg.Shop.Footer)

	// Handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Book:      handler.NewBookHandler(bookService),
		Customer:  handler.NewCustomerHandler(customerService),
		Billing:   handler.NewBillingHandler(billingService),
		Bill:      handler.NewBillHandler(billingService, receiptRenderer),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Export:    handler.NewExportHandler(exportService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	log.Printf("Starting %s on port %s (env: %s)", cfg.App.Name, cfg.App.Port, cfg.App.Env)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
