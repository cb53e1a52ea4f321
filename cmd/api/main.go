package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/quotify-api/internal/application/service"
	"github.com/sangkips/quotify-api/internal/config"
	"github.com/sangkips/quotify-api/internal/infrastructure/assets"
	"github.com/sangkips/quotify-api/internal/infrastructure/database"
	"github.com/sangkips/quotify-api/internal/infrastructure/pdf"
	"github.com/sangkips/quotify-api/internal/infrastructure/repository"
	"github.com/sangkips/quotify-api/internal/presentation/http/handler"
	"github.com/sangkips/quotify-api/internal/presentation/http/routes"
	"github.com/sangkips/quotify-api/pkg/email"
	"github.com/sangkips/quotify-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db, cfg); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize mailer
	mailer := email.NewSMTPMailer(email.SMTPConfig{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
	})

	// Initialize document engine
	imageResolver := assets.NewResolver(cfg.Storage.Path, cfg.Document.ImageTimeout)
	renderer := pdf.NewRenderer()

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	customerService := service.NewCustomerService(customerRepo)
	quotationService := service.NewQuotationService(quotationRepo, customerRepo)
	documentService := service.NewDocumentService(quotationRepo, settingsRepo, imageResolver, renderer, mailer)
	exportService := service.NewExportService(quotationRepo)
	settingsService := service.NewSettingsService(settingsRepo, cfg)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Customer:  handler.NewCustomerHandler(customerService),
		Quotation: handler.NewQuotationHandler(quotationService, documentService, exportService),
		Settings:  handler.NewSettingsHandler(settingsService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
