package database

import (
	"fmt"
	"log"

	"github.com/sangkips/quotify-api/internal/config"
	"github.com/sangkips/quotify-api/internal/domain/entity"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Customer{},
		&entity.Quotation{},
		&entity.QuotationItem{},
		&entity.CompanySettings{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the company settings row and an admin user if
// configured via environment variables
func SeedDefaultData(db *gorm.DB, cfg *config.Config) error {
	log.Println("Seeding default data...")

	// Create company settings if none exist
	var count int64
	if err := db.Model(&entity.CompanySettings{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check company settings: %w", err)
	}
	if count == 0 {
		settings := entity.CompanySettings{
			CompanyName:   cfg.Company.Name,
			Address:       cfg.Company.Address,
			Phone:         cfg.Company.Phone,
			Email:         cfg.Company.Email,
			TRN:           cfg.Company.TRN,
			CurrencyMajor: cfg.Document.CurrencyMajor,
			CurrencyMinor: cfg.Document.CurrencyMinor,
			VATPercent:    cfg.Document.VATPercent,
			PageCapacity:  cfg.Document.PageCapacity,
		}
		if err := db.Create(&settings).Error; err != nil {
			return fmt.Errorf("failed to seed company settings: %w", err)
		}
		log.Println("Seeded default company settings")
	}

	// Create admin user if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				if adminName == "" {
					adminName = "Admin"
				}
				admin := entity.User{
					FirstName: adminName,
					LastName:  "User",
					Email:     adminEmail,
					Password:  string(hashedPassword),
					Role:      "admin",
				}
				if err := db.Create(&admin).Error; err != nil {
					log.Printf("Warning: failed to create admin user: %v", err)
				} else {
					log.Printf("Created admin user %s", adminEmail)
				}
			}
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
