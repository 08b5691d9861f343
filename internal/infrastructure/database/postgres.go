package database

import (
	"fmt"

	"github.com/vendly/pos-api/internal/config"
	"github.com/vendly/pos-api/internal/domain/entity"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info("connected to PostgreSQL database", zap.String("host", cfg.Host), zap.String("db", cfg.Name))
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	err := db.AutoMigrate(
		// Catalog entities
		&entity.Category{},
		&entity.Product{},

		// Partner entities
		&entity.Customer{},
		&entity.Supplier{},

		// Sale entities
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.SalePayment{},

		// System entities
		&entity.IdempotencyKey{},
		&entity.StoreSettings{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

// SeedDefaultData creates the store settings row if it does not exist yet
func SeedDefaultData(db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.Model(&entity.StoreSettings{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	settings := &entity.StoreSettings{
		StoreName:      "My Store",
		Currency:       "INR",
		Timezone:       "Asia/Kolkata",
		DateFormat:     "DD/MM/YYYY",
		LowStockAlerts: true,
		SaleAlerts:     true,
	}
	if err := db.Create(settings).Error; err != nil {
		return err
	}

	log.Info("seeded default store settings")
	return nil
}
