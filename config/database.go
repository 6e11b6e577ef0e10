package config

import (
	"fmt"

	"github.com/Govind-619/Storefront/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the postgres connection and migrates the schema
func InitDB(cfg *Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}
	if cfg.IsProduction() {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	DB = db
	return db, nil
}

// Migrate auto-migrates every table the service owns
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Coupon{},
		&models.CouponRedemption{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}
	return nil
}
