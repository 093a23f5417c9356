package postgres

import (
	"log"

	"github.com/questgg/checkout-service/internal/config"
	"github.com/questgg/checkout-service/internal/infrastructure/logger"
	"github.com/questgg/checkout-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.CheckoutConfig) *gorm.DB {
	dsn := cfg.OrderDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(&models.OrderModel{}, &models.OrderItemModel{}, &models.CartItemModel{}, &logger.PaymentAttemptEvent{})

	return db
}
