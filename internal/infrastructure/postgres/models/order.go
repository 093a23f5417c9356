package models

import (
	"time"

	"github.com/questgg/checkout-service/internal/domain"
)

type OrderModel struct {
	ID              string             `gorm:"primaryKey;type:uuid"`
	TotalAmount     float64            `gorm:"index:idx_total_amount"`
	Currency        string
	OriginalAmount  float64
	Status          domain.OrderStatus `gorm:"index:idx_status"`
	PaymentIntentID string
	Items           []OrderItemModel   `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt       time.Time          `gorm:"index:idx_created_at"`
	UpdatedAt       time.Time
}

type OrderItemModel struct {
	ID           uint   `gorm:"primaryKey"`
	OrderID      string `gorm:"type:uuid;not null;index"`
	ServiceID    string
	ServiceTitle string
	OptionID     string
	OptionName   string
	Price        float64
}

type CartItemModel struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       string `gorm:"not null;index"`
	ServiceID    string
	ServiceTitle string
	OptionID     string
	OptionName   string
	Price        float64
	CreatedAt    time.Time
}
