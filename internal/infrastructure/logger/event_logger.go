package logger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// PaymentAttemptEvent is an append-only record of one gateway create-order
// attempt, successful or not. Orders stuck in pending are reconciled against
// this log by support.
type PaymentAttemptEvent struct {
	ID              uint   `gorm:"primaryKey"`
	OrderID         string `gorm:"type:uuid;index"`
	MerchantOrderID string
	AmountUSD       float64
	Currency        string
	Success         bool
	PayURL          string
	Error           string
	Timestamp       time.Time
}

type PaymentEventLogger interface {
	LogPaymentAttempt(ctx context.Context, event PaymentAttemptEvent) error
}

type PGPaymentEventLogger struct {
	db *gorm.DB
}

func NewPGPaymentEventLogger(db *gorm.DB) *PGPaymentEventLogger {
	return &PGPaymentEventLogger{db: db}
}

func (l *PGPaymentEventLogger) LogPaymentAttempt(ctx context.Context, event PaymentAttemptEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}
