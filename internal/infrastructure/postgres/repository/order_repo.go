package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/questgg/checkout-service/internal/domain"
	"github.com/questgg/checkout-service/internal/infrastructure/postgres/mappers"
	"github.com/questgg/checkout-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrderWithItems(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	orderModel := mappers.ToGORMOrder(order)
	itemModels := mappers.ToGORMOrderItems(order.ID, items)

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(orderModel).Error; err != nil {
			return err
		}
		if len(itemModels) > 0 {
			if err := tx.Create(&itemModels).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	order.Items = items
	order.CreatedAt = orderModel.CreatedAt
	order.UpdatedAt = orderModel.UpdatedAt
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var orderModel models.OrderModel
	if err := r.DB.WithContext(ctx).Preload("Items").First(&orderModel, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}

	return mappers.ToDomainOrder(&orderModel), nil
}

func (r *DefaultOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) error {
	updatedOrderModel := models.OrderModel{
		ID:     orderID,
		Status: newStatus,
	}

	if err := r.DB.WithContext(ctx).Updates(&updatedOrderModel).Error; err != nil {
		return err
	}

	return nil
}

func (r *DefaultOrderRepository) SetPaymentIntent(ctx context.Context, orderID, paymentIntentID, currency string, originalAmount float64) error {
	return r.DB.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"payment_intent_id": paymentIntentID,
			"currency":          currency,
			"original_amount":   originalAmount,
		}).Error
}
