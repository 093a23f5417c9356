package mappers

import (
	"github.com/questgg/checkout-service/internal/domain"
	"github.com/questgg/checkout-service/internal/infrastructure/postgres/models"
)

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	items := make([]domain.OrderItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = domain.OrderItem{
			ServiceID:    item.ServiceID,
			ServiceTitle: item.ServiceTitle,
			OptionID:     item.OptionID,
			OptionName:   item.OptionName,
			Price:        item.Price,
		}
	}

	return &domain.Order{
		ID:              model.ID,
		TotalAmount:     model.TotalAmount,
		Currency:        model.Currency,
		OriginalAmount:  model.OriginalAmount,
		Status:          model.Status,
		PaymentIntentID: model.PaymentIntentID,
		Items:           items,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	return &models.OrderModel{
		ID:              order.ID,
		TotalAmount:     order.TotalAmount,
		Currency:        order.Currency,
		OriginalAmount:  order.OriginalAmount,
		Status:          order.Status,
		PaymentIntentID: order.PaymentIntentID,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func ToGORMOrderItems(orderID string, items []domain.OrderItem) []models.OrderItemModel {
	itemModels := make([]models.OrderItemModel, len(items))
	for i, item := range items {
		itemModels[i] = models.OrderItemModel{
			OrderID:      orderID,
			ServiceID:    item.ServiceID,
			ServiceTitle: item.ServiceTitle,
			OptionID:     item.OptionID,
			OptionName:   item.OptionName,
			Price:        item.Price,
		}
	}
	return itemModels
}

func ToDomainCartItem(model *models.CartItemModel) *domain.CartItem {
	return &domain.CartItem{
		UserID:       model.UserID,
		ServiceID:    model.ServiceID,
		ServiceTitle: model.ServiceTitle,
		OptionID:     model.OptionID,
		OptionName:   model.OptionName,
		Price:        model.Price,
	}
}
