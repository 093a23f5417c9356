package checkout

import (
	"context"
	"log/slog"

	"github.com/questgg/checkout-service/internal/domain"
	publisher "github.com/questgg/checkout-service/internal/infrastructure/kafka"
)

// Confirm marks an order as completed after the gateway redirects the
// customer back to the success URL. Confirming an already-completed order is
// a no-op so the success page can be reloaded safely.
func (uc *DefaultCheckoutUsecase) Confirm(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == domain.StatusCompleted {
		return order, nil
	}

	if err := uc.OrderRepo.UpdateOrderStatus(ctx, orderID, domain.StatusCompleted); err != nil {
		return nil, err
	}
	order.Status = domain.StatusCompleted

	orderCurrency := order.Currency
	if orderCurrency == "" {
		orderCurrency = "USD"
	}
	uc.Metrics.RecordOrderCompleted(orderCurrency)

	go func(event publisher.CheckoutEvent) {
		if err := uc.Publisher.PublishCheckoutEvent(event); err != nil {
			slog.Error("failed to publish checkout event", "error", err.Error())
		}
	}(publisher.CheckoutEvent{
		OrderID:         order.ID,
		MerchantOrderID: order.ID,
		Status:          publisher.EventOrderCompleted,
		AmountUSD:       order.TotalAmount,
		Currency:        orderCurrency,
	})

	slog.Info("order confirmed", "order_id", orderID)
	return order, nil
}

func (uc *DefaultCheckoutUsecase) OrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	return uc.OrderRepo.GetOrderByID(ctx, orderID)
}
