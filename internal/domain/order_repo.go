package domain

import "context"

type OrderRepository interface {
	// CreateOrderWithItems inserts the order and its line item snapshots in one
	// transaction, minting the order ID if it is empty.
	CreateOrderWithItems(ctx context.Context, order *Order, items []OrderItem) error
	GetOrderByID(ctx context.Context, orderID string) (*Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, newStatus OrderStatus) error
	// SetPaymentIntent stores the gateway's order reference together with the
	// display-currency snapshot. Pass empty currency and zero amount for USD
	// checkouts (the two columns stay absent together).
	SetPaymentIntent(ctx context.Context, orderID, paymentIntentID, currency string, originalAmount float64) error
}

type CartRepository interface {
	ItemsByUser(ctx context.Context, userID string) ([]CartItem, error)
	Clear(ctx context.Context, userID string) error
}
