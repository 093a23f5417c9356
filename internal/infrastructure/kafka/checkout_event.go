package publisher

// CheckoutEvent is published to the checkout-events topic on order creation,
// payment redirect and completion.
type CheckoutEvent struct {
	OrderID         string  `json:"order_id"`
	MerchantOrderID string  `json:"merchant_order_id"`
	Status          string  `json:"status"`
	AmountUSD       float64 `json:"amount_usd"`
	Currency        string  `json:"currency"`
	PayURL          string  `json:"pay_url,omitempty"`
}

const (
	EventOrderCreated    = "order_created"
	EventPaymentRedirect = "payment_redirect"
	EventOrderCompleted  = "order_completed"
)
