package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusFailed    OrderStatus = "failed"
)

// Order is one purchase attempt. TotalAmount is always expressed in USD;
// Currency/OriginalAmount are set together, and only when the customer
// checked out in a non-USD display currency.
type Order struct {
	ID              string
	TotalAmount     float64
	Currency        string
	OriginalAmount  float64
	Status          OrderStatus
	PaymentIntentID string
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is an immutable line item snapshot copied from the cart at
// order-creation time. Prices are USD.
type OrderItem struct {
	ServiceID    string
	ServiceTitle string
	OptionID     string
	OptionName   string
	Price        float64
}

type CartItem struct {
	UserID       string
	ServiceID    string
	ServiceTitle string
	OptionID     string
	OptionName   string
	Price        float64
}

// BillingDetails is the ephemeral checkout form input. It is never persisted
// on its own and only flows through to the gateway request.
type BillingDetails struct {
	ClientName string `json:"client_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Country    string `json:"country"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zip        string `json:"zip"`
	Address    string `json:"address"`
	TaxID      string `json:"tax_id"`
}
