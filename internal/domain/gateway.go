package domain

import "context"

// GatewayOrderRequest is the abstract create-order contract accepted by the
// payment proxy. Orders.amount is always expressed in USD regardless of the
// display currency shown to the customer — conversion back to USD happens
// before this request is built.
type GatewayOrderRequest struct {
	Orders        *GatewayOrderParams `json:"Orders"`
	Customers     map[string]any      `json:"Customers"`
	OrdersAPIData *GatewayAPIData     `json:"OrdersApiData"`
}

type GatewayOrderParams struct {
	TerminalID     string `json:"terminal_id"`
	Amount         string `json:"amount"`
	Lang           string `json:"lang,omitempty"`
	Description    string `json:"merchant_order_description,omitempty"`
	IsRecurring    bool   `json:"is_recurring,omitempty"`
	IsAuth         bool   `json:"is_auth,omitempty"`
	SkipEmail      bool   `json:"skip_email,omitempty"`
	RepeatInterval int    `json:"repeat_interval,omitempty"`
	RepeatTimes    int    `json:"repeat_times,omitempty"`
}

// GatewayAPIData carries the redirect targets the gateway sends the customer
// back to. MerchantOrderID correlates the gateway callback with the local
// order after an asynchronous payment redirect.
type GatewayAPIData struct {
	OkURL           string `json:"okUrl"`
	KoURL           string `json:"koUrl"`
	MerchantOrderID string `json:"merchant_order_id,omitempty"`
	IncrementID     string `json:"incrementId,omitempty"`
}

// GatewayOrderResult is the normalized gateway answer. PayURL is set whenever
// a payment redirect is needed, no matter which of the gateway's response
// shapes carried it. Raw holds the parsed gateway body when it was JSON.
type GatewayOrderResult struct {
	PayURL   string         `json:"pay_url,omitempty"`
	OrderRef string         `json:"order_ref,omitempty"`
	Raw      map[string]any `json:"-"`
}

type GatewayClient interface {
	CreateOrder(ctx context.Context, request *GatewayOrderRequest) (*GatewayOrderResult, error)
}
