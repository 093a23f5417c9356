package domain

import "errors"

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrCheckoutInProgress     = errors.New("checkout already in progress")
	ErrInvalidGatewayResponse = errors.New("invalid response from payment gateway")
)
