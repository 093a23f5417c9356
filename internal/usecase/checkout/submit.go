package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/questgg/checkout-service/internal/currency"
	"github.com/questgg/checkout-service/internal/domain"
	publisher "github.com/questgg/checkout-service/internal/infrastructure/kafka"
	"github.com/questgg/checkout-service/internal/infrastructure/logger"
	"github.com/questgg/checkout-service/internal/infrastructure/metrics"
	"github.com/questgg/checkout-service/internal/payment"
	"github.com/shopspring/decimal"
)

// Submit runs one checkout attempt end to end: full-form validation, order
// persistence (or re-fetch on retry), gateway invocation and the post-payment
// bookkeeping. The cart is cleared only after the gateway call succeeds; on
// any failure the order stays pending and the next submission becomes a retry
// against the same order id.
func (uc *DefaultCheckoutUsecase) Submit(ctx context.Context, input *CheckoutInput) (*CheckoutResult, error) {
	start := time.Now()
	slog.Info("checkout submit started", "user_id", input.UserID, "retry_order_id", input.RetryOrderID)

	if !uc.acquire(input.UserID) {
		return nil, domain.ErrCheckoutInProgress
	}
	defer uc.release(input.UserID)

	// No network or persistence calls happen on validation failure.
	if validationErr := payment.ValidateForm(input.Billing); validationErr != nil {
		uc.Metrics.RecordCheckoutFailure(metrics.ReasonValidation)
		return nil, validationErr
	}

	// Historical behavior: the country-format check warns but never blocks.
	if check := payment.ValidateCountryFormat(input.Billing.Country); !check.IsValid {
		slog.Warn("country format warning", "user_id", input.UserID, "detail", check.Message)
	}

	displayCurrency := input.Currency
	if displayCurrency == "" {
		displayCurrency = "USD"
	}

	order, err := uc.prepareOrder(ctx, input, displayCurrency)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCart) {
			uc.Metrics.RecordCheckoutFailure(metrics.ReasonValidation)
		} else {
			uc.Metrics.RecordCheckoutFailure(metrics.ReasonPersistence)
		}
		return nil, uc.classify(err)
	}

	displayTotal := currency.ConvertMoney(
		currency.Money{Amount: order.TotalAmount, Currency: "USD"},
		displayCurrency,
	)
	// The gateway always receives USD: convert the display figure back with
	// the same table and rounding the customer-facing conversion used.
	amountUSD := currency.Convert(displayTotal.Amount, displayCurrency, "USD")

	request := uc.buildGatewayRequest(order, input.Billing, amountUSD, displayTotal)

	result, err := uc.Gateway.CreateOrder(ctx, request)
	if err != nil {
		uc.logAttempt(ctx, order, amountUSD, displayCurrency, "", err)
		uc.Metrics.RecordCheckoutFailure(failureReason(err))
		return nil, uc.classify(err)
	}

	if result.OrderRef != "" {
		snapshotCurrency, snapshotAmount := "", 0.0
		if displayCurrency != "USD" {
			snapshotCurrency, snapshotAmount = displayCurrency, displayTotal.Amount
		}
		if err := uc.OrderRepo.SetPaymentIntent(ctx, order.ID, result.OrderRef, snapshotCurrency, snapshotAmount); err != nil {
			uc.Metrics.RecordCheckoutFailure(metrics.ReasonPersistence)
			return nil, uc.classify(fmt.Errorf("failed to store payment reference: %w", err))
		}
	}

	// Clearing before a failed gateway call would lose the cart with nothing
	// purchased; clearing happens here, on both redirect and inline paths.
	if err := uc.CartRepo.Clear(ctx, input.UserID); err != nil {
		uc.Metrics.RecordCheckoutFailure(metrics.ReasonPersistence)
		return nil, uc.classify(fmt.Errorf("failed to clear cart: %w", err))
	}

	uc.logAttempt(ctx, order, amountUSD, displayCurrency, result.PayURL, nil)

	eventStatus := publisher.EventOrderCreated
	if result.PayURL != "" {
		eventStatus = publisher.EventPaymentRedirect
	}
	go func(event publisher.CheckoutEvent) {
		if err := uc.Publisher.PublishCheckoutEvent(event); err != nil {
			slog.Error("failed to publish checkout event", "error", err.Error())
		}
	}(publisher.CheckoutEvent{
		OrderID:         order.ID,
		MerchantOrderID: order.ID,
		Status:          eventStatus,
		AmountUSD:       amountUSD,
		Currency:        displayCurrency,
		PayURL:          result.PayURL,
	})

	slog.Info("checkout submit finished",
		"order_id", order.ID,
		"redirect", result.PayURL != "",
		"elapsed", time.Since(start),
	)

	return &CheckoutResult{
		OrderID:      order.ID,
		PayURL:       result.PayURL,
		DisplayTotal: displayTotal,
	}, nil
}

// prepareOrder creates a fresh pending order with line item snapshots, or
// re-fetches the existing one on an explicit retry. A retried order must not
// produce a second row.
func (uc *DefaultCheckoutUsecase) prepareOrder(ctx context.Context, input *CheckoutInput, displayCurrency string) (*domain.Order, error) {
	if input.RetryOrderID != "" {
		order, err := uc.OrderRepo.GetOrderByID(ctx, input.RetryOrderID)
		if err != nil {
			return nil, fmt.Errorf("failed to load order for retry: %w", err)
		}
		return order, nil
	}

	cartItems, err := uc.CartRepo.ItemsByUser(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cartItems) == 0 {
		return nil, domain.ErrEmptyCart
	}

	items := make([]domain.OrderItem, len(cartItems))
	total := decimal.Zero
	for i, cartItem := range cartItems {
		items[i] = domain.OrderItem{
			ServiceID:    cartItem.ServiceID,
			ServiceTitle: cartItem.ServiceTitle,
			OptionID:     cartItem.OptionID,
			OptionName:   cartItem.OptionName,
			Price:        cartItem.Price,
		}
		total = total.Add(decimal.NewFromFloat(cartItem.Price))
	}
	totalUSD, _ := total.Round(2).Float64()

	order := &domain.Order{
		Status:      domain.StatusPending,
		TotalAmount: totalUSD,
		Items:       items,
	}
	if displayCurrency != "USD" {
		order.Currency = displayCurrency
		order.OriginalAmount = currency.Convert(totalUSD, "USD", displayCurrency)
	}

	if err := uc.OrderRepo.CreateOrderWithItems(ctx, order, items); err != nil {
		// The order row may be left orphaned when item persistence fails;
		// surfaced as a single checkout failure, recoverable via support.
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	uc.Metrics.RecordOrderCreated(displayCurrency)

	return order, nil
}

func (uc *DefaultCheckoutUsecase) buildGatewayRequest(order *domain.Order, billing domain.BillingDetails, amountUSD float64, displayTotal currency.Money) *domain.GatewayOrderRequest {
	parts := make([]string, len(order.Items))
	for i, item := range order.Items {
		parts[i] = fmt.Sprintf("%s (%s)", item.ServiceTitle, item.OptionName)
	}
	description := "Purchase of: " + strings.Join(parts, ", ")
	if displayTotal.Currency != "USD" {
		description += fmt.Sprintf(" (%s)", displayTotal)
	}

	return &domain.GatewayOrderRequest{
		Orders: &domain.GatewayOrderParams{
			TerminalID:  uc.Opts.TerminalID,
			Amount:      decimal.NewFromFloat(amountUSD).StringFixed(2),
			Lang:        uc.Opts.Lang,
			Description: description,
		},
		Customers: map[string]any{
			"client_name": billing.ClientName,
			"mail":        billing.Email,
			"mobile":      billing.Phone,
			"country":     billing.Country,
			"city":        billing.City,
			"state":       billing.State,
			"zip":         billing.Zip,
			"address":     billing.Address,
			"tax_id":      billing.TaxID,
		},
		OrdersAPIData: &domain.GatewayAPIData{
			OkURL:           uc.Opts.OkURL,
			KoURL:           uc.Opts.KoURL,
			MerchantOrderID: order.ID,
		},
	}
}

func (uc *DefaultCheckoutUsecase) logAttempt(ctx context.Context, order *domain.Order, amountUSD float64, displayCurrency, payURL string, attemptErr error) {
	event := logger.PaymentAttemptEvent{
		OrderID:         order.ID,
		MerchantOrderID: order.ID,
		AmountUSD:       amountUSD,
		Currency:        displayCurrency,
		Success:         attemptErr == nil,
		PayURL:          payURL,
		Timestamp:       time.Now(),
	}
	if attemptErr != nil {
		event.Error = attemptErr.Error()
	}
	if err := uc.EventLog.LogPaymentAttempt(ctx, event); err != nil {
		slog.Error("failed to log payment attempt", "order_id", order.ID, "error", err.Error())
	}
}
