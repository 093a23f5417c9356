package checkout

import (
	"context"
	"sync"

	"github.com/questgg/checkout-service/internal/currency"
	"github.com/questgg/checkout-service/internal/domain"
	publisher "github.com/questgg/checkout-service/internal/infrastructure/kafka"
	"github.com/questgg/checkout-service/internal/infrastructure/logger"
	"github.com/questgg/checkout-service/internal/infrastructure/metrics"
)

type CheckoutUsecase interface {
	Submit(ctx context.Context, input *CheckoutInput) (*CheckoutResult, error)
	Confirm(ctx context.Context, orderID string) (*domain.Order, error)
	OrderByID(ctx context.Context, orderID string) (*domain.Order, error)
}

// CheckoutInput is one checkout submission: the billing form, the display
// currency the customer shopped in, and an optional order id when the
// customer resubmits after a failed gateway call.
type CheckoutInput struct {
	UserID       string
	Billing      domain.BillingDetails
	Currency     string
	RetryOrderID string
}

// CheckoutResult drives the caller's navigation: PayURL means a full-page
// redirect to the gateway, an empty PayURL means inline success showing the
// confirmation view for OrderID.
type CheckoutResult struct {
	OrderID      string
	PayURL       string
	DisplayTotal currency.Money
}

// Options carries the gateway parameters every order request shares.
type Options struct {
	TerminalID string
	OkURL      string
	KoURL      string
	Lang       string
}

type eventPublisher interface {
	PublishCheckoutEvent(event publisher.CheckoutEvent) error
}

type DefaultCheckoutUsecase struct {
	OrderRepo domain.OrderRepository
	CartRepo  domain.CartRepository
	Gateway   domain.GatewayClient
	EventLog  logger.PaymentEventLogger
	Publisher eventPublisher
	Metrics   *metrics.CheckoutMetrics
	Opts      Options

	// one in-flight submission per user; resubmits are rejected until the
	// current attempt settles
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewDefaultCheckoutUsecase(
	orderRepo domain.OrderRepository,
	cartRepo domain.CartRepository,
	gatewayClient domain.GatewayClient,
	eventLog logger.PaymentEventLogger,
	eventPub eventPublisher,
	checkoutMetrics *metrics.CheckoutMetrics,
	opts Options) *DefaultCheckoutUsecase {

	if opts.Lang == "" {
		opts.Lang = "en"
	}

	return &DefaultCheckoutUsecase{
		OrderRepo: orderRepo,
		CartRepo:  cartRepo,
		Gateway:   gatewayClient,
		EventLog:  eventLog,
		Publisher: eventPub,
		Metrics:   checkoutMetrics,
		Opts:      opts,
		inFlight:  make(map[string]struct{}),
	}
}

func (uc *DefaultCheckoutUsecase) acquire(userID string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, busy := uc.inFlight[userID]; busy {
		return false
	}
	uc.inFlight[userID] = struct{}{}
	return true
}

func (uc *DefaultCheckoutUsecase) release(userID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.inFlight, userID)
}
