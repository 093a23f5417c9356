package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CheckoutMetrics bundles every metric the checkout pipeline records.
type CheckoutMetrics struct {
	OrdersCreatedTotal    *prometheus.CounterVec
	OrdersCompletedTotal  *prometheus.CounterVec
	CheckoutFailuresTotal *prometheus.CounterVec

	GatewayRequestsTotal   *prometheus.CounterVec
	GatewayRequestDuration *prometheus.HistogramVec
	TokenRefreshesTotal    prometheus.Counter
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	factory := promauto.With(reg)

	return &CheckoutMetrics{
		OrdersCreatedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_orders_created_total",
				Help: "Orders created in pending status",
			},
			[]string{"currency"},
		),

		OrdersCompletedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_orders_completed_total",
				Help: "Orders confirmed as completed",
			},
			[]string{"currency"},
		),

		CheckoutFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_failures_total",
				Help: "Checkout submissions that surfaced an error",
			},
			[]string{"reason"},
		),

		GatewayRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_requests_total",
				Help: "Requests issued to the payment gateway",
			},
			[]string{"operation", "outcome"},
		),

		GatewayRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gateway_request_duration_seconds",
				Help:    "Latency of payment gateway calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		TokenRefreshesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gateway_token_refreshes_total",
				Help: "Bearer token fetches against the gateway login endpoint",
			},
		),
	}
}

// Failure reason labels.
const (
	ReasonValidation    = "validation"
	ReasonConfiguration = "configuration"
	ReasonGateway       = "gateway"
	ReasonPersistence   = "persistence"
)

func (m *CheckoutMetrics) RecordOrderCreated(currency string) {
	m.OrdersCreatedTotal.WithLabelValues(currency).Inc()
}

func (m *CheckoutMetrics) RecordOrderCompleted(currency string) {
	m.OrdersCompletedTotal.WithLabelValues(currency).Inc()
}

func (m *CheckoutMetrics) RecordCheckoutFailure(reason string) {
	m.CheckoutFailuresTotal.WithLabelValues(reason).Inc()
}

func (m *CheckoutMetrics) RecordGatewayRequest(operation, outcome string, seconds float64) {
	m.GatewayRequestsTotal.WithLabelValues(operation, outcome).Inc()
	m.GatewayRequestDuration.WithLabelValues(operation).Observe(seconds)
}
