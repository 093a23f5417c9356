package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/questgg/checkout-service/internal/currency"
	"github.com/questgg/checkout-service/internal/domain"
	"github.com/questgg/checkout-service/internal/payment"
	"github.com/questgg/checkout-service/internal/usecase/checkout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeCheckoutService struct {
	submit  func(*checkout.CheckoutInput) (*checkout.CheckoutResult, error)
	confirm func(string) (*domain.Order, error)
	orderBy func(string) (*domain.Order, error)
}

func (s *fakeCheckoutService) Submit(ctx context.Context, input *checkout.CheckoutInput) (*checkout.CheckoutResult, error) {
	return s.submit(input)
}

func (s *fakeCheckoutService) Confirm(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.confirm(orderID)
}

func (s *fakeCheckoutService) OrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.orderBy(orderID)
}

type fakeGatewayClient struct {
	create func(*domain.GatewayOrderRequest) (*domain.GatewayOrderResult, error)
}

func (g *fakeGatewayClient) CreateOrder(ctx context.Context, request *domain.GatewayOrderRequest) (*domain.GatewayOrderResult, error) {
	return g.create(request)
}

func newTestHandler(service *fakeCheckoutService, gatewayClient *fakeGatewayClient) *Handler {
	if service == nil {
		service = &fakeCheckoutService{}
	}
	if gatewayClient == nil {
		gatewayClient = &fakeGatewayClient{}
	}
	return NewHandler(service, gatewayClient, prometheus.NewRegistry())
}

func doJSON(t *testing.T, h *Handler, method, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	request := httptest.NewRequest(method, target, &body)
	recorder := httptest.NewRecorder()
	h.Router.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	return decoded
}

func TestSubmitCheckoutRedirect(t *testing.T) {
	service := &fakeCheckoutService{
		submit: func(input *checkout.CheckoutInput) (*checkout.CheckoutResult, error) {
			assert.Equal(t, "u1", input.UserID)
			assert.Equal(t, "EUR", input.Currency)
			return &checkout.CheckoutResult{
				OrderID:      "ord-1",
				PayURL:       "https://pay.example/s",
				DisplayTotal: currency.Money{Amount: 73.58, Currency: "EUR"},
			}, nil
		},
	}

	recorder := doJSON(t, newTestHandler(service, nil), http.MethodPost, "/api/checkout", map[string]any{
		"user_id":  "u1",
		"currency": "EUR",
		"billing":  map[string]string{"client_name": "Alex"},
	})

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))

	body := decodeBody(t, recorder)
	assert.Equal(t, "ord-1", body["order_id"])
	assert.Equal(t, "https://pay.example/s", body["pay_url"])
	assert.Equal(t, "€73.58", body["formatted_total"])
}

func TestSubmitCheckoutValidationErrors(t *testing.T) {
	service := &fakeCheckoutService{
		submit: func(*checkout.CheckoutInput) (*checkout.CheckoutResult, error) {
			return nil, &payment.ValidationError{Fields: map[string]string{
				"phone": "Phone must start with + followed by 6-15 digits",
			}}
		},
	}

	recorder := doJSON(t, newTestHandler(service, nil), http.MethodPost, "/api/checkout", map[string]any{"user_id": "u1"})

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decodeBody(t, recorder)
	fieldErrors := body["field_errors"].(map[string]any)
	assert.Contains(t, fieldErrors, "phone")
}

func TestSubmitCheckoutStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"in progress", domain.ErrCheckoutInProgress, http.StatusConflict},
		{"empty cart", domain.ErrEmptyCart, http.StatusBadRequest},
		{"gateway failure", &checkout.CheckoutError{Message: "terminal busy"}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := &fakeCheckoutService{
				submit: func(*checkout.CheckoutInput) (*checkout.CheckoutResult, error) {
					return nil, tc.err
				},
			}
			recorder := doJSON(t, newTestHandler(service, nil), http.MethodPost, "/api/checkout", map[string]any{"user_id": "u1"})
			assert.Equal(t, tc.wantStatus, recorder.Code)
		})
	}
}

func TestSubmitCheckoutRequiresUserID(t *testing.T) {
	recorder := doJSON(t, newTestHandler(nil, nil), http.MethodPost, "/api/checkout", map[string]any{"currency": "USD"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestConfirmCheckout(t *testing.T) {
	service := &fakeCheckoutService{
		confirm: func(orderID string) (*domain.Order, error) {
			if orderID != "ord-1" {
				return nil, domain.ErrOrderNotFound
			}
			return &domain.Order{ID: "ord-1", Status: domain.StatusCompleted, TotalAmount: 79.98}, nil
		},
	}
	h := newTestHandler(service, nil)

	recorder := doJSON(t, h, http.MethodPost, "/api/checkout/ord-1/confirm", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "completed", body["status"])

	recorder = doJSON(t, h, http.MethodPost, "/api/checkout/missing/confirm", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetOrder(t *testing.T) {
	service := &fakeCheckoutService{
		orderBy: func(orderID string) (*domain.Order, error) {
			if orderID != "ord-1" {
				return nil, domain.ErrOrderNotFound
			}
			return &domain.Order{
				ID:          "ord-1",
				Status:      domain.StatusPending,
				TotalAmount: 79.98,
				Items: []domain.OrderItem{
					{ServiceID: "svc-1", ServiceTitle: "Ranked Boost", OptionName: "Gold to Platinum", Price: 79.98},
				},
			}, nil
		},
	}
	h := newTestHandler(service, nil)

	recorder := doJSON(t, h, http.MethodGet, "/api/orders/ord-1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "pending", body["status"])
	assert.Len(t, body["items"], 1)

	recorder = doJSON(t, h, http.MethodGet, "/api/orders/missing", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestPaymentActionDispatch(t *testing.T) {
	h := newTestHandler(nil, &fakeGatewayClient{})

	for _, action := range []string{"orders-list", "get-terminals", "cancel-order", "refund-order"} {
		recorder := doJSON(t, h, http.MethodPost, "/api/payment", map[string]string{"action": action})
		assert.Equal(t, http.StatusNotImplemented, recorder.Code, action)
	}

	recorder := doJSON(t, h, http.MethodPost, "/api/payment", map[string]string{"action": "self-destruct"})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestPaymentActionCreateOrder(t *testing.T) {
	gatewayClient := &fakeGatewayClient{
		create: func(request *domain.GatewayOrderRequest) (*domain.GatewayOrderResult, error) {
			assert.Equal(t, "79.98", request.Orders.Amount)
			return &domain.GatewayOrderResult{
				PayURL: "https://pay.example/s",
				Raw:    map[string]any{"body": map[string]any{"pay_url": "https://pay.example/s"}, "order": "gw-1"},
			}, nil
		},
	}

	recorder := doJSON(t, newTestHandler(nil, gatewayClient), http.MethodPost, "/api/payment", map[string]any{
		"action": "create-order",
		"Orders": map[string]any{"amount": "79.98"},
	})

	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "https://pay.example/s", body["pay_url"], "pay_url is lifted to the top level")
	assert.Equal(t, "gw-1", body["order"])
}

func TestPaymentActionErrorMapping(t *testing.T) {
	cases := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantDetails string
	}{
		{"bad request", status.Error(codes.InvalidArgument, "Orders.amount is required"), http.StatusBadRequest, "Orders.amount is required", ""},
		{"configuration", status.Error(codes.FailedPrecondition, "payment gateway credentials have invalid format"), http.StatusInternalServerError, "payment system configuration error", "credential format"},
		{"unreachable", status.Error(codes.Unavailable, "gateway order request failed"), http.StatusBadGateway, "gateway order request failed", "connectivity"},
		{"field complaint", status.Error(codes.Internal, "gateway order creation returned 422: invalid mobile number"), http.StatusBadGateway, "gateway order creation returned 422: invalid mobile number", "phone format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gatewayClient := &fakeGatewayClient{
				create: func(*domain.GatewayOrderRequest) (*domain.GatewayOrderResult, error) {
					return nil, tc.err
				},
			}
			recorder := doJSON(t, newTestHandler(nil, gatewayClient), http.MethodPost, "/api/payment", map[string]string{"action": "create-order"})
			assert.Equal(t, tc.wantStatus, recorder.Code)
			body := decodeBody(t, recorder)
			assert.Equal(t, tc.wantMessage, body["error"])
			if tc.wantDetails != "" {
				assert.Equal(t, tc.wantDetails, body["details"])
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	recorder := doJSON(t, newTestHandler(nil, nil), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
