package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/questgg/checkout-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func validRequest() *domain.GatewayOrderRequest {
	return &domain.GatewayOrderRequest{
		Orders: &domain.GatewayOrderParams{
			TerminalID:  "term-1",
			Amount:      "79.98",
			Lang:        "en",
			Description: "Purchase of: Ranked Boost (Gold to Platinum)",
		},
		Customers: map[string]any{
			"client_name": "Alex Doe",
			"mail":        "alex@example.com",
			"mobile":      "44 7911 123456",
			"country":     "GBR",
			"tax_id":      nil,
			"state":       "",
		},
		OrdersAPIData: &domain.GatewayAPIData{
			OkURL:           "https://shop.example/payment/success",
			KoURL:           "https://shop.example/payment/failure",
			MerchantOrderID: "ord-123",
		},
	}
}

// newGatewayServer serves both /login and /orders/create and captures the
// wire payload of the last order request.
func newGatewayServer(t *testing.T, orderStatus int, orderBody string, captured *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-xyz"})
		case "/orders/create":
			require.Equal(t, "Bearer tok-xyz", r.Header.Get("Authorization"))
			if captured != nil {
				raw, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				require.NoError(t, json.Unmarshal(raw, captured))
			}
			w.WriteHeader(orderStatus)
			w.Write([]byte(orderBody))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
}

func newClients(server *httptest.Server) *OrderClient {
	auth := NewAuthClient(server.URL, "pub-key", "prv-secret", server.Client(), nil)
	return NewOrderClient(server.URL, auth, server.Client(), nil)
}

func TestCreateOrderMissingSections(t *testing.T) {
	client := NewOrderClient("http://unused", nil, nil, nil)

	cases := []struct {
		name    string
		mutate  func(r *domain.GatewayOrderRequest)
		message string
	}{
		{"no Orders", func(r *domain.GatewayOrderRequest) { r.Orders = nil }, "Orders section"},
		{"no Customers", func(r *domain.GatewayOrderRequest) { r.Customers = nil }, "Customers section"},
		{"no OrdersApiData", func(r *domain.GatewayOrderRequest) { r.OrdersAPIData = nil }, "OrdersApiData section"},
		{"no amount", func(r *domain.GatewayOrderRequest) { r.Orders.Amount = "" }, "Orders.amount"},
		{"no client_name", func(r *domain.GatewayOrderRequest) { delete(r.Customers, "client_name") }, "client_name"},
		{"no mail", func(r *domain.GatewayOrderRequest) { delete(r.Customers, "mail") }, "mail"},
		{"no okUrl", func(r *domain.GatewayOrderRequest) { r.OrdersAPIData.OkURL = "" }, "okUrl"},
		{"no koUrl", func(r *domain.GatewayOrderRequest) { r.OrdersAPIData.KoURL = "" }, "koUrl"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			request := validRequest()
			tc.mutate(request)
			_, err := client.CreateOrder(context.Background(), request)
			require.Error(t, err)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestCreateOrderWirePayload(t *testing.T) {
	var captured map[string]any
	server := newGatewayServer(t, http.StatusOK, `{"pay_url":"https://pay.example/abc","order":"gw-77"}`, &captured)
	defer server.Close()

	result, err := newClients(server).CreateOrder(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/abc", result.PayURL)
	assert.Equal(t, "gw-77", result.OrderRef)

	// USD amount passes through untouched, booleans default to 0.
	assert.Equal(t, "79.98", captured["amount"])
	assert.Equal(t, float64(0), captured["skip_email"])
	assert.Equal(t, float64(0), captured["is_recurring"])
	assert.Equal(t, float64(0), captured["is_auth"])
	assert.Equal(t, "term-1", captured["terminal_id"])

	customer, ok := captured["customer"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "+447911123456", customer["mobile"], "mobile reformatted")
	assert.NotContains(t, customer, "tax_id", "nil entries removed")
	assert.NotContains(t, customer, "state", "empty entries removed")

	apiData, ok := captured["ordersapidata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ord-123", apiData["merchant_order_id"])
	assert.Equal(t, "https://shop.example/payment/success?id=ord-123", apiData["okUrl"])
	assert.Equal(t, "https://shop.example/payment/failure?id=ord-123", apiData["koUrl"])
}

func TestCreateOrderGeneratesMerchantOrderID(t *testing.T) {
	var captured map[string]any
	server := newGatewayServer(t, http.StatusOK, `{"pay_url":"https://pay.example/abc"}`, &captured)
	defer server.Close()

	request := validRequest()
	request.OrdersAPIData.MerchantOrderID = ""
	_, err := newClients(server).CreateOrder(context.Background(), request)
	require.NoError(t, err)

	apiData := captured["ordersapidata"].(map[string]any)
	merchantOrderID, _ := apiData["merchant_order_id"].(string)
	assert.Regexp(t, `^order-\d+$`, merchantOrderID)
	assert.Contains(t, apiData["okUrl"], "?id="+merchantOrderID)
}

func TestCreateOrderDoesNotDuplicateRedirectID(t *testing.T) {
	var captured map[string]any
	server := newGatewayServer(t, http.StatusOK, `{"pay_url":"u"}`, &captured)
	defer server.Close()

	request := validRequest()
	request.OrdersAPIData.OkURL = "https://shop.example/success?id=ord-123"
	_, err := newClients(server).CreateOrder(context.Background(), request)
	require.NoError(t, err)

	apiData := captured["ordersapidata"].(map[string]any)
	assert.Equal(t, "https://shop.example/success?id=ord-123", apiData["okUrl"])
}

func TestCreateOrderNon2xxCarriesRawBody(t *testing.T) {
	server := newGatewayServer(t, http.StatusBadGateway, `terminal disabled`, nil)
	defer server.Close()

	_, err := newClients(server).CreateOrder(context.Background(), validRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal disabled")
}

func TestCreateOrderConfigurationErrorSkipsOrderCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no gateway call expected, got %s", r.URL.Path)
	}))
	defer server.Close()

	auth := NewAuthClient(server.URL, "bad-key", "bad-secret", server.Client(), nil)
	client := NewOrderClient(server.URL, auth, server.Client(), nil)

	_, err := client.CreateOrder(context.Background(), validRequest())
	require.Error(t, err)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestParseGatewayResponseShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"top-level", `{"pay_url":"u"}`, "u"},
		{"nested body", `{"body":{"pay_url":"u"}}`, "u"},
		{"nested response", `{"response":{"pay_url":"u"}}`, "u"},
		{"bare string", `https://u`, "https://u"},
		{"quoted bare string", `"https://u"`, "https://u"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ParseGatewayResponse(tc.body)
			require.NoError(t, err)
			assert.Equal(t, tc.want, result.PayURL)
		})
	}
}

func TestParseGatewayResponseOrderReference(t *testing.T) {
	result, err := ParseGatewayResponse(`{"body":{"pay_url":"u","order":12345}}`)
	require.NoError(t, err)
	assert.Equal(t, "12345", result.OrderRef)

	result, err = ParseGatewayResponse(`{"order_id":"gw-1"}`)
	require.NoError(t, err)
	assert.Equal(t, "gw-1", result.OrderRef)
	assert.Empty(t, result.PayURL)
}

func TestParseGatewayResponseInvalid(t *testing.T) {
	_, err := ParseGatewayResponse("not json and no url")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidGatewayResponse)
}
