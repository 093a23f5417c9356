package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/questgg/checkout-service/internal/domain"
	"github.com/questgg/checkout-service/internal/infrastructure/metrics"
	"github.com/questgg/checkout-service/internal/payment"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// OrderClient drives the remote gateway's order-creation endpoint: it
// validates the abstract request, flattens it into the gateway's wire shape,
// attaches a bearer token from the AuthClient and normalizes whichever
// response shape comes back into a single GatewayOrderResult.
type OrderClient struct {
	baseURL string
	auth    *AuthClient
	client  *http.Client
	metrics *metrics.CheckoutMetrics
}

func NewOrderClient(baseURL string, auth *AuthClient, client *http.Client, m *metrics.CheckoutMetrics) *OrderClient {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &OrderClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		auth:    auth,
		client:  client,
		metrics: m,
	}
}

func (c *OrderClient) CreateOrder(ctx context.Context, request *domain.GatewayOrderRequest) (*domain.GatewayOrderResult, error) {
	if err := validateOrderRequest(request); err != nil {
		return nil, err
	}

	payload := buildWirePayload(request)

	// Credential-format failures surface here as configuration errors,
	// distinct from request errors.
	token, err := c.auth.Login(ctx)
	if err != nil {
		return nil, err
	}

	requestBodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders/create", bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return nil, err
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	response, err := c.client.Do(httpRequest)
	if err != nil {
		c.recordCreate("error", start)
		return nil, status.Errorf(codes.Unavailable, "gateway order request failed: %v", err)
	}
	defer response.Body.Close()

	// Read as text first: the gateway has been observed to answer with a bare
	// URL string instead of JSON.
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		c.recordCreate("error", start)
		return nil, err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		c.recordCreate("error", start)
		return nil, status.Errorf(codes.Internal, "gateway order creation returned %d: %s", response.StatusCode, string(responseBodyBytes))
	}

	result, err := ParseGatewayResponse(string(responseBodyBytes))
	if err != nil {
		c.recordCreate("invalid_response", start)
		return nil, err
	}

	c.recordCreate("success", start)
	return result, nil
}

func validateOrderRequest(request *domain.GatewayOrderRequest) error {
	if request == nil || request.Orders == nil {
		return status.Error(codes.InvalidArgument, "Orders section is required")
	}
	if request.Customers == nil {
		return status.Error(codes.InvalidArgument, "Customers section is required")
	}
	if request.OrdersAPIData == nil {
		return status.Error(codes.InvalidArgument, "OrdersApiData section is required")
	}
	if request.Orders.Amount == "" {
		return status.Error(codes.InvalidArgument, "Orders.amount is required")
	}
	if stringValue(request.Customers["client_name"]) == "" {
		return status.Error(codes.InvalidArgument, "Customers.client_name is required")
	}
	if stringValue(request.Customers["mail"]) == "" {
		return status.Error(codes.InvalidArgument, "Customers.mail is required")
	}
	if request.OrdersAPIData.OkURL == "" {
		return status.Error(codes.InvalidArgument, "OrdersApiData.okUrl is required")
	}
	if request.OrdersAPIData.KoURL == "" {
		return status.Error(codes.InvalidArgument, "OrdersApiData.koUrl is required")
	}
	return nil
}

// buildWirePayload flattens the abstract request into the gateway's exact
// wire shape: 0/1 coercions with skip_email/is_recurring defaulting to 0,
// cleaned customer record under "customer", redirect data under
// "ordersapidata" with the merchant order id appended to both redirect URLs
// so the gateway callbacks can be correlated back to the local order.
func buildWirePayload(request *domain.GatewayOrderRequest) map[string]any {
	merchantOrderID := request.OrdersAPIData.MerchantOrderID
	if merchantOrderID == "" {
		merchantOrderID = payment.GenerateMerchantOrderID()
	}
	incrementID := request.OrdersAPIData.IncrementID
	if incrementID == "" {
		incrementID = merchantOrderID
	}

	payload := map[string]any{
		"terminal_id":                request.Orders.TerminalID,
		"amount":                     request.Orders.Amount,
		"lang":                       request.Orders.Lang,
		"merchant_order_description": request.Orders.Description,
		"is_recurring":               boolToInt(request.Orders.IsRecurring),
		"is_auth":                    boolToInt(request.Orders.IsAuth),
		"skip_email":                 boolToInt(request.Orders.SkipEmail),
	}
	if request.Orders.RepeatInterval > 0 {
		payload["repeat_interval"] = request.Orders.RepeatInterval
	}
	if request.Orders.RepeatTimes > 0 {
		payload["repeat_times"] = request.Orders.RepeatTimes
	}

	customer := payment.CleanCustomerData(request.Customers)
	if mobile := stringValue(customer["mobile"]); mobile != "" {
		customer["mobile"] = payment.FormatPhoneNumber(mobile)
	}
	payload["customer"] = customer

	payload["ordersapidata"] = map[string]any{
		"okUrl":             appendOrderID(request.OrdersAPIData.OkURL, merchantOrderID),
		"koUrl":             appendOrderID(request.OrdersAPIData.KoURL, merchantOrderID),
		"merchant_order_id": merchantOrderID,
		"incrementId":       incrementID,
	}

	return payload
}

// ParseGatewayResponse normalizes the gateway's observed response shapes —
// {pay_url}, {body:{pay_url}}, {response:{pay_url}} or a bare URL string —
// into one result. The union is closed: new shapes are deliberate additions.
func ParseGatewayResponse(raw string) (*domain.GatewayOrderResult, error) {
	trimmed := strings.TrimSpace(raw)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		if strings.Contains(trimmed, "http") {
			return &domain.GatewayOrderResult{PayURL: strings.Trim(trimmed, `"`)}, nil
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidGatewayResponse, truncateBody(trimmed))
	}

	nestedBodies := []map[string]any{
		parsed,
		nestedObject(parsed, "body"),
		nestedObject(parsed, "response"),
	}

	result := &domain.GatewayOrderResult{Raw: parsed}
	for _, body := range nestedBodies {
		if body == nil {
			continue
		}
		if result.PayURL == "" {
			result.PayURL = stringValue(body["pay_url"])
		}
		if result.OrderRef == "" {
			result.OrderRef = referenceValue(body["order"])
		}
		if result.OrderRef == "" {
			result.OrderRef = referenceValue(body["order_id"])
		}
	}

	return result, nil
}

func appendOrderID(rawURL, merchantOrderID string) string {
	if strings.Contains(rawURL, "id=") {
		return rawURL
	}
	separator := "?"
	if strings.Contains(rawURL, "?") {
		separator = "&"
	}
	return rawURL + separator + "id=" + merchantOrderID
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func referenceValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return fmt.Sprintf("%.0f", value)
	default:
		return ""
	}
}

func nestedObject(parsed map[string]any, key string) map[string]any {
	nested, _ := parsed[key].(map[string]any)
	return nested
}

func truncateBody(body string) string {
	const limit = 256
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func (c *OrderClient) recordCreate(outcome string, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordGatewayRequest("create_order", outcome, time.Since(start).Seconds())
	}
}
