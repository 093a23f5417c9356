package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/questgg/checkout-service/internal/infrastructure/metrics"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Format sanity check on configured credentials, not real verification.
	apiKeyPrefix    = "pub"
	apiSecretPrefix = "prv"

	// The gateway states a 10-minute token lifetime; cache slightly less so a
	// token never expires mid-request.
	tokenTTL = 9*time.Minute + 30*time.Second

	defaultHTTPTimeout = 15 * time.Second
)

// AuthClient exchanges the configured API key/secret for a short-lived bearer
// token and caches it. One token is shared by every request going through
// this process; the mutex is held across the login call so concurrent callers
// racing on an expired token converge on a single fetch.
type AuthClient struct {
	baseURL   string
	apiKey    string
	apiSecret string
	client    *http.Client
	metrics   *metrics.CheckoutMetrics
	now       func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

func NewAuthClient(baseURL, apiKey, apiSecret string, client *http.Client, m *metrics.CheckoutMetrics) *AuthClient {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &AuthClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		apiSecret: apiSecret,
		client:    client,
		metrics:   m,
		now:       time.Now,
	}
}

// Login returns the cached token while it is fresh, otherwise performs the
// login exchange. Credential-format failures are configuration errors and are
// never retried.
func (c *AuthClient) Login(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.expiry) {
		return c.token, nil
	}

	if !strings.HasPrefix(c.apiKey, apiKeyPrefix) || !strings.HasPrefix(c.apiSecret, apiSecretPrefix) {
		return "", status.Error(codes.FailedPrecondition, "payment gateway credentials have invalid format")
	}

	requestBodyBytes, err := json.Marshal(map[string]string{
		"api_key":    c.apiKey,
		"api_secret": c.apiSecret,
	})
	if err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", "application/json")

	start := c.now()
	response, err := c.client.Do(request)
	if err != nil {
		c.recordLogin("error", start)
		return "", status.Errorf(codes.Unavailable, "gateway login request failed: %v", err)
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		c.recordLogin("error", start)
		return "", err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		c.recordLogin("error", start)
		return "", status.Errorf(codes.Unauthenticated, "gateway login returned %d: %s", response.StatusCode, string(responseBodyBytes))
	}

	var loginResponse struct {
		AccessToken string `json:"access_token"`
		Token       string `json:"token"`
	}
	if err := json.Unmarshal(responseBodyBytes, &loginResponse); err != nil {
		c.recordLogin("error", start)
		return "", fmt.Errorf("gateway login returned non-JSON body %q: %w", string(responseBodyBytes), err)
	}

	token := loginResponse.AccessToken
	if token == "" {
		token = loginResponse.Token
	}
	if token == "" {
		c.recordLogin("error", start)
		return "", status.Error(codes.Unauthenticated, "gateway login response carries no token")
	}

	c.token = token
	c.expiry = c.now().Add(tokenTTL)
	c.recordLogin("success", start)
	if c.metrics != nil {
		c.metrics.TokenRefreshesTotal.Inc()
	}

	return token, nil
}

func (c *AuthClient) recordLogin(outcome string, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordGatewayRequest("login", outcome, c.now().Sub(start).Seconds())
	}
}
