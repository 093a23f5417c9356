package payment

import (
	"fmt"
	"strings"
	"time"
)

// CleanCustomerData drops entries whose value is nil, an empty string, or the
// "undefined" placeholder some clients serialize for missing fields. The
// returned map is a copy and is the record of what gets sent to the gateway.
func CleanCustomerData(data map[string]any) map[string]any {
	cleaned := make(map[string]any, len(data))
	for key, value := range data {
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok && (s == "" || s == "undefined") {
			continue
		}
		cleaned[key] = value
	}
	return cleaned
}

// FormatPhoneNumber strips whitespace and ensures a leading "+". Empty input
// yields "", meaning the number is absent.
func FormatPhoneNumber(mobile string) string {
	stripped := stripWhitespace(mobile)
	if stripped == "" {
		return ""
	}
	if !strings.HasPrefix(stripped, "+") {
		stripped = "+" + stripped
	}
	return stripped
}

// GenerateMerchantOrderID produces a fallback correlation id for callers that
// have no local order id yet.
func GenerateMerchantOrderID() string {
	return fmt.Sprintf("order-%d", time.Now().UnixMilli())
}
