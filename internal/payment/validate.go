package payment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/questgg/checkout-service/internal/domain"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	emailRegex      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex      = regexp.MustCompile(`^\+[0-9]{6,15}$`)
	countryRegex    = regexp.MustCompile(`^[A-Z]{3}$`)
)

// ValidationError aggregates per-field messages from a full-form validation
// run. Submission is blocked while it is non-empty.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("billing details validation failed for %d field(s)", len(e.Fields))
}

// ValidateField checks a single billing field and returns an error message,
// or "" when the value passes. Used for both per-keystroke and full-form
// validation.
func ValidateField(name, value string) string {
	switch name {
	case "clientName":
		if strings.TrimSpace(value) == "" {
			return "Name is required"
		}
	case "email":
		if !emailRegex.MatchString(value) {
			return "Valid email is required"
		}
	case "phone":
		if !phoneRegex.MatchString(stripWhitespace(value)) {
			return "Phone must start with + followed by 6-15 digits"
		}
	case "country":
		if strings.TrimSpace(value) == "" {
			return "Country is required"
		}
	}
	return ""
}

// ValidateForm re-runs every field rule and collects all failing messages.
// nil means the form may be submitted.
func ValidateForm(billing domain.BillingDetails) *ValidationError {
	fields := map[string]string{
		"clientName": billing.ClientName,
		"email":      billing.Email,
		"phone":      billing.Phone,
		"country":    billing.Country,
	}

	failed := make(map[string]string)
	for name, value := range fields {
		if message := ValidateField(name, value); message != "" {
			failed[name] = message
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return &ValidationError{Fields: failed}
}

type CountryCheck struct {
	IsValid bool
	Message string
}

// ValidateCountryFormat flags values that are not 3-letter uppercase ISO
// codes. Callers log the warning but never block submission on it; only the
// non-empty rule in ValidateField is enforced.
func ValidateCountryFormat(country string) CountryCheck {
	if country == "" {
		return CountryCheck{IsValid: true}
	}
	if !countryRegex.MatchString(country) {
		return CountryCheck{
			IsValid: false,
			Message: fmt.Sprintf("country %q is not a 3-letter uppercase ISO code", country),
		}
	}
	return CountryCheck{IsValid: true}
}

func stripWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllString(s, "")
}
