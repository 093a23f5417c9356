package checkout

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/questgg/checkout-service/internal/domain"
	"github.com/questgg/checkout-service/internal/infrastructure/metrics"
	"github.com/questgg/checkout-service/internal/payment"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// CheckoutError is the customer-facing shape of a failed submission: one
// message plus field-level hints when the gateway complaint points at a
// specific billing field.
type CheckoutError struct {
	Message     string
	FieldErrors map[string]string
}

func (e *CheckoutError) Error() string {
	return e.Message
}

// classify turns an internal failure into what the customer should see.
// Gateway complaints mentioning a known billing field become field errors so
// the form can highlight them; configuration failures are reduced to a
// generic message with the detail kept in the logs.
func (uc *DefaultCheckoutUsecase) classify(err error) error {
	var validationErr *payment.ValidationError
	if errors.As(err, &validationErr) {
		return err
	}
	if errors.Is(err, domain.ErrEmptyCart) || errors.Is(err, domain.ErrCheckoutInProgress) {
		return err
	}

	if status.Code(err) == codes.FailedPrecondition {
		slog.Error("payment configuration error", "detail", err.Error())
		return &CheckoutError{Message: "payment system configuration error"}
	}

	message := err.Error()
	lower := strings.ToLower(message)
	fieldErrors := make(map[string]string)
	switch {
	case strings.Contains(lower, "mobile") || strings.Contains(lower, "phone"):
		fieldErrors["phone"] = "The payment provider rejected this phone number"
	case strings.Contains(lower, "country"):
		fieldErrors["country"] = "The payment provider rejected this country"
	case strings.Contains(lower, "currency"):
		fieldErrors["currency"] = "This currency is not accepted by the payment provider"
	}

	checkoutErr := &CheckoutError{Message: message}
	if len(fieldErrors) > 0 {
		checkoutErr.Message = "The payment provider rejected some of your details"
		checkoutErr.FieldErrors = fieldErrors
	}
	return checkoutErr
}

func failureReason(err error) string {
	if status.Code(err) == codes.FailedPrecondition {
		return metrics.ReasonConfiguration
	}
	return metrics.ReasonGateway
}
