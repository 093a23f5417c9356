package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/questgg/checkout-service/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// paymentActionRequest is the raw gateway endpoint's envelope: an action name
// plus the action's own fields inline.
type paymentActionRequest struct {
	Action        string                     `json:"action"`
	Orders        *domain.GatewayOrderParams `json:"Orders"`
	Customers     map[string]any             `json:"Customers"`
	OrdersAPIData *domain.GatewayAPIData     `json:"OrdersApiData"`
}

// Actions the endpoint recognizes. Everything except create-order is reserved
// for the admin surface and answers 501 until that surface lands.
var stubActions = map[string]struct{}{
	"orders-list":   {},
	"get-terminals": {},
	"cancel-order":  {},
	"refund-order":  {},
}

func (h *Handler) paymentAction(w http.ResponseWriter, r *http.Request) {
	var request paymentActionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload", nil)
		return
	}

	switch {
	case request.Action == "create-order":
		h.createGatewayOrder(w, r, &request)
	case isStubAction(request.Action):
		writeError(w, http.StatusNotImplemented, "not implemented", nil)
	default:
		writeError(w, http.StatusBadRequest, "unknown action", nil)
	}
}

func (h *Handler) createGatewayOrder(w http.ResponseWriter, r *http.Request, request *paymentActionRequest) {
	result, err := h.gateway.CreateOrder(r.Context(), &domain.GatewayOrderRequest{
		Orders:        request.Orders,
		Customers:     request.Customers,
		OrdersAPIData: request.OrdersAPIData,
	})
	if err != nil {
		code := status.Code(err)
		if code == codes.FailedPrecondition {
			// The raw credential complaint stays in the logs; see the gateway
			// client for the detail.
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Error:   "payment system configuration error",
				Details: "credential format",
			})
			return
		}
		writeJSON(w, httpStatusFromCode(code), errorResponse{
			Error:   status.Convert(err).Message(),
			Details: errorHint(code, err),
		})
		return
	}

	// The raw gateway fields pass through with pay_url guaranteed at the top
	// level regardless of which shape the gateway answered with.
	response := make(map[string]any, len(result.Raw)+1)
	for key, value := range result.Raw {
		response[key] = value
	}
	if result.PayURL != "" {
		response["pay_url"] = result.PayURL
	}
	writeJSON(w, http.StatusOK, response)
}

func isStubAction(action string) bool {
	_, ok := stubActions[action]
	return ok
}

// errorHint picks the user-facing hint category for the failure body.
func errorHint(code codes.Code, err error) string {
	message := strings.ToLower(err.Error())
	switch {
	case code == codes.Unavailable:
		return "connectivity"
	case strings.Contains(message, "mobile") || strings.Contains(message, "phone"):
		return "phone format"
	default:
		return ""
	}
}

func httpStatusFromCode(code codes.Code) int {
	switch code {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.Unavailable, codes.Unauthenticated, codes.Internal:
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}
