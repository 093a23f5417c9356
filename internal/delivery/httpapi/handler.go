package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/questgg/checkout-service/internal/domain"
	"github.com/questgg/checkout-service/internal/payment"
	"github.com/questgg/checkout-service/internal/usecase/checkout"
)

// Handler exposes the checkout pipeline over HTTP: the checkout endpoints for
// the storefront and the low-level payment action endpoint that proxies the
// gateway directly.
type Handler struct {
	checkout checkout.CheckoutUsecase
	gateway  domain.GatewayClient
	Router   *chi.Mux
}

func NewHandler(checkoutService checkout.CheckoutUsecase, gatewayClient domain.GatewayClient, gatherer prometheus.Gatherer) *Handler {
	h := &Handler{
		checkout: checkoutService,
		gateway:  gatewayClient,
		Router:   chi.NewRouter(),
	}

	h.Router.Use(chimiddleware.Recoverer)
	h.Router.Use(requestID)

	h.Router.Post("/api/checkout", h.submitCheckout)
	h.Router.Post("/api/checkout/{id}/confirm", h.confirmCheckout)
	h.Router.Get("/api/orders/{id}", h.getOrder)
	h.Router.Post("/api/payment", h.paymentAction)
	h.Router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return h
}

type checkoutRequest struct {
	UserID       string                `json:"user_id"`
	Billing      domain.BillingDetails `json:"billing"`
	Currency     string                `json:"currency"`
	RetryOrderID string                `json:"retry_order_id"`
}

type checkoutResponse struct {
	OrderID       string  `json:"order_id"`
	PayURL        string  `json:"pay_url,omitempty"`
	DisplayAmount float64 `json:"display_amount"`
	Currency      string  `json:"currency"`
	Formatted     string  `json:"formatted_total"`
}

func (h *Handler) submitCheckout(w http.ResponseWriter, r *http.Request) {
	var request checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload", nil)
		return
	}
	if request.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required", nil)
		return
	}

	result, err := h.checkout.Submit(r.Context(), &checkout.CheckoutInput{
		UserID:       request.UserID,
		Billing:      request.Billing,
		Currency:     request.Currency,
		RetryOrderID: request.RetryOrderID,
	})
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkoutResponse{
		OrderID:       result.OrderID,
		PayURL:        result.PayURL,
		DisplayAmount: result.DisplayTotal.Amount,
		Currency:      result.DisplayTotal.Currency,
		Formatted:     result.DisplayTotal.String(),
	})
}

func (h *Handler) confirmCheckout(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	order, err := h.checkout.Confirm(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found", nil)
			return
		}
		slog.Error("order confirmation failed", "order_id", orderID, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "failed to confirm order", nil)
		return
	}

	writeJSON(w, http.StatusOK, orderView(order))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	order, err := h.checkout.OrderByID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found", nil)
			return
		}
		slog.Error("order lookup failed", "order_id", orderID, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "failed to load order", nil)
		return
	}

	writeJSON(w, http.StatusOK, orderView(order))
}

func (h *Handler) writeCheckoutError(w http.ResponseWriter, err error) {
	var validationErr *payment.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, "billing details validation failed", validationErr.Fields)
		return
	}
	if errors.Is(err, domain.ErrCheckoutInProgress) {
		writeError(w, http.StatusConflict, "a checkout is already in progress", nil)
		return
	}
	if errors.Is(err, domain.ErrEmptyCart) {
		writeError(w, http.StatusBadRequest, "cart is empty", nil)
		return
	}

	var checkoutErr *checkout.CheckoutError
	if errors.As(err, &checkoutErr) {
		writeError(w, http.StatusBadGateway, checkoutErr.Message, checkoutErr.FieldErrors)
		return
	}

	slog.Error("checkout failed", "error", err.Error())
	writeError(w, http.StatusInternalServerError, "checkout failed", nil)
}

type orderViewModel struct {
	ID              string          `json:"id"`
	TotalAmount     float64         `json:"total_amount"`
	Currency        string          `json:"currency,omitempty"`
	OriginalAmount  float64         `json:"original_amount,omitempty"`
	Status          string          `json:"status"`
	PaymentIntentID string          `json:"payment_intent_id,omitempty"`
	Items           []orderItemView `json:"items"`
}

type orderItemView struct {
	ServiceID    string  `json:"service_id"`
	ServiceTitle string  `json:"service_title"`
	OptionID     string  `json:"option_id"`
	OptionName   string  `json:"option_name"`
	Price        float64 `json:"price"`
}

func orderView(order *domain.Order) orderViewModel {
	items := make([]orderItemView, len(order.Items))
	for i, item := range order.Items {
		items[i] = orderItemView{
			ServiceID:    item.ServiceID,
			ServiceTitle: item.ServiceTitle,
			OptionID:     item.OptionID,
			OptionName:   item.OptionName,
			Price:        item.Price,
		}
	}
	return orderViewModel{
		ID:              order.ID,
		TotalAmount:     order.TotalAmount,
		Currency:        order.Currency,
		OriginalAmount:  order.OriginalAmount,
		Status:          string(order.Status),
		PaymentIntentID: order.PaymentIntentID,
		Items:           items,
	}
}

type errorResponse struct {
	Error       string            `json:"error"`
	Details     string            `json:"details,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err.Error())
	}
}

func writeError(w http.ResponseWriter, statusCode int, message string, fieldErrors map[string]string) {
	writeJSON(w, statusCode, errorResponse{Error: message, FieldErrors: fieldErrors})
}
