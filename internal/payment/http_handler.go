package payment

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookvault/internal/httpx"
)

type HTTPHandler struct {
	gateway Gateway
}

func NewHTTPHandler(gateway Gateway) *HTTPHandler {
	return &HTTPHandler{gateway: gateway}
}

type checkoutRequest struct {
	SuccessURL string `json:"success_url" validate:"required,url"`
	CancelURL  string `json:"cancel_url" validate:"required,url"`
}

type verifyRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type verifyResponse struct {
	Success   bool `json:"success"`
	IsPremium bool `json:"is_premium"`
}

// CreateCheckoutSession handles POST /payments/checkout-session.
func (h *HTTPHandler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid checkout parameters", details)
		return
	}

	session, err := h.gateway.StartCheckout(r.Context(), req.SuccessURL, req.CancelURL)
	if err != nil {
		switch {
		case errors.Is(err, ErrProviderAuth):
			httpx.JSONError(r, w, http.StatusInternalServerError, "PROVIDER_AUTH",
				"Payment provider authentication failed. Please check the API key configuration.", nil)
		case errors.Is(err, ErrProviderRequest):
			httpx.JSONError(r, w, http.StatusBadRequest, "PROVIDER_REQUEST",
				"Invalid request to the payment provider.", nil)
		default:
			httpx.JSONError(r, w, http.StatusBadGateway, "PROVIDER",
				"Failed to create checkout session. Please try again later.", nil)
		}
		return
	}

	httpx.JSONSuccess(r, w, session, nil)
}

// Verify handles POST /payments/verify. Safe to call repeatedly for the same
// session: it never charges, only re-reads provider state.
func (h *HTTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}

	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid verify parameters", details)
		return
	}

	if err := h.gateway.Verify(r.Context(), req.SessionID); err != nil {
		if errors.Is(err, ErrPaymentIncomplete) {
			httpx.JSONError(r, w, http.StatusBadRequest, "PAYMENT_INCOMPLETE", "Payment not completed", nil)
			return
		}
		httpx.JSONError(r, w, http.StatusBadGateway, "PROVIDER", "Failed to verify payment", nil)
		return
	}

	httpx.JSONSuccess(r, w, verifyResponse{Success: true, IsPremium: true}, nil)
}
