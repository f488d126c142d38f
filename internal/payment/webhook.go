package payment

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v82/webhook"

	"bookvault/internal/httpx"
)

const webhookBodyLimit = 1024 * 1024 // 1 MiB

// WebhookHandler verifies Stripe webhook signatures and acknowledges
// checkout completion events. Entitlement stays client-owned, so the handler
// records the event without granting anything server-side.
type WebhookHandler struct {
	secret string
}

func NewWebhookHandler(secret string) *WebhookHandler {
	return &WebhookHandler{secret: secret}
}

// checkoutSessionEvent is a minimal view of a checkout.session event payload.
type checkoutSessionEvent struct {
	ID            string            `json:"id"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.TrimSpace(h.secret) == "" {
		httpx.JSONError(r, w, http.StatusServiceUnavailable, "WEBHOOK_UNCONFIGURED", "Webhook secret not configured", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, webhookBodyLimit)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "BAD_REQUEST", "Failed to read request body", nil)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	if strings.TrimSpace(sigHeader) == "" {
		httpx.JSONError(r, w, http.StatusBadRequest, "BAD_REQUEST", "Missing Stripe signature", nil)
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, h.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		httpx.JSONError(r, w, http.StatusBadRequest, "BAD_REQUEST", "Invalid Stripe signature", nil)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session checkoutSessionEvent
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			httpx.JSONError(r, w, http.StatusBadRequest, "BAD_REQUEST", "Malformed event payload", nil)
			return
		}
		log.Info().
			Str("event_id", event.ID).
			Str("session_id", session.ID).
			Str("payment_status", session.PaymentStatus).
			Str("type", session.Metadata["type"]).
			Msg("checkout session completed")
	default:
		log.Info().
			Str("event_id", event.ID).
			Str("type", string(event.Type)).
			Msg("stripe webhook ignored (unhandled type)")
	}

	httpx.JSONSuccess(r, w, map[string]bool{"received": true}, nil)
}
