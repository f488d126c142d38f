// Package payment isolates the Stripe checkout round-trip behind a narrow
// gateway so the provider stays swappable without touching book or gate
// logic.
package payment

import (
	"context"
	"errors"
)

// ErrPaymentIncomplete is returned when the provider reports the session as
// anything other than paid.
var ErrPaymentIncomplete = errors.New("payment not completed")

// ErrProviderAuth marks a fatal credential misconfiguration. Not
// user-recoverable; must not be silently retried.
var ErrProviderAuth = errors.New("payment provider authentication failed")

// ErrProviderRequest marks a malformed request to the provider.
var ErrProviderRequest = errors.New("invalid payment provider request")

// ErrProvider marks a generic provider-side failure, safe to surface and
// retry by user action.
var ErrProvider = errors.New("payment provider error")

// CheckoutSession is the redirect handle returned by checkout initiation.
type CheckoutSession struct {
	SessionURL string `json:"session_url"`
	SessionID  string `json:"session_id"`
}

// Gateway defines the contract with the payment provider.
type Gateway interface {
	// StartCheckout creates a one-time-payment checkout session and returns
	// the hosted redirect URL plus the session id.
	StartCheckout(ctx context.Context, successURL, cancelURL string) (CheckoutSession, error)
	// Verify re-queries the session by id. It returns nil only when the
	// provider reports the session as paid, ErrPaymentIncomplete otherwise.
	// Repeated calls for the same session are always safe: the provider is
	// the source of truth for payment state.
	Verify(ctx context.Context, sessionID string) error
}
