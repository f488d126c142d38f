package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	stripe "github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
)

const (
	premiumUpgradeAmountCents = 999
	premiumUpgradeCurrency    = "usd"
	premiumUpgradeName        = "Premium Book Collection"
	premiumUpgradeDescription = "Upgrade to save unlimited books to your collection"

	// sessionIDPlaceholder is expanded by Stripe on the success redirect so
	// the return leg can recover the session id.
	sessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"
)

// StripeGateway implements Gateway against the Stripe checkout API. The call
// functions are injectable for tests.
type StripeGateway struct {
	createSession func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	getSession    func(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// NewStripeGateway creates a gateway bound to the given secret key.
func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = strings.TrimSpace(secretKey)
	return &StripeGateway{
		createSession: checkoutsession.New,
		getSession:    checkoutsession.Get,
	}
}

// StartCheckout creates a single-line-item, one-time-payment session for the
// premium upgrade and returns the hosted redirect URL.
func (g *StripeGateway) StartCheckout(ctx context.Context, successURL, cancelURL string) (CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(withSessionIDPlaceholder(successURL)),
		CancelURL:          stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(premiumUpgradeCurrency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(premiumUpgradeName),
						Description: stripe.String(premiumUpgradeDescription),
					},
					UnitAmount: stripe.Int64(premiumUpgradeAmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"type": "premium_upgrade",
		},
	}
	params.Context = ctx

	session, err := g.createSession(params)
	if err != nil {
		log.Error().Err(err).Msg("stripe checkout session creation failed")
		return CheckoutSession{}, mapStripeError(err)
	}
	if session == nil || strings.TrimSpace(session.URL) == "" {
		return CheckoutSession{}, fmt.Errorf("%w: empty checkout URL", ErrProvider)
	}

	return CheckoutSession{
		SessionURL: strings.TrimSpace(session.URL),
		SessionID:  session.ID,
	}, nil
}

// Verify re-queries the session's payment status from Stripe.
func (g *StripeGateway) Verify(ctx context.Context, sessionID string) error {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	session, err := g.getSession(sessionID, params)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("stripe session retrieve failed")
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return ErrPaymentIncomplete
	}
	return nil
}

// withSessionIDPlaceholder appends the session-id template when the caller
// did not already include one.
func withSessionIDPlaceholder(successURL string) string {
	if strings.Contains(successURL, sessionIDPlaceholder) {
		return successURL
	}
	sep := "?"
	if strings.Contains(successURL, "?") {
		sep = "&"
	}
	return successURL + sep + "session_id=" + sessionIDPlaceholder
}

// mapStripeError translates Stripe errors into the gateway taxonomy.
// Authentication failures surface as 401s regardless of error type.
func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	switch {
	case stripeErr.HTTPStatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrProviderAuth, stripeErr.Msg)
	case stripeErr.Type == stripe.ErrorTypeInvalidRequest:
		return fmt.Errorf("%w: %s", ErrProviderRequest, stripeErr.Msg)
	default:
		return fmt.Errorf("%w: %s", ErrProvider, stripeErr.Msg)
	}
}
