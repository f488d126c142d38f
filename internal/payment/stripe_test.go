package payment

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v82"
)

func TestStripeGateway_StartCheckout(t *testing.T) {
	t.Run("builds one-time premium upgrade session", func(t *testing.T) {
		var captured *stripe.CheckoutSessionParams
		gw := &StripeGateway{
			createSession: func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
				captured = params
				return &stripe.CheckoutSession{
					ID:  "cs_test_123",
					URL: "https://checkout.stripe.com/c/pay/cs_test_123",
				}, nil
			},
		}

		session, err := gw.StartCheckout(context.Background(), "https://app.example.com/upgrade/success", "https://app.example.com/books")
		require.NoError(t, err)
		assert.Equal(t, "cs_test_123", session.SessionID)
		assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_123", session.SessionURL)

		require.NotNil(t, captured)
		assert.Equal(t, string(stripe.CheckoutSessionModePayment), *captured.Mode)
		assert.Equal(t, "https://app.example.com/upgrade/success?session_id={CHECKOUT_SESSION_ID}", *captured.SuccessURL)
		assert.Equal(t, "https://app.example.com/books", *captured.CancelURL)
		assert.Equal(t, "premium_upgrade", captured.Metadata["type"])

		require.Len(t, captured.LineItems, 1)
		item := captured.LineItems[0]
		assert.Equal(t, int64(1), *item.Quantity)
		assert.Equal(t, int64(999), *item.PriceData.UnitAmount)
		assert.Equal(t, "usd", *item.PriceData.Currency)
		assert.Equal(t, "Premium Book Collection", *item.PriceData.ProductData.Name)
	})

	t.Run("authentication error", func(t *testing.T) {
		gw := &StripeGateway{
			createSession: func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
				return nil, &stripe.Error{
					Type:           stripe.ErrorTypeInvalidRequest,
					HTTPStatusCode: http.StatusUnauthorized,
					Msg:            "Invalid API Key provided",
				}
			},
		}

		_, err := gw.StartCheckout(context.Background(), "https://a.example.com/s", "https://a.example.com/c")
		assert.ErrorIs(t, err, ErrProviderAuth)
	})

	t.Run("invalid request error", func(t *testing.T) {
		gw := &StripeGateway{
			createSession: func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
				return nil, &stripe.Error{
					Type:           stripe.ErrorTypeInvalidRequest,
					HTTPStatusCode: http.StatusBadRequest,
					Msg:            "Invalid URL",
				}
			},
		}

		_, err := gw.StartCheckout(context.Background(), "https://a.example.com/s", "https://a.example.com/c")
		assert.ErrorIs(t, err, ErrProviderRequest)
	})

	t.Run("generic provider error", func(t *testing.T) {
		gw := &StripeGateway{
			createSession: func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
				return nil, &stripe.Error{
					Type:           stripe.ErrorTypeAPI,
					HTTPStatusCode: http.StatusInternalServerError,
					Msg:            "Something went wrong",
				}
			},
		}

		_, err := gw.StartCheckout(context.Background(), "https://a.example.com/s", "https://a.example.com/c")
		assert.ErrorIs(t, err, ErrProvider)
	})

	t.Run("non-stripe error", func(t *testing.T) {
		gw := &StripeGateway{
			createSession: func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
				return nil, context.DeadlineExceeded
			},
		}

		_, err := gw.StartCheckout(context.Background(), "https://a.example.com/s", "https://a.example.com/c")
		assert.ErrorIs(t, err, ErrProvider)
	})

	t.Run("empty checkout URL", func(t *testing.T) {
		gw := &StripeGateway{
			createSession: func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
				return &stripe.CheckoutSession{ID: "cs_test_123"}, nil
			},
		}

		_, err := gw.StartCheckout(context.Background(), "https://a.example.com/s", "https://a.example.com/c")
		assert.ErrorIs(t, err, ErrProvider)
	})
}

func TestStripeGateway_Verify(t *testing.T) {
	t.Run("paid", func(t *testing.T) {
		gw := &StripeGateway{
			getSession: func(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
				assert.Equal(t, "cs_test_123", id)
				return &stripe.CheckoutSession{
					ID:            id,
					PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
				}, nil
			},
		}

		assert.NoError(t, gw.Verify(context.Background(), "cs_test_123"))
	})

	t.Run("unpaid", func(t *testing.T) {
		gw := &StripeGateway{
			getSession: func(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
				return &stripe.CheckoutSession{
					ID:            id,
					PaymentStatus: stripe.CheckoutSessionPaymentStatusUnpaid,
				}, nil
			},
		}

		err := gw.Verify(context.Background(), "cs_test_123")
		assert.ErrorIs(t, err, ErrPaymentIncomplete)
	})

	t.Run("repeated verification of a paid session stays paid", func(t *testing.T) {
		calls := 0
		gw := &StripeGateway{
			getSession: func(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
				calls++
				return &stripe.CheckoutSession{
					ID:            id,
					PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
				}, nil
			},
		}

		assert.NoError(t, gw.Verify(context.Background(), "cs_test_123"))
		assert.NoError(t, gw.Verify(context.Background(), "cs_test_123"))
		assert.Equal(t, 2, calls)
	})

	t.Run("provider failure", func(t *testing.T) {
		gw := &StripeGateway{
			getSession: func(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
				return nil, &stripe.Error{Type: stripe.ErrorTypeAPI, Msg: "boom"}
			},
		}

		err := gw.Verify(context.Background(), "cs_test_123")
		assert.ErrorIs(t, err, ErrProvider)
		assert.NotErrorIs(t, err, ErrPaymentIncomplete)
	})
}

func TestWithSessionIDPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"appends query",
			"https://app.example.com/upgrade/success",
			"https://app.example.com/upgrade/success?session_id={CHECKOUT_SESSION_ID}",
		},
		{
			"appends to existing query",
			"https://app.example.com/upgrade/success?from=paywall",
			"https://app.example.com/upgrade/success?from=paywall&session_id={CHECKOUT_SESSION_ID}",
		},
		{
			"keeps caller placeholder",
			"https://app.example.com/cb?sid={CHECKOUT_SESSION_ID}",
			"https://app.example.com/cb?sid={CHECKOUT_SESSION_ID}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withSessionIDPlaceholder(tt.in))
		})
	}
}
