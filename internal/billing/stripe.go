package billing

import (
	"context"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// StripeProvider creates hosted checkout sessions through the Stripe API.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider builds a provider bound to the given secret key.
func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

// CreateSession creates a payment-mode checkout session and returns the
// hosted page URL. User id and product kind travel in the session metadata so
// the settlement webhook can be cross-checked during reconciliation.
func (p *StripeProvider) CreateSession(ctx context.Context, params SessionParams) (string, error) {
	sessionParams := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card", "boleto"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(params.PriceID),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
	}
	sessionParams.Context = ctx
	sessionParams.AddMetadata("user_id", params.UserID)
	sessionParams.AddMetadata("kind", string(params.Kind))

	s, err := p.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}
