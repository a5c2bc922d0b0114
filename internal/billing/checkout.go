package billing

import (
	"context"
	"fmt"

	"server/internal/domain"
	"server/internal/infra"
)

// SessionParams carries what the provider needs to host one payment page.
type SessionParams struct {
	PriceID    string
	UserID     string
	Kind       domain.PaymentKind
	SuccessURL string
	CancelURL  string
}

// CheckoutProvider creates provider-hosted payment sessions.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, params SessionParams) (redirectURL string, err error)
}

// CheckoutFactory maps product kinds to provider price references and creates
// sessions. The mapping is explicit and exhaustive; unlike inbound
// classification there is no heuristic in this direction.
type CheckoutFactory struct {
	prices     map[domain.PaymentKind]string
	provider   CheckoutProvider
	successURL string
	cancelURL  string
}

// NewCheckoutFactory validates the price table and wires the provider. A kind
// without a configured price is a deployment error surfaced here, at startup,
// never at request time.
func NewCheckoutFactory(cfg *infra.Config, provider CheckoutProvider) (*CheckoutFactory, error) {
	prices := map[domain.PaymentKind]string{
		domain.PaymentKindBasePlan:  cfg.StripePriceBasePlan,
		domain.PaymentKindExtraSlot: cfg.StripePriceExtraSlot,
		domain.PaymentKindLiveHelp:  cfg.StripePriceLiveHelp,
	}
	for kind, priceID := range prices {
		if priceID == "" {
			return nil, fmt.Errorf("checkout price for %q is not configured: %w", kind, domain.ErrUnknownProduct)
		}
	}
	return &CheckoutFactory{
		prices:     prices,
		provider:   provider,
		successURL: cfg.CheckoutSuccessURL,
		cancelURL:  cfg.CheckoutCancelURL,
	}, nil
}

// CreateSession creates a provider-hosted payment session for the user and
// returns its redirect URL. No local state changes; the purchase only becomes
// real when the provider's webhook later settles it.
func (f *CheckoutFactory) CreateSession(ctx context.Context, userID string, kind domain.PaymentKind) (string, error) {
	priceID, ok := f.prices[kind]
	if !ok {
		return "", fmt.Errorf("product kind %q: %w", kind, domain.ErrUnknownProduct)
	}
	url, err := f.provider.CreateSession(ctx, SessionParams{
		PriceID:    priceID,
		UserID:     userID,
		Kind:       kind,
		SuccessURL: f.successURL,
		CancelURL:  f.cancelURL,
	})
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w: %v", domain.ErrProviderUnavailable, err)
	}
	return url, nil
}
