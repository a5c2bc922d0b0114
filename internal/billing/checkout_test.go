package billing

import (
	"context"
	"errors"
	"testing"

	"server/internal/domain"
	"server/internal/infra"
)

type fakeProvider struct {
	lastParams SessionParams
	url        string
	err        error
}

func (f *fakeProvider) CreateSession(_ context.Context, params SessionParams) (string, error) {
	f.lastParams = params
	return f.url, f.err
}

func checkoutConfig() *infra.Config {
	return &infra.Config{
		StripePriceBasePlan:  "price_base",
		StripePriceExtraSlot: "price_slot",
		StripePriceLiveHelp:  "price_help",
		CheckoutSuccessURL:   "https://app.example.com/dashboard?success=true",
		CheckoutCancelURL:    "https://app.example.com/dashboard?canceled=true",
	}
}

func TestNewCheckoutFactoryRejectsMissingPrice(t *testing.T) {
	cfg := checkoutConfig()
	cfg.StripePriceLiveHelp = ""

	if _, err := NewCheckoutFactory(cfg, &fakeProvider{}); !errors.Is(err, domain.ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct at startup, got %v", err)
	}
}

func TestCreateSessionMapsKindToPrice(t *testing.T) {
	provider := &fakeProvider{url: "https://pay.example.com/s/abc"}
	factory, err := NewCheckoutFactory(checkoutConfig(), provider)
	if err != nil {
		t.Fatalf("NewCheckoutFactory returned error: %v", err)
	}

	url, err := factory.CreateSession(context.Background(), "user-1", domain.PaymentKindExtraSlot)
	if err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}
	if url != provider.url {
		t.Errorf("url = %q", url)
	}
	if provider.lastParams.PriceID != "price_slot" {
		t.Errorf("PriceID = %q, want price_slot", provider.lastParams.PriceID)
	}
	if provider.lastParams.UserID != "user-1" || provider.lastParams.Kind != domain.PaymentKindExtraSlot {
		t.Errorf("unexpected params: %+v", provider.lastParams)
	}
	if provider.lastParams.SuccessURL == "" || provider.lastParams.CancelURL == "" {
		t.Error("redirect URLs must be forwarded to the provider")
	}
}

func TestCreateSessionUnknownKind(t *testing.T) {
	factory, err := NewCheckoutFactory(checkoutConfig(), &fakeProvider{})
	if err != nil {
		t.Fatalf("NewCheckoutFactory returned error: %v", err)
	}
	if _, err := factory.CreateSession(context.Background(), "user-1", domain.PaymentKind("gift-card")); !errors.Is(err, domain.ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}
}

func TestCreateSessionProviderFailure(t *testing.T) {
	provider := &fakeProvider{err: errors.New("api timeout")}
	factory, err := NewCheckoutFactory(checkoutConfig(), provider)
	if err != nil {
		t.Fatalf("NewCheckoutFactory returned error: %v", err)
	}
	if _, err := factory.CreateSession(context.Background(), "user-1", domain.PaymentKindBasePlan); !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
