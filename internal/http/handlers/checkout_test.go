package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"server/internal/billing"
	"server/internal/infra"
)

type stubProvider struct {
	url string
	err error
}

func (s stubProvider) CreateSession(context.Context, billing.SessionParams) (string, error) {
	return s.url, s.err
}

func checkoutApp(t *testing.T, provider billing.CheckoutProvider) *App {
	t.Helper()
	cfg := &infra.Config{
		StripePriceBasePlan:  "price_base",
		StripePriceExtraSlot: "price_slot",
		StripePriceLiveHelp:  "price_help",
		CheckoutSuccessURL:   "https://app.example.com/ok",
		CheckoutCancelURL:    "https://app.example.com/cancel",
	}
	factory, err := billing.NewCheckoutFactory(cfg, provider)
	if err != nil {
		t.Fatalf("NewCheckoutFactory: %v", err)
	}
	users := newMemUsers()
	app := newTestApp(users, newMemPayments(users), newMemSites(users))
	app.Checkout = factory
	return app
}

func TestCheckoutCreateReturnsRedirectURL(t *testing.T) {
	app := checkoutApp(t, stubProvider{url: "https://pay.example.com/cs_123"})

	rec := httptest.NewRecorder()
	app.CheckoutCreate(rec, authedRequest(http.MethodPost, "/v1/checkout", `{"kind":"extra-slot"}`, "u1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var resp checkoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.URL != "https://pay.example.com/cs_123" {
		t.Fatalf("url = %q, want provider redirect", resp.URL)
	}
}

func TestCheckoutCreateRejectsUnknownKind(t *testing.T) {
	app := checkoutApp(t, stubProvider{url: "https://pay.example.com/cs_123"})

	rec := httptest.NewRecorder()
	app.CheckoutCreate(rec, authedRequest(http.MethodPost, "/v1/checkout", `{"kind":"lifetime"}`, "u1"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCheckoutCreateMapsProviderFailureTo502(t *testing.T) {
	app := checkoutApp(t, stubProvider{err: errors.New("api down")})

	rec := httptest.NewRecorder()
	app.CheckoutCreate(rec, authedRequest(http.MethodPost, "/v1/checkout", `{"kind":"base-plan"}`, "u1"))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}
