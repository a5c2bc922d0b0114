package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"server/internal/domain"
	"server/internal/observability/metrics"
)

type checkoutRequest struct {
	Kind string `json:"kind"`
}

type checkoutResponse struct {
	URL string `json:"url"`
}

// CheckoutCreate starts a provider-hosted payment for the authenticated user
// and returns the redirect URL. The purchase is credited later, when the
// provider's webhook reports settlement.
func (a *App) CheckoutCreate(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	kind := domain.PaymentKind(req.Kind)
	switch kind {
	case domain.PaymentKindBasePlan, domain.PaymentKindExtraSlot, domain.PaymentKindLiveHelp:
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "unknown product kind")
		return
	}

	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	url, err := a.Checkout.CreateSession(r.Context(), userID, kind)
	if err != nil {
		if errors.Is(err, domain.ErrProviderUnavailable) {
			a.Logger.Warn().Err(err).Str("kind", string(kind)).Msg("checkout: provider unavailable")
			a.error(w, http.StatusBadGateway, "provider_unavailable", "payment provider unavailable, try again")
			return
		}
		a.Logger.Error().Err(err).Str("kind", string(kind)).Msg("checkout: session creation failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create checkout session")
		return
	}

	metrics.CheckoutSessions.WithLabelValues(string(kind)).Inc()
	a.json(w, http.StatusOK, checkoutResponse{URL: url})
}
