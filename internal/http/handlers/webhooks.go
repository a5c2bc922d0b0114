package handlers

import (
	"context"
	"io"
	"net/http"
	"time"

	"server/internal/billing"
	"server/internal/observability/metrics"
)

const webhookBodyLimit = 1 << 20 // 1MiB

// KiwifyWebhook receives payment notifications. Deliveries are at-least-once
// and unordered; everything downstream is idempotent, so this handler only
// has to answer honestly: 200 exactly when the event was durably handled,
// 5xx when it was not, so the provider retries.
func (a *App) KiwifyWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, webhookBodyLimit))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unable to read payload")
		return
	}

	ev, err := billing.ParseEvent(body)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("malformed").Inc()
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	if !a.WebhookAuth.Verify(ev.Token, r.URL.Query().Get("token")) {
		a.Logger.Warn().Str("txn", ev.ExternalTxnID).Msg("webhook: token rejected")
		metrics.WebhookEvents.WithLabelValues("rejected").Inc()
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid token")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	outcome, err := a.Billing.Process(ctx, ev)
	if err != nil {
		// Not durably processed; the provider must redeliver.
		a.Logger.Error().Err(err).Str("txn", ev.ExternalTxnID).Msg("webhook: processing failed")
		metrics.WebhookEvents.WithLabelValues("failed").Inc()
		a.error(w, http.StatusServiceUnavailable, "unavailable", "event not processed")
		return
	}

	resp := map[string]any{"received": true}
	if outcome == billing.OutcomeUserNotFound {
		resp["status"] = "user_not_found"
	}
	a.json(w, http.StatusOK, resp)
}
