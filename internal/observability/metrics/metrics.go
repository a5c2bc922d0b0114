// Package metrics exposes Prometheus collectors for the billing core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WebhookEvents counts webhook deliveries by terminal outcome:
	// ledgered, duplicate, not_settled, user_not_found, rejected, malformed, failed.
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitebuilder",
		Subsystem: "billing",
		Name:      "webhook_events_total",
		Help:      "Inbound payment webhook deliveries by outcome.",
	}, []string{"outcome"})

	// SlotsCredited counts capacity units credited through the webhook path.
	SlotsCredited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sitebuilder",
		Subsystem: "billing",
		Name:      "slots_credited_total",
		Help:      "Site slots credited to users from settled purchases.",
	})

	// CheckoutSessions counts provider checkout sessions created, by product kind.
	CheckoutSessions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitebuilder",
		Subsystem: "billing",
		Name:      "checkout_sessions_total",
		Help:      "Checkout sessions created, by product kind.",
	}, []string{"kind"})

	// AdmissionDecisions counts site-creation admission outcomes: granted, quota_exceeded.
	AdmissionDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitebuilder",
		Subsystem: "sites",
		Name:      "admission_decisions_total",
		Help:      "Site creation admission-control outcomes.",
	}, []string{"outcome"})
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
