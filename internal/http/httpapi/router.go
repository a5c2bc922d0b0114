package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/middleware"
	"server/internal/observability/metrics"
)

// Options carries the request-path configuration the router needs. Everything
// stateful lives on the App.
type Options struct {
	JWTSecret       string
	AllowedOrigins  []string
	DefaultLocale   string
	RateLimitPerMin int
	CountryLookup   middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	// Unauthenticated surface. The webhook carries its own token; the
	// by-slug lookup serves published sites to anonymous visitors.
	r.Get("/v1/healthz", app.Health)
	r.Handle("/metrics", metrics.Handler())
	r.Post("/v1/webhooks/kiwify", app.KiwifyWebhook)
	r.Get("/v1/sites/by-slug/{slug}", app.SiteBySlug)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(opts.JWTSecret))

		r.Post("/v1/auth/sync", app.AuthSync)
		r.Get("/v1/me", app.Me)
		r.Get("/v1/payments", app.PaymentsList)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
			r.Post("/v1/checkout", app.CheckoutCreate)
		})

		r.Route("/v1/sites", func(r chi.Router) {
			r.Post("/", app.SitesCreate)
			r.Get("/", app.SitesList)
			r.Get("/{id}", app.SitesGet)
			r.Put("/{id}", app.SitesUpdate)
			r.Post("/{id}/toggle", app.SitesToggle)
			r.Delete("/{id}", app.SitesDelete)
		})

		r.Route("/v1/admin", func(r chi.Router) {
			r.Use(app.RequireAdmin)

			r.Get("/users", app.AdminUsersList)
			r.Get("/sites", app.AdminSitesList)
			r.Get("/payments", app.AdminPaymentsList)
			r.Get("/settings/live-help", app.AdminLiveHelpGet)
			r.Put("/settings/live-help", app.AdminLiveHelpSet)
			r.Get("/support-numbers", app.AdminSupportNumbersList)
			r.Post("/support-numbers", app.AdminSupportNumbersCreate)
			r.Delete("/support-numbers/{id}", app.AdminSupportNumbersDelete)
		})
	})

	return r
}
