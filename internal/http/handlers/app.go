package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/billing"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/middleware"
)

// App is the handler container. Everything it holds is stateless or
// concurrency-safe; entity state lives behind the repositories.
type App struct {
	Logger zerolog.Logger
	SQL    infra.SQLExecutor

	Users    domain.UserRepository
	Payments domain.PaymentRepository
	Sites    domain.SiteRepository

	WebhookAuth billing.Authenticator
	Billing     *billing.Processor
	Checkout    *billing.CheckoutFactory
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, msg string) {
	a.json(w, code, map[string]any{"error": map[string]string{"code": slug, "message": msg}})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// currentUser loads the caller's account. Role checks must use the stored
// role, not token claims.
func (a *App) currentUser(r *http.Request) (*domain.User, error) {
	id := a.currentUserID(r)
	if id == "" {
		return nil, domain.ErrUnauthorized
	}
	return a.Users.GetByID(r.Context(), id)
}
