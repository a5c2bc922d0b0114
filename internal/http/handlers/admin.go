package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"server/internal/sqlinline"
)

const liveHelpConfigKey = "live_help_whatsapp"

// RequireAdmin guards the admin routes with the stored role.
func (a *App) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.currentUser(r)
		if err != nil || !user.IsAdmin() {
			a.error(w, http.StatusForbidden, "forbidden", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminUsersList returns every account with slot counters.
func (a *App) AdminUsersList(w http.ResponseWriter, r *http.Request) {
	users, err := a.Users.ListAll(r.Context())
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load users")
		return
	}
	items := make([]userProfileDTO, 0, len(users))
	for i := range users {
		items = append(items, profileDTO(&users[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// AdminSitesList returns every site.
func (a *App) AdminSitesList(w http.ResponseWriter, r *http.Request) {
	sites, err := a.Sites.ListAll(r.Context())
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load sites")
		return
	}
	items := make([]siteDTO, 0, len(sites))
	for i := range sites {
		items = append(items, siteToDTO(&sites[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// AdminPaymentsList returns recent payments across all users.
func (a *App) AdminPaymentsList(w http.ResponseWriter, r *http.Request) {
	payments, err := a.Payments.ListAll(r.Context(), 100)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load payments")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": paymentsToDTO(payments)})
}

// AdminLiveHelpGet returns the configured live-help WhatsApp number.
func (a *App) AdminLiveHelpGet(w http.ResponseWriter, r *http.Request) {
	var value string
	row := a.SQL.QueryRow(r.Context(), sqlinline.QGetSetting, liveHelpConfigKey)
	if err := row.Scan(&value); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load setting")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"number": value})
}

type liveHelpRequest struct {
	Number string `json:"number"`
}

// AdminLiveHelpSet stores the live-help WhatsApp number, digits only.
func (a *App) AdminLiveHelpSet(w http.ResponseWriter, r *http.Request) {
	var req liveHelpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	clean := digitsOnly(req.Number)
	if clean == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "number required")
		return
	}
	if _, err := a.SQL.Exec(r.Context(), sqlinline.QUpsertSetting, liveHelpConfigKey, clean); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to store setting")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"number": clean})
}

// AdminSupportNumbersList lists the support contact entries.
func (a *App) AdminSupportNumbersList(w http.ResponseWriter, r *http.Request) {
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListSupportNumbers)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load support numbers")
		return
	}
	defer rows.Close()

	var items []map[string]any
	for rows.Next() {
		var id, name, number string
		var active bool
		var createdAt time.Time
		if err := rows.Scan(&id, &name, &number, &active, &createdAt); err != nil {
			continue
		}
		items = append(items, map[string]any{
			"id":         id,
			"name":       name,
			"number":     number,
			"active":     active,
			"created_at": createdAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

type supportNumberRequest struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// AdminSupportNumbersCreate adds a support contact.
func (a *App) AdminSupportNumbersCreate(w http.ResponseWriter, r *http.Request) {
	var req supportNumberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	number := digitsOnly(req.Number)
	if req.Name == "" || number == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name and number required")
		return
	}
	var id string
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertSupportNumber, req.Name, number)
	if err := row.Scan(&id); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to create support number")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"id": id})
}

// AdminSupportNumbersDelete removes a support contact.
func (a *App) AdminSupportNumbersDelete(w http.ResponseWriter, r *http.Request) {
	if _, err := a.SQL.Exec(r.Context(), sqlinline.QDeleteSupportNumber, chi.URLParam(r, "id")); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete support number")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"deleted": true})
}

func digitsOnly(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
