package handlers

import (
	"net/http"

	"server/internal/domain"
	"server/internal/middleware"
)

type userProfileDTO struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	SlotsTotal int    `json:"slots_total"`
	SlotsUsed  int    `json:"slots_used"`
}

func profileDTO(u *domain.User) userProfileDTO {
	return userProfileDTO{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
		SlotsTotal: u.SlotsTotal,
		SlotsUsed:  u.SlotsUsed,
	}
}

// AuthSync upserts the account from the verified token claims. Identity is
// owned by the external auth provider; the first call creates the account
// with zero slots, later calls only refresh the display name.
func (a *App) AuthSync(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil || claims.Email == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing identity claims")
		return
	}

	user, err := a.Users.UpsertByEmail(r.Context(), &domain.User{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  domain.UserRoleStandard,
	})
	if err != nil {
		a.Logger.Error().Err(err).Str("email", claims.Email).Msg("auth sync: upsert failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sync account")
		return
	}
	a.json(w, http.StatusOK, profileDTO(user))
}

// Me returns the caller's profile including slot counters.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	user, err := a.currentUser(r)
	if err != nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "account not found")
		return
	}
	a.json(w, http.StatusOK, profileDTO(user))
}
