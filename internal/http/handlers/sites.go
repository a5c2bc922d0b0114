package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/observability/metrics"
	"server/internal/slug"
)

type siteRequest struct {
	Slug        string `json:"slug"`
	Domain      string `json:"domain"`
	CompanyName string `json:"company_name"`
	CNPJ        string `json:"cnpj"`
	Mission     string `json:"mission"`
	Phones      string `json:"phones"`
	Email       string `json:"email"`
	Instagram   string `json:"instagram"`
	WhatsApp    string `json:"whatsapp"`
	About       string `json:"about"`
	Footer      string `json:"footer"`
	MetaPixel   string `json:"meta_pixel"`
	MetaTag     string `json:"meta_tag"`
	AppID       string `json:"app_id"`
	PageLink    string `json:"page_link"`
}

type siteDTO struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Slug        string `json:"slug"`
	Domain      string `json:"domain"`
	CompanyName string `json:"company_name"`
	CNPJ        string `json:"cnpj"`
	Mission     string `json:"mission"`
	Phones      string `json:"phones"`
	Email       string `json:"email"`
	Instagram   string `json:"instagram"`
	WhatsApp    string `json:"whatsapp"`
	About       string `json:"about"`
	Footer      string `json:"footer"`
	MetaPixel   string `json:"meta_pixel"`
	MetaTag     string `json:"meta_tag"`
	AppID       string `json:"app_id"`
	PageLink    string `json:"page_link"`
	Active      bool   `json:"active"`
}

func siteToDTO(s *domain.Site) siteDTO {
	return siteDTO{
		ID: s.ID, UserID: s.UserID, Slug: s.Slug, Domain: s.Domain,
		CompanyName: s.CompanyName, CNPJ: s.CNPJ, Mission: s.Mission,
		Phones: s.Phones, Email: s.Email, Instagram: s.Instagram,
		WhatsApp: s.WhatsApp, About: s.About, Footer: s.Footer,
		MetaPixel: s.MetaPixel, MetaTag: s.MetaTag, AppID: s.AppID,
		PageLink: s.PageLink, Active: s.Active,
	}
}

func (r siteRequest) toSite(userID string) *domain.Site {
	s := slug.Make(r.Slug)
	if s == "" {
		s = slug.Make(r.CompanyName)
	}
	return &domain.Site{
		UserID: userID, Slug: s, Domain: r.Domain, CompanyName: r.CompanyName,
		CNPJ: r.CNPJ, Mission: r.Mission, Phones: r.Phones, Email: r.Email,
		Instagram: r.Instagram, WhatsApp: r.WhatsApp, About: r.About,
		Footer: r.Footer, MetaPixel: r.MetaPixel, MetaTag: r.MetaTag,
		AppID: r.AppID, PageLink: r.PageLink,
	}
}

// SitesCreate creates a site if the owner has a free slot. Admission control
// happens inside the repository so two concurrent requests cannot both take
// the last slot.
func (a *App) SitesCreate(w http.ResponseWriter, r *http.Request) {
	var req siteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	userID := a.currentUserID(r)
	site := req.toSite(userID)
	if site.Slug == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "slug or company_name required")
		return
	}

	created, err := a.Sites.CreateClaimingSlot(r.Context(), site)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrQuotaExceeded):
			metrics.AdmissionDecisions.WithLabelValues("quota_exceeded").Inc()
			a.Logger.Info().Str("user_id", userID).Msg("site create refused: no free slot")
			a.error(w, http.StatusPaymentRequired, "quota_exceeded", "no free site slots, purchase more")
		case errors.Is(err, domain.ErrSlugTaken):
			a.error(w, http.StatusConflict, "slug_taken", "slug is already in use")
		case errors.Is(err, domain.ErrNotFound):
			a.error(w, http.StatusUnauthorized, "unauthorized", "account not found")
		default:
			a.Logger.Error().Err(err).Msg("site create failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to create site")
		}
		return
	}

	metrics.AdmissionDecisions.WithLabelValues("granted").Inc()
	a.json(w, http.StatusCreated, siteToDTO(created))
}

// SitesList returns the caller's sites.
func (a *App) SitesList(w http.ResponseWriter, r *http.Request) {
	items, err := a.Sites.ListByUser(r.Context(), a.currentUserID(r))
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load sites")
		return
	}
	dtos := make([]siteDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, siteToDTO(&items[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": dtos})
}

// SitesGet returns one of the caller's sites.
func (a *App) SitesGet(w http.ResponseWriter, r *http.Request) {
	site, ok := a.ownedSite(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, siteToDTO(site))
}

// SitesUpdate rewrites the editable fields of a site. Slug and owner are
// immutable after creation.
func (a *App) SitesUpdate(w http.ResponseWriter, r *http.Request) {
	site, ok := a.ownedSite(w, r)
	if !ok {
		return
	}
	var req siteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	next := req.toSite(site.UserID)
	next.ID = site.ID
	next.Slug = site.Slug

	updated, err := a.Sites.Update(r.Context(), next)
	if err != nil {
		a.Logger.Error().Err(err).Str("site_id", site.ID).Msg("site update failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update site")
		return
	}
	a.json(w, http.StatusOK, siteToDTO(updated))
}

// SitesToggle flips the published flag.
func (a *App) SitesToggle(w http.ResponseWriter, r *http.Request) {
	site, ok := a.ownedSite(w, r)
	if !ok {
		return
	}
	if err := a.Sites.SetActive(r.Context(), site.ID, !site.Active); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to toggle site")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"id": site.ID, "active": !site.Active})
}

// SitesDelete removes a site and releases its slot.
func (a *App) SitesDelete(w http.ResponseWriter, r *http.Request) {
	site, ok := a.ownedSite(w, r)
	if !ok {
		return
	}
	if err := a.Sites.DeleteReleasingSlot(r.Context(), site.ID, site.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "site not found")
			return
		}
		a.Logger.Error().Err(err).Str("site_id", site.ID).Msg("site delete failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete site")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"deleted": true})
}

// SiteBySlug serves the public payload for the external renderer. Inactive
// sites are hidden.
func (a *App) SiteBySlug(w http.ResponseWriter, r *http.Request) {
	site, err := a.Sites.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil || !site.Active {
		a.error(w, http.StatusNotFound, "not_found", "site not found")
		return
	}
	a.json(w, http.StatusOK, siteToDTO(site))
}

// ownedSite loads the site from the URL and enforces ownership. Admins may
// operate on any site.
func (a *App) ownedSite(w http.ResponseWriter, r *http.Request) (*domain.Site, bool) {
	site, err := a.Sites.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "site not found")
		return nil, false
	}
	user, err := a.currentUser(r)
	if err != nil {
		a.error(w, http.StatusUnauthorized, "unauthorized", "account not found")
		return nil, false
	}
	if site.UserID != user.ID && !user.IsAdmin() {
		a.error(w, http.StatusNotFound, "not_found", "site not found")
		return nil, false
	}
	return site, true
}
