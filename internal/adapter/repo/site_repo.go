package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// SiteRepositoryPG implements domain.SiteRepository backed by PostgreSQL.
// Admission control lives here: claiming and releasing a slot happens in the
// same statement or transaction as the site write.
type SiteRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewSiteRepository creates a new SiteRepositoryPG.
func NewSiteRepository(pool *pgxpool.Pool) *SiteRepositoryPG {
	return &SiteRepositoryPG{pool: pool}
}

const siteColumns = `id, user_id, slug, domain, company_name, cnpj, mission, phones, email,
instagram, whatsapp, about, footer, meta_pixel, meta_tag, app_id, page_link, active, created_at, updated_at`

// CreateClaimingSlot inserts the site only if the guarded UPDATE claims a
// slot first. The guard and the insert are one SQL statement, so two
// concurrent creations against a user's last free slot cannot both pass: one
// UPDATE wins, the other matches zero rows.
func (r *SiteRepositoryPG) CreateClaimingSlot(ctx context.Context, site *domain.Site) (*domain.Site, error) {
	row := r.pool.QueryRow(ctx, `
WITH claimed AS (
    UPDATE users
    SET slots_used = slots_used + 1, updated_at = NOW()
    WHERE id = $1
      AND (role = 'admin' OR slots_used < slots_total)
    RETURNING id
)
INSERT INTO sites (id, user_id, slug, domain, company_name, cnpj, mission, phones, email,
                   instagram, whatsapp, about, footer, meta_pixel, meta_tag, app_id, page_link, active)
SELECT gen_random_uuid(), id, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, TRUE
FROM claimed
RETURNING id, created_at, updated_at;
`,
		site.UserID, site.Slug, site.Domain, site.CompanyName, site.CNPJ, site.Mission,
		site.Phones, site.Email, site.Instagram, site.WhatsApp, site.About, site.Footer,
		site.MetaPixel, site.MetaTag, site.AppID, site.PageLink,
	)

	created := *site
	created.Active = true
	if err := row.Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The guard did not claim a slot: either the owner is unknown or
			// a standard owner is out of capacity.
			if _, lookupErr := r.ownerRole(ctx, site.UserID); lookupErr != nil {
				return nil, lookupErr
			}
			return nil, domain.ErrQuotaExceeded
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			// Slug collision aborts the whole statement, so the claimed slot
			// is not leaked.
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}
	return &created, nil
}

func (r *SiteRepositoryPG) ownerRole(ctx context.Context, userID string) (string, error) {
	var role string
	err := r.pool.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	return role, err
}

// GetByID fetches a site by UUID.
func (r *SiteRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Site, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+siteColumns+` FROM sites WHERE id = $1`, id)
	return scanSite(row)
}

// GetBySlug fetches a site by its unique slug.
func (r *SiteRepositoryPG) GetBySlug(ctx context.Context, slug string) (*domain.Site, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+siteColumns+` FROM sites WHERE slug = $1`, slug)
	return scanSite(row)
}

// ListByUser returns the user's sites, newest first.
func (r *SiteRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Site, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+siteColumns+` FROM sites WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return collectSites(rows)
}

// ListAll returns every site, newest first.
func (r *SiteRepositoryPG) ListAll(ctx context.Context) ([]domain.Site, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+siteColumns+` FROM sites ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectSites(rows)
}

// Update rewrites the site's editable fields. The slug and owner are fixed at
// creation.
func (r *SiteRepositoryPG) Update(ctx context.Context, site *domain.Site) (*domain.Site, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE sites
SET domain = $3, company_name = $4, cnpj = $5, mission = $6, phones = $7, email = $8,
    instagram = $9, whatsapp = $10, about = $11, footer = $12, meta_pixel = $13,
    meta_tag = $14, app_id = $15, page_link = $16, updated_at = NOW()
WHERE id = $1 AND user_id = $2
RETURNING `+siteColumns+`;
`,
		site.ID, site.UserID, site.Domain, site.CompanyName, site.CNPJ, site.Mission,
		site.Phones, site.Email, site.Instagram, site.WhatsApp, site.About, site.Footer,
		site.MetaPixel, site.MetaTag, site.AppID, site.PageLink,
	)
	return scanSite(row)
}

// SetActive toggles the published flag.
func (r *SiteRepositoryPG) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE sites SET active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteReleasingSlot removes the site and gives the slot back in one
// statement, mirroring CreateClaimingSlot.
func (r *SiteRepositoryPG) DeleteReleasingSlot(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx, `
WITH removed AS (
    DELETE FROM sites
    WHERE id = $1 AND user_id = $2
    RETURNING user_id
)
UPDATE users
SET slots_used = GREATEST(slots_used - 1, 0), updated_at = NOW()
WHERE id IN (SELECT user_id FROM removed);
`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSite(row pgx.Row) (*domain.Site, error) {
	var s domain.Site
	err := row.Scan(&s.ID, &s.UserID, &s.Slug, &s.Domain, &s.CompanyName, &s.CNPJ, &s.Mission,
		&s.Phones, &s.Email, &s.Instagram, &s.WhatsApp, &s.About, &s.Footer,
		&s.MetaPixel, &s.MetaTag, &s.AppID, &s.PageLink, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func collectSites(rows pgx.Rows) ([]domain.Site, error) {
	defer rows.Close()
	var items []domain.Site
	for rows.Next() {
		var s domain.Site
		if err := rows.Scan(&s.ID, &s.UserID, &s.Slug, &s.Domain, &s.CompanyName, &s.CNPJ, &s.Mission,
			&s.Phones, &s.Email, &s.Instagram, &s.WhatsApp, &s.About, &s.Footer,
			&s.MetaPixel, &s.MetaTag, &s.AppID, &s.PageLink, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}
