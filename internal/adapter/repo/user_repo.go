package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(pool *pgxpool.Pool) *UserRepositoryPG {
	return &UserRepositoryPG{pool: pool}
}

const userColumns = `id, email, name, role, slots_total, slots_used, created_at, updated_at`

// UpsertByEmail creates the account on first authentication, keyed by the
// auth provider's subject id. Conflicts only refresh the display name; roles
// and slot counters are never overwritten from token claims.
func (r *UserRepositoryPG) UpsertByEmail(ctx context.Context, user *domain.User) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO users (id, email, name, role, slots_total, slots_used)
VALUES ($1, $2, $3, $4, 0, 0)
ON CONFLICT (email) DO UPDATE
SET name = EXCLUDED.name,
    updated_at = NOW()
RETURNING `+userColumns+`;
`, user.ID, user.Email, user.Name, user.Role)
	return scanUser(row)
}

// GetByID fetches a user by UUID.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail fetches a user by the email address the payment provider reports.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

// CreditSlots increases slots_total by delta in a single UPDATE. The
// increment happens at the storage layer so concurrent credits for the same
// user cannot lose updates.
func (r *UserRepositoryPG) CreditSlots(ctx context.Context, userID string, delta int) (int, error) {
	row := r.pool.QueryRow(ctx, `
UPDATE users
SET slots_total = slots_total + $2, updated_at = NOW()
WHERE id = $1
RETURNING slots_total;
`, userID, delta)

	var total int
	if err := row.Scan(&total); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return total, nil
}

// ListAll returns every account, newest first.
func (r *UserRepositoryPG) ListAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.User
	for rows.Next() {
		u, err := scanUserValues(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	return items, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	u, err := scanUserValues(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func scanUserValues(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.SlotsTotal, &u.SlotsUsed, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
