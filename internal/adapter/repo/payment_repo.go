package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

const pgUniqueViolation = "23505"

// PaymentRepositoryPG implements the payment ledger using PostgreSQL. The
// unique index on external_txn_id is the idempotency boundary.
type PaymentRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepositoryPG.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepositoryPG {
	return &PaymentRepositoryPG{pool: pool}
}

// RecordPurchase inserts the ledger row and credits the slots inside one
// transaction. A duplicate external transaction id rolls back and reports
// Recorded=false without error, so however many times the provider redelivers
// an event there is at most one ledger row and one credit.
func (r *PaymentRepositoryPG) RecordPurchase(ctx context.Context, p *domain.Payment, slotsDelta int) (domain.PurchaseResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.PurchaseResult{}, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
INSERT INTO payments (id, user_id, kind, amount, status, external_txn_id)
VALUES ($1, $2, $3, $4, $5, $6);
`, p.ID, p.UserID, p.Kind, p.Amount, p.Status, p.ExternalTxnID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.PurchaseResult{Recorded: false}, nil
		}
		return domain.PurchaseResult{}, err
	}

	var total int
	if slotsDelta != 0 {
		row := tx.QueryRow(ctx, `
UPDATE users
SET slots_total = slots_total + $2, updated_at = NOW()
WHERE id = $1
RETURNING slots_total;
`, p.UserID, slotsDelta)
		if err := row.Scan(&total); err != nil {
			return domain.PurchaseResult{}, err
		}
	} else {
		row := tx.QueryRow(ctx, `SELECT slots_total FROM users WHERE id = $1`, p.UserID)
		if err := row.Scan(&total); err != nil {
			return domain.PurchaseResult{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.PurchaseResult{}, err
	}
	return domain.PurchaseResult{Recorded: true, SlotsTotal: total}, nil
}

const paymentColumns = `id, user_id, kind, amount, status, external_txn_id, created_at`

// ListByUser returns the user's payment history, newest first.
func (r *PaymentRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+paymentColumns+`
FROM payments
WHERE user_id = $1
ORDER BY created_at DESC;
`, userID)
	if err != nil {
		return nil, err
	}
	return collectPayments(rows)
}

// ListAll returns recent payments across all users, newest first.
func (r *PaymentRepositoryPG) ListAll(ctx context.Context, limit int) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+paymentColumns+`
FROM payments
ORDER BY created_at DESC
LIMIT $1;
`, limit)
	if err != nil {
		return nil, err
	}
	return collectPayments(rows)
}

func collectPayments(rows pgx.Rows) ([]domain.Payment, error) {
	defer rows.Close()
	var items []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.Kind, &p.Amount, &p.Status, &p.ExternalTxnID, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
