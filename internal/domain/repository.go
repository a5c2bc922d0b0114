package domain

import "context"

// UserRepository defines access methods for users.
type UserRepository interface {
	// UpsertByEmail creates the account on first authentication and refreshes
	// the display name on subsequent ones. Slot counters are never touched.
	UpsertByEmail(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// CreditSlots atomically increases slots_total by delta at the storage
	// layer and returns the new total. Never read-then-write.
	CreditSlots(ctx context.Context, userID string, delta int) (int, error)
	ListAll(ctx context.Context) ([]User, error)
}

// PurchaseResult reports what a RecordPurchase call did.
type PurchaseResult struct {
	Recorded   bool // false means the external transaction was already ledgered
	SlotsTotal int  // new slots_total when Recorded and slots were credited
}

// PaymentRepository is the payment ledger.
type PaymentRepository interface {
	// RecordPurchase inserts the ledger row and credits slotsDelta to the
	// owner inside one transaction. A unique-constraint hit on the external
	// transaction id is not an error: it reports Recorded=false and leaves
	// all state untouched, so redelivered webhooks can never double-credit.
	RecordPurchase(ctx context.Context, p *Payment, slotsDelta int) (PurchaseResult, error)
	ListByUser(ctx context.Context, userID string) ([]Payment, error)
	ListAll(ctx context.Context, limit int) ([]Payment, error)
}

// SiteRepository handles persistence for sites and the admission control gate.
type SiteRepository interface {
	// CreateClaimingSlot inserts the site and increments the owner's
	// slots_used in one guarded statement. Returns ErrQuotaExceeded when a
	// standard owner has no free slot, ErrSlugTaken on a slug conflict.
	// Two concurrent calls against a user's last free slot cannot both win.
	CreateClaimingSlot(ctx context.Context, site *Site) (*Site, error)
	GetByID(ctx context.Context, id string) (*Site, error)
	GetBySlug(ctx context.Context, slug string) (*Site, error)
	ListByUser(ctx context.Context, userID string) ([]Site, error)
	ListAll(ctx context.Context) ([]Site, error)
	Update(ctx context.Context, site *Site) (*Site, error)
	SetActive(ctx context.Context, id string, active bool) error
	// DeleteReleasingSlot removes the site and decrements the owner's
	// slots_used in the same transaction.
	DeleteReleasingSlot(ctx context.Context, id, userID string) error
}
