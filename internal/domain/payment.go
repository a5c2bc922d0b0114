package domain

import "time"

// PaymentKind enumerates the products a user can purchase.
type PaymentKind string

const (
	PaymentKindBasePlan  PaymentKind = "base-plan"
	PaymentKindExtraSlot PaymentKind = "extra-slot"
	PaymentKindLiveHelp  PaymentKind = "live-help"
)

// PaymentStatus of a ledger row. Only settled purchases are recorded.
type PaymentStatus string

const PaymentStatusCompleted PaymentStatus = "completed"

// Payment is one settled purchase. ExternalTxnID is the provider's transaction
// identifier and is unique across all rows; it is the idempotency key that
// makes redelivered webhooks harmless.
type Payment struct {
	ID            string
	UserID        string
	Kind          PaymentKind
	Amount        int64 // minor currency units (centavos)
	Status        PaymentStatus
	ExternalTxnID string
	CreatedAt     time.Time
}
