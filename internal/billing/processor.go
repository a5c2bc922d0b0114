package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/observability/metrics"
)

// Outcome is the terminal state of one webhook delivery. Every outcome except
// a persistence failure is durable and must be acknowledged with 200 so the
// provider stops redelivering.
type Outcome string

const (
	OutcomeLedgered     Outcome = "ledgered"
	OutcomeDuplicate    Outcome = "duplicate"
	OutcomeNotSettled   Outcome = "not_settled"
	OutcomeUserNotFound Outcome = "user_not_found"
)

// Processor drives an authenticated event through classification, ledgering
// and crediting. It holds no entity state; every call goes through the
// repositories.
type Processor struct {
	users      domain.UserRepository
	payments   domain.PaymentRepository
	classifier Classifier
	logger     zerolog.Logger
}

// NewProcessor wires the webhook processing pipeline.
func NewProcessor(users domain.UserRepository, payments domain.PaymentRepository, classifier Classifier, logger zerolog.Logger) *Processor {
	return &Processor{users: users, payments: payments, classifier: classifier, logger: logger}
}

// Process handles one authenticated event. A non-nil error means the event
// was NOT durably processed (persistence unreachable) and the handler must
// answer 5xx so the provider retries. Business outcomes are plain return
// values and never log at error severity.
func (p *Processor) Process(ctx context.Context, e Event) (Outcome, error) {
	intent, ok := p.classifier.Classify(e)
	if !ok {
		p.logger.Info().Str("txn", e.ExternalTxnID).Str("status", e.Status).Msg("webhook: not settled, acknowledged")
		metrics.WebhookEvents.WithLabelValues(string(OutcomeNotSettled)).Inc()
		return OutcomeNotSettled, nil
	}

	if intent.BuyerEmail == "" {
		p.logger.Warn().Str("txn", e.ExternalTxnID).Msg("webhook: settled purchase without buyer email")
		metrics.WebhookEvents.WithLabelValues(string(OutcomeUserNotFound)).Inc()
		return OutcomeUserNotFound, nil
	}

	user, err := p.users.GetByEmail(ctx, intent.BuyerEmail)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Acknowledged so the provider stops retrying; kept in the log
			// for manual reconciliation.
			p.logger.Warn().
				Str("txn", e.ExternalTxnID).
				Str("email", intent.BuyerEmail).
				Msg("webhook: settled purchase for unknown user")
			metrics.WebhookEvents.WithLabelValues(string(OutcomeUserNotFound)).Inc()
			return OutcomeUserNotFound, nil
		}
		return "", fmt.Errorf("load user by email: %w", err)
	}

	payment := &domain.Payment{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		Kind:          intent.Kind,
		Amount:        intent.Amount,
		Status:        domain.PaymentStatusCompleted,
		ExternalTxnID: intent.ExternalTxnID,
	}

	res, err := p.payments.RecordPurchase(ctx, payment, intent.SlotsDelta)
	if err != nil {
		return "", fmt.Errorf("record purchase %s: %w", intent.ExternalTxnID, err)
	}
	if !res.Recorded {
		p.logger.Info().Str("txn", intent.ExternalTxnID).Msg("webhook: duplicate delivery, already ledgered")
		metrics.WebhookEvents.WithLabelValues(string(OutcomeDuplicate)).Inc()
		return OutcomeDuplicate, nil
	}

	p.logger.Info().
		Str("txn", intent.ExternalTxnID).
		Str("user_id", user.ID).
		Str("kind", string(intent.Kind)).
		Int64("amount", intent.Amount).
		Int("slots_delta", intent.SlotsDelta).
		Int("slots_total", res.SlotsTotal).
		Msg("webhook: purchase ledgered")
	metrics.WebhookEvents.WithLabelValues(string(OutcomeLedgered)).Inc()
	metrics.SlotsCredited.Add(float64(intent.SlotsDelta))
	return OutcomeLedgered, nil
}
