package billing

import (
	"strings"

	"server/internal/domain"
)

// SlotsPerBasePlan is how many site slots one base-plan purchase unlocks.
const SlotsPerBasePlan = 3

// Intent is a normalized purchase intent derived from a settled event.
type Intent struct {
	Kind          domain.PaymentKind
	SlotsDelta    int
	Amount        int64
	ExternalTxnID string
	BuyerEmail    string
}

// Classifier maps events to purchase intents. The provider does not guarantee
// a stable product identifier, so classification is an ordered rule list over
// the free-text product name with a price fallback. Known precision
// limitation: an unrelated product priced at or above the threshold will be
// treated as a base plan.
type Classifier struct {
	// BasePlanAmountMin is the settled amount (centavos) at or above which an
	// event counts as a base plan when the name rules do not match.
	BasePlanAmountMin int64
}

// Classify applies the rules in order; first match wins. ok is false when the
// event is not settled: the delivery is acknowledged but produces no ledger
// entry. Classify is a pure function of the event.
func (c Classifier) Classify(e Event) (Intent, bool) {
	if !e.Settled() {
		return Intent{}, false
	}

	intent := Intent{
		Amount:        e.Amount,
		ExternalTxnID: e.ExternalTxnID,
		BuyerEmail:    e.BuyerEmail,
	}

	name := strings.ToLower(e.ProductName)
	if strings.Contains(name, "combo") || strings.Contains(name, "inicial") || e.Amount >= c.BasePlanAmountMin {
		intent.Kind = domain.PaymentKindBasePlan
		intent.SlotsDelta = SlotsPerBasePlan
		return intent, true
	}

	intent.Kind = domain.PaymentKindExtraSlot
	intent.SlotsDelta = 1
	return intent, true
}
