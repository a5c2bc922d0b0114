// Package billing implements the entitlement and payment-reconciliation core:
// webhook authentication, purchase classification, idempotent ledgering,
// atomic slot crediting and checkout session creation.
package billing

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Event is the canonical form of one inbound provider notification. The
// provider varies field names and nesting between event types, so everything
// downstream of parsing works on this type only.
type Event struct {
	ExternalTxnID string
	Status        string
	ProductName   string
	BuyerEmail    string
	Amount        int64 // centavos
	Token         string
}

// rawEvent tolerates the payload shapes Kiwify is known to send. encoding/json
// matches member names case-insensitively, which also covers the
// Customer/customer and Product/product variants.
type rawEvent struct {
	Token       string `json:"token"`
	OrderID     string `json:"order_id"`
	ID          string `json:"id"`
	OrderStatus string `json:"order_status"`
	Status      string `json:"status"`
	ProductName string `json:"product_name"`
	Product     *struct {
		Name string `json:"name"`
	} `json:"product"`
	Amount      int64 `json:"amount"`
	Commissions *struct {
		ChargeAmount int64 `json:"charge_amount"`
	} `json:"commissions"`
	Customer *struct {
		Email string `json:"email"`
	} `json:"customer"`
}

// ParseEvent decodes a provider payload into its canonical form. A decode
// failure means the payload is malformed and the delivery must be answered
// with 400; field aliases are resolved here so nothing else in the core deals
// with the provider's loose shapes.
func ParseEvent(body []byte) (Event, error) {
	var raw rawEvent
	if err := json.Unmarshal(body, &raw); err != nil {
		return Event{}, fmt.Errorf("parse webhook payload: %w", err)
	}

	ev := Event{
		Token:         raw.Token,
		ExternalTxnID: raw.OrderID,
		Status:        strings.ToLower(firstNonEmpty(raw.OrderStatus, raw.Status)),
		ProductName:   raw.ProductName,
		Amount:        raw.Amount,
	}
	if ev.ExternalTxnID == "" {
		ev.ExternalTxnID = raw.ID
	}
	if ev.ProductName == "" && raw.Product != nil {
		ev.ProductName = raw.Product.Name
	}
	if ev.Amount == 0 && raw.Commissions != nil {
		ev.Amount = raw.Commissions.ChargeAmount
	}
	if raw.Customer != nil {
		ev.BuyerEmail = strings.TrimSpace(raw.Customer.Email)
	}
	return ev, nil
}

// Settled reports whether funds have cleared for this event.
func (e Event) Settled() bool {
	return e.Status == "paid" || e.Status == "approved"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
