package handlers

import (
	"net/http"
	"time"

	"server/internal/domain"
)

type paymentDTO struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Kind          string    `json:"kind"`
	Amount        int64     `json:"amount"`
	Status        string    `json:"status"`
	ExternalTxnID string    `json:"external_txn_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func paymentsToDTO(items []domain.Payment) []paymentDTO {
	dtos := make([]paymentDTO, 0, len(items))
	for _, p := range items {
		dtos = append(dtos, paymentDTO{
			ID: p.ID, UserID: p.UserID, Kind: string(p.Kind), Amount: p.Amount,
			Status: string(p.Status), ExternalTxnID: p.ExternalTxnID, CreatedAt: p.CreatedAt,
		})
	}
	return dtos
}

// PaymentsList returns the caller's purchase history.
func (a *App) PaymentsList(w http.ResponseWriter, r *http.Request) {
	items, err := a.Payments.ListByUser(r.Context(), a.currentUserID(r))
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load payments")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": paymentsToDTO(items)})
}
