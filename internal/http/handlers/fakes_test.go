package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"server/internal/billing"
	"server/internal/domain"
)

// In-memory repositories backing the handler tests. They mirror the
// storage-layer contracts: idempotent ledgering, guarded slot claims.

type memUsers struct {
	byID   map[string]*domain.User
	getErr error
}

func newMemUsers(users ...*domain.User) *memUsers {
	m := &memUsers{byID: map[string]*domain.User{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) UpsertByEmail(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			existing.Name = u.Name
			return existing, nil
		}
	}
	m.byID[u.ID] = u
	return u, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) CreditSlots(_ context.Context, userID string, delta int) (int, error) {
	u, ok := m.byID[userID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	u.SlotsTotal += delta
	return u.SlotsTotal, nil
}

func (m *memUsers) ListAll(context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, *u)
	}
	return out, nil
}

type memPayments struct {
	users     *memUsers
	ledger    []*domain.Payment
	seenTxn   map[string]bool
	recordErr error
}

func newMemPayments(users *memUsers) *memPayments {
	return &memPayments{users: users, seenTxn: map[string]bool{}}
}

func (m *memPayments) RecordPurchase(ctx context.Context, p *domain.Payment, slotsDelta int) (domain.PurchaseResult, error) {
	if m.recordErr != nil {
		return domain.PurchaseResult{}, m.recordErr
	}
	if m.seenTxn[p.ExternalTxnID] {
		return domain.PurchaseResult{Recorded: false}, nil
	}
	m.seenTxn[p.ExternalTxnID] = true
	m.ledger = append(m.ledger, p)
	total, err := m.users.CreditSlots(ctx, p.UserID, slotsDelta)
	if err != nil {
		return domain.PurchaseResult{}, err
	}
	return domain.PurchaseResult{Recorded: true, SlotsTotal: total}, nil
}

func (m *memPayments) ListByUser(_ context.Context, userID string) ([]domain.Payment, error) {
	out := []domain.Payment{}
	for _, p := range m.ledger {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPayments) ListAll(_ context.Context, limit int) ([]domain.Payment, error) {
	out := []domain.Payment{}
	for _, p := range m.ledger {
		if len(out) == limit {
			break
		}
		out = append(out, *p)
	}
	return out, nil
}

type memSites struct {
	users *memUsers
	byID  map[string]*domain.Site
	seq   int
}

func newMemSites(users *memUsers, sites ...*domain.Site) *memSites {
	m := &memSites{users: users, byID: map[string]*domain.Site{}}
	for _, s := range sites {
		m.byID[s.ID] = s
	}
	return m
}

func (m *memSites) CreateClaimingSlot(_ context.Context, site *domain.Site) (*domain.Site, error) {
	owner, ok := m.users.byID[site.UserID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !owner.IsAdmin() && owner.SlotsUsed >= owner.SlotsTotal {
		return nil, domain.ErrQuotaExceeded
	}
	for _, existing := range m.byID {
		if existing.Slug == site.Slug {
			return nil, domain.ErrSlugTaken
		}
	}
	owner.SlotsUsed++
	m.seq++
	created := *site
	created.ID = fmt.Sprintf("site-%d", m.seq)
	created.Active = true
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.byID[created.ID] = &created
	return &created, nil
}

func (m *memSites) GetByID(_ context.Context, id string) (*domain.Site, error) {
	if s, ok := m.byID[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memSites) GetBySlug(_ context.Context, slug string) (*domain.Site, error) {
	for _, s := range m.byID {
		if s.Slug == slug {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memSites) ListByUser(_ context.Context, userID string) ([]domain.Site, error) {
	out := []domain.Site{}
	for _, s := range m.byID {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSites) ListAll(context.Context) ([]domain.Site, error) {
	out := []domain.Site{}
	for _, s := range m.byID {
		out = append(out, *s)
	}
	return out, nil
}

func (m *memSites) Update(_ context.Context, site *domain.Site) (*domain.Site, error) {
	existing, ok := m.byID[site.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	site.Active = existing.Active
	site.CreatedAt = existing.CreatedAt
	site.UpdatedAt = time.Now()
	m.byID[site.ID] = site
	return site, nil
}

func (m *memSites) SetActive(_ context.Context, id string, active bool) error {
	s, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Active = active
	return nil
}

func (m *memSites) DeleteReleasingSlot(_ context.Context, id, userID string) error {
	s, ok := m.byID[id]
	if !ok || s.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	if owner, ok := m.users.byID[userID]; ok && owner.SlotsUsed > 0 {
		owner.SlotsUsed--
	}
	return nil
}

const testWebhookToken = "whsec-test"

func newTestApp(users *memUsers, payments *memPayments, sites *memSites) *App {
	logger := zerolog.Nop()
	return &App{
		Logger:      logger,
		Users:       users,
		Payments:    payments,
		Sites:       sites,
		WebhookAuth: billing.NewAuthenticator(testWebhookToken, false),
		Billing:     billing.NewProcessor(users, payments, billing.Classifier{BasePlanAmountMin: 1900}, logger),
	}
}
