package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

type fakeUsers struct {
	byEmail map[string]*domain.User
	getErr  error
}

func (f *fakeUsers) UpsertByEmail(_ context.Context, u *domain.User) (*domain.User, error) {
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) CreditSlots(_ context.Context, userID string, delta int) (int, error) {
	for _, u := range f.byEmail {
		if u.ID == userID {
			u.SlotsTotal += delta
			return u.SlotsTotal, nil
		}
	}
	return 0, domain.ErrNotFound
}

func (f *fakeUsers) ListAll(context.Context) ([]domain.User, error) { return nil, nil }

type fakePayments struct {
	users     *fakeUsers
	recorded  []*domain.Payment
	seenTxn   map[string]bool
	recordErr error
}

func (f *fakePayments) RecordPurchase(ctx context.Context, p *domain.Payment, slotsDelta int) (domain.PurchaseResult, error) {
	if f.recordErr != nil {
		return domain.PurchaseResult{}, f.recordErr
	}
	if f.seenTxn == nil {
		f.seenTxn = map[string]bool{}
	}
	if f.seenTxn[p.ExternalTxnID] {
		return domain.PurchaseResult{Recorded: false}, nil
	}
	f.seenTxn[p.ExternalTxnID] = true
	f.recorded = append(f.recorded, p)
	total, err := f.users.CreditSlots(ctx, p.UserID, slotsDelta)
	if err != nil {
		return domain.PurchaseResult{}, err
	}
	return domain.PurchaseResult{Recorded: true, SlotsTotal: total}, nil
}

func (f *fakePayments) ListByUser(context.Context, string) ([]domain.Payment, error) {
	return nil, nil
}

func (f *fakePayments) ListAll(context.Context, int) ([]domain.Payment, error) {
	return nil, nil
}

func newTestProcessor() (*Processor, *fakeUsers, *fakePayments) {
	users := &fakeUsers{byEmail: map[string]*domain.User{
		"a@x.com": {ID: "user-1", Email: "a@x.com", Role: domain.UserRoleStandard},
	}}
	payments := &fakePayments{users: users}
	p := NewProcessor(users, payments, Classifier{BasePlanAmountMin: 1900}, zerolog.Nop())
	return p, users, payments
}

func settledCombo() Event {
	return Event{
		ExternalTxnID: "tx1",
		Status:        "paid",
		ProductName:   "Combo Inicial",
		Amount:        2000,
		BuyerEmail:    "a@x.com",
	}
}

func TestProcessLedgersAndCredits(t *testing.T) {
	p, users, payments := newTestProcessor()

	outcome, err := p.Process(context.Background(), settledCombo())
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if outcome != OutcomeLedgered {
		t.Fatalf("outcome = %s, want ledgered", outcome)
	}
	if len(payments.recorded) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(payments.recorded))
	}
	rec := payments.recorded[0]
	if rec.Kind != domain.PaymentKindBasePlan || rec.Amount != 2000 || rec.ExternalTxnID != "tx1" {
		t.Errorf("unexpected payment: %+v", rec)
	}
	if got := users.byEmail["a@x.com"].SlotsTotal; got != 3 {
		t.Errorf("slots_total = %d, want 3", got)
	}
}

func TestProcessRedeliveryIsIdempotent(t *testing.T) {
	p, users, payments := newTestProcessor()

	for i := 0; i < 5; i++ {
		outcome, err := p.Process(context.Background(), settledCombo())
		if err != nil {
			t.Fatalf("delivery %d returned error: %v", i, err)
		}
		if i == 0 && outcome != OutcomeLedgered {
			t.Fatalf("first delivery outcome = %s", outcome)
		}
		if i > 0 && outcome != OutcomeDuplicate {
			t.Fatalf("redelivery %d outcome = %s, want duplicate", i, outcome)
		}
	}
	if len(payments.recorded) != 1 {
		t.Fatalf("expected exactly 1 payment after redeliveries, got %d", len(payments.recorded))
	}
	if got := users.byEmail["a@x.com"].SlotsTotal; got != 3 {
		t.Errorf("slots_total = %d after redeliveries, want 3", got)
	}
}

func TestProcessPendingIsAcknowledgedWithoutLedger(t *testing.T) {
	p, users, payments := newTestProcessor()

	ev := settledCombo()
	ev.Status = "pending"
	outcome, err := p.Process(context.Background(), ev)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if outcome != OutcomeNotSettled {
		t.Fatalf("outcome = %s, want not_settled", outcome)
	}
	if len(payments.recorded) != 0 {
		t.Errorf("expected no payments, got %d", len(payments.recorded))
	}
	if got := users.byEmail["a@x.com"].SlotsTotal; got != 0 {
		t.Errorf("slots_total = %d, want 0", got)
	}
}

func TestProcessUnknownUserIsAcknowledged(t *testing.T) {
	p, _, payments := newTestProcessor()

	ev := settledCombo()
	ev.BuyerEmail = "stranger@x.com"
	outcome, err := p.Process(context.Background(), ev)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if outcome != OutcomeUserNotFound {
		t.Fatalf("outcome = %s, want user_not_found", outcome)
	}
	if len(payments.recorded) != 0 {
		t.Errorf("expected no payments, got %d", len(payments.recorded))
	}
}

func TestProcessPersistenceFailurePropagates(t *testing.T) {
	p, _, payments := newTestProcessor()
	payments.recordErr = errors.New("connection refused")

	if _, err := p.Process(context.Background(), settledCombo()); err == nil {
		t.Fatal("expected error when the ledger is unreachable")
	}
}

func TestProcessLiveHelpStyleZeroDelta(t *testing.T) {
	// An extra-slot purchase always carries delta 1 and a base plan 3; the
	// ledger still accepts a zero delta without touching counters.
	_, users, payments := newTestProcessor()

	res, err := payments.RecordPurchase(context.Background(), &domain.Payment{
		ID: "p1", UserID: "user-1", Kind: domain.PaymentKindLiveHelp,
		Amount: 2000, Status: domain.PaymentStatusCompleted, ExternalTxnID: "tx-lh",
	}, 0)
	if err != nil {
		t.Fatalf("RecordPurchase returned error: %v", err)
	}
	if !res.Recorded {
		t.Fatal("expected purchase to be recorded")
	}
	if got := users.byEmail["a@x.com"].SlotsTotal; got != 0 {
		t.Errorf("slots_total = %d, want 0", got)
	}
}
