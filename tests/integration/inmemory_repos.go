package integration

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"zapshift-server/internal/core/domain"
	"zapshift-server/internal/core/ports"
	"zapshift-server/pkg/apperror"

	"github.com/google/uuid"
)

// inMemoryParcelRepo implements ports.ParcelRepository for tests.
type inMemoryParcelRepo struct {
	mu      sync.Mutex
	parcels map[uuid.UUID]*domain.Parcel
}

func newInMemoryParcelRepo() *inMemoryParcelRepo {
	return &inMemoryParcelRepo{parcels: make(map[uuid.UUID]*domain.Parcel)}
}

func (r *inMemoryParcelRepo) Create(_ context.Context, p *domain.Parcel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.parcels[p.ID] = &cp
	return nil
}

func (r *inMemoryParcelRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Parcel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.parcels[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *inMemoryParcelRepo) List(_ context.Context, params ports.ParcelListParams) ([]*domain.Parcel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Parcel
	for _, p := range r.parcels {
		if params.Email != "" && !strings.EqualFold(p.SenderEmail, params.Email) {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if params.Offset > 0 && params.Offset < len(out) {
		out = out[params.Offset:]
	} else if params.Offset >= len(out) {
		out = nil
	}
	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, nil
}

func (r *inMemoryParcelRepo) MarkPaid(_ context.Context, id uuid.UUID, trackingID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.parcels[id]
	if !ok || p.PaymentStatus != domain.ParcelStatusUnpaid {
		return false, nil
	}
	p.PaymentStatus = domain.ParcelStatusPaid
	p.TrackingID = &trackingID
	return true, nil
}

func (r *inMemoryParcelRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.parcels[id]; !ok {
		return false, nil
	}
	delete(r.parcels, id)
	return true, nil
}

// inMemoryPaymentRepo implements ports.PaymentRepository for tests. Like the
// real table, it enforces transaction-reference uniqueness under the lock.
type inMemoryPaymentRepo struct {
	mu      sync.Mutex
	records map[string]*domain.PaymentRecord // keyed by transaction ID
}

func newInMemoryPaymentRepo() *inMemoryPaymentRepo {
	return &inMemoryPaymentRepo{records: make(map[string]*domain.PaymentRecord)}
}

func (r *inMemoryPaymentRepo) Create(_ context.Context, rec *domain.PaymentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[rec.TransactionID]; exists {
		return domain.ErrDuplicateTransaction
	}
	cp := *rec
	r.records[rec.TransactionID] = &cp
	return nil
}

func (r *inMemoryPaymentRepo) GetByTransactionID(_ context.Context, transactionID string) (*domain.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[transactionID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *inMemoryPaymentRepo) ListByEmail(_ context.Context, email string) ([]*domain.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.PaymentRecord
	for _, rec := range r.records {
		if strings.EqualFold(rec.CustomerEmail, email) {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })
	return out, nil
}

func (r *inMemoryPaymentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// fakeVerifier implements ports.SessionVerifier from a fixed session table.
type fakeVerifier struct {
	mu       sync.Mutex
	sessions map[string]*domain.PaymentSession
}

func newFakeVerifier() *fakeVerifier {
	return &fakeVerifier{sessions: make(map[string]*domain.PaymentSession)}
}

func (v *fakeVerifier) addSession(s *domain.PaymentSession) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sessions[s.ID] = s
}

func (v *fakeVerifier) Resolve(_ context.Context, sessionID string) (*domain.PaymentSession, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.sessions[sessionID]
	if !ok {
		return nil, apperror.ErrPaymentProcessor(fmt.Errorf("no such session: %s", sessionID))
	}
	cp := *s
	return &cp, nil
}

func (v *fakeVerifier) CreateCheckoutSession(_ context.Context, params ports.CheckoutParams) (*ports.CheckoutSession, error) {
	id := "cs_fake_" + uuid.NewString()
	v.addSession(&domain.PaymentSession{
		ID:              id,
		PaymentStatus:   domain.SessionStatusUnpaid,
		PaymentIntentID: "pi_fake_" + uuid.NewString(),
		AmountTotal:     params.AmountMinor,
		Currency:        params.Currency,
		CustomerEmail:   params.CustomerEmail,
		ParcelID:        params.ParcelID,
		ParcelName:      params.ParcelName,
	})
	return &ports.CheckoutSession{ID: id, URL: "https://checkout.example.test/pay/" + id}, nil
}

// markPaid flips a session to paid, simulating checkout completion.
func (v *fakeVerifier) markPaid(sessionID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if s, ok := v.sessions[sessionID]; ok {
		s.PaymentStatus = domain.SessionStatusPaid
	}
}
