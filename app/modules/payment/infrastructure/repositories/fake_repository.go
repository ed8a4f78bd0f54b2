package paymentdb

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeRepository is an in-memory Repository for tests.
type FakeRepository struct {
	mu    sync.Mutex
	trace []string

	Payments map[uuid.UUID]*Payment

	CreateFunc func(ctx context.Context, db bun.IDB, p *Payment) error
	UpdateFunc func(ctx context.Context, db bun.IDB, p *Payment, columns ...string) error
}

// NewFakeRepository creates an empty fake.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{trace: []string{}, Payments: map[uuid.UUID]*Payment{}}
}

func (f *FakeRepository) record(step string) {
	f.mu.Lock()
	f.trace = append(f.trace, step)
	f.mu.Unlock()
}

// Trace returns the recorded calls.
func (f *FakeRepository) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRepository) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Payment, error) {
	f.record("GetByID")
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.Payments[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) GetByRegistration(ctx context.Context, db bun.IDB, registrationID uuid.UUID) (*Payment, error) {
	f.record("GetByRegistration")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.Payments {
		if p.RegistrationID == registrationID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) List(ctx context.Context, db bun.IDB, filter ListFilter) ([]*Payment, error) {
	f.record("List")
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Payment
	for _, p := range f.Payments {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (f *FakeRepository) PaymentVerified(ctx context.Context, db bun.IDB, registrationID uuid.UUID) (bool, error) {
	f.record("PaymentVerified")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.Payments {
		if p.RegistrationID == registrationID && p.Status == "verified" {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeRepository) Create(ctx context.Context, db bun.IDB, p *Payment) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, p)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	f.Payments[p.ID] = &cp
	return nil
}

func (f *FakeRepository) Update(ctx context.Context, db bun.IDB, p *Payment, columns ...string) error {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, db, p, columns...)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Payments[p.ID]; !ok {
		return ErrNoRowsAffected
	}
	cp := *p
	cp.Registration = nil
	f.Payments[p.ID] = &cp
	return nil
}

var _ Repository = (*FakeRepository)(nil)
