package submissiondb

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

	Submissions map[uuid.UUID]*Submission

	CreateFunc func(ctx context.Context, db bun.IDB, sub *Submission) error
	UpdateFunc func(ctx context.Context, db bun.IDB, sub *Submission, columns ...string) error
}

// NewFakeRepository creates an empty fake.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{trace: []string{}, Submissions: map[uuid.UUID]*Submission{}}
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

func copySubmission(s *Submission) *Submission {
	cp := *s
	cp.Files = append([]StoredFile(nil), s.Files...)
	return &cp
}

func (f *FakeRepository) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Submission, error) {
	f.record("GetByID")
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.Submissions[id]; ok {
		return copySubmission(s), nil
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) GetByRegistrationAndPhase(ctx context.Context, db bun.IDB, registrationID uuid.UUID, phase string) (*Submission, error) {
	f.record("GetByRegistrationAndPhase")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.Submissions {
		if s.RegistrationID == registrationID && s.Phase == phase {
			return copySubmission(s), nil
		}
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) ListByRegistration(ctx context.Context, db bun.IDB, registrationID uuid.UUID) ([]*Submission, error) {
	f.record("ListByRegistration")
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Submission
	for _, s := range f.Submissions {
		if s.RegistrationID == registrationID {
			out = append(out, copySubmission(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}

func (f *FakeRepository) List(ctx context.Context, db bun.IDB, filter ListFilter) ([]*Submission, error) {
	f.record("List")
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Submission
	for _, s := range f.Submissions {
		if filter.Phase != "" && s.Phase != filter.Phase {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		out = append(out, copySubmission(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, nil
}

func (f *FakeRepository) Create(ctx context.Context, db bun.IDB, sub *Submission) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, sub)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	f.Submissions[sub.ID] = copySubmission(sub)
	return nil
}

func (f *FakeRepository) Update(ctx context.Context, db bun.IDB, sub *Submission, columns ...string) error {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, db, sub, columns...)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Submissions[sub.ID]; !ok {
		return ErrNoRowsAffected
	}
	cp := copySubmission(sub)
	cp.Registration = nil
	f.Submissions[sub.ID] = cp
	return nil
}

var _ Repository = (*FakeRepository)(nil)
