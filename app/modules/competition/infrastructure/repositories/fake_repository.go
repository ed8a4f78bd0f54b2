package competitiondb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeRepository is a programmable Repository for tests in other packages.
type FakeRepository struct {
	trace []string

	GetByCodeFunc      func(ctx context.Context, db bun.IDB, code string) (*Competition, error)
	GetByIDFunc        func(ctx context.Context, db bun.IDB, id uuid.UUID) (*Competition, error)
	ListFunc           func(ctx context.Context, db bun.IDB, activeOnly bool) ([]*Competition, error)
	UpdateSettingsFunc func(ctx context.Context, db bun.IDB, c *Competition) error
}

// NewFakeRepository creates an empty fake.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{trace: []string{}}
}

func (f *FakeRepository) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the recorded calls.
func (f *FakeRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRepository) GetByCode(ctx context.Context, db bun.IDB, code string) (*Competition, error) {
	f.record("GetByCode")
	if f.GetByCodeFunc != nil {
		return f.GetByCodeFunc(ctx, db, code)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Competition, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) List(ctx context.Context, db bun.IDB, activeOnly bool) ([]*Competition, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db, activeOnly)
	}
	return nil, nil
}

func (f *FakeRepository) UpdateSettings(ctx context.Context, db bun.IDB, c *Competition) error {
	f.record("UpdateSettings")
	if f.UpdateSettingsFunc != nil {
		return f.UpdateSettingsFunc(ctx, db, c)
	}
	return nil
}

var _ Repository = (*FakeRepository)(nil)
