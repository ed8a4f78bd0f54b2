package userdb

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeRepository is a programmable Repository for tests. Calls without a
// Func override operate on in-memory maps.
type FakeRepository struct {
	mu    sync.Mutex
	trace []string

	Users  map[uuid.UUID]*User
	Tokens map[string]*ActivateToken
	Staff  map[uuid.UUID]*Staff

	GetUserByEmailFunc              func(ctx context.Context, db bun.IDB, email string) (*User, error)
	CreateUserFunc                  func(ctx context.Context, db bun.IDB, user *User) error
	CreateActivateTokenFunc         func(ctx context.Context, db bun.IDB, token *ActivateToken) error
	DeleteExpiredActivateTokensFunc func(ctx context.Context, db bun.IDB, now time.Time) (int64, error)
	CreateStaffFunc                 func(ctx context.Context, db bun.IDB, staff *Staff) error
}

// NewFakeRepository creates an empty fake.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		trace:  []string{},
		Users:  map[uuid.UUID]*User{},
		Tokens: map[string]*ActivateToken{},
		Staff:  map[uuid.UUID]*Staff{},
	}
}

func (f *FakeRepository) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the recorded calls.
func (f *FakeRepository) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRepository) GetUserByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetUserByID")
	if u, ok := f.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) GetUserByEmail(ctx context.Context, db bun.IDB, email string) (*User, error) {
	if f.GetUserByEmailFunc != nil {
		f.mu.Lock()
		f.record("GetUserByEmail")
		f.mu.Unlock()
		return f.GetUserByEmailFunc(ctx, db, email)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetUserByEmail")
	for _, u := range f.Users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) GetUserByGoogleSubject(ctx context.Context, db bun.IDB, subject string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetUserByGoogleSubject")
	for _, u := range f.Users {
		if u.GoogleSubject != nil && *u.GoogleSubject == subject {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) UsernameExists(ctx context.Context, db bun.IDB, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UsernameExists")
	for _, u := range f.Users {
		if strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeRepository) CreateUser(ctx context.Context, db bun.IDB, user *User) error {
	if f.CreateUserFunc != nil {
		f.mu.Lock()
		f.record("CreateUser")
		f.mu.Unlock()
		return f.CreateUserFunc(ctx, db, user)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateUser")
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	f.Users[user.ID] = &cp
	return nil
}

func (f *FakeRepository) UpdateUser(ctx context.Context, db bun.IDB, user *User, columns ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateUser")
	if _, ok := f.Users[user.ID]; !ok {
		return ErrNoRowsAffected
	}
	cp := *user
	f.Users[user.ID] = &cp
	return nil
}

func (f *FakeRepository) CreateActivateToken(ctx context.Context, db bun.IDB, token *ActivateToken) error {
	if f.CreateActivateTokenFunc != nil {
		f.mu.Lock()
		f.record("CreateActivateToken")
		f.mu.Unlock()
		return f.CreateActivateTokenFunc(ctx, db, token)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateActivateToken")
	cp := *token
	f.Tokens[token.Token] = &cp
	return nil
}

func (f *FakeRepository) GetActivateToken(ctx context.Context, db bun.IDB, token string) (*ActivateToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetActivateToken")
	if t, ok := f.Tokens[token]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) DeleteActivateToken(ctx context.Context, db bun.IDB, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteActivateToken")
	if _, ok := f.Tokens[token]; !ok {
		return ErrNoRowsAffected
	}
	delete(f.Tokens, token)
	return nil
}

func (f *FakeRepository) DeleteExpiredActivateTokens(ctx context.Context, db bun.IDB, now time.Time) (int64, error) {
	if f.DeleteExpiredActivateTokensFunc != nil {
		f.mu.Lock()
		f.record("DeleteExpiredActivateTokens")
		f.mu.Unlock()
		return f.DeleteExpiredActivateTokensFunc(ctx, db, now)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteExpiredActivateTokens")
	var n int64
	for k, t := range f.Tokens {
		if t.ExpiresAt.Before(now) {
			delete(f.Tokens, k)
			n++
		}
	}
	return n, nil
}

func (f *FakeRepository) GetStaffByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetStaffByID")
	if s, ok := f.Staff[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) GetStaffByEmail(ctx context.Context, db bun.IDB, email string) (*Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetStaffByEmail")
	for _, s := range f.Staff {
		if strings.EqualFold(s.Email, strings.TrimSpace(email)) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) ListStaff(ctx context.Context, db bun.IDB) ([]*Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListStaff")
	out := make([]*Staff, 0, len(f.Staff))
	for _, s := range f.Staff {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (f *FakeRepository) CreateStaff(ctx context.Context, db bun.IDB, staff *Staff) error {
	if f.CreateStaffFunc != nil {
		f.mu.Lock()
		f.record("CreateStaff")
		f.mu.Unlock()
		return f.CreateStaffFunc(ctx, db, staff)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateStaff")
	if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	cp := *staff
	f.Staff[staff.ID] = &cp
	return nil
}

func (f *FakeRepository) UpdateStaff(ctx context.Context, db bun.IDB, staff *Staff, columns ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateStaff")
	if _, ok := f.Staff[staff.ID]; !ok {
		return ErrNoRowsAffected
	}
	cp := *staff
	f.Staff[staff.ID] = &cp
	return nil
}

var _ Repository = (*FakeRepository)(nil)
