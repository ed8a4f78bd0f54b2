package registrationdb

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeRepository is a programmable Repository for tests. Calls without a
// Func override operate on in-memory state.
type FakeRepository struct {
	mu    sync.Mutex
	trace []string

	Registrations map[uuid.UUID]*Registration
	Teams         map[uuid.UUID]*Team
	Members       []*TeamMember
	// CompetitionCodes maps competition IDs to codes for conflict reports.
	CompetitionCodes map[uuid.UUID]string

	TeamNameExistsFunc      func(ctx context.Context, db bun.IDB, teamName string) (bool, error)
	FindMemberConflictsFunc func(ctx context.Context, db bun.IDB, emails []string) ([]MemberConflict, error)
	CreateRegistrationFunc  func(ctx context.Context, db bun.IDB, reg *Registration) error
	CreateMembersFunc       func(ctx context.Context, db bun.IDB, members []*TeamMember) error
	ListFunc                func(ctx context.Context, db bun.IDB, filter ListFilter) ([]*Registration, error)
	UpdateRegistrationFunc  func(ctx context.Context, db bun.IDB, reg *Registration, columns ...string) error
}

// NewFakeRepository creates an empty fake.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{
		trace:            []string{},
		Registrations:    map[uuid.UUID]*Registration{},
		Teams:            map[uuid.UUID]*Team{},
		CompetitionCodes: map[uuid.UUID]string{},
	}
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

// hydrate assembles a copy of reg with its team and ordered members. Callers
// hold f.mu.
func (f *FakeRepository) hydrate(reg *Registration) *Registration {
	cp := *reg
	for _, t := range f.Teams {
		if t.RegistrationID != reg.ID {
			continue
		}
		team := *t
		team.Members = nil
		for _, m := range f.Members {
			if m.TeamID == t.ID {
				mc := *m
				team.Members = append(team.Members, &mc)
			}
		}
		sort.Slice(team.Members, func(i, j int) bool { return team.Members[i].Position < team.Members[j].Position })
		cp.Team = &team
	}
	return &cp
}

func (f *FakeRepository) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Registration, error) {
	f.record("GetByID")
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.Registrations[id]; ok {
		return f.hydrate(r), nil
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) GetByUserID(ctx context.Context, db bun.IDB, userID uuid.UUID) (*Registration, error) {
	f.record("GetByUserID")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.Registrations {
		if r.UserID == userID {
			return f.hydrate(r), nil
		}
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) GetByMemberEmail(ctx context.Context, db bun.IDB, email string) (*Registration, error) {
	f.record("GetByMemberEmail")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.Members {
		if !strings.EqualFold(m.Email, strings.TrimSpace(email)) {
			continue
		}
		if t, ok := f.Teams[m.TeamID]; ok {
			if r, ok := f.Registrations[t.RegistrationID]; ok {
				return f.hydrate(r), nil
			}
		}
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) List(ctx context.Context, db bun.IDB, filter ListFilter) ([]*Registration, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db, filter)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Registration
	for _, r := range f.Registrations {
		if filter.VerificationStatus != "" && r.VerificationStatus != filter.VerificationStatus {
			continue
		}
		if filter.CurrentPhase != "" && r.CurrentPhase != filter.CurrentPhase {
			continue
		}
		if filter.CompetitionCode != "" && !strings.EqualFold(f.CompetitionCodes[r.CompetitionID], filter.CompetitionCode) {
			continue
		}
		out = append(out, f.hydrate(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *FakeRepository) TeamNameExists(ctx context.Context, db bun.IDB, teamName string) (bool, error) {
	f.record("TeamNameExists")
	if f.TeamNameExistsFunc != nil {
		return f.TeamNameExistsFunc(ctx, db, teamName)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.Teams {
		if strings.EqualFold(t.TeamName, strings.TrimSpace(teamName)) {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeRepository) FindMemberConflicts(ctx context.Context, db bun.IDB, emails []string) ([]MemberConflict, error) {
	f.record("FindMemberConflicts")
	if f.FindMemberConflictsFunc != nil {
		return f.FindMemberConflictsFunc(ctx, db, emails)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []MemberConflict
	for _, e := range emails {
		for _, m := range f.Members {
			if !strings.EqualFold(m.Email, e) {
				continue
			}
			var code string
			if t, ok := f.Teams[m.TeamID]; ok {
				if r, ok := f.Registrations[t.RegistrationID]; ok {
					code = f.CompetitionCodes[r.CompetitionID]
				}
			}
			out = append(out, MemberConflict{Email: m.Email, CompetitionCode: code})
		}
	}
	return out, nil
}

func (f *FakeRepository) CreateRegistration(ctx context.Context, db bun.IDB, reg *Registration) error {
	f.record("CreateRegistration")
	if f.CreateRegistrationFunc != nil {
		return f.CreateRegistrationFunc(ctx, db, reg)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	cp := *reg
	f.Registrations[reg.ID] = &cp
	return nil
}

func (f *FakeRepository) CreateTeam(ctx context.Context, db bun.IDB, team *Team) error {
	f.record("CreateTeam")
	f.mu.Lock()
	defer f.mu.Unlock()
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	cp := *team
	cp.Members = nil
	f.Teams[team.ID] = &cp
	return nil
}

func (f *FakeRepository) CreateMembers(ctx context.Context, db bun.IDB, members []*TeamMember) error {
	f.record("CreateMembers")
	if f.CreateMembersFunc != nil {
		return f.CreateMembersFunc(ctx, db, members)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range members {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		cp := *m
		f.Members = append(f.Members, &cp)
	}
	return nil
}

func (f *FakeRepository) UpdateRegistration(ctx context.Context, db bun.IDB, reg *Registration, columns ...string) error {
	f.record("UpdateRegistration")
	if f.UpdateRegistrationFunc != nil {
		return f.UpdateRegistrationFunc(ctx, db, reg, columns...)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Registrations[reg.ID]; !ok {
		return ErrNoRowsAffected
	}
	cp := *reg
	cp.Team = nil
	f.Registrations[reg.ID] = &cp
	return nil
}

var _ Repository = (*FakeRepository)(nil)
