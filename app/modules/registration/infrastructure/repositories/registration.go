package registrationdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new registration repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func withRelations(q *bun.SelectQuery) *bun.SelectQuery {
	return q.
		Relation("Team").
		Relation("Team.Members", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("tm.position ASC")
		}).
		Relation("User").
		Relation("Competition")
}

func (r *Impl) getOne(ctx context.Context, db bun.IDB, where string, args ...any) (*Registration, error) {
	db = r.resolveDB(db)
	reg := new(Registration)
	err := withRelations(db.NewSelect().Model(reg)).
		Where(where, args...).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return reg, nil
}

// GetByID retrieves a registration by ID.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Registration, error) {
	return r.getOne(ctx, db, "r.id = ?", id)
}

// GetByUserID retrieves the registration owned by a user.
func (r *Impl) GetByUserID(ctx context.Context, db bun.IDB, userID uuid.UUID) (*Registration, error) {
	return r.getOne(ctx, db, "r.user_id = ?", userID)
}

// GetByMemberEmail retrieves the registration whose team lists email.
func (r *Impl) GetByMemberEmail(ctx context.Context, db bun.IDB, email string) (*Registration, error) {
	return r.getOne(ctx, db, `r.id = (
		SELECT t.registration_id FROM teams AS t
		JOIN team_members AS m ON m.team_id = t.id
		WHERE lower(m.email) = ? LIMIT 1)`, strings.ToLower(strings.TrimSpace(email)))
}

// List returns registrations matching filter, newest first.
func (r *Impl) List(ctx context.Context, db bun.IDB, filter ListFilter) ([]*Registration, error) {
	db = r.resolveDB(db)
	var out []*Registration
	q := withRelations(db.NewSelect().Model(&out)).Order("r.created_at DESC")
	if filter.CompetitionCode != "" {
		q = q.Where("competition.code = ?", strings.ToUpper(filter.CompetitionCode))
	}
	if filter.VerificationStatus != "" {
		q = q.Where("r.verification_status = ?", filter.VerificationStatus)
	}
	if filter.CurrentPhase != "" {
		q = q.Where("r.current_phase = ?", filter.CurrentPhase)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return out, nil
}

// TeamNameExists reports whether a team name is taken, case-insensitively.
func (r *Impl) TeamNameExists(ctx context.Context, db bun.IDB, teamName string) (bool, error) {
	db = r.resolveDB(db)
	exists, err := db.NewSelect().
		Model((*Team)(nil)).
		Where("lower(team_name) = ?", strings.ToLower(strings.TrimSpace(teamName))).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check team name: %w", err)
	}
	return exists, nil
}

// FindMemberConflicts returns the emails that already belong to a team and
// the competition each is registered for.
func (r *Impl) FindMemberConflicts(ctx context.Context, db bun.IDB, emails []string) ([]MemberConflict, error) {
	db = r.resolveDB(db)
	if len(emails) == 0 {
		return nil, nil
	}
	lowered := make([]string, len(emails))
	for i, e := range emails {
		lowered[i] = strings.ToLower(e)
	}

	var out []MemberConflict
	err := db.NewSelect().
		TableExpr("team_members AS tm").
		ColumnExpr("tm.email AS email").
		ColumnExpr("c.code AS competition_code").
		Join("JOIN teams AS t ON t.id = tm.team_id").
		Join("JOIN registrations AS r ON r.id = t.registration_id").
		Join("JOIN competitions AS c ON c.id = r.competition_id").
		Where("lower(tm.email) IN (?)", bun.In(lowered)).
		OrderExpr("tm.email ASC").
		Scan(ctx, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to find member conflicts: %w", err)
	}
	return out, nil
}

// CreateRegistration inserts a registration.
func (r *Impl) CreateRegistration(ctx context.Context, db bun.IDB, reg *Registration) error {
	db = r.resolveDB(db)
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(reg).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

// CreateTeam inserts a team.
func (r *Impl) CreateTeam(ctx context.Context, db bun.IDB, team *Team) error {
	db = r.resolveDB(db)
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(team).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

// CreateMembers bulk-inserts team members.
func (r *Impl) CreateMembers(ctx context.Context, db bun.IDB, members []*TeamMember) error {
	db = r.resolveDB(db)
	if len(members) == 0 {
		return nil
	}
	for _, m := range members {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
	}
	if _, err := db.NewInsert().Model(&members).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create team members: %w", err)
	}
	return nil
}

// UpdateRegistration updates the given columns.
func (r *Impl) UpdateRegistration(ctx context.Context, db bun.IDB, reg *Registration, columns ...string) error {
	db = r.resolveDB(db)
	reg.UpdatedAt = time.Now()
	result, err := db.NewUpdate().
		Model(reg).
		Column(append(columns, "updated_at")...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update registration: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
