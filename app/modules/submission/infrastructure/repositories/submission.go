package submissiondb

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

// NewRepository creates a new submission repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetByID retrieves a submission with its registration, team and competition.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Submission, error) {
	db = r.resolveDB(db)
	sub := new(Submission)
	err := db.NewSelect().
		Model(sub).
		Relation("Registration").
		Relation("Registration.Team").
		Relation("Registration.Team.Members").
		Relation("Registration.Competition").
		Where("sub.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return sub, nil
}

// GetByRegistrationAndPhase retrieves the submission of a registration for
// one phase.
func (r *Impl) GetByRegistrationAndPhase(ctx context.Context, db bun.IDB, registrationID uuid.UUID, phase string) (*Submission, error) {
	db = r.resolveDB(db)
	sub := new(Submission)
	err := db.NewSelect().
		Model(sub).
		Where("sub.registration_id = ?", registrationID).
		Where("sub.phase = ?", phase).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return sub, nil
}

// ListByRegistration returns the submissions of a registration in phase
// order.
func (r *Impl) ListByRegistration(ctx context.Context, db bun.IDB, registrationID uuid.UUID) ([]*Submission, error) {
	db = r.resolveDB(db)
	var out []*Submission
	err := db.NewSelect().
		Model(&out).
		Where("sub.registration_id = ?", registrationID).
		OrderExpr("sub.submitted_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return out, nil
}

// List returns submissions matching filter, oldest first.
func (r *Impl) List(ctx context.Context, db bun.IDB, filter ListFilter) ([]*Submission, error) {
	db = r.resolveDB(db)
	var out []*Submission
	q := db.NewSelect().
		Model(&out).
		Relation("Registration").
		Relation("Registration.Team").
		Relation("Registration.Competition").
		OrderExpr("sub.submitted_at ASC")
	if filter.Phase != "" {
		q = q.Where("sub.phase = ?", filter.Phase)
	}
	if filter.Status != "" {
		q = q.Where("sub.status = ?", filter.Status)
	}
	if filter.CompetitionCode != "" {
		q = q.Where("registration__competition.code = ?", strings.ToUpper(filter.CompetitionCode))
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return out, nil
}

// Create inserts a submission.
func (r *Impl) Create(ctx context.Context, db bun.IDB, sub *Submission) error {
	db = r.resolveDB(db)
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(sub).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

// Update updates the given columns.
func (r *Impl) Update(ctx context.Context, db bun.IDB, sub *Submission, columns ...string) error {
	db = r.resolveDB(db)
	sub.UpdatedAt = time.Now()
	result, err := db.NewUpdate().
		Model(sub).
		Column(append(columns, "updated_at")...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
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
