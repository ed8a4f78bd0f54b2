package paymentdb

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

// NewRepository creates a new payment repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetByID retrieves a payment with its registration, team and competition.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Payment, error) {
	db = r.resolveDB(db)
	p := new(Payment)
	err := db.NewSelect().
		Model(p).
		Relation("Registration").
		Relation("Registration.Team").
		Relation("Registration.Team.Members").
		Relation("Registration.Competition").
		Where("p.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

// GetByRegistration retrieves the payment of a registration.
func (r *Impl) GetByRegistration(ctx context.Context, db bun.IDB, registrationID uuid.UUID) (*Payment, error) {
	db = r.resolveDB(db)
	p := new(Payment)
	err := db.NewSelect().
		Model(p).
		Where("p.registration_id = ?", registrationID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

// List returns payments matching filter, newest first.
func (r *Impl) List(ctx context.Context, db bun.IDB, filter ListFilter) ([]*Payment, error) {
	db = r.resolveDB(db)
	var out []*Payment
	q := db.NewSelect().
		Model(&out).
		Relation("Registration").
		Relation("Registration.Team").
		Relation("Registration.Competition").
		OrderExpr("p.submitted_at DESC")
	if filter.Status != "" {
		q = q.Where("p.status = ?", filter.Status)
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
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return out, nil
}

// PaymentVerified reports whether the registration has a verified proof.
func (r *Impl) PaymentVerified(ctx context.Context, db bun.IDB, registrationID uuid.UUID) (bool, error) {
	db = r.resolveDB(db)
	exists, err := db.NewSelect().
		Model((*Payment)(nil)).
		Where("p.registration_id = ?", registrationID).
		Where("p.status = ?", "verified").
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check payment: %w", err)
	}
	return exists, nil
}

// Create inserts a payment.
func (r *Impl) Create(ctx context.Context, db bun.IDB, p *Payment) error {
	db = r.resolveDB(db)
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(p).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// Update updates the given columns.
func (r *Impl) Update(ctx context.Context, db bun.IDB, p *Payment, columns ...string) error {
	db = r.resolveDB(db)
	p.UpdatedAt = time.Now()
	result, err := db.NewUpdate().
		Model(p).
		Column(append(columns, "updated_at")...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
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
