package competitiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a competition is not found.
var ErrNotFound = errors.New("competition not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new competition repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetByCode retrieves a competition by its track code.
func (r *Impl) GetByCode(ctx context.Context, db bun.IDB, code string) (*Competition, error) {
	db = r.resolveDB(db)
	c := new(Competition)
	err := db.NewSelect().
		Model(c).
		Where("code = ?", code).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get competition by code: %w", err)
	}
	return c, nil
}

// GetByID retrieves a competition by its ID.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Competition, error) {
	db = r.resolveDB(db)
	c := new(Competition)
	err := db.NewSelect().
		Model(c).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get competition by ID: %w", err)
	}
	return c, nil
}

// List returns competitions ordered by code.
func (r *Impl) List(ctx context.Context, db bun.IDB, activeOnly bool) ([]*Competition, error) {
	db = r.resolveDB(db)
	var out []*Competition
	q := db.NewSelect().Model(&out).Order("code ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list competitions: %w", err)
	}
	return out, nil
}

// UpdateSettings persists schedule, fee and active flag.
func (r *Impl) UpdateSettings(ctx context.Context, db bun.IDB, c *Competition) error {
	db = r.resolveDB(db)
	c.UpdatedAt = time.Now()
	result, err := db.NewUpdate().
		Model(c).
		Column(
			"registration_open", "registration_deadline",
			"preliminary_start", "preliminary_deadline",
			"semifinal_start", "semifinal_deadline",
			"final_start", "final_deadline", "grand_final",
			"registration_fee", "is_active", "updated_at",
		).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update competition: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
