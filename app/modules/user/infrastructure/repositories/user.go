package userdb

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

// NewRepository creates a new user repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// --- Users ---

// GetUserByID retrieves a user by ID.
func (r *Impl) GetUserByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*User, error) {
	return r.getUser(ctx, db, "id = ?", id)
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (r *Impl) GetUserByEmail(ctx context.Context, db bun.IDB, email string) (*User, error) {
	return r.getUser(ctx, db, "lower(email) = ?", strings.ToLower(strings.TrimSpace(email)))
}

// GetUserByGoogleSubject retrieves a user linked to a Google account.
func (r *Impl) GetUserByGoogleSubject(ctx context.Context, db bun.IDB, subject string) (*User, error) {
	return r.getUser(ctx, db, "google_subject = ?", subject)
}

func (r *Impl) getUser(ctx context.Context, db bun.IDB, where string, arg any) (*User, error) {
	db = r.resolveDB(db)
	user := new(User)
	err := db.NewSelect().
		Model(user).
		Where(where, arg).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UsernameExists reports whether a username is taken.
func (r *Impl) UsernameExists(ctx context.Context, db bun.IDB, username string) (bool, error) {
	db = r.resolveDB(db)
	exists, err := db.NewSelect().
		Model((*User)(nil)).
		Where("lower(username) = ?", strings.ToLower(username)).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

// CreateUser inserts a user and fills its generated ID.
func (r *Impl) CreateUser(ctx context.Context, db bun.IDB, user *User) error {
	db = r.resolveDB(db)
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(user).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUser updates the given columns of a user.
func (r *Impl) UpdateUser(ctx context.Context, db bun.IDB, user *User, columns ...string) error {
	db = r.resolveDB(db)
	user.UpdatedAt = time.Now()
	result, err := db.NewUpdate().
		Model(user).
		Column(append(columns, "updated_at")...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return checkAffected(result)
}

// --- Activation tokens ---

// CreateActivateToken inserts an activation token.
func (r *Impl) CreateActivateToken(ctx context.Context, db bun.IDB, token *ActivateToken) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(token).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create activation token: %w", err)
	}
	return nil
}

// GetActivateToken retrieves an activation token.
func (r *Impl) GetActivateToken(ctx context.Context, db bun.IDB, token string) (*ActivateToken, error) {
	db = r.resolveDB(db)
	t := new(ActivateToken)
	err := db.NewSelect().
		Model(t).
		Where("token = ?", token).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get activation token: %w", err)
	}
	return t, nil
}

// DeleteActivateToken removes a token.
func (r *Impl) DeleteActivateToken(ctx context.Context, db bun.IDB, token string) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*ActivateToken)(nil)).
		Where("token = ?", token).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete activation token: %w", err)
	}
	return checkAffected(result)
}

// DeleteExpiredActivateTokens removes tokens that expired before now.
func (r *Impl) DeleteExpiredActivateTokens(ctx context.Context, db bun.IDB, now time.Time) (int64, error) {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*ActivateToken)(nil)).
		Where("expires_at < ?", now).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// --- Staff ---

// GetStaffByID retrieves a staff account by ID.
func (r *Impl) GetStaffByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Staff, error) {
	return r.getStaff(ctx, db, "id = ?", id)
}

// GetStaffByEmail retrieves a staff account by email, case-insensitively.
func (r *Impl) GetStaffByEmail(ctx context.Context, db bun.IDB, email string) (*Staff, error) {
	return r.getStaff(ctx, db, "lower(email) = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *Impl) getStaff(ctx context.Context, db bun.IDB, where string, arg any) (*Staff, error) {
	db = r.resolveDB(db)
	staff := new(Staff)
	err := db.NewSelect().
		Model(staff).
		Where(where, arg).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return staff, nil
}

// ListStaff returns all staff accounts ordered by creation.
func (r *Impl) ListStaff(ctx context.Context, db bun.IDB) ([]*Staff, error) {
	db = r.resolveDB(db)
	var out []*Staff
	if err := db.NewSelect().Model(&out).Order("created_at ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return out, nil
}

// CreateStaff inserts a staff account.
func (r *Impl) CreateStaff(ctx context.Context, db bun.IDB, staff *Staff) error {
	db = r.resolveDB(db)
	if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(staff).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create staff: %w", err)
	}
	return nil
}

// UpdateStaff updates the given columns of a staff account.
func (r *Impl) UpdateStaff(ctx context.Context, db bun.IDB, staff *Staff, columns ...string) error {
	db = r.resolveDB(db)
	staff.UpdatedAt = time.Now()
	result, err := db.NewUpdate().
		Model(staff).
		Column(append(columns, "updated_at")...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update staff: %w", err)
	}
	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
