package userdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for user, activation token and staff
// persistence. A nil db uses the repository's own handle.
type Repository interface {
	// Users
	GetUserByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, db bun.IDB, email string) (*User, error)
	GetUserByGoogleSubject(ctx context.Context, db bun.IDB, subject string) (*User, error)
	UsernameExists(ctx context.Context, db bun.IDB, username string) (bool, error)
	CreateUser(ctx context.Context, db bun.IDB, user *User) error
	UpdateUser(ctx context.Context, db bun.IDB, user *User, columns ...string) error

	// Activation tokens
	CreateActivateToken(ctx context.Context, db bun.IDB, token *ActivateToken) error
	GetActivateToken(ctx context.Context, db bun.IDB, token string) (*ActivateToken, error)
	DeleteActivateToken(ctx context.Context, db bun.IDB, token string) error
	DeleteExpiredActivateTokens(ctx context.Context, db bun.IDB, now time.Time) (int64, error)

	// Staff
	GetStaffByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Staff, error)
	GetStaffByEmail(ctx context.Context, db bun.IDB, email string) (*Staff, error)
	ListStaff(ctx context.Context, db bun.IDB) ([]*Staff, error)
	CreateStaff(ctx context.Context, db bun.IDB, staff *Staff) error
	UpdateStaff(ctx context.Context, db bun.IDB, staff *Staff, columns ...string) error
}
