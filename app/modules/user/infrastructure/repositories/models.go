package userdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is a participant account. PasswordHash is nil for accounts created
// through Google sign-in.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID              uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Username        string     `bun:"username,unique,notnull" json:"username"`
	Email           string     `bun:"email,unique,notnull" json:"email"`
	PasswordHash    *string    `bun:"password_hash,nullzero" json:"-"`
	GoogleSubject   *string    `bun:"google_subject,nullzero,unique" json:"-"`
	Active          bool       `bun:"active,notnull" json:"active"`
	EmailVerifiedAt *time.Time `bun:"email_verified_at,nullzero" json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// HasPassword reports whether the account can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// ActivateToken is a one-time activation link for a credential account.
type ActivateToken struct {
	bun.BaseModel `bun:"table:activate_tokens,alias:at"`

	Token     string    `bun:"token,pk" json:"token"`
	UserID    uuid.UUID `bun:"user_id,type:uuid,notnull" json:"user_id"`
	ExpiresAt time.Time `bun:"expires_at,notnull" json:"expires_at"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// Staff is a committee account used for the admin back-office.
type Staff struct {
	bun.BaseModel `bun:"table:staff,alias:s"`

	ID           uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Email        string     `bun:"email,unique,notnull" json:"email"`
	FullName     string     `bun:"full_name,notnull" json:"full_name"`
	PasswordHash string     `bun:"password_hash,notnull" json:"-"`
	Role         string     `bun:"role,notnull" json:"role"`
	Active       bool       `bun:"active,notnull" json:"active"`
	LastLoginAt  *time.Time `bun:"last_login_at,nullzero" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
