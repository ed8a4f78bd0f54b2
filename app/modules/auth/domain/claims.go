package authdomain

import (
	"time"

	"github.com/google/uuid"
)

// SubjectKind tells which account table a session subject lives in.
type SubjectKind string

const (
	SubjectUser  SubjectKind = "user"
	SubjectStaff SubjectKind = "staff"
)

// Claims represents the domain model for authentication claims.
type Claims struct {
	Subject   uuid.UUID
	Kind      SubjectKind
	Email     string
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsExpired checks if the claims have expired.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// IsStaff reports whether the session belongs to a committee account.
func (c *Claims) IsStaff() bool {
	return c.Kind == SubjectStaff && c.Role.IsStaff()
}

// Can reports whether the session role may perform action.
func (c *Claims) Can(action Action) bool {
	return Can(c.Role, action)
}
