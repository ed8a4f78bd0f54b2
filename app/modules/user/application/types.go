package userservice

import (
	"time"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	userdb "github.com/ieee-sb/thesandbox/app/modules/user/infrastructure/repositories"
)

// Session is a signed session token and who it belongs to.
type Session struct {
	Token     string                 `json:"token"`
	ExpiresAt time.Time              `json:"expiresAt"`
	Subject   uuid.UUID              `json:"subject"`
	Kind      authdomain.SubjectKind `json:"kind"`
	Email     string                 `json:"email"`
	Name      string                 `json:"name"`
	Role      authdomain.Role        `json:"role"`
}

// ActivationResult describes an account that was just activated.
type ActivationResult struct {
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// CreateStaffInput is the payload for a new committee account.
type CreateStaffInput struct {
	Email    string          `json:"email"`
	FullName string          `json:"fullName"`
	Password string          `json:"password"`
	Role     authdomain.Role `json:"role"`
}

// StaffInfo is the public view of a staff account.
type StaffInfo struct {
	ID          uuid.UUID       `json:"id"`
	Email       string          `json:"email"`
	FullName    string          `json:"fullName"`
	Role        authdomain.Role `json:"role"`
	Active      bool            `json:"active"`
	LastLoginAt *time.Time      `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toStaffInfo(s *userdb.Staff) *StaffInfo {
	return &StaffInfo{
		ID:          s.ID,
		Email:       s.Email,
		FullName:    s.FullName,
		Role:        authdomain.Role(s.Role),
		Active:      s.Active,
		LastLoginAt: s.LastLoginAt,
		CreatedAt:   s.CreatedAt,
	}
}
