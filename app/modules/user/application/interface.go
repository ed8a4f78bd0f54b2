package userservice

import (
	"context"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
)

// Service handles participant sign-in, account activation and committee
// accounts.
type Service interface {
	// Participants
	Activate(ctx context.Context, token string) (*ActivationResult, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	GoogleAuthURL(state string) (string, error)
	LoginWithGoogle(ctx context.Context, code string) (*Session, error)

	// Staff
	StaffLogin(ctx context.Context, email, password string) (*Session, error)
	CreateStaff(ctx context.Context, actor *authdomain.Claims, input CreateStaffInput) (*StaffInfo, error)
	ListStaff(ctx context.Context) ([]*StaffInfo, error)
	DeactivateStaff(ctx context.Context, actor *authdomain.Claims, id uuid.UUID) (*StaffInfo, error)

	// Maintenance
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}
