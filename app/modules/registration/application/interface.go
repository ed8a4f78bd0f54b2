package registrationservice

import (
	"context"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	registrationdomain "github.com/ieee-sb/thesandbox/app/modules/registration/domain"
	"github.com/uptrace/bun"
)

// Service admits teams into competitions and exposes their registrations to
// participants and staff.
type Service interface {
	AdmitTeam(ctx context.Context, req registrationdomain.AdmissionRequest) (*AdmissionResult, error)
	LookupByEmail(ctx context.Context, email string) (*LookupResult, error)
	GetForUser(ctx context.Context, userID uuid.UUID) (*RegistrationView, error)

	ListRegistrations(ctx context.Context, filter ListFilter) ([]*RegistrationView, error)
	ReviewRegistration(ctx context.Context, actor *authdomain.Claims, id uuid.UUID, input ReviewInput) (*RegistrationView, error)
}

// PaymentStatusReader reports whether the registration fee has been
// verified. It is implemented by the payment repository.
type PaymentStatusReader interface {
	PaymentVerified(ctx context.Context, db bun.IDB, registrationID uuid.UUID) (bool, error)
}
