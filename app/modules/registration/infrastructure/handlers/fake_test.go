package registrationhandlers

import (
	"context"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	registrationservice "github.com/ieee-sb/thesandbox/app/modules/registration/application"
	registrationdomain "github.com/ieee-sb/thesandbox/app/modules/registration/domain"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
)

// --------------------------
// Fake Registration Service
// --------------------------

type FakeRegistrationService struct {
	AdmitTeamFunc          func(ctx context.Context, req registrationdomain.AdmissionRequest) (*registrationservice.AdmissionResult, error)
	LookupByEmailFunc      func(ctx context.Context, email string) (*registrationservice.LookupResult, error)
	GetForUserFunc         func(ctx context.Context, userID uuid.UUID) (*registrationservice.RegistrationView, error)
	ListRegistrationsFunc  func(ctx context.Context, filter registrationservice.ListFilter) ([]*registrationservice.RegistrationView, error)
	ReviewRegistrationFunc func(ctx context.Context, actor *authdomain.Claims, id uuid.UUID, input registrationservice.ReviewInput) (*registrationservice.RegistrationView, error)
}

func NewFakeRegistrationService() *FakeRegistrationService {
	return &FakeRegistrationService{}
}

func (f *FakeRegistrationService) AdmitTeam(ctx context.Context, req registrationdomain.AdmissionRequest) (*registrationservice.AdmissionResult, error) {
	if f.AdmitTeamFunc != nil {
		return f.AdmitTeamFunc(ctx, req)
	}
	return nil, apperrors.NotFound("competition not found")
}

func (f *FakeRegistrationService) LookupByEmail(ctx context.Context, email string) (*registrationservice.LookupResult, error) {
	if f.LookupByEmailFunc != nil {
		return f.LookupByEmailFunc(ctx, email)
	}
	return &registrationservice.LookupResult{}, nil
}

func (f *FakeRegistrationService) GetForUser(ctx context.Context, userID uuid.UUID) (*registrationservice.RegistrationView, error) {
	if f.GetForUserFunc != nil {
		return f.GetForUserFunc(ctx, userID)
	}
	return nil, apperrors.NotFound("registration not found")
}

func (f *FakeRegistrationService) ListRegistrations(ctx context.Context, filter registrationservice.ListFilter) ([]*registrationservice.RegistrationView, error) {
	if f.ListRegistrationsFunc != nil {
		return f.ListRegistrationsFunc(ctx, filter)
	}
	return nil, nil
}

func (f *FakeRegistrationService) ReviewRegistration(ctx context.Context, actor *authdomain.Claims, id uuid.UUID, input registrationservice.ReviewInput) (*registrationservice.RegistrationView, error) {
	if f.ReviewRegistrationFunc != nil {
		return f.ReviewRegistrationFunc(ctx, actor, id, input)
	}
	return nil, apperrors.NotFound("registration not found")
}

var _ registrationservice.Service = (*FakeRegistrationService)(nil)
