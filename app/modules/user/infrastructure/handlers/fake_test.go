package userhandlers

import (
	"context"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	userservice "github.com/ieee-sb/thesandbox/app/modules/user/application"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
)

// ------------------------
// Fake User Service
// ------------------------

type FakeUserService struct {
	ActivateFunc        func(ctx context.Context, token string) (*userservice.ActivationResult, error)
	LoginFunc           func(ctx context.Context, email, password string) (*userservice.Session, error)
	GoogleAuthURLFunc   func(state string) (string, error)
	LoginWithGoogleFunc func(ctx context.Context, code string) (*userservice.Session, error)
	StaffLoginFunc      func(ctx context.Context, email, password string) (*userservice.Session, error)
	CreateStaffFunc     func(ctx context.Context, actor *authdomain.Claims, input userservice.CreateStaffInput) (*userservice.StaffInfo, error)
	ListStaffFunc       func(ctx context.Context) ([]*userservice.StaffInfo, error)
	DeactivateStaffFunc func(ctx context.Context, actor *authdomain.Claims, id uuid.UUID) (*userservice.StaffInfo, error)
}

var errNotConfigured = apperrors.New(apperrors.KindInternal, apperrors.CodeUnknown, "not configured")

func (f *FakeUserService) Activate(ctx context.Context, token string) (*userservice.ActivationResult, error) {
	if f.ActivateFunc != nil {
		return f.ActivateFunc(ctx, token)
	}
	return nil, errNotConfigured
}

func (f *FakeUserService) Login(ctx context.Context, email, password string) (*userservice.Session, error) {
	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, email, password)
	}
	return nil, errNotConfigured
}

func (f *FakeUserService) GoogleAuthURL(state string) (string, error) {
	if f.GoogleAuthURLFunc != nil {
		return f.GoogleAuthURLFunc(state)
	}
	return "", errNotConfigured
}

func (f *FakeUserService) LoginWithGoogle(ctx context.Context, code string) (*userservice.Session, error) {
	if f.LoginWithGoogleFunc != nil {
		return f.LoginWithGoogleFunc(ctx, code)
	}
	return nil, errNotConfigured
}

func (f *FakeUserService) StaffLogin(ctx context.Context, email, password string) (*userservice.Session, error) {
	if f.StaffLoginFunc != nil {
		return f.StaffLoginFunc(ctx, email, password)
	}
	return nil, errNotConfigured
}

func (f *FakeUserService) CreateStaff(ctx context.Context, actor *authdomain.Claims, input userservice.CreateStaffInput) (*userservice.StaffInfo, error) {
	if f.CreateStaffFunc != nil {
		return f.CreateStaffFunc(ctx, actor, input)
	}
	return nil, errNotConfigured
}

func (f *FakeUserService) ListStaff(ctx context.Context) ([]*userservice.StaffInfo, error) {
	if f.ListStaffFunc != nil {
		return f.ListStaffFunc(ctx)
	}
	return nil, errNotConfigured
}

func (f *FakeUserService) DeactivateStaff(ctx context.Context, actor *authdomain.Claims, id uuid.UUID) (*userservice.StaffInfo, error) {
	if f.DeactivateStaffFunc != nil {
		return f.DeactivateStaffFunc(ctx, actor, id)
	}
	return nil, errNotConfigured
}

func (f *FakeUserService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return 0, nil
}

var _ userservice.Service = (*FakeUserService)(nil)
