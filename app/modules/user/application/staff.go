package userservice

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	userdomain "github.com/ieee-sb/thesandbox/app/modules/user/domain"
	userdb "github.com/ieee-sb/thesandbox/app/modules/user/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/ieee-sb/thesandbox/pkg/results"
	"github.com/uptrace/bun"
)

// StaffLogin signs a committee member in.
func (s *UserService) StaffLogin(ctx context.Context, email, password string) (*Session, error) {
	loginTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*Session, error], error) {
		staff, err := s.repo.GetStaffByEmail(ctx, db, email)
		if err != nil {
			if errors.Is(err, userdb.ErrNotFound) {
				return operation.Fail[*Session](errInvalidCredentials)
			}
			return results.OperationResult[*Session, error]{}, fmt.Errorf("failed to get staff: %w", err)
		}

		if err := userdomain.ComparePassword(staff.PasswordHash, password); err != nil {
			if errors.Is(err, userdomain.ErrPasswordMismatch) {
				return operation.Fail[*Session](errInvalidCredentials)
			}
			return results.OperationResult[*Session, error]{}, err
		}
		if !staff.Active {
			return operation.Fail[*Session](apperrors.New(apperrors.KindUnauthorized, apperrors.CodeAccountInactive, "this committee account has been deactivated"))
		}

		now := s.clock.Now()
		staff.LastLoginAt = &now
		if err := s.repo.UpdateStaff(ctx, db, staff, "last_login_at"); err != nil {
			return results.OperationResult[*Session, error]{}, fmt.Errorf("failed to record staff login: %w", err)
		}

		session, err := s.issueSession(staff.ID, authdomain.SubjectStaff, staff.Email, staff.FullName, authdomain.Role(staff.Role))
		if err != nil {
			return results.OperationResult[*Session, error]{}, err
		}
		return operation.Succeed(session)
	}

	return operation.Unwrap(operation.Run(s.runner, ctx, "StaffLogin", email, func(ctx context.Context) (results.OperationResult[*Session, error], error) {
		return operation.InTx(s.runner, ctx, loginTx)
	}))
}

// CreateStaff adds a committee account. Only roles allowed to manage staff
// may call it.
func (s *UserService) CreateStaff(ctx context.Context, actor *authdomain.Claims, input CreateStaffInput) (*StaffInfo, error) {
	createTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*StaffInfo, error], error) {
		return s.createStaffLogic(ctx, db, actor, input)
	}

	return operation.Unwrap(operation.Run(s.runner, ctx, "CreateStaff", input.Email, func(ctx context.Context) (results.OperationResult[*StaffInfo, error], error) {
		return operation.InTx(s.runner, ctx, createTx)
	}))
}

func (s *UserService) createStaffLogic(ctx context.Context, db bun.IDB, actor *authdomain.Claims, input CreateStaffInput) (results.OperationResult[*StaffInfo, error], error) {
	if actor == nil || !actor.Can(authdomain.ActionManageStaff) {
		return operation.Fail[*StaffInfo](apperrors.New(apperrors.KindForbidden, apperrors.CodeCapabilityMissing, "your role cannot manage staff"))
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)
	if problems := validateStaffInput(input); len(problems) > 0 {
		return operation.Fail[*StaffInfo](apperrors.WithMetadata(
			apperrors.KindValidation, apperrors.CodeInvalidInput, "invalid staff account",
			map[string]any{"problems": problems},
		))
	}

	if _, err := s.repo.GetStaffByEmail(ctx, db, input.Email); err == nil {
		return operation.Fail[*StaffInfo](apperrors.New(apperrors.KindConflict, apperrors.CodeStaffEmailTaken, "a staff account with this email already exists"))
	} else if !errors.Is(err, userdb.ErrNotFound) {
		return results.OperationResult[*StaffInfo, error]{}, fmt.Errorf("failed to check staff email: %w", err)
	}

	hash, err := userdomain.HashPassword(input.Password)
	if err != nil {
		return results.OperationResult[*StaffInfo, error]{}, err
	}

	staff := &userdb.Staff{
		ID:           uuid.New(),
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: hash,
		Role:         input.Role.String(),
		Active:       true,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.CreateStaff(ctx, db, staff); err != nil {
		return results.OperationResult[*StaffInfo, error]{}, err
	}

	return operation.Succeed(toStaffInfo(staff))
}

func validateStaffInput(input CreateStaffInput) []string {
	var problems []string
	if _, err := mail.ParseAddress(input.Email); err != nil {
		problems = append(problems, "email is invalid")
	}
	if input.FullName == "" {
		problems = append(problems, "full name is required")
	}
	if len(input.Password) < userdomain.MinPasswordLength {
		problems = append(problems, fmt.Sprintf("password must be at least %d characters", userdomain.MinPasswordLength))
	}
	if !input.Role.IsStaff() {
		problems = append(problems, "role must be reviewer, admin or superadmin")
	}
	return problems
}

// ListStaff returns every committee account.
func (s *UserService) ListStaff(ctx context.Context) ([]*StaffInfo, error) {
	return operation.Unwrap(operation.Run(s.runner, ctx, "ListStaff", "all", func(ctx context.Context) (results.OperationResult[[]*StaffInfo, error], error) {
		rows, err := s.repo.ListStaff(ctx, nil)
		if err != nil {
			return results.OperationResult[[]*StaffInfo, error]{}, err
		}
		out := make([]*StaffInfo, 0, len(rows))
		for _, row := range rows {
			out = append(out, toStaffInfo(row))
		}
		return operation.Succeed(out)
	}))
}

// DeactivateStaff disables a committee account. Accounts cannot deactivate
// themselves.
func (s *UserService) DeactivateStaff(ctx context.Context, actor *authdomain.Claims, id uuid.UUID) (*StaffInfo, error) {
	deactivateTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*StaffInfo, error], error) {
		if actor == nil || !actor.Can(authdomain.ActionManageStaff) {
			return operation.Fail[*StaffInfo](apperrors.New(apperrors.KindForbidden, apperrors.CodeCapabilityMissing, "your role cannot manage staff"))
		}
		if actor.Subject == id {
			return operation.Fail[*StaffInfo](apperrors.New(apperrors.KindForbidden, apperrors.CodeSelfDeactivation, "you cannot deactivate your own account"))
		}

		staff, err := s.repo.GetStaffByID(ctx, db, id)
		if err != nil {
			if errors.Is(err, userdb.ErrNotFound) {
				return operation.Fail[*StaffInfo](apperrors.NotFound("staff account not found"))
			}
			return results.OperationResult[*StaffInfo, error]{}, err
		}

		if staff.Active {
			staff.Active = false
			if err := s.repo.UpdateStaff(ctx, db, staff, "active"); err != nil {
				return results.OperationResult[*StaffInfo, error]{}, err
			}
		}
		return operation.Succeed(toStaffInfo(staff))
	}

	return operation.Unwrap(operation.Run(s.runner, ctx, "DeactivateStaff", id.String(), func(ctx context.Context) (results.OperationResult[*StaffInfo, error], error) {
		return operation.InTx(s.runner, ctx, deactivateTx)
	}))
}
