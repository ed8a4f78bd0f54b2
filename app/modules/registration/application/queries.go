package registrationservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	registrationdomain "github.com/ieee-sb/thesandbox/app/modules/registration/domain"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/ieee-sb/thesandbox/pkg/results"
)

// LookupByEmail reports whether email belongs to any team.
func (s *RegistrationService) LookupByEmail(ctx context.Context, email string) (*LookupResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	return operation.Unwrap(operation.Run(s.runner, ctx, "LookupByEmail", email, func(ctx context.Context) (results.OperationResult[*LookupResult, error], error) {
		if !registrationdomain.ValidEmail(email) {
			return operation.Fail[*LookupResult](apperrors.Validation("a valid email is required"))
		}

		reg, err := s.repo.GetByMemberEmail(ctx, nil, email)
		if err != nil {
			if errors.Is(err, registrationdb.ErrNotFound) {
				return operation.Succeed(&LookupResult{Registered: false})
			}
			return results.OperationResult[*LookupResult, error]{}, fmt.Errorf("failed to look up registration: %w", err)
		}

		view, err := s.view(ctx, nil, reg)
		if err != nil {
			return results.OperationResult[*LookupResult, error]{}, err
		}
		return operation.Succeed(&LookupResult{Registered: true, Registration: view})
	}))
}

// GetForUser returns the registration owned by userID.
func (s *RegistrationService) GetForUser(ctx context.Context, userID uuid.UUID) (*RegistrationView, error) {
	return operation.Unwrap(operation.Run(s.runner, ctx, "GetForUser", userID.String(), func(ctx context.Context) (results.OperationResult[*RegistrationView, error], error) {
		reg, err := s.repo.GetByUserID(ctx, nil, userID)
		if err != nil {
			if errors.Is(err, registrationdb.ErrNotFound) {
				return operation.Fail[*RegistrationView](apperrors.NotFound("you have not registered a team yet"))
			}
			return results.OperationResult[*RegistrationView, error]{}, fmt.Errorf("failed to get registration: %w", err)
		}

		view, err := s.view(ctx, nil, reg)
		if err != nil {
			return results.OperationResult[*RegistrationView, error]{}, err
		}
		return operation.Succeed(view)
	}))
}

// ListRegistrations returns registrations for the admin dashboard.
func (s *RegistrationService) ListRegistrations(ctx context.Context, filter ListFilter) ([]*RegistrationView, error) {
	return operation.Unwrap(operation.Run(s.runner, ctx, "ListRegistrations", filter.CompetitionCode, func(ctx context.Context) (results.OperationResult[[]*RegistrationView, error], error) {
		if filter.VerificationStatus != "" {
			switch registrationdomain.VerificationStatus(filter.VerificationStatus) {
			case registrationdomain.VerificationPending, registrationdomain.VerificationApproved, registrationdomain.VerificationRejected:
			default:
				return operation.Fail[[]*RegistrationView](apperrors.Validation(fmt.Sprintf("unknown status %q", filter.VerificationStatus)))
			}
		}

		rows, err := s.repo.List(ctx, nil, registrationdb.ListFilter{
			CompetitionCode:    filter.CompetitionCode,
			VerificationStatus: filter.VerificationStatus,
			CurrentPhase:       filter.CurrentPhase,
			Limit:              filter.Limit,
			Offset:             filter.Offset,
		})
		if err != nil {
			return results.OperationResult[[]*RegistrationView, error]{}, err
		}

		out := make([]*RegistrationView, 0, len(rows))
		for _, row := range rows {
			view, err := s.view(ctx, nil, row)
			if err != nil {
				return results.OperationResult[[]*RegistrationView, error]{}, err
			}
			out = append(out, view)
		}
		return operation.Succeed(out)
	}))
}
