package registrationservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	competitiondomain "github.com/ieee-sb/thesandbox/app/modules/competition/domain"
	registrationdomain "github.com/ieee-sb/thesandbox/app/modules/registration/domain"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/events"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/ieee-sb/thesandbox/pkg/results"
	"github.com/uptrace/bun"
)

// ReviewRegistration records a committee decision on a pending registration.
// Approval moves the team into the preliminary phase.
func (s *RegistrationService) ReviewRegistration(ctx context.Context, actor *authdomain.Claims, id uuid.UUID, input ReviewInput) (*RegistrationView, error) {
	reviewTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*RegistrationView, error], error) {
		return s.reviewLogic(ctx, db, actor, id, input)
	}

	return operation.Unwrap(operation.Run(s.runner, ctx, "ReviewRegistration", id.String(), func(ctx context.Context) (results.OperationResult[*RegistrationView, error], error) {
		result, err := operation.InTx(s.runner, ctx, reviewTx)
		if err != nil || result.IsFailure() {
			return result, err
		}

		view := *result.Success
		s.dispatcher.Dispatch(ctx, events.RegistrationReviewedV1, events.RegistrationReviewedPayload{
			RegistrationID:  view.ID,
			CompetitionCode: view.CompetitionCode,
			TeamName:        view.TeamName,
			LeaderEmail:     view.LeaderEmail(),
			Status:          view.VerificationStatus,
			Notes:           view.ReviewNotes,
		})
		return result, nil
	}))
}

func (s *RegistrationService) reviewLogic(ctx context.Context, db bun.IDB, actor *authdomain.Claims, id uuid.UUID, input ReviewInput) (results.OperationResult[*RegistrationView, error], error) {
	if actor == nil || !actor.Can(authdomain.ActionReviewRegistrations) {
		return operation.Fail[*RegistrationView](apperrors.New(apperrors.KindForbidden, apperrors.CodeCapabilityMissing, "your role cannot review registrations"))
	}
	if !input.Decision.IsValid() {
		return operation.Fail[*RegistrationView](apperrors.Validation(fmt.Sprintf("unknown decision %q", input.Decision)))
	}

	reg, err := s.repo.GetByID(ctx, db, id)
	if err != nil {
		if errors.Is(err, registrationdb.ErrNotFound) {
			return operation.Fail[*RegistrationView](apperrors.NotFound("registration not found"))
		}
		return results.OperationResult[*RegistrationView, error]{}, fmt.Errorf("failed to get registration: %w", err)
	}

	if reg.VerificationStatus != string(registrationdomain.VerificationPending) {
		return operation.Fail[*RegistrationView](apperrors.WithMetadata(
			apperrors.KindState, apperrors.CodeAlreadyReviewed, "registration has already been reviewed",
			map[string]any{"status": reg.VerificationStatus},
		))
	}

	comp, err := s.competitionFor(ctx, db, reg)
	if err != nil {
		return results.OperationResult[*RegistrationView, error]{}, err
	}

	if input.Decision == registrationdomain.DecisionApprove && comp != nil && comp.RegistrationFee > 0 && s.payments != nil {
		verified, err := s.payments.PaymentVerified(ctx, db, reg.ID)
		if err != nil {
			return results.OperationResult[*RegistrationView, error]{}, fmt.Errorf("failed to check payment: %w", err)
		}
		if !verified {
			return operation.Fail[*RegistrationView](apperrors.WithMetadata(
				apperrors.KindState, apperrors.CodePaymentRequired, "the registration fee has not been verified",
				map[string]any{"fee": comp.RegistrationFee},
			))
		}
	}

	now := s.clock.Now()
	reviewer := actor.Subject
	reg.ReviewedBy = &reviewer
	reg.ReviewedAt = &now
	reg.ReviewNotes = strings.TrimSpace(input.Notes)
	columns := []string{"verification_status", "reviewed_by", "reviewed_at", "review_notes"}

	switch input.Decision {
	case registrationdomain.DecisionApprove:
		reg.VerificationStatus = string(registrationdomain.VerificationApproved)
		reg.CurrentPhase = string(competitiondomain.PhasePreliminary)
		columns = append(columns, "current_phase")
	case registrationdomain.DecisionReject:
		reg.VerificationStatus = string(registrationdomain.VerificationRejected)
	}

	if err := s.repo.UpdateRegistration(ctx, db, reg, columns...); err != nil {
		return results.OperationResult[*RegistrationView, error]{}, fmt.Errorf("failed to update registration: %w", err)
	}

	return operation.Succeed(toView(reg, comp))
}
