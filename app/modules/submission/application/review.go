package submissionservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	submissiondomain "github.com/ieee-sb/thesandbox/app/modules/submission/domain"
	submissiondb "github.com/ieee-sb/thesandbox/app/modules/submission/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/events"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/ieee-sb/thesandbox/pkg/results"
	"github.com/uptrace/bun"
)

type reviewed struct {
	view  *SubmissionView
	event events.SubmissionReviewedPayload
}

// Review records a staff decision on a pending submission. Approval advances
// the team to the next phase in the same transaction.
func (s *SubmissionService) Review(ctx context.Context, actor *authdomain.Claims, phaseName string, id uuid.UUID, input ReviewInput) (*SubmissionView, error) {
	reviewTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*reviewed, error], error) {
		return s.reviewLogic(ctx, db, actor, phaseName, id, input)
	}

	return operation.Unwrap(operation.Run(s.runner, ctx, "ReviewSubmission", id.String(), func(ctx context.Context) (results.OperationResult[*SubmissionView, error], error) {
		result, err := operation.InTx(s.runner, ctx, reviewTx)
		if err != nil {
			return results.OperationResult[*SubmissionView, error]{}, err
		}
		if result.IsFailure() {
			return results.FailureResult[*SubmissionView, error](*result.Failure), nil
		}

		done := *result.Success
		s.dispatcher.Dispatch(ctx, events.SubmissionReviewedV1, done.event)
		return operation.Succeed(done.view)
	}))
}

func (s *SubmissionService) reviewLogic(ctx context.Context, db bun.IDB, actor *authdomain.Claims, phaseName string, id uuid.UUID, input ReviewInput) (results.OperationResult[*reviewed, error], error) {
	if actor == nil || !actor.Can(authdomain.ActionReviewSubmissions) {
		return operation.Fail[*reviewed](apperrors.New(apperrors.KindForbidden, apperrors.CodeCapabilityMissing, "your role cannot review submissions"))
	}
	phase, ok := submissiondomain.ParsePhase(phaseName)
	if !ok {
		return operation.Fail[*reviewed](apperrors.Validation(fmt.Sprintf("unknown submission phase %q", phaseName)))
	}
	if !input.Decision.IsValid() {
		return operation.Fail[*reviewed](apperrors.Validation(fmt.Sprintf("unknown decision %q", input.Decision)))
	}

	sub, err := s.repo.GetByID(ctx, db, id)
	if err != nil {
		if errors.Is(err, submissiondb.ErrNotFound) {
			return operation.Fail[*reviewed](apperrors.NotFound("submission not found"))
		}
		return results.OperationResult[*reviewed, error]{}, fmt.Errorf("failed to get submission: %w", err)
	}
	if sub.Phase != string(phase) {
		return operation.Fail[*reviewed](apperrors.NotFound("submission not found"))
	}
	if sub.Status != string(submissiondomain.StatusPending) {
		return operation.Fail[*reviewed](apperrors.WithMetadata(
			apperrors.KindState, apperrors.CodeAlreadyReviewed, "submission has already been reviewed",
			map[string]any{"status": sub.Status},
		))
	}

	reg := sub.Registration
	if reg == nil {
		reg, err = s.registrations.GetByID(ctx, db, sub.RegistrationID)
		if err != nil {
			if errors.Is(err, registrationdb.ErrNotFound) {
				return operation.Fail[*reviewed](apperrors.NotFound("registration not found"))
			}
			return results.OperationResult[*reviewed, error]{}, fmt.Errorf("failed to get registration: %w", err)
		}
	}
	comp, err := s.competitionFor(ctx, db, reg)
	if err != nil {
		return operation.Fail[*reviewed](err)
	}

	switch input.Decision {
	case submissiondomain.DecisionApprove:
		if reg.CurrentPhase != sub.Phase {
			return operation.Fail[*reviewed](apperrors.WithMetadata(
				apperrors.KindState, apperrors.CodePhaseNotAllowed, "the team is no longer in the "+phase.String()+" phase",
				map[string]any{"currentPhase": reg.CurrentPhase},
			))
		}
		transition, _ := submissiondomain.ApprovalTransition(phase, comp.ToDomain().Dates.HasFinal())

		columns := []string{"current_phase"}
		reg.CurrentPhase = string(transition.NextPhase)
		if transition.SetPreliminaryQualified {
			reg.IsPreliminaryQualified = true
			columns = append(columns, "is_preliminary_qualified")
		}
		if transition.SetSemifinalQualified {
			reg.IsSemifinalQualified = true
			columns = append(columns, "is_semifinal_qualified")
		}
		if err := s.registrations.UpdateRegistration(ctx, db, reg, columns...); err != nil {
			return results.OperationResult[*reviewed, error]{}, fmt.Errorf("failed to advance registration: %w", err)
		}
		sub.Status = string(transition.SubmissionStatus)
	case submissiondomain.DecisionReject:
		sub.Status = string(submissiondomain.StatusRejected)
	}

	now := s.clock.Now()
	reviewer := actor.Subject
	sub.ReviewedBy = &reviewer
	sub.ReviewedAt = &now
	sub.ReviewNotes = strings.TrimSpace(input.Notes)
	if err := s.repo.Update(ctx, db, sub, "status", "reviewed_by", "reviewed_at", "review_notes"); err != nil {
		return results.OperationResult[*reviewed, error]{}, fmt.Errorf("failed to update submission: %w", err)
	}

	view := toView(sub)
	view.CompetitionCode = comp.Code
	event := events.SubmissionReviewedPayload{
		SubmissionID:    sub.ID,
		RegistrationID:  reg.ID,
		CompetitionCode: comp.Code,
		Phase:           sub.Phase,
		Status:          sub.Status,
		Notes:           sub.ReviewNotes,
	}
	if reg.Team != nil {
		view.TeamName = reg.Team.TeamName
		event.TeamName = reg.Team.TeamName
		if leader := reg.Team.Leader(); leader != nil {
			event.LeaderEmail = leader.Email
		}
	}

	return operation.Succeed(&reviewed{view: view, event: event})
}

