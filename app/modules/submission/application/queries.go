package submissionservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	competitiondomain "github.com/ieee-sb/thesandbox/app/modules/competition/domain"
	registrationdb "github.com/ieee-sb/thesandbox/app/modules/registration/infrastructure/repositories"
	submissiondomain "github.com/ieee-sb/thesandbox/app/modules/submission/domain"
	submissiondb "github.com/ieee-sb/thesandbox/app/modules/submission/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/ieee-sb/thesandbox/pkg/results"
)

// ListForUser returns the submissions of the caller's team and the files the
// current phase asks for.
func (s *SubmissionService) ListForUser(ctx context.Context, userID uuid.UUID) (*TeamSubmissions, error) {
	return operation.Unwrap(operation.Run(s.runner, ctx, "ListForUser", userID.String(), func(ctx context.Context) (results.OperationResult[*TeamSubmissions, error], error) {
		reg, err := s.registrations.GetByUserID(ctx, nil, userID)
		if err != nil {
			if errors.Is(err, registrationdb.ErrNotFound) {
				return operation.Fail[*TeamSubmissions](apperrors.NotFound("you have not registered a team"))
			}
			return results.OperationResult[*TeamSubmissions, error]{}, fmt.Errorf("failed to get registration: %w", err)
		}
		comp, err := s.competitionFor(ctx, nil, reg)
		if err != nil {
			return operation.Fail[*TeamSubmissions](err)
		}

		subs, err := s.repo.ListByRegistration(ctx, nil, reg.ID)
		if err != nil {
			return results.OperationResult[*TeamSubmissions, error]{}, err
		}

		out := &TeamSubmissions{
			RegistrationID: reg.ID,
			CurrentPhase:   reg.CurrentPhase,
			Required:       submissiondomain.RequiredFiles(competitiondomain.Code(comp.Code), competitiondomain.Phase(reg.CurrentPhase)),
			Submissions:    make([]*SubmissionView, 0, len(subs)),
		}
		for _, sub := range subs {
			v := toView(sub)
			v.CompetitionCode = comp.Code
			if reg.Team != nil {
				v.TeamName = reg.Team.TeamName
			}
			out.Submissions = append(out.Submissions, v)
		}
		return operation.Succeed(out)
	}))
}

// List returns submissions for staff.
func (s *SubmissionService) List(ctx context.Context, filter ListFilter) ([]*SubmissionView, error) {
	return operation.Unwrap(operation.Run(s.runner, ctx, "ListSubmissions", filter.Phase, func(ctx context.Context) (results.OperationResult[[]*SubmissionView, error], error) {
		if filter.Phase != "" {
			if _, ok := submissiondomain.ParsePhase(filter.Phase); !ok {
				return operation.Fail[[]*SubmissionView](apperrors.Validation(fmt.Sprintf("unknown submission phase %q", filter.Phase)))
			}
		}
		switch submissiondomain.Status(filter.Status) {
		case "", submissiondomain.StatusPending, submissiondomain.StatusQualified, submissiondomain.StatusApproved, submissiondomain.StatusRejected:
		default:
			return operation.Fail[[]*SubmissionView](apperrors.Validation(fmt.Sprintf("unknown status %q", filter.Status)))
		}

		subs, err := s.repo.List(ctx, nil, submissiondb.ListFilter{
			Phase:           filter.Phase,
			Status:          filter.Status,
			CompetitionCode: filter.CompetitionCode,
			Limit:           filter.Limit,
			Offset:          filter.Offset,
		})
		if err != nil {
			return results.OperationResult[[]*SubmissionView, error]{}, err
		}

		out := make([]*SubmissionView, 0, len(subs))
		for _, sub := range subs {
			out = append(out, toView(sub))
		}
		return operation.Succeed(out)
	}))
}
