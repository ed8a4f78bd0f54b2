package paymentservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	paymentdomain "github.com/ieee-sb/thesandbox/app/modules/payment/domain"
	paymentdb "github.com/ieee-sb/thesandbox/app/modules/payment/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/events"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/ieee-sb/thesandbox/pkg/results"
	"github.com/uptrace/bun"
)

type reviewed struct {
	view  *PaymentView
	event events.PaymentReviewedPayload
}

// Review verifies or rejects a pending proof.
func (s *PaymentService) Review(ctx context.Context, actor *authdomain.Claims, id uuid.UUID, input ReviewInput) (*PaymentView, error) {
	reviewTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*reviewed, error], error) {
		return s.reviewLogic(ctx, db, actor, id, input)
	}

	return operation.Unwrap(operation.Run(s.runner, ctx, "ReviewPayment", id.String(), func(ctx context.Context) (results.OperationResult[*PaymentView, error], error) {
		result, err := operation.InTx(s.runner, ctx, reviewTx)
		if err != nil {
			return results.OperationResult[*PaymentView, error]{}, err
		}
		if result.IsFailure() {
			return results.FailureResult[*PaymentView, error](*result.Failure), nil
		}

		done := *result.Success
		s.dispatcher.Dispatch(ctx, events.PaymentReviewedV1, done.event)
		return operation.Succeed(done.view)
	}))
}

func (s *PaymentService) reviewLogic(ctx context.Context, db bun.IDB, actor *authdomain.Claims, id uuid.UUID, input ReviewInput) (results.OperationResult[*reviewed, error], error) {
	if actor == nil || !actor.Can(authdomain.ActionVerifyPayments) {
		return operation.Fail[*reviewed](apperrors.New(apperrors.KindForbidden, apperrors.CodeCapabilityMissing, "your role cannot verify payments"))
	}
	if !input.Decision.IsValid() {
		return operation.Fail[*reviewed](apperrors.Validation(fmt.Sprintf("unknown decision %q", input.Decision)))
	}

	p, err := s.repo.GetByID(ctx, db, id)
	if err != nil {
		if errors.Is(err, paymentdb.ErrNotFound) {
			return operation.Fail[*reviewed](apperrors.NotFound("payment not found"))
		}
		return results.OperationResult[*reviewed, error]{}, fmt.Errorf("failed to get payment: %w", err)
	}
	if p.Status != string(paymentdomain.StatusPending) {
		return operation.Fail[*reviewed](apperrors.WithMetadata(
			apperrors.KindState, apperrors.CodeAlreadyReviewed, "payment has already been reviewed",
			map[string]any{"status": p.Status},
		))
	}

	now := s.clock.Now()
	reviewer := actor.Subject
	p.Status = string(input.Decision.Outcome())
	p.ReviewedBy = &reviewer
	p.ReviewedAt = &now
	p.ReviewNotes = strings.TrimSpace(input.Notes)
	if err := s.repo.Update(ctx, db, p, "status", "reviewed_by", "reviewed_at", "review_notes"); err != nil {
		return results.OperationResult[*reviewed, error]{}, fmt.Errorf("failed to update payment: %w", err)
	}

	reg := p.Registration
	if reg == nil {
		reg, err = s.loadRegistration(ctx, db, uuid.Nil, p.RegistrationID)
		if err != nil {
			return operation.Fail[*reviewed](err)
		}
	}

	view := toView(p)
	event := events.PaymentReviewedPayload{
		PaymentID:      p.ID,
		RegistrationID: p.RegistrationID,
		Status:         p.Status,
		Notes:          p.ReviewNotes,
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
