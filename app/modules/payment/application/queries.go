package paymentservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	paymentdomain "github.com/ieee-sb/thesandbox/app/modules/payment/domain"
	paymentdb "github.com/ieee-sb/thesandbox/app/modules/payment/infrastructure/repositories"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
	"github.com/ieee-sb/thesandbox/pkg/operation"
	"github.com/ieee-sb/thesandbox/pkg/results"
)

// GetForUser returns the payment proof of the caller's registration.
func (s *PaymentService) GetForUser(ctx context.Context, userID uuid.UUID) (*PaymentView, error) {
	return operation.Unwrap(operation.Run(s.runner, ctx, "GetPaymentForUser", userID.String(), func(ctx context.Context) (results.OperationResult[*PaymentView, error], error) {
		reg, err := s.loadRegistration(ctx, nil, userID, uuid.Nil)
		if err != nil {
			return operation.Fail[*PaymentView](err)
		}
		p, err := s.repo.GetByRegistration(ctx, nil, reg.ID)
		if err != nil {
			if errors.Is(err, paymentdb.ErrNotFound) {
				return operation.Fail[*PaymentView](apperrors.NotFound("no payment proof uploaded yet"))
			}
			return results.OperationResult[*PaymentView, error]{}, fmt.Errorf("failed to get payment: %w", err)
		}
		view := toView(p)
		if reg.Team != nil {
			view.TeamName = reg.Team.TeamName
		}
		return operation.Succeed(view)
	}))
}

// List returns payment proofs for staff.
func (s *PaymentService) List(ctx context.Context, filter ListFilter) ([]*PaymentView, error) {
	return operation.Unwrap(operation.Run(s.runner, ctx, "ListPayments", filter.Status, func(ctx context.Context) (results.OperationResult[[]*PaymentView, error], error) {
		if filter.Status != "" && !paymentdomain.Status(filter.Status).IsValid() {
			return operation.Fail[[]*PaymentView](apperrors.Validation(fmt.Sprintf("unknown status %q", filter.Status)))
		}

		payments, err := s.repo.List(ctx, nil, paymentdb.ListFilter{
			Status:          filter.Status,
			CompetitionCode: filter.CompetitionCode,
			Limit:           filter.Limit,
			Offset:          filter.Offset,
		})
		if err != nil {
			return results.OperationResult[[]*PaymentView, error]{}, err
		}

		out := make([]*PaymentView, 0, len(payments))
		for _, p := range payments {
			out = append(out, toView(p))
		}
		return operation.Succeed(out)
	}))
}
