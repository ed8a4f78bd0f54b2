package paymenthandlers

import (
	"context"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	paymentservice "github.com/ieee-sb/thesandbox/app/modules/payment/application"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
)

type FakePaymentService struct {
	SubmitProofFunc func(ctx context.Context, caller *authdomain.Claims, input paymentservice.ProofInput) (*paymentservice.PaymentView, error)
	GetForUserFunc  func(ctx context.Context, userID uuid.UUID) (*paymentservice.PaymentView, error)
	ListFunc        func(ctx context.Context, filter paymentservice.ListFilter) ([]*paymentservice.PaymentView, error)
	ReviewFunc      func(ctx context.Context, actor *authdomain.Claims, id uuid.UUID, input paymentservice.ReviewInput) (*paymentservice.PaymentView, error)
}

func (f *FakePaymentService) SubmitProof(ctx context.Context, caller *authdomain.Claims, input paymentservice.ProofInput) (*paymentservice.PaymentView, error) {
	if f.SubmitProofFunc != nil {
		return f.SubmitProofFunc(ctx, caller, input)
	}
	return nil, apperrors.NotFound("registration not found")
}

func (f *FakePaymentService) GetForUser(ctx context.Context, userID uuid.UUID) (*paymentservice.PaymentView, error) {
	if f.GetForUserFunc != nil {
		return f.GetForUserFunc(ctx, userID)
	}
	return nil, apperrors.NotFound("no payment proof uploaded yet")
}

func (f *FakePaymentService) List(ctx context.Context, filter paymentservice.ListFilter) ([]*paymentservice.PaymentView, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (f *FakePaymentService) Review(ctx context.Context, actor *authdomain.Claims, id uuid.UUID, input paymentservice.ReviewInput) (*paymentservice.PaymentView, error) {
	if f.ReviewFunc != nil {
		return f.ReviewFunc(ctx, actor, id, input)
	}
	return nil, apperrors.NotFound("payment not found")
}

var _ paymentservice.Service = (*FakePaymentService)(nil)
