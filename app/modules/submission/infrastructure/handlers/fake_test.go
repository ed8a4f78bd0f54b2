package submissionhandlers

import (
	"context"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
	submissionservice "github.com/ieee-sb/thesandbox/app/modules/submission/application"
	"github.com/ieee-sb/thesandbox/pkg/apperrors"
)

// ------------------------
// Fake Submission Service
// ------------------------

type FakeSubmissionService struct {
	SubmitFunc      func(ctx context.Context, caller *authdomain.Claims, phase string, input submissionservice.SubmitInput) (*submissionservice.SubmissionView, error)
	ListForUserFunc func(ctx context.Context, userID uuid.UUID) (*submissionservice.TeamSubmissions, error)
	ListFunc        func(ctx context.Context, filter submissionservice.ListFilter) ([]*submissionservice.SubmissionView, error)
	ReviewFunc      func(ctx context.Context, actor *authdomain.Claims, phase string, id uuid.UUID, input submissionservice.ReviewInput) (*submissionservice.SubmissionView, error)
}

func NewFakeSubmissionService() *FakeSubmissionService {
	return &FakeSubmissionService{}
}

func (f *FakeSubmissionService) Submit(ctx context.Context, caller *authdomain.Claims, phase string, input submissionservice.SubmitInput) (*submissionservice.SubmissionView, error) {
	if f.SubmitFunc != nil {
		return f.SubmitFunc(ctx, caller, phase, input)
	}
	return nil, apperrors.NotFound("registration not found")
}

func (f *FakeSubmissionService) ListForUser(ctx context.Context, userID uuid.UUID) (*submissionservice.TeamSubmissions, error) {
	if f.ListForUserFunc != nil {
		return f.ListForUserFunc(ctx, userID)
	}
	return nil, apperrors.NotFound("registration not found")
}

func (f *FakeSubmissionService) List(ctx context.Context, filter submissionservice.ListFilter) ([]*submissionservice.SubmissionView, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (f *FakeSubmissionService) Review(ctx context.Context, actor *authdomain.Claims, phase string, id uuid.UUID, input submissionservice.ReviewInput) (*submissionservice.SubmissionView, error) {
	if f.ReviewFunc != nil {
		return f.ReviewFunc(ctx, actor, phase, id, input)
	}
	return nil, apperrors.NotFound("submission not found")
}

var _ submissionservice.Service = (*FakeSubmissionService)(nil)
