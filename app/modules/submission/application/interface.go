package submissionservice

import (
	"context"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
)

// Service accepts phase uploads from team leaders and records staff reviews.
type Service interface {
	Submit(ctx context.Context, caller *authdomain.Claims, phase string, input SubmitInput) (*SubmissionView, error)
	ListForUser(ctx context.Context, userID uuid.UUID) (*TeamSubmissions, error)

	List(ctx context.Context, filter ListFilter) ([]*SubmissionView, error)
	Review(ctx context.Context, actor *authdomain.Claims, phase string, id uuid.UUID, input ReviewInput) (*SubmissionView, error)
}
