package paymentservice

import (
	"context"

	"github.com/google/uuid"
	authdomain "github.com/ieee-sb/thesandbox/app/modules/auth/domain"
)

// Service records registration fee proofs and their verification.
type Service interface {
	SubmitProof(ctx context.Context, caller *authdomain.Claims, input ProofInput) (*PaymentView, error)
	GetForUser(ctx context.Context, userID uuid.UUID) (*PaymentView, error)

	List(ctx context.Context, filter ListFilter) ([]*PaymentView, error)
	Review(ctx context.Context, actor *authdomain.Claims, id uuid.UUID, input ReviewInput) (*PaymentView, error)
}
