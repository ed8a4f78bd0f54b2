package paymentdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for payment persistence.
type Repository interface {
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Payment, error)
	GetByRegistration(ctx context.Context, db bun.IDB, registrationID uuid.UUID) (*Payment, error)
	List(ctx context.Context, db bun.IDB, filter ListFilter) ([]*Payment, error)
	PaymentVerified(ctx context.Context, db bun.IDB, registrationID uuid.UUID) (bool, error)

	Create(ctx context.Context, db bun.IDB, p *Payment) error
	Update(ctx context.Context, db bun.IDB, p *Payment, columns ...string) error
}
