package submissiondb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for submission persistence.
type Repository interface {
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Submission, error)
	GetByRegistrationAndPhase(ctx context.Context, db bun.IDB, registrationID uuid.UUID, phase string) (*Submission, error)
	ListByRegistration(ctx context.Context, db bun.IDB, registrationID uuid.UUID) ([]*Submission, error)
	List(ctx context.Context, db bun.IDB, filter ListFilter) ([]*Submission, error)

	Create(ctx context.Context, db bun.IDB, sub *Submission) error
	Update(ctx context.Context, db bun.IDB, sub *Submission, columns ...string) error
}
