package competitiondb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for competition persistence.
type Repository interface {
	// GetByCode retrieves a competition by its track code.
	GetByCode(ctx context.Context, db bun.IDB, code string) (*Competition, error)

	// GetByID retrieves a competition by its ID.
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Competition, error)

	// List returns competitions ordered by code.
	List(ctx context.Context, db bun.IDB, activeOnly bool) ([]*Competition, error)

	// UpdateSettings persists schedule, fee and active flag.
	UpdateSettings(ctx context.Context, db bun.IDB, c *Competition) error
}
