package registrationdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for registration, team and member
// persistence. Reads load the Team (with ordered Members), User and
// Competition relations.
type Repository interface {
	GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*Registration, error)
	GetByUserID(ctx context.Context, db bun.IDB, userID uuid.UUID) (*Registration, error)
	GetByMemberEmail(ctx context.Context, db bun.IDB, email string) (*Registration, error)
	List(ctx context.Context, db bun.IDB, filter ListFilter) ([]*Registration, error)

	TeamNameExists(ctx context.Context, db bun.IDB, teamName string) (bool, error)
	FindMemberConflicts(ctx context.Context, db bun.IDB, emails []string) ([]MemberConflict, error)

	CreateRegistration(ctx context.Context, db bun.IDB, reg *Registration) error
	CreateTeam(ctx context.Context, db bun.IDB, team *Team) error
	CreateMembers(ctx context.Context, db bun.IDB, members []*TeamMember) error
	UpdateRegistration(ctx context.Context, db bun.IDB, reg *Registration, columns ...string) error
}
