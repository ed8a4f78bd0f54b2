package registrationdb

import "errors"

var (
	// ErrNotFound indicates the requested registration does not exist.
	ErrNotFound = errors.New("registration not found")

	// ErrNoRowsAffected indicates an UPDATE affected zero rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)

// Unique constraint names, used to map violations at write time.
const (
	ConstraintTeamName     = "idx_teams_team_name"
	ConstraintMemberEmail  = "idx_team_members_email"
	ConstraintRegistration = "registrations_user_id_key"
)
