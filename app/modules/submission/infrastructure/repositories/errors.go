package submissiondb

import "errors"

var (
	// ErrNotFound indicates the requested submission does not exist.
	ErrNotFound = errors.New("submission not found")

	// ErrNoRowsAffected indicates an UPDATE affected zero rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)

// ConstraintRegistrationPhase is the unique index on (registration_id, phase).
const ConstraintRegistrationPhase = "uq_submissions_registration_phase"
