package paymentdb

import "errors"

var (
	// ErrNotFound indicates the requested payment does not exist.
	ErrNotFound = errors.New("payment not found")

	// ErrNoRowsAffected indicates an UPDATE affected zero rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)

// ConstraintRegistration is the unique index on registration_id.
const ConstraintRegistration = "payments_registration_id_key"
