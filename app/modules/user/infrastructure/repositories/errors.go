package userdb

import "errors"

// Sentinel errors for the user repository layer. Services decide how to map
// these into application errors.
var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("user record not found")

	// ErrNoRowsAffected indicates an UPDATE/DELETE affected zero rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)

// Unique index names on the users table.
const (
	ConstraintUsername = "idx_users_username"
	ConstraintEmail    = "idx_users_email"
)
