// Package dberrors classifies Postgres errors returned through bun.
package dberrors

import (
	"errors"

	"github.com/uptrace/bun/driver/pgdriver"
)

const sqlstateUniqueViolation = "23505"

// fieldError is satisfied by pgdriver.Error and by other drivers exposing
// protocol error fields.
type fieldError interface {
	error
	Field(k byte) string
}

func asFieldError(err error) (fieldError, bool) {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	var fe fieldError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// UniqueViolation reports whether err is a unique constraint violation and
// returns the violated constraint name.
func UniqueViolation(err error) (constraint string, ok bool) {
	if err == nil {
		return "", false
	}
	fe, ok := asFieldError(err)
	if !ok || fe.Field('C') != sqlstateUniqueViolation {
		return "", false
	}
	return fe.Field('n'), true
}
