// Package apperrors provides the structured error type shared by every
// service, and its mapping to HTTP status codes.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers and transports.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindState        Kind = "state"
	KindDependency   Kind = "dependency_failure"
	KindInternal     Kind = "internal"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeUnknown Code = "UNKNOWN"

	// Request errors
	CodeInvalidInput   Code = "INVALID_INPUT"
	CodeTeamSize       Code = "TEAM_SIZE_OUT_OF_RANGE"
	CodeDuplicateEmail Code = "DUPLICATE_EMAIL_IN_REQUEST"
	CodeInvalidFile    Code = "INVALID_FILE"

	// Lookup errors
	CodeNotFound            Code = "NOT_FOUND"
	CodeCompetitionNotFound Code = "COMPETITION_NOT_FOUND"

	// Uniqueness errors
	CodeTeamNameTaken       Code = "TEAM_NAME_TAKEN"
	CodeLeaderRegistered    Code = "LEADER_ALREADY_REGISTERED"
	CodeMemberRegistered    Code = "MEMBER_ALREADY_REGISTERED"
	CodeUsernameTaken       Code = "USERNAME_TAKEN"
	CodeAlreadySubmitted    Code = "ALREADY_SUBMITTED"
	CodePaymentVerified     Code = "PAYMENT_ALREADY_VERIFIED"
	CodeDuplicateRecord     Code = "DUPLICATE_RECORD"
	CodeStaffEmailTaken     Code = "STAFF_EMAIL_TAKEN"
	CodeCompetitionInactive Code = "COMPETITION_INACTIVE"

	// Authentication and authorization errors
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeUseSocialLogin     Code = "USE_SOCIAL_LOGIN"
	CodeAccountInactive    Code = "ACCOUNT_INACTIVE"
	CodeSessionRequired    Code = "SESSION_REQUIRED"
	CodeNotOwner           Code = "NOT_REGISTRATION_OWNER"
	CodePhaseNotAllowed    Code = "PHASE_NOT_ALLOWED"
	CodeCapabilityMissing  Code = "CAPABILITY_MISSING"

	// State errors
	CodeRegistrationClosed Code = "REGISTRATION_CLOSED"
	CodeSubmissionClosed   Code = "SUBMISSION_CLOSED"
	CodeAlreadyReviewed    Code = "ALREADY_REVIEWED"
	CodeTokenExpired       Code = "TOKEN_EXPIRED"
	CodePaymentRequired    Code = "PAYMENT_NOT_VERIFIED"
	CodeSelfDeactivation   Code = "SELF_DEACTIVATION"
	CodeNoFeeDue           Code = "NO_FEE_DUE"

	// Collaborator errors
	CodeDependencyFailure Code = "DEPENDENCY_FAILURE"
)

// Error is a structured application error.
type Error struct {
	Kind     Kind
	Code     Code
	Message  string
	Metadata map[string]any
	cause    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// New creates an error without metadata.
func New(kind Kind, code Code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// WithMetadata creates an error carrying structured detail for clients.
func WithMetadata(kind Kind, code Code, msg string, metadata map[string]any) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Metadata: metadata}
}

// Wrap creates an error that keeps cause reachable through errors.Is/As.
func Wrap(kind Kind, code Code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, cause: cause}
}

// Validation is shorthand for a KindValidation error with CodeInvalidInput.
func Validation(msg string) *Error {
	return New(KindValidation, CodeInvalidInput, msg)
}

// NotFound is shorthand for a KindNotFound error.
func NotFound(msg string) *Error {
	return New(KindNotFound, CodeNotFound, msg)
}

// Dependency marks a failed call to an external collaborator.
func Dependency(msg string, cause error) *Error {
	return Wrap(KindDependency, CodeDependencyFailure, msg, cause)
}

// KindOf extracts the kind from any error. Unknown errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind checks if the error has the specified kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// GetCode extracts the error code from any error.
// Returns CodeUnknown if the error is not an application error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode checks if the error has the specified code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// GetMetadata extracts metadata from an error if present.
func GetMetadata(err error) map[string]any {
	var e *Error
	if errors.As(err, &e) {
		return e.Metadata
	}
	return nil
}

// HTTPStatus maps a kind to its response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindState:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatus returns the response status for any error.
func HTTPStatus(err error) int {
	return KindOf(err).HTTPStatus()
}
