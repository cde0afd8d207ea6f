package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates a required collaborator is not configured.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnknownLocationType indicates a location type outside the decision table.
	ErrUnknownLocationType = errors.New("unknown location type")

	// ErrUnknownQuery indicates a query routine name the server does not serve.
	ErrUnknownQuery = errors.New("unknown query")

	// Lookup Errors.

	// ErrAmbiguousLookup indicates an address lookup returned zero or several
	// results. Auto-fill is skipped; callers never surface it to users.
	ErrAmbiguousLookup = errors.New("ambiguous address lookup")

	// ErrLookupFailed indicates the remote lookup call itself failed.
	ErrLookupFailed = errors.New("address lookup failed")

	// ErrRateLimited indicates the remote service rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Validation Errors.

	// ErrValidation indicates a document failed validation.
	ErrValidation = errors.New("validation failed")

	// ErrFieldLocked indicates a field changed after the document was first saved.
	ErrFieldLocked = errors.New("field cannot be changed after saving")
)

// ValidationError describes why a document failed validation.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	// Field is the offending field, if any.
	Field string

	// Reason is the user-facing message.
	Reason string

	// Err is the underlying sentinel, if more specific than ErrValidation.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is reports ErrValidation and the wrapped sentinel.
func (e *ValidationError) Is(target error) bool {
	if target == ErrValidation {
		return true
	}
	return e.Err != nil && errors.Is(e.Err, target)
}

// Unwrap returns the wrapped sentinel.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NewLockedFieldError creates a ValidationError for a locked field.
func NewLockedFieldError(field string) *ValidationError {
	return &ValidationError{
		Field:  field,
		Reason: fmt.Sprintf("field '%s' cannot be changed after saving", field),
		Err:    ErrFieldLocked,
	}
}
