package apperrors

import (
	"errors"
	"fmt"
)

// Record and reference errors
var (
	// ErrNotFound is returned when the primary record of an operation does
	// not exist. A missing *referenced* record is never reported with this
	// error; dangling references are tolerated at read time.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an insert or update collides with an
	// existing record on a domain-unique key (rollNo, email, subID, ...).
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrDanglingReference is returned in strict mode when a write supplies
	// a reference id that names no existing record.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrReferentialConflict is returned when a restrict-policy delete is
	// blocked by records still referencing the target.
	ErrReferentialConflict = errors.New("referential conflict")

	// ErrCascadeIncomplete reports a degraded success: the delete itself
	// committed but one or more referrer cleanup updates failed, leaving
	// dangling references behind.
	ErrCascadeIncomplete = errors.New("cascade cleanup incomplete")

	// ErrStorageUnavailable wraps transient storage collaborator failures.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Validation errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrEmailAlreadyExists = errors.New("email already registered")
)

// Referrer identifies a record holding a reference to some target record.
type Referrer struct {
	EntityType string `json:"entityType"`
	ID         string `json:"id"`
	Field      string `json:"field"`
}

// CustomError carries additional context (offending field, referrer list)
// alongside a sentinel error so callers can still match with errors.Is.
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements the error interface.
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap exposes the sentinel for errors.Is / errors.As.
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails attaches context details to the error.
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewNotFoundError creates a not-found error for a primary record.
func NewNotFoundError(entityType, id string) *CustomError {
	return &CustomError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s %s not found", entityType, id),
		Details: map[string]interface{}{"entityType": entityType, "id": id},
	}
}

// NewDuplicateKeyError creates a conflict error naming the colliding field.
func NewDuplicateKeyError(field string) *CustomError {
	return &CustomError{
		Err:     ErrDuplicateKey,
		Message: fmt.Sprintf("a record with this %s already exists", field),
		Details: map[string]interface{}{"field": field},
	}
}

// NewDanglingReferenceError names the reference field and the id that does
// not resolve to an existing record.
func NewDanglingReferenceError(field, id string) *CustomError {
	return &CustomError{
		Err:     ErrDanglingReference,
		Message: fmt.Sprintf("reference field %s names nonexistent record %s", field, id),
		Details: map[string]interface{}{"field": field, "id": id},
	}
}

// NewReferentialConflictError names the records blocking a restrict-policy
// delete so the caller can resolve them manually.
func NewReferentialConflictError(referrers []Referrer) *CustomError {
	return &CustomError{
		Err:     ErrReferentialConflict,
		Message: fmt.Sprintf("record is still referenced by %d other record(s)", len(referrers)),
		Details: map[string]interface{}{"referrers": referrers},
	}
}

// NewCascadeIncompleteError reports referrers whose cleanup failed after the
// target delete already committed.
func NewCascadeIncompleteError(remaining []Referrer, cause error) *CustomError {
	return &CustomError{
		Err:     ErrCascadeIncomplete,
		Message: fmt.Sprintf("delete committed but %d referrer cleanup(s) failed", len(remaining)),
		Details: map[string]interface{}{"referrers": remaining, "cause": cause.Error()},
	}
}

// NewValidationError creates a validation error with a message.
func NewValidationError(message string) *CustomError {
	return &CustomError{Err: ErrValidationFailed, Message: message}
}

// ReferrersFrom extracts the referrer list from a conflict error, if any.
func ReferrersFrom(err error) []Referrer {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Details != nil {
		if refs, ok := ce.Details["referrers"].([]Referrer); ok {
			return refs
		}
	}
	return nil
}
