package errors

import (
	"errors"
	"fmt"
)

// Error categories. Handlers map these to HTTP status; specific errors below wrap one of them.
var (
	ErrValidation       = errors.New("validation failed")
	ErrUnauthorized     = errors.New("not authorized")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrProfileRequired  = errors.New("profile required")
)

// Specific errors.
var (
	ErrUnauthenticated      = classified(ErrUnauthorized, "authentication required")
	ErrNotCreator           = classified(ErrUnauthorized, "only the project creator can delete this project")
	ErrNotApplicationOwner  = classified(ErrUnauthorized, "only the applicant can withdraw this application")
	ErrSelfApplication      = classified(ErrUnauthorized, "project creators cannot apply to their own project")
	ErrProjectNotFound      = classified(ErrNotFound, "project not found")
	ErrProfileNotFound      = classified(ErrNotFound, "applicant profile not found")
	ErrSlugTaken            = classified(ErrConflict, "slug already taken")
	ErrDuplicateApplication = classified(ErrConflict, "application already exists for this project and user")
	ErrSlugExhausted        = classified(ErrConflict, "could not allocate a unique slug")
	ErrInvalidToken         = classified(ErrUnauthorized, "invalid or expired token")
)

type classifiedError struct {
	msg  string
	kind error
}

func classified(kind error, msg string) error {
	return &classifiedError{msg: msg, kind: kind}
}

func (e *classifiedError) Error() string { return e.msg }

func (e *classifiedError) Unwrap() error { return e.kind }

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidation builds a ValidationError.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ProfileRequiredError signals that the principal must complete profile setup first.
// Destination is where the caller wanted to go; SetupPath resumes there once setup completes.
type ProfileRequiredError struct {
	Destination string
	SetupPath   string
}

func (e *ProfileRequiredError) Error() string {
	return "profile required before continuing to " + e.Destination
}

func (e *ProfileRequiredError) Unwrap() error { return ErrProfileRequired }

// Unavailable wraps a persistence or auth dependency failure.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
