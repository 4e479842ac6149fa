package domain

import (
	"errors"
	"fmt"
)

// Error codes carried in the backend response envelope.
const (
	CodeBadRequest           = "bad_request"
	CodeNotAuthenticated     = "not_authenticated"
	CodeInvalidCredentials   = "invalid_credentials"
	CodeTooManyAttempts      = "too_many_attempts"
	CodeWeakPassword         = "weak_password"
	CodeEmailTaken           = "email_taken"
	CodeForbidden            = "forbidden"
	CodeNotFound             = "not_found"
	CodeNotSingle            = "not_single"
	CodeDuplicateApplication = "duplicate_application"
	CodeConflict             = "conflict"
	CodeInternal             = "internal"
)

var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrDuplicateApplication = errors.New("already applied for this job")
	ErrWeakPassword         = errors.New("password is too weak: use at least 8 characters with uppercase, lowercase and numbers")
	ErrForbidden            = errors.New("operation not permitted")
	ErrNotFound             = errors.New("not found")
)

// BackendError is any transport or query failure that has no more specific kind.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
