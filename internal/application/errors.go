package application

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateUser      = errors.New("user with this email or CNIC already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPendingApproval    = errors.New("account pending admin approval")
	ErrNotFound           = errors.New("not found")
	ErrStorage            = errors.New("storage failure")
	ErrUpstream           = errors.New("upstream failure")
)

// ValidationError is a caller-correctable input failure. It matches ErrValidation
// with errors.Is and carries per-field messages.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func newValidationError(msg string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: msg, Fields: fields}
}

func storageErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

func upstreamErr(err error) error {
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}
