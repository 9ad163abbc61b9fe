package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthenticated indicates that an operation needs an authenticated user and none was present.
var ErrUnauthenticated = errors.New("authentication required")

// ErrForbidden indicates that the caller may not access the resource (e.g. wrong invoice password).
var ErrForbidden = errors.New("forbidden")

// ErrOverLimit indicates that the user's overdraft usage exceeds the configured limit,
// so new transactions are refused until the balance is regularized.
var ErrOverLimit = errors.New("overdraft limit exceeded")

// ErrRemote indicates that the remote store rejected or failed an operation.
var ErrRemote = errors.New("remote store operation failed")

// ErrPartialUpdate indicates that a change was applied to local state but not persisted remotely.
var ErrPartialUpdate = errors.New("updated locally but not persisted")

// ErrNotReady indicates that the remote store schema could not be confirmed ready.
var ErrNotReady = errors.New("database not ready")

// AppError carries an HTTP status code alongside an infrastructure error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
