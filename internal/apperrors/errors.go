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

// ErrForbidden indicates an attempt to touch a resource owned by another tenant.
var ErrForbidden = errors.New("access to resource denied")

// ErrPrecondition indicates the resource is in a state that rejects the operation
// (closed account, negative-balance policy violation, already-reversed journal).
var ErrPrecondition = errors.New("operation precondition failed")

// ErrUnavailable indicates the storage transaction aborted (serialization
// failure or deadlock); the whole call is safe to retry.
var ErrUnavailable = errors.New("storage transaction aborted, retry")

// ErrInternal indicates an unexpected failure that should not reach callers
// with any substrate detail attached.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower-level failure with a stable code and a message that
// is safe to surface. The wrapped error stays available for logs via Unwrap.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}
