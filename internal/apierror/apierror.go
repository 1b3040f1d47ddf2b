// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "errors"

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation error", Fields: fields}
}

// Sentinel errors returned by the service layer. Handlers translate them into
// HTTP status codes; nothing else crosses the service boundary untyped.
var (
	// ErrNotFound covers missing rows and rows outside the caller's tenant
	// scope. The two cases are indistinguishable on purpose.
	ErrNotFound = errors.New("not found")

	// ErrNotOpen is returned when an operation requires an open register
	// session or tab and the target is already closed.
	ErrNotOpen = errors.New("not open")

	// ErrAlreadyClosed is returned on a second close of a register session.
	ErrAlreadyClosed = errors.New("already closed")

	// ErrInvalidTransition is returned on a non-monotonic order status change.
	// The UI only offers valid next states, so hitting this is a programming
	// error; the handler logs it loudly instead of coercing the state.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrValidation is the classification target for Validationf errors.
	ErrValidation = errors.New("validation")
)

// Validationf marks a caller-input error with a field-level message. It wraps
// ErrValidation so handlers can classify it with errors.Is.
func Validationf(msg string) error {
	return &validationErr{msg: msg}
}

type validationErr struct{ msg string }

func (e *validationErr) Error() string        { return e.msg }
func (e *validationErr) Is(target error) bool { return target == ErrValidation }
