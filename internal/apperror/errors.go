package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a domain error carrying the HTTP status it maps to at the
// request boundary. Internal holds the underlying cause and is never
// serialized to the client.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Internal
}

const (
	CodeValidation           = "VALIDATION_ERROR"
	CodeConflict             = "CONFLICT"
	CodeNotFound             = "NOT_FOUND"
	CodeRoleMismatch         = "ROLE_MISMATCH"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeAmountMismatch       = "AMOUNT_MISMATCH"
	CodeInsufficientQuantity = "INSUFFICIENT_QUANTITY"
	CodeUpstream             = "UPSTREAM_ERROR"
	CodeInternal             = "INTERNAL_ERROR"
)

// NewValidationError - missing required field or enum violation.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewConflictError - duplicate unique key.
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewNotFoundError - dangling foreign key or missing record.
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    message,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewRoleMismatchError - profile kind does not match the user's role.
func NewRoleMismatchError(message string) *AppError {
	return &AppError{
		Code:       CodeRoleMismatch,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewInvalidTransitionError - illegal status change.
func NewInvalidTransitionError(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidTransition,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewAmountMismatchError - payment amount does not equal the order total.
func NewAmountMismatchError(message string) *AppError {
	return &AppError{
		Code:       CodeAmountMismatch,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewInsufficientQuantityError - a reservation would oversell the listing.
func NewInsufficientQuantityError(message string) *AppError {
	return &AppError{
		Code:       CodeInsufficientQuantity,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewUpstreamError - an external collaborator failed; never silently
// replaced with fabricated results.
func NewUpstreamError(message string, internal error) *AppError {
	return &AppError{
		Code:       CodeUpstream,
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Internal:   internal,
	}
}

func NewInternalError(message string, internal error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Internal:   internal,
	}
}

// FromError returns err as an AppError, wrapping unknown errors as internal.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("internal server error", err)
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
