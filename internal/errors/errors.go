// Package errors defines the error types shared by the workflow engine and
// its HTTP surface.
package errors

import (
	"fmt"
	"net/http"
)

// APIError is the error type every service operation surfaces. HTTPStatus is
// only consulted by the HTTP layer; library callers switch on Code.
type APIError struct {
	HTTPStatus int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Predefined errors
var (
	ErrBadRequest          = &APIError{HTTPStatus: http.StatusBadRequest, Code: "BAD_REQUEST", Message: "Invalid request parameters"}
	ErrInvalidJSON         = &APIError{HTTPStatus: http.StatusBadRequest, Code: "INVALID_JSON", Message: "Invalid JSON format"}
	ErrValidation          = &APIError{HTTPStatus: http.StatusBadRequest, Code: "VALIDATION_FAILED", Message: "Validation failed"}
	ErrInvalidInput        = &APIError{HTTPStatus: http.StatusBadRequest, Code: "INVALID_INPUT", Message: "Invalid input"}
	ErrUnauthorized        = &APIError{HTTPStatus: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "Authentication required"}
	ErrForbidden           = &APIError{HTTPStatus: http.StatusForbidden, Code: "FORBIDDEN", Message: "The actor's role does not permit this operation"}
	ErrResourceNotFound    = &APIError{HTTPStatus: http.StatusNotFound, Code: "NOT_FOUND", Message: "Resource not found"}
	ErrDuplicateResource   = &APIError{HTTPStatus: http.StatusConflict, Code: "DUPLICATE_RESOURCE", Message: "Resource already exists"}
	ErrDuplicateOrdinal    = &APIError{HTTPStatus: http.StatusConflict, Code: "DUPLICATE_ORDINAL", Message: "A segment with this ordinal already exists in the document"}
	ErrInvalidTransition   = &APIError{HTTPStatus: http.StatusConflict, Code: "INVALID_TRANSITION", Message: "Illegal segment state transition"}
	ErrConflict            = &APIError{HTTPStatus: http.StatusConflict, Code: "CONFLICT", Message: "The resource was modified concurrently, re-fetch and retry"}
	ErrInternalServer      = &APIError{HTTPStatus: http.StatusInternalServerError, Code: "INTERNAL_SERVER_ERROR", Message: "Internal server error"}
	ErrDatabase            = &APIError{HTTPStatus: http.StatusInternalServerError, Code: "DATABASE_ERROR", Message: "Database operation failed"}
	ErrProviderUnavailable = &APIError{HTTPStatus: http.StatusBadGateway, Code: "PROVIDER_UNAVAILABLE", Message: "Translation provider is unavailable"}
	ErrRateLimited         = &APIError{HTTPStatus: http.StatusTooManyRequests, Code: "RATE_LIMITED", Message: "Translation provider rate limit reached"}
)

// NewAPIError creates a copy of a predefined error with a custom message.
func NewAPIError(base *APIError, message string) *APIError {
	return &APIError{
		HTTPStatus: base.HTTPStatus,
		Code:       base.Code,
		Message:    message,
	}
}

// NewAPIErrorf creates a copy of a predefined error with a formatted message.
func NewAPIErrorf(base *APIError, format string, args ...any) *APIError {
	return NewAPIError(base, fmt.Sprintf(format, args...))
}

// NewValidationError creates a validation error with a custom message.
func NewValidationError(message string) *APIError {
	return NewAPIError(ErrValidation, message)
}

// NewNotFoundError creates a not-found error with a custom message.
func NewNotFoundError(message string) *APIError {
	return NewAPIError(ErrResourceNotFound, message)
}

// NewInvalidTransitionError reports an illegal state-machine move, naming the
// entity, its current state, and the attempted target state.
func NewInvalidTransitionError(entityID, from, to string) *APIError {
	return NewAPIErrorf(ErrInvalidTransition, "segment %s: cannot transition from %q to %q", entityID, from, to)
}

// NewConflictError reports a stale-version write.
func NewConflictError(entityID string, expected, actual int64) *APIError {
	return NewAPIErrorf(ErrConflict, "segment %s: version mismatch (expected %d, actual %d)", entityID, expected, actual)
}

// NewUnauthorizedError reports a role-check failure with actor and action context.
func NewUnauthorizedError(actorID, action string) *APIError {
	return NewAPIErrorf(ErrForbidden, "actor %s is not allowed to %s", actorID, action)
}

// IsCode reports whether err is an APIError carrying the given code.
func IsCode(err error, code string) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Code == code
}
