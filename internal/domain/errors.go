package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Store-level sentinels surfaced by repository implementations.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// APIError is the typed domain error carried from services to the HTTP
// boundary. StatusCode selects the response class; Errors holds optional
// field-level detail.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

func NewValidationError(message string, details ...string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Message: message, Errors: details}
}

func NewUnauthorizedError(message string) *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, Message: message}
}

func NewForbiddenError(message string) *APIError {
	return &APIError{StatusCode: http.StatusForbidden, Message: message}
}

func NewNotFoundError(message string) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, Message: message}
}

func NewConflictError(message string) *APIError {
	return &APIError{StatusCode: http.StatusConflict, Message: message}
}

func NewTooManyRequestsError(message string) *APIError {
	return &APIError{StatusCode: http.StatusTooManyRequests, Message: message}
}

func NewInternalError(message string) *APIError {
	return &APIError{StatusCode: http.StatusInternalServerError, Message: message}
}
