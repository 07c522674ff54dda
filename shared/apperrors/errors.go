package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Sentinel kinds. Every client-visible failure in the API wraps exactly
// one of these; the request boundary translates the kind to a status code.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNoTenant     = errors.New("no tenant")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation error")
)

// Error carries a kind plus a human-readable message.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// New wraps a kind with a message.
func New(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Newf wraps a kind with a formatted message.
func Newf(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// StatusCode maps an error kind to its HTTP status. Anything outside the
// taxonomy is a server-side failure.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNoTenant):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func label(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, ErrForbidden):
		return "Forbidden"
	case errors.Is(err, ErrNoTenant):
		return "No company"
	case errors.Is(err, ErrNotFound):
		return "Not found"
	case errors.Is(err, ErrConflict):
		return "Conflict"
	case errors.Is(err, ErrValidation):
		return "Validation error"
	default:
		return "Internal server error"
	}
}

// Respond writes the structured error response and aborts the request.
func Respond(c *gin.Context, err error) {
	message := err.Error()
	var appErr *Error
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	c.AbortWithStatusJSON(StatusCode(err), gin.H{
		"error":   label(err),
		"message": message,
	})
}
