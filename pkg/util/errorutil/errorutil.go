package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/community-directory/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewBadRequest(message string) error {
	return NewDomainError("BAD_REQUEST", message, http.StatusBadRequest, nil)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewTooManyRequests(retryAfterSeconds int) error {
	return NewDomainError("RATE_LIMITED", "too many requests, try again shortly", http.StatusTooManyRequests,
		map[string]any{"retryAfter": retryAfterSeconds})
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts repository and service errors to a DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		var details map[string]any
		if len(verr.Fields) > 0 {
			details = map[string]any{"fields": verr.Fields}
		}
		return NewDomainError("VALIDATION_FAILED", verr.Message, http.StatusBadRequest, details)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := "HTTP_ERROR"
		switch fiberErr.Code {
		case http.StatusNotFound:
			code = "NOT_FOUND"
		case http.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			code = "BAD_REQUEST"
		case http.StatusRequestEntityTooLarge:
			code = "PAYLOAD_TOO_LARGE"
		}
		return NewDomainError(code, fiberErr.Message, fiberErr.Code, nil)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return NewDomainError("INVALID_ID", "invalid identifier", http.StatusBadRequest, nil)
	case errors.Is(err, domain.ErrValidation):
		return NewDomainError("VALIDATION_FAILED", err.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, domain.ErrNotFound):
		return NewNotFound("resource", nil).(*DomainError)
	case errors.Is(err, domain.ErrAlreadyExists):
		return NewConflict("resource already exists", nil).(*DomainError)
	case errors.Is(err, domain.ErrConflict):
		return NewConflict(err.Error(), nil).(*DomainError)
	case errors.Is(err, domain.ErrUnauthorized):
		return NewUnauthorized("authentication required").(*DomainError)
	case errors.Is(err, domain.ErrForbidden):
		return NewForbidden("insufficient permissions").(*DomainError)
	}

	return NewInternalError(err).(*DomainError)
}

func MapError(err error) error {
	return ToDomainError(err)
}
