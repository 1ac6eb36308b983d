package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"foodshare-service/internal/domain"
)

// Error codes returned in the "error" field of failure responses.
const (
	CodeInvalidRequest       = "InvalidRequest"
	CodeValidationError      = "ValidationError"
	CodeUnauthorized         = "Unauthorized"
	CodeForbidden            = "Forbidden"
	CodeNotFound             = "ResourceNotFound"
	CodeConflict             = "Conflict"
	CodeInvalidTransition    = "InvalidTransition"
	CodeInsufficientQuantity = "InsufficientQuantity"
	CodeListingNotAvailable  = "ListingNotAvailable"
	CodeInvariantViolation   = "InvariantViolation"
	CodeServiceUnavailable   = "ServiceUnavailable"
	CodeInternalError        = "InternalError"
)

// StandardError represents a standardized error response
type StandardError struct {
	Code    string `json:"error"`   // Error code/type (e.g., "InvalidRequest", "ResourceNotFound")
	Message string `json:"message"` // Human-readable error message
	Details string `json:"details"` // Additional details (field name, validation info, etc.)
}

// Error implements the error interface
func (e *StandardError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidRequest, CodeValidationError:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvalidTransition, CodeInvariantViolation:
		return http.StatusConflict
	case CodeInsufficientQuantity, CodeListingNotAvailable:
		return http.StatusUnprocessableEntity
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewStandardError creates a new StandardError
func NewStandardError(errorCode, message, details string) *StandardError {
	return &StandardError{
		Code:    errorCode,
		Message: message,
		Details: details,
	}
}

// Common error constructors
func NewInvalidRequest(message, details string) *StandardError {
	return NewStandardError(CodeInvalidRequest, message, details)
}

func NewValidationError(message, field string) *StandardError {
	return NewStandardError(CodeValidationError, message, fmt.Sprintf("Field: %s", field))
}

func NewUnauthorized(message, details string) *StandardError {
	return NewStandardError(CodeUnauthorized, message, details)
}

func NewForbidden(message string) *StandardError {
	return NewStandardError(CodeForbidden, message, "")
}

func NewNotFound(resource, id string) *StandardError {
	return NewStandardError(CodeNotFound, resource+" not found", fmt.Sprintf("ID: %s", id))
}

func NewServiceUnavailable(message string) *StandardError {
	return NewStandardError(CodeServiceUnavailable, message, "")
}

// NewInternalError hides err from the caller; it is logged by the error handler instead.
func NewInternalError(message string) *StandardError {
	return NewStandardError(CodeInternalError, message, "")
}

var kindCodes = map[domain.ErrorKind]string{
	domain.KindNotFound:             CodeNotFound,
	domain.KindForbidden:            CodeForbidden,
	domain.KindInvalidInput:         CodeInvalidRequest,
	domain.KindConflict:             CodeConflict,
	domain.KindInvalidTransition:    CodeInvalidTransition,
	domain.KindInsufficientQuantity: CodeInsufficientQuantity,
	domain.KindListingNotAvailable:  CodeListingNotAvailable,
	domain.KindInvariantViolation:   CodeInvariantViolation,
}

// FromError converts any error into a StandardError. Domain errors keep their message
// and details; everything else becomes an opaque InternalError.
func FromError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	var de *domain.DomainError
	if stderrors.As(err, &de) {
		if code, ok := kindCodes[de.Kind]; ok {
			message := de.Message
			if message == "" {
				message = string(de.Kind)
			}
			return NewStandardError(code, message, de.Details)
		}
	}
	return NewInternalError("internal server error")
}
