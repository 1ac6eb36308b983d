package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies domain failures. Each kind maps to one stable error code at the
// transport boundary.
type ErrorKind string

const (
	KindNotFound             ErrorKind = "NotFound"
	KindForbidden            ErrorKind = "Forbidden"
	KindInvalidInput         ErrorKind = "InvalidInput"
	KindConflict             ErrorKind = "Conflict"
	KindInvalidTransition    ErrorKind = "InvalidTransition"
	KindInsufficientQuantity ErrorKind = "InsufficientQuantity"
	KindListingNotAvailable  ErrorKind = "ListingNotAvailable"
	KindInvariantViolation   ErrorKind = "InvariantViolation"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind
	Message string
	Details string
}

func (e *DomainError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return e.Message + ": " + e.Details
}

// Is matches errors of the same kind. A target without a message matches every error of
// its kind; otherwise the messages must be equal too. Details never take part.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// WithDetails returns a copy of e carrying extra context.
func (e *DomainError) WithDetails(format string, args ...interface{}) *DomainError {
	return &DomainError{
		Kind:    e.Kind,
		Message: e.Message,
		Details: fmt.Sprintf(format, args...),
	}
}

// KindOf returns the kind of a domain error, or "" when err is not one.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// Kind sentinels, one per ErrorKind. errors.Is(err, ErrNotFound) holds for every
// not-found error regardless of entity.
var (
	ErrNotFound             = &DomainError{Kind: KindNotFound}
	ErrForbidden            = &DomainError{Kind: KindForbidden}
	ErrInvalidInput         = &DomainError{Kind: KindInvalidInput}
	ErrConflict             = &DomainError{Kind: KindConflict}
	ErrInvalidTransition    = &DomainError{Kind: KindInvalidTransition, Message: "invalid status transition"}
	ErrInsufficientQuantity = &DomainError{Kind: KindInsufficientQuantity, Message: "requested quantity is not available"}
	ErrListingNotAvailable  = &DomainError{Kind: KindListingNotAvailable, Message: "food listing is not available"}
	ErrInvariantViolation   = &DomainError{Kind: KindInvariantViolation, Message: "listing quantity would become negative"}
)

// Domain errors
var (
	ErrUserNotFound         = &DomainError{Kind: KindNotFound, Message: "user not found"}
	ErrRestaurantNotFound   = &DomainError{Kind: KindNotFound, Message: "restaurant not found"}
	ErrListingNotFound      = &DomainError{Kind: KindNotFound, Message: "food listing not found"}
	ErrRequestNotFound      = &DomainError{Kind: KindNotFound, Message: "food request not found"}
	ErrNotificationNotFound = &DomainError{Kind: KindNotFound, Message: "notification not found"}

	ErrNotListingOwner      = &DomainError{Kind: KindForbidden, Message: "you do not have permission to manage this listing"}
	ErrNotRequestOwner      = &DomainError{Kind: KindForbidden, Message: "you do not have permission to update this request"}
	ErrNotNotificationOwner = &DomainError{Kind: KindForbidden, Message: "you do not have permission to access this notification"}
	ErrRestaurantRequired   = &DomainError{Kind: KindForbidden, Message: "you need to create a restaurant profile first"}

	ErrInvalidQuantity = &DomainError{Kind: KindInvalidInput, Message: "quantity must be greater than 0"}
	ErrInvalidDecision = &DomainError{Kind: KindInvalidInput, Message: "decision must be APPROVED or REJECTED"}
	ErrInvalidStatus   = &DomainError{Kind: KindInvalidInput, Message: "invalid status"}
	ErrMissingField    = &DomainError{Kind: KindInvalidInput, Message: "required field missing"}
	ErrInvalidExpiry   = &DomainError{Kind: KindInvalidInput, Message: "expiry date must be a valid future date"}
	ErrInvalidRole     = &DomainError{Kind: KindInvalidInput, Message: "invalid role"}

	ErrDuplicatePendingRequest = &DomainError{Kind: KindConflict, Message: "you already have a pending request for this food listing"}
	ErrRestaurantExists        = &DomainError{Kind: KindConflict, Message: "restaurant profile already exists for this user"}
	ErrEmailTaken              = &DomainError{Kind: KindConflict, Message: "email already registered"}
	ErrConcurrentUpdate        = &DomainError{Kind: KindConflict, Message: "resource was modified concurrently, retry the operation"}
	ErrListingHasPending       = &DomainError{Kind: KindConflict, Message: "food listing has pending requests"}
)
