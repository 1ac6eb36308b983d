package repository

import (
	"strings"
	"time"

	"foodshare-service/internal/domain"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	maxSearchLength = 100
)

// Page is a 1-based page window.
type Page struct {
	Page  int
	Limit int
}

// Normalize fills in defaults for zero values.
func (p Page) Normalize() Page {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = DefaultPageSize
	}
	return p
}

// Validate rejects windows outside the accepted bounds.
func (p Page) Validate() error {
	if p.Page < 1 {
		return domain.ErrInvalidInput.WithDetails("page must be >= 1")
	}
	if p.Limit < 1 || p.Limit > MaxPageSize {
		return domain.ErrInvalidInput.WithDetails("limit must be between 1 and %d", MaxPageSize)
	}
	return nil
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ListingFilter selects food listings. Zero-valued fields do not constrain the result.
type ListingFilter struct {
	RestaurantID *uuid.UUID
	Category     string
	Status       domain.ListingStatus
	Search       string
	// ActiveAt excludes listings whose expiry date is not after it.
	ActiveAt *time.Time
	Page
}

// Validate normalizes the filter and reports invalid fields.
func (f *ListingFilter) Validate() error {
	f.Page = f.Page.Normalize()
	if err := f.Page.Validate(); err != nil {
		return err
	}
	f.Category = strings.TrimSpace(f.Category)
	f.Search = strings.TrimSpace(f.Search)
	if len(f.Search) > maxSearchLength {
		return domain.ErrInvalidInput.WithDetails("search must be at most %d characters", maxSearchLength)
	}
	if f.Status != "" && !f.Status.Valid() {
		return domain.ErrInvalidStatus.WithDetails("listing status %q", f.Status)
	}
	return nil
}

// RequestFilter selects food requests. RestaurantID matches requests against any
// listing owned by that restaurant.
type RequestFilter struct {
	UserID       *uuid.UUID
	ListingID    *uuid.UUID
	RestaurantID *uuid.UUID
	Status       domain.RequestStatus
	Page
}

// Validate normalizes the filter and reports invalid fields.
func (f *RequestFilter) Validate() error {
	f.Page = f.Page.Normalize()
	if err := f.Page.Validate(); err != nil {
		return err
	}
	if f.Status != "" && !f.Status.Valid() {
		return domain.ErrInvalidStatus.WithDetails("request status %q", f.Status)
	}
	return nil
}

// NotificationFilter selects one user's notifications.
type NotificationFilter struct {
	UserID     uuid.UUID
	UnreadOnly bool
	Page
}

// Validate normalizes the filter and reports invalid fields.
func (f *NotificationFilter) Validate() error {
	if f.UserID == uuid.Nil {
		return domain.ErrMissingField.WithDetails("user id")
	}
	f.Page = f.Page.Normalize()
	return f.Page.Validate()
}
