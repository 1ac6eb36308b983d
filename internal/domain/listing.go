package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ListingStatus is the claimability state of a food listing.
type ListingStatus string

const (
	ListingAvailable ListingStatus = "AVAILABLE"
	ListingReserved  ListingStatus = "RESERVED"
)

// Valid reports whether s is a known listing status.
func (s ListingStatus) Valid() bool {
	return s == ListingAvailable || s == ListingReserved
}

// ParseListingStatus parses a status name, case-insensitively.
func ParseListingStatus(s string) (ListingStatus, error) {
	status := ListingStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", ErrInvalidStatus.WithDetails("listing status %q", s)
	}
	return status, nil
}

// FoodListing is a batch of surplus food posted by one restaurant. Quantity and Status are
// the single source of truth for how much is left to claim.
type FoodListing struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Title        string
	Description  string
	Quantity     int
	Unit         string
	Category     string
	PickupTime   string
	ImageURL     string
	Status       ListingStatus
	ExpiryDate   time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int // For optimistic locking
}

// NewFoodListing creates an AVAILABLE listing after validating the required fields.
func NewFoodListing(restaurantID uuid.UUID, title, description string, quantity int, unit string, expiryDate, now time.Time) (*FoodListing, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrMissingField.WithDetails("title")
	}
	if strings.TrimSpace(unit) == "" {
		return nil, ErrMissingField.WithDetails("unit")
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !expiryDate.After(now) {
		return nil, ErrInvalidExpiry
	}

	return &FoodListing{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		Title:        title,
		Description:  description,
		Quantity:     quantity,
		Unit:         unit,
		Status:       ListingAvailable,
		ExpiryDate:   expiryDate,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}, nil
}

// IsExpired reports whether the listing can no longer be claimed at now.
func (l *FoodListing) IsExpired(now time.Time) bool {
	return !l.ExpiryDate.After(now)
}

// CheckAvailability verifies that requested units can be claimed right now.
func (l *FoodListing) CheckAvailability(requested int, now time.Time) error {
	if l.Status != ListingAvailable {
		return ErrListingNotAvailable.WithDetails("status is %s", l.Status)
	}
	if l.IsExpired(now) {
		return ErrListingNotAvailable.WithDetails("expired at %s", l.ExpiryDate.UTC().Format(time.RFC3339))
	}
	if requested > l.Quantity {
		return ErrInsufficientQuantity.WithDetails("available: %d, requested: %d", l.Quantity, requested)
	}
	return nil
}

// ApplyApproval decrements the quantity by an approved claim. The listing becomes RESERVED
// once nothing is left. On error the listing is left untouched.
func (l *FoodListing) ApplyApproval(approved int, now time.Time) error {
	if approved <= 0 {
		return ErrInvalidQuantity
	}
	newQuantity := l.Quantity - approved
	if newQuantity < 0 {
		return ErrInvariantViolation.WithDetails("available: %d, approved: %d", l.Quantity, approved)
	}

	l.Quantity = newQuantity
	if newQuantity <= 0 {
		l.Status = ListingReserved
	} else {
		l.Status = ListingAvailable
	}
	l.UpdatedAt = now
	l.Version++
	return nil
}

// ListingPatch carries the optional fields of a restaurant edit. Nil fields are left as is.
type ListingPatch struct {
	Title       *string
	Description *string
	Quantity    *int
	Unit        *string
	Category    *string
	PickupTime  *string
	ImageURL    *string
	Status      *ListingStatus
	ExpiryDate  *time.Time
}

// Empty reports whether the patch changes nothing.
func (p ListingPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Quantity == nil && p.Unit == nil &&
		p.Category == nil && p.PickupTime == nil && p.ImageURL == nil && p.Status == nil &&
		p.ExpiryDate == nil
}

// Apply validates the patch and then applies it in full.
func (l *FoodListing) Apply(p ListingPatch, now time.Time) error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrMissingField.WithDetails("title")
	}
	if p.Unit != nil && strings.TrimSpace(*p.Unit) == "" {
		return ErrMissingField.WithDetails("unit")
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		return ErrInvalidQuantity.WithDetails("got %d", *p.Quantity)
	}
	if p.Status != nil && !p.Status.Valid() {
		return ErrInvalidStatus.WithDetails("listing status %q", *p.Status)
	}
	if p.ExpiryDate != nil && !p.ExpiryDate.After(now) {
		return ErrInvalidExpiry
	}

	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Quantity != nil {
		l.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		l.Unit = *p.Unit
	}
	if p.Category != nil {
		l.Category = *p.Category
	}
	if p.PickupTime != nil {
		l.PickupTime = *p.PickupTime
	}
	if p.ImageURL != nil {
		l.ImageURL = *p.ImageURL
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.ExpiryDate != nil {
		l.ExpiryDate = *p.ExpiryDate
	}
	l.UpdatedAt = now
	l.Version++
	return nil
}
