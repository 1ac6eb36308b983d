package commands

import (
	"time"

	"foodshare-service/internal/domain"

	"github.com/google/uuid"
)

// CreateListingCommand represents a command to post a new food listing
type CreateListingCommand struct {
	RestaurantID uuid.UUID
	Title        string
	Description  string
	Quantity     int
	Unit         string
	Category     string
	PickupTime   string
	ImageURL     string
	ExpiryDate   time.Time
}

// UpdateListingCommand represents a partial edit of a listing by its restaurant
type UpdateListingCommand struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Patch        domain.ListingPatch
}

// DeleteListingCommand represents a command to remove a listing
type DeleteListingCommand struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

// CreateFoodRequestCommand represents a user's claim against a listing
type CreateFoodRequestCommand struct {
	UserID    uuid.UUID
	ListingID uuid.UUID
	Quantity  int
	Message   string
}

// DecideFoodRequestCommand represents a restaurant's decision on a pending request.
// Decision is the raw status name; it is parsed by the service.
type DecideFoodRequestCommand struct {
	RequestID    uuid.UUID
	RestaurantID uuid.UUID
	Decision     string
	PickupDate   *time.Time
}

// CancelFoodRequestCommand represents a requester withdrawing a pending request
type CancelFoodRequestCommand struct {
	RequestID uuid.UUID
	UserID    uuid.UUID
}
