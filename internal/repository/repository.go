package repository

import (
	"context"
	"time"

	"foodshare-service/internal/domain"

	"github.com/google/uuid"
)

// UserRepository persists marketplace accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error
}

// RestaurantRepository persists restaurant profiles.
type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *domain.Restaurant) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Restaurant, error)
	SetVerified(ctx context.Context, id uuid.UUID, verified bool, now time.Time) error
}

// ListingRepository persists food listings.
//
// Update and UpdateInventory are conditional on the stored version matching
// expectedVersion; a mismatch returns domain.ErrConcurrentUpdate and writes nothing.
// UpdateInventory additionally requires the stored quantity to still cover the decrement.
type ListingRepository interface {
	Create(ctx context.Context, listing *domain.FoodListing) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.FoodListing, error)
	// FindByIDForUpdate locks the row for the rest of the enclosing transaction
	// where the backend supports row locks.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.FoodListing, error)
	List(ctx context.Context, filter ListingFilter) ([]domain.FoodListing, int, error)
	Update(ctx context.Context, listing *domain.FoodListing, expectedVersion int) error
	UpdateInventory(ctx context.Context, listing *domain.FoodListing, expectedVersion, decrement int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RequestRepository persists food requests. Requests are never deleted.
type RequestRepository interface {
	// Create returns domain.ErrDuplicatePendingRequest when the user already has a
	// PENDING request for the listing.
	Create(ctx context.Context, request *domain.FoodRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.FoodRequest, error)
	HasPending(ctx context.Context, userID, listingID uuid.UUID) (bool, error)
	CountPendingForListing(ctx context.Context, listingID uuid.UUID) (int, error)
	List(ctx context.Context, filter RequestFilter) ([]domain.FoodRequest, int, error)
	// UpdateStatus writes the new status only if the stored one is still PENDING,
	// returning domain.ErrInvalidTransition otherwise.
	UpdateStatus(ctx context.Context, request *domain.FoodRequest) error
}

// NotificationRepository persists the per-user notification inbox.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	List(ctx context.Context, filter NotificationFilter) ([]domain.Notification, int, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Store is the single holder of durable state.
type Store interface {
	Users() UserRepository
	Restaurants() RestaurantRepository
	Listings() ListingRepository
	Requests() RequestRepository
	Notifications() NotificationRepository

	// WithinTx runs fn against a transactional view of the store. The transaction
	// commits when fn returns nil and rolls back otherwise. Calling WithinTx on the
	// view passed to fn reuses the same transaction.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error

	Ping(ctx context.Context) error
	Close() error
}
