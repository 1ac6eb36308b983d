package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"foodshare-service/internal/domain"
	"foodshare-service/internal/repository"

	"github.com/google/uuid"
)

type userRepository struct{ store *Store }

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.store.run(func(d *state) error {
		for _, u := range d.users {
			if strings.EqualFold(u.Email, user.Email) {
				return domain.ErrEmailTaken
			}
		}
		d.users[user.ID] = *user
		return nil
	})
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var found domain.User
	err := r.store.run(func(d *state) error {
		u, ok := d.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		found = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var found *domain.User
	err := r.store.run(func(d *state) error {
		for _, u := range d.users {
			if strings.EqualFold(u.Email, email) {
				u := u
				found = &u
				return nil
			}
		}
		return domain.ErrUserNotFound
	})
	return found, err
}

func (r *userRepository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	return r.store.run(func(d *state) error {
		u, ok := d.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		u.Role = role
		d.users[id] = u
		return nil
	})
}

type restaurantRepository struct{ store *Store }

func (r *restaurantRepository) Create(ctx context.Context, restaurant *domain.Restaurant) error {
	return r.store.run(func(d *state) error {
		for _, existing := range d.restaurants {
			if existing.UserID == restaurant.UserID {
				return domain.ErrRestaurantExists
			}
		}
		d.restaurants[restaurant.ID] = *restaurant
		return nil
	})
}

func (r *restaurantRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Restaurant, error) {
	var found domain.Restaurant
	err := r.store.run(func(d *state) error {
		rest, ok := d.restaurants[id]
		if !ok {
			return domain.ErrRestaurantNotFound
		}
		found = rest
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *restaurantRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Restaurant, error) {
	var found *domain.Restaurant
	err := r.store.run(func(d *state) error {
		for _, rest := range d.restaurants {
			if rest.UserID == userID {
				rest := rest
				found = &rest
				return nil
			}
		}
		return domain.ErrRestaurantNotFound
	})
	return found, err
}

func (r *restaurantRepository) SetVerified(ctx context.Context, id uuid.UUID, verified bool, now time.Time) error {
	return r.store.run(func(d *state) error {
		rest, ok := d.restaurants[id]
		if !ok {
			return domain.ErrRestaurantNotFound
		}
		rest.Verified = verified
		rest.UpdatedAt = now
		d.restaurants[id] = rest
		return nil
	})
}

type listingRepository struct{ store *Store }

func (r *listingRepository) Create(ctx context.Context, listing *domain.FoodListing) error {
	return r.store.run(func(d *state) error {
		if _, ok := d.restaurants[listing.RestaurantID]; !ok {
			return domain.ErrRestaurantNotFound
		}
		d.listings[listing.ID] = *listing
		return nil
	})
}

func (r *listingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.FoodListing, error) {
	var found domain.FoodListing
	err := r.store.run(func(d *state) error {
		l, ok := d.listings[id]
		if !ok {
			return domain.ErrListingNotFound
		}
		found = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// FindByIDForUpdate needs no row lock: a transaction already holds the store lock.
func (r *listingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.FoodListing, error) {
	return r.FindByID(ctx, id)
}

func (r *listingRepository) List(ctx context.Context, filter repository.ListingFilter) ([]domain.FoodListing, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}
	search := strings.ToLower(filter.Search)

	var matched []domain.FoodListing
	_ = r.store.run(func(d *state) error {
		for _, l := range d.listings {
			if filter.RestaurantID != nil && l.RestaurantID != *filter.RestaurantID {
				continue
			}
			if filter.Category != "" && l.Category != filter.Category {
				continue
			}
			if filter.Status != "" && l.Status != filter.Status {
				continue
			}
			if filter.ActiveAt != nil && !l.ExpiryDate.After(*filter.ActiveAt) {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(l.Title), search) &&
				!strings.Contains(strings.ToLower(l.Description), search) {
				continue
			}
			matched = append(matched, l)
		}
		return nil
	})

	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	return paginate(matched, filter.Page), len(matched), nil
}

func (r *listingRepository) Update(ctx context.Context, listing *domain.FoodListing, expectedVersion int) error {
	return r.store.run(func(d *state) error {
		current, ok := d.listings[listing.ID]
		if !ok {
			return domain.ErrListingNotFound
		}
		if current.Version != expectedVersion {
			return domain.ErrConcurrentUpdate
		}
		d.listings[listing.ID] = *listing
		return nil
	})
}

func (r *listingRepository) UpdateInventory(ctx context.Context, listing *domain.FoodListing, expectedVersion, decrement int) error {
	return r.store.run(func(d *state) error {
		current, ok := d.listings[listing.ID]
		if !ok {
			return domain.ErrListingNotFound
		}
		if current.Version != expectedVersion || current.Quantity < decrement {
			return domain.ErrConcurrentUpdate
		}
		current.Quantity = listing.Quantity
		current.Status = listing.Status
		current.Version = listing.Version
		current.UpdatedAt = listing.UpdatedAt
		d.listings[listing.ID] = current
		return nil
	})
}

func (r *listingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.run(func(d *state) error {
		if _, ok := d.listings[id]; !ok {
			return domain.ErrListingNotFound
		}
		delete(d.listings, id)
		return nil
	})
}

type requestRepository struct{ store *Store }

func (r *requestRepository) Create(ctx context.Context, request *domain.FoodRequest) error {
	return r.store.run(func(d *state) error {
		if request.Status == domain.RequestPending && hasPending(d, request.UserID, request.ListingID) {
			return domain.ErrDuplicatePendingRequest
		}
		d.requests[request.ID] = *request
		return nil
	})
}

func (r *requestRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.FoodRequest, error) {
	var found domain.FoodRequest
	err := r.store.run(func(d *state) error {
		req, ok := d.requests[id]
		if !ok {
			return domain.ErrRequestNotFound
		}
		found = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *requestRepository) HasPending(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	var pending bool
	_ = r.store.run(func(d *state) error {
		pending = hasPending(d, userID, listingID)
		return nil
	})
	return pending, nil
}

func hasPending(d *state, userID, listingID uuid.UUID) bool {
	for _, req := range d.requests {
		if req.UserID == userID && req.ListingID == listingID && req.Status == domain.RequestPending {
			return true
		}
	}
	return false
}

func (r *requestRepository) CountPendingForListing(ctx context.Context, listingID uuid.UUID) (int, error) {
	count := 0
	_ = r.store.run(func(d *state) error {
		for _, req := range d.requests {
			if req.ListingID == listingID && req.Status == domain.RequestPending {
				count++
			}
		}
		return nil
	})
	return count, nil
}

func (r *requestRepository) List(ctx context.Context, filter repository.RequestFilter) ([]domain.FoodRequest, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	var matched []domain.FoodRequest
	_ = r.store.run(func(d *state) error {
		for _, req := range d.requests {
			if filter.UserID != nil && req.UserID != *filter.UserID {
				continue
			}
			if filter.ListingID != nil && req.ListingID != *filter.ListingID {
				continue
			}
			if filter.RestaurantID != nil {
				l, ok := d.listings[req.ListingID]
				if !ok || l.RestaurantID != *filter.RestaurantID {
					continue
				}
			}
			if filter.Status != "" && req.Status != filter.Status {
				continue
			}
			matched = append(matched, req)
		}
		return nil
	})

	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	return paginate(matched, filter.Page), len(matched), nil
}

func (r *requestRepository) UpdateStatus(ctx context.Context, request *domain.FoodRequest) error {
	return r.store.run(func(d *state) error {
		current, ok := d.requests[request.ID]
		if !ok {
			return domain.ErrRequestNotFound
		}
		if current.Status != domain.RequestPending {
			return domain.ErrInvalidTransition.WithDetails("request is %s", current.Status)
		}
		current.Status = request.Status
		current.PickupDate = request.PickupDate
		current.UpdatedAt = request.UpdatedAt
		d.requests[request.ID] = current
		return nil
	})
}

type notificationRepository struct{ store *Store }

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	return r.store.run(func(d *state) error {
		d.notifications[notification.ID] = *notification
		return nil
	})
}

func (r *notificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var found domain.Notification
	err := r.store.run(func(d *state) error {
		n, ok := d.notifications[id]
		if !ok {
			return domain.ErrNotificationNotFound
		}
		found = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (r *notificationRepository) List(ctx context.Context, filter repository.NotificationFilter) ([]domain.Notification, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	var matched []domain.Notification
	_ = r.store.run(func(d *state) error {
		for _, n := range d.notifications {
			if n.UserID != filter.UserID {
				continue
			}
			if filter.UnreadOnly && n.IsRead {
				continue
			}
			matched = append(matched, n)
		}
		return nil
	})

	sort.Slice(matched, func(i, j int) bool {
		return newerFirst(matched[i].CreatedAt, matched[j].CreatedAt, matched[i].ID, matched[j].ID)
	})
	return paginate(matched, filter.Page), len(matched), nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	return r.store.run(func(d *state) error {
		n, ok := d.notifications[id]
		if !ok {
			return domain.ErrNotificationNotFound
		}
		n.IsRead = true
		d.notifications[id] = n
		return nil
	})
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	var updated int64
	_ = r.store.run(func(d *state) error {
		for id, n := range d.notifications {
			if n.UserID == userID && !n.IsRead {
				n.IsRead = true
				d.notifications[id] = n
				updated++
			}
		}
		return nil
	})
	return updated, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.run(func(d *state) error {
		if _, ok := d.notifications[id]; !ok {
			return domain.ErrNotificationNotFound
		}
		delete(d.notifications, id)
		return nil
	})
}

func newerFirst(a, b time.Time, idA, idB uuid.UUID) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA.String() < idB.String()
}

func paginate[T any](items []T, page repository.Page) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
