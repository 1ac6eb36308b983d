package memory

import (
	"context"
	"sync"

	"foodshare-service/internal/domain"
	"foodshare-service/internal/repository"

	"github.com/google/uuid"
)

// Store is an in-process repository.Store. A single mutex serialises every operation;
// WithinTx holds it for the whole transaction and restores a snapshot on failure.
type Store struct {
	mu   *sync.Mutex
	data *state
	inTx bool
}

type state struct {
	users         map[uuid.UUID]domain.User
	restaurants   map[uuid.UUID]domain.Restaurant
	listings      map[uuid.UUID]domain.FoodListing
	requests      map[uuid.UUID]domain.FoodRequest
	notifications map[uuid.UUID]domain.Notification
}

func newState() *state {
	return &state{
		users:         make(map[uuid.UUID]domain.User),
		restaurants:   make(map[uuid.UUID]domain.Restaurant),
		listings:      make(map[uuid.UUID]domain.FoodListing),
		requests:      make(map[uuid.UUID]domain.FoodRequest),
		notifications: make(map[uuid.UUID]domain.Notification),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.restaurants {
		c.restaurants[k] = v
	}
	for k, v := range s.listings {
		c.listings[k] = v
	}
	for k, v := range s.requests {
		c.requests[k] = v
	}
	for k, v := range s.notifications {
		c.notifications[k] = v
	}
	return c
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		mu:   &sync.Mutex{},
		data: newState(),
	}
}

// run executes fn under the store lock unless the caller already holds it.
func (s *Store) run(fn func(d *state) error) error {
	if !s.inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.data)
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{store: s}
}

func (s *Store) Restaurants() repository.RestaurantRepository {
	return &restaurantRepository{store: s}
}

func (s *Store) Listings() repository.ListingRepository {
	return &listingRepository{store: s}
}

func (s *Store) Requests() repository.RequestRepository {
	return &requestRepository{store: s}
}

func (s *Store) Notifications() repository.NotificationRepository {
	return &notificationRepository{store: s}
}

// WithinTx implements repository.Store
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	tx := &Store{mu: s.mu, data: s.data, inTx: true}
	if err := fn(ctx, tx); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}
