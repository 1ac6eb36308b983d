// Package repotest holds the behaviour every repository.Store implementation must share.
package repotest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"foodshare-service/internal/domain"
	"foodshare-service/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Now is the reference clock used by the fixtures.
var Now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// Fixture is a restaurant owner, its restaurant and one listing, plus a requesting user.
type Fixture struct {
	Owner      *domain.User
	Restaurant *domain.Restaurant
	Listing    *domain.FoodListing
	Requester  *domain.User
}

// Seed inserts a fresh Fixture with the given listing quantity.
func Seed(t *testing.T, store repository.Store, quantity int) *Fixture {
	t.Helper()
	ctx := context.Background()

	owner, err := domain.NewUser("Owner", uuid.NewString()+"@example.com", "555-0100", domain.RoleRestaurant, Now)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(ctx, owner))

	requester, err := domain.NewUser("Alice", uuid.NewString()+"@example.com", "555-0101", domain.RoleUser, Now)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(ctx, requester))

	restaurant, err := domain.NewRestaurant(owner.ID, "Corner Bistro", "", "1 Main St", "555-0102", Now)
	require.NoError(t, err)
	require.NoError(t, store.Restaurants().Create(ctx, restaurant))

	listing, err := domain.NewFoodListing(restaurant.ID, "Bread rolls", "Day-old rolls", quantity, "portions", Now.Add(48*time.Hour), Now)
	require.NoError(t, err)
	listing.Category = "bakery"
	require.NoError(t, store.Listings().Create(ctx, listing))

	return &Fixture{Owner: owner, Restaurant: restaurant, Listing: listing, Requester: requester}
}

// RunStoreSuite runs the shared store behaviour against stores built by newStore.
func RunStoreSuite(t *testing.T, newStore func(t *testing.T) repository.Store) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("restaurants", func(t *testing.T) { testRestaurants(t, newStore(t)) })
	t.Run("listing round trip", func(t *testing.T) { testListingRoundTrip(t, newStore(t)) })
	t.Run("listing filters", func(t *testing.T) { testListingFilters(t, newStore(t)) })
	t.Run("listing optimistic update", func(t *testing.T) { testListingUpdate(t, newStore(t)) })
	t.Run("inventory update", func(t *testing.T) { testUpdateInventory(t, newStore(t)) })
	t.Run("concurrent inventory updates", func(t *testing.T) { testConcurrentInventory(t, newStore(t)) })
	t.Run("pending uniqueness", func(t *testing.T) { testPendingUniqueness(t, newStore(t)) })
	t.Run("request status compare and set", func(t *testing.T) { testRequestStatus(t, newStore(t)) })
	t.Run("request filters", func(t *testing.T) { testRequestFilters(t, newStore(t)) })
	t.Run("notifications", func(t *testing.T) { testNotifications(t, newStore(t)) })
	t.Run("transaction rollback", func(t *testing.T) { testRollback(t, newStore(t)) })
	t.Run("transaction commit", func(t *testing.T) { testCommit(t, newStore(t)) })
}

func testUsers(t *testing.T, store repository.Store) {
	ctx := context.Background()
	user, err := domain.NewUser("Bob", "Bob@Example.com", "", domain.RoleUser, Now)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(ctx, user))

	found, err := store.Users().FindByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	dup, _ := domain.NewUser("Bobby", "bob@example.com", "", domain.RoleUser, Now)
	assert.ErrorIs(t, store.Users().Create(ctx, dup), domain.ErrEmailTaken)

	require.NoError(t, store.Users().UpdateRole(ctx, user.ID, domain.RoleRestaurant))
	found, err = store.Users().FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleRestaurant, found.Role)

	_, err = store.Users().FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func testRestaurants(t *testing.T, store repository.Store) {
	ctx := context.Background()
	fx := Seed(t, store, 5)

	found, err := store.Restaurants().FindByUserID(ctx, fx.Owner.ID)
	require.NoError(t, err)
	assert.Equal(t, fx.Restaurant.ID, found.ID)
	assert.False(t, found.Verified)

	second, _ := domain.NewRestaurant(fx.Owner.ID, "Another", "", "2 Main St", "555", Now)
	assert.ErrorIs(t, store.Restaurants().Create(ctx, second), domain.ErrRestaurantExists)

	require.NoError(t, store.Restaurants().SetVerified(ctx, fx.Restaurant.ID, true, Now.Add(time.Hour)))
	found, err = store.Restaurants().FindByID(ctx, fx.Restaurant.ID)
	require.NoError(t, err)
	assert.True(t, found.Verified)

	assert.ErrorIs(t, store.Restaurants().SetVerified(ctx, uuid.New(), true, Now), domain.ErrRestaurantNotFound)
}

func testListingRoundTrip(t *testing.T, store repository.Store) {
	ctx := context.Background()
	fx := Seed(t, store, 5)

	found, err := store.Listings().FindByID(ctx, fx.Listing.ID)
	require.NoError(t, err)
	assert.Equal(t, fx.Listing.Title, found.Title)
	assert.Equal(t, 5, found.Quantity)
	assert.Equal(t, domain.ListingAvailable, found.Status)
	assert.Equal(t, 1, found.Version)
	assert.True(t, fx.Listing.ExpiryDate.Equal(found.ExpiryDate))

	require.NoError(t, store.Listings().Delete(ctx, fx.Listing.ID))
	_, err = store.Listings().FindByID(ctx, fx.Listing.ID)
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
	assert.ErrorIs(t, store.Listings().Delete(ctx, fx.Listing.ID), domain.ErrListingNotFound)
}

func testListingFilters(t *testing.T, store repository.Store) {
	ctx := context.Background()
	fx := Seed(t, store, 5)

	soup, err := domain.NewFoodListing(fx.Restaurant.ID, "Tomato Soup", "Vegan", 3, "litres", Now.Add(2*time.Hour), Now.Add(time.Minute))
	require.NoError(t, err)
	soup.Category = "meals"
	require.NoError(t, store.Listings().Create(ctx, soup))

	stale, err := domain.NewFoodListing(fx.Restaurant.ID, "Salad", "", 2, "bowls", Now.Add(30*time.Minute), Now.Add(2*time.Minute))
	require.NoError(t, err)
	require.NoError(t, store.Listings().Create(ctx, stale))

	mine := &fx.Restaurant.ID
	all, total, err := store.Listings().List(ctx, repository.ListingFilter{RestaurantID: mine})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, stale.ID, all[0].ID, "newest first")

	active := Now.Add(time.Hour)
	got, total, err := store.Listings().List(ctx, repository.ListingFilter{RestaurantID: mine, ActiveAt: &active})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, got, 2)

	got, _, err = store.Listings().List(ctx, repository.ListingFilter{RestaurantID: mine, Search: "SOUP"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, soup.ID, got[0].ID)

	got, _, err = store.Listings().List(ctx, repository.ListingFilter{RestaurantID: mine, Category: "bakery"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, fx.Listing.ID, got[0].ID)

	got, total, err = store.Listings().List(ctx, repository.ListingFilter{RestaurantID: mine, Page: repository.Page{Page: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, got, 1)

	other := uuid.New()
	got, total, err = store.Listings().List(ctx, repository.ListingFilter{RestaurantID: &other})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, got)
}

func testListingUpdate(t *testing.T, store repository.Store) {
	ctx := context.Background()
	fx := Seed(t, store, 5)

	listing, err := store.Listings().FindByID(ctx, fx.Listing.ID)
	require.NoError(t, err)
	title := "Fresh rolls"
	require.NoError(t, listing.Apply(domain.ListingPatch{Title: &title}, Now.Add(time.Minute)))
	require.NoError(t, store.Listings().Update(ctx, listing, 1))

	found, err := store.Listings().FindByID(ctx, fx.Listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fresh rolls", found.Title)
	assert.Equal(t, 2, found.Version)

	// stale version
	assert.ErrorIs(t, store.Listings().Update(ctx, listing, 1), domain.ErrConcurrentUpdate)
}

func testUpdateInventory(t *testing.T, store repository.Store) {
	ctx := context.Background()
	fx := Seed(t, store, 5)

	listing, err := store.Listings().FindByID(ctx, fx.Listing.ID)
	require.NoError(t, err)
	require.NoError(t, listing.ApplyApproval(5, Now.Add(time.Minute)))
	require.NoError(t, store.Listings().UpdateInventory(ctx, listing, 1, 5))

	found, err := store.Listings().FindByID(ctx, fx.Listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.Quantity)
	assert.Equal(t, domain.ListingReserved, found.Status)
	assert.Equal(t, 2, found.Version)

	stale := *fx.Listing
	require.NoError(t, stale.ApplyApproval(1, Now))
	err = store.Listings().UpdateInventory(ctx, &stale, 1, 1)
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	found, err = store.Listings().FindByID(ctx, fx.Listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.Quantity, "failed conditional update must not write")
}

// Several writers race to decrement the same listing from the same snapshot;
// exactly one may win.
func testConcurrentInventory(t *testing.T, store repository.Store) {
	ctx := context.Background()
	fx := Seed(t, store, 10)

	const writers = 8
	var wg sync.WaitGroup
	results := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snapshot := *fx.Listing
			if err := snapshot.ApplyApproval(3, Now); err != nil {
				results <- err
				return
			}
			results <- store.Listings().UpdateInventory(ctx, &snapshot, 1, 3)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, domain.ErrConcurrentUpdate), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	found, err := store.Listings().FindByID(ctx, fx.Listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, found.Quantity)
}

func testPendingUniqueness(t *testing.T, store repository.Store) {
	ctx := context.Background()
	fx := Seed(t, store, 5)

	first, _ := domain.NewFoodRequest(fx.Requester.ID, fx.Listing.ID, 2, "", Now)
	require.NoError(t, store.Requests().Create(ctx, first))

	pending, err := store.Requests().HasPending(ctx, fx.Requester.ID, fx.Listing.ID)
	require.NoError(t, err)
	assert.True(t, pending)

	second, _ := domain.NewFoodRequest(fx.Requester.ID, fx.Listing.ID, 1, "", Now)
	assert.ErrorIs(t, store.Requests().Create(ctx, second), domain.ErrDuplicatePendingRequest)

	require.NoError(t, first.Cancel(Now.Add(time.Minute)))
	require.NoError(t, store.Requests().UpdateStatus(ctx, first))

	// a terminal request no longer blocks a new one
	require.NoError(t, store.Requests().Create(ctx, second))
	count, err := store.Requests().CountPendingForListing(ctx, fx.Listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func testRequestStatus(t *testing.T, store repository.Store) {
	ctx := context.Background()
	fx := Seed(t, store, 5)

	req, _ := domain.NewFoodRequest(fx.Requester.ID, fx.Listing.ID, 2, "thanks", Now)
	require.NoError(t, store.Requests().Create(ctx, req))

	pickup := Now.Add(3 * time.Hour)
	approved := *req
	require.NoError(t, approved.Approve(&pickup, Now.Add(time.Minute)))
	require.NoError(t, store.Requests().UpdateStatus(ctx, &approved))

	rejected := *req
	require.NoError(t, rejected.Reject(Now.Add(2*time.Minute)))
	assert.ErrorIs(t, store.Requests().UpdateStatus(ctx, &rejected), domain.ErrInvalidTransition)

	found, err := store.Requests().FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestApproved, found.Status)
	require.NotNil(t, found.PickupDate)
	assert.True(t, pickup.Equal(*found.PickupDate))
	assert.Equal(t, "thanks", found.Message)

	_, err = store.Requests().FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}

func testRequestFilters(t *testing.T, store repository.Store) {
	ctx := context.Background()
	fx := Seed(t, store, 5)
	other := Seed(t, store, 5)

	mine, _ := domain.NewFoodRequest(fx.Requester.ID, fx.Listing.ID, 1, "", Now)
	require.NoError(t, store.Requests().Create(ctx, mine))
	theirs, _ := domain.NewFoodRequest(other.Requester.ID, fx.Listing.ID, 1, "", Now.Add(time.Second))
	require.NoError(t, store.Requests().Create(ctx, theirs))
	elsewhere, _ := domain.NewFoodRequest(fx.Requester.ID, other.Listing.ID, 1, "", Now.Add(2*time.Second))
	require.NoError(t, store.Requests().Create(ctx, elsewhere))
	require.NoError(t, elsewhere.Reject(Now.Add(time.Minute)))
	require.NoError(t, store.Requests().UpdateStatus(ctx, elsewhere))

	got, total, err := store.Requests().List(ctx, repository.RequestFilter{UserID: &fx.Requester.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, got, 2)
	assert.Equal(t, elsewhere.ID, got[0].ID)

	got, total, err = store.Requests().List(ctx, repository.RequestFilter{RestaurantID: &fx.Restaurant.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, got, 2)

	got, _, err = store.Requests().List(ctx, repository.RequestFilter{UserID: &fx.Requester.ID, Status: domain.RequestRejected})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, elsewhere.ID, got[0].ID)
}

func testNotifications(t *testing.T, store repository.Store) {
	ctx := context.Background()
	fx := Seed(t, store, 5)

	first := domain.NewNotification(fx.Owner.ID, "New Food Request", "Alice has requested 2 portions of Bread rolls", domain.NotificationNewFoodRequest, Now)
	second := domain.NewNotification(fx.Owner.ID, "Restaurant Verified", "Corner Bistro has been verified", domain.NotificationRestaurantVerified, Now.Add(time.Second))
	foreign := domain.NewNotification(fx.Requester.ID, "x", "y", "z", Now)
	for _, n := range []*domain.Notification{first, second, foreign} {
		require.NoError(t, store.Notifications().Create(ctx, n))
	}

	require.NoError(t, store.Notifications().MarkRead(ctx, first.ID))
	unread, total, err := store.Notifications().List(ctx, repository.NotificationFilter{UserID: fx.Owner.ID, UnreadOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, unread, 1)
	assert.Equal(t, second.ID, unread[0].ID)

	updated, err := store.Notifications().MarkAllRead(ctx, fx.Owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	found, err := store.Notifications().FindByID(ctx, foreign.ID)
	require.NoError(t, err)
	assert.False(t, found.IsRead)

	require.NoError(t, store.Notifications().Delete(ctx, first.ID))
	_, err = store.Notifications().FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
}

func testRollback(t *testing.T, store repository.Store) {
	ctx := context.Background()
	fx := Seed(t, store, 5)
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		listing, err := tx.Listings().FindByIDForUpdate(ctx, fx.Listing.ID)
		if err != nil {
			return err
		}
		if err := listing.ApplyApproval(2, Now); err != nil {
			return err
		}
		if err := tx.Listings().UpdateInventory(ctx, listing, 1, 2); err != nil {
			return err
		}
		req, _ := domain.NewFoodRequest(fx.Requester.ID, fx.Listing.ID, 2, "", Now)
		if err := tx.Requests().Create(ctx, req); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	found, err := store.Listings().FindByID(ctx, fx.Listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Quantity)
	assert.Equal(t, 1, found.Version)

	pending, err := store.Requests().HasPending(ctx, fx.Requester.ID, fx.Listing.ID)
	require.NoError(t, err)
	assert.False(t, pending)
}

func testCommit(t *testing.T, store repository.Store) {
	ctx := context.Background()
	fx := Seed(t, store, 5)

	var created *domain.FoodRequest
	err := store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		req, _ := domain.NewFoodRequest(fx.Requester.ID, fx.Listing.ID, 2, "", Now)
		created = req
		// nested calls join the outer transaction
		return tx.WithinTx(ctx, func(ctx context.Context, inner repository.Store) error {
			return inner.Requests().Create(ctx, req)
		})
	})
	require.NoError(t, err)

	found, err := store.Requests().FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestPending, found.Status)
}
