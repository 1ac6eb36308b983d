package service

import (
	"context"
	"testing"
	"time"

	"foodshare-service/internal/cache"
	"foodshare-service/internal/commands"
	"foodshare-service/internal/domain"
	"foodshare-service/internal/repository"
	"foodshare-service/internal/repository/repotest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCreateListing(t *testing.T) {
	env := newTestEnv(t, 10)
	svc := NewListingService(env.deps)
	ctx := context.Background()

	listing, err := svc.CreateListing(ctx, commands.CreateListingCommand{
		RestaurantID: env.fx.Restaurant.ID,
		Title:        "  Soup  ",
		Quantity:     8,
		Unit:         "bowls",
		Category:     "meals",
		PickupTime:   "18:00-20:00",
		ExpiryDate:   repotest.Now.Add(6 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, "Soup", listing.Title)
	assert.Equal(t, domain.ListingAvailable, listing.Status)
	assert.Equal(t, "18:00-20:00", listing.PickupTime)

	stored, err := svc.GetListing(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.Quantity)
	assert.Contains(t, env.eventTypes(), "ListingCreated")

	_, err = svc.CreateListing(ctx, commands.CreateListingCommand{
		RestaurantID: env.fx.Restaurant.ID,
		Title:        "Stale",
		Quantity:     1,
		Unit:         "box",
		ExpiryDate:   repotest.Now.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidExpiry)
}

func TestUpdateListing(t *testing.T) {
	env := newTestEnv(t, 10)
	svc := NewListingService(env.deps)
	ctx := context.Background()

	updated, err := svc.UpdateListing(ctx, commands.UpdateListingCommand{
		ID:           env.fx.Listing.ID,
		RestaurantID: env.fx.Restaurant.ID,
		Patch:        domain.ListingPatch{Title: strPtr("Fresh rolls"), Quantity: intPtr(12)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Fresh rolls", updated.Title)
	assert.Equal(t, 12, updated.Quantity)
	assert.Equal(t, env.fx.Listing.Version+1, updated.Version)

	_, err = svc.UpdateListing(ctx, commands.UpdateListingCommand{
		ID:           env.fx.Listing.ID,
		RestaurantID: uuid.New(),
		Patch:        domain.ListingPatch{Title: strPtr("Hijacked")},
	})
	assert.ErrorIs(t, err, domain.ErrNotListingOwner)
	assert.Equal(t, "Fresh rolls", env.listing(t).Title)

	_, err = svc.UpdateListing(ctx, commands.UpdateListingCommand{
		ID:           uuid.New(),
		RestaurantID: env.fx.Restaurant.ID,
		Patch:        domain.ListingPatch{Title: strPtr("Ghost")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteListing(t *testing.T) {
	env := newTestEnv(t, 10)
	svc := NewListingService(env.deps)
	requests := NewRequestService(env.deps)
	ctx := context.Background()

	request := env.request(t, requests, env.fx.Requester.ID, 2)

	err := svc.DeleteListing(ctx, commands.DeleteListingCommand{ID: env.fx.Listing.ID, RestaurantID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrNotListingOwner)

	err = svc.DeleteListing(ctx, commands.DeleteListingCommand{ID: env.fx.Listing.ID, RestaurantID: env.fx.Restaurant.ID})
	assert.ErrorIs(t, err, domain.ErrListingHasPending)

	_, err = requests.DecideFoodRequest(ctx, commands.DecideFoodRequestCommand{
		RequestID: request.ID, RestaurantID: env.fx.Restaurant.ID, Decision: "APPROVED",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteListing(ctx, commands.DeleteListingCommand{ID: env.fx.Listing.ID, RestaurantID: env.fx.Restaurant.ID}))
	_, err = svc.GetListing(ctx, env.fx.Listing.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Decided requests survive their listing.
	kept, err := env.store.Requests().FindByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestApproved, kept.Status)
}

func TestBrowseListings(t *testing.T) {
	env := newTestEnv(t, 10)
	svc := NewListingService(env.deps)
	ctx := context.Background()

	_, err := svc.CreateListing(ctx, commands.CreateListingCommand{
		RestaurantID: env.fx.Restaurant.ID,
		Title:        "Lunch boxes",
		Quantity:     3,
		Unit:         "boxes",
		Category:     "meals",
		ExpiryDate:   repotest.Now.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	page, err := svc.BrowseListings(ctx, repository.ListingFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.TotalPages())

	page, err = svc.BrowseListings(ctx, repository.ListingFilter{Category: "meals"})
	require.NoError(t, err)
	require.Len(t, page.Listings, 1)
	assert.Equal(t, "Lunch boxes", page.Listings[0].Title)

	// Three hours later the lunch boxes have expired.
	env.deps.Now = func() time.Time { return repotest.Now.Add(3 * time.Hour) }
	later := NewListingService(env.deps)
	page, err = later.BrowseListings(ctx, repository.ListingFilter{})
	require.NoError(t, err)
	require.Len(t, page.Listings, 1)
	assert.Equal(t, env.fx.Listing.ID, page.Listings[0].ID)

	// The restaurant still sees both.
	own, err := later.ListRestaurantListings(ctx, env.fx.Restaurant.ID, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, 2, own.Total)

	_, err = svc.BrowseListings(ctx, repository.ListingFilter{Status: "SOLD"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBrowseListingsCache(t *testing.T) {
	env := newTestEnv(t, 10)
	env.deps.Cache = cache.NewInMemoryCache(zap.NewNop())
	svc := NewListingService(env.deps)
	requests := NewRequestService(env.deps)
	ctx := context.Background()

	first, err := svc.BrowseListings(ctx, repository.ListingFilter{})
	require.NoError(t, err)
	require.Len(t, first.Listings, 1)

	exists, err := env.deps.Cache.Exists(ctx, browseCacheKey(repository.ListingFilter{
		Status: domain.ListingAvailable,
		Page:   repository.Page{Page: 1, Limit: repository.DefaultPageSize},
	}))
	require.NoError(t, err)
	assert.True(t, exists)

	// An approval that reserves the listing drops the cached pages.
	request := env.request(t, requests, env.fx.Requester.ID, 10)
	_, err = requests.DecideFoodRequest(ctx, commands.DecideFoodRequestCommand{
		RequestID: request.ID, RestaurantID: env.fx.Restaurant.ID, Decision: "APPROVED",
	})
	require.NoError(t, err)

	after, err := svc.BrowseListings(ctx, repository.ListingFilter{})
	require.NoError(t, err)
	assert.Empty(t, after.Listings)
	assert.Equal(t, 0, after.Total)
}

func TestListingPageTotalPages(t *testing.T) {
	assert.Equal(t, 0, (&ListingPage{Total: 5}).TotalPages())
	assert.Equal(t, 0, (&ListingPage{Total: 0, Limit: 10}).TotalPages())
	assert.Equal(t, 1, (&ListingPage{Total: 10, Limit: 10}).TotalPages())
	assert.Equal(t, 3, (&ListingPage{Total: 21, Limit: 10}).TotalPages())
}
