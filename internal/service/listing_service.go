package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"foodshare-service/internal/cache"
	"foodshare-service/internal/commands"
	"foodshare-service/internal/domain"
	"foodshare-service/internal/events"
	"foodshare-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ListingService manages the food listing catalogue.
type ListingService struct {
	deps  Deps
	group singleflight.Group
}

func NewListingService(deps Deps) *ListingService {
	return &ListingService{deps: deps.withDefaults()}
}

// ListingPage is one page of food listings.
type ListingPage struct {
	Listings []domain.FoodListing `json:"listings"`
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	Limit    int                  `json:"limit"`
}

// TotalPages returns the number of pages for the current limit.
func (p *ListingPage) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// CreateListing posts a new AVAILABLE listing for the restaurant.
func (s *ListingService) CreateListing(ctx context.Context, cmd commands.CreateListingCommand) (*domain.FoodListing, error) {
	now := s.deps.Now()
	listing, err := domain.NewFoodListing(cmd.RestaurantID, strings.TrimSpace(cmd.Title), cmd.Description, cmd.Quantity, strings.TrimSpace(cmd.Unit), cmd.ExpiryDate, now)
	if err != nil {
		return nil, err
	}
	listing.Category = strings.TrimSpace(cmd.Category)
	listing.PickupTime = cmd.PickupTime
	listing.ImageURL = cmd.ImageURL

	if err := s.deps.Store.Listings().Create(ctx, listing); err != nil {
		return nil, err
	}

	invalidateListings(ctx, s.deps)
	publish(ctx, s.deps, events.ListingCreatedEvent{
		ListingID:    listing.ID,
		RestaurantID: listing.RestaurantID,
		Title:        listing.Title,
		Quantity:     listing.Quantity,
		Unit:         listing.Unit,
		ExpiryDate:   listing.ExpiryDate,
		OccurredAt:   now,
	})
	s.deps.Logger.Info("Food listing created",
		zap.String("listing_id", listing.ID.String()),
		zap.String("restaurant_id", listing.RestaurantID.String()),
	)
	return listing, nil
}

// UpdateListing applies a partial edit made by the owning restaurant.
func (s *ListingService) UpdateListing(ctx context.Context, cmd commands.UpdateListingCommand) (*domain.FoodListing, error) {
	now := s.deps.Now()
	var updated *domain.FoodListing
	err := s.deps.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		listing, err := tx.Listings().FindByIDForUpdate(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if listing.RestaurantID != cmd.RestaurantID {
			return domain.ErrNotListingOwner
		}
		if cmd.Patch.Empty() {
			updated = listing
			return nil
		}

		expected := listing.Version
		if err := listing.Apply(cmd.Patch, now); err != nil {
			return err
		}
		if err := tx.Listings().Update(ctx, listing, expected); err != nil {
			return err
		}
		updated = listing
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !cmd.Patch.Empty() {
		invalidateListings(ctx, s.deps)
		publish(ctx, s.deps, events.ListingUpdatedEvent{
			ListingID:  updated.ID,
			Quantity:   updated.Quantity,
			Status:     string(updated.Status),
			Version:    updated.Version,
			OccurredAt: now,
		})
	}
	return updated, nil
}

// DeleteListing removes a listing. Listings with PENDING requests cannot be deleted;
// requests that already reached a terminal state are kept.
func (s *ListingService) DeleteListing(ctx context.Context, cmd commands.DeleteListingCommand) error {
	var deleted *domain.FoodListing
	err := s.deps.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		listing, err := tx.Listings().FindByIDForUpdate(ctx, cmd.ID)
		if err != nil {
			return err
		}
		if listing.RestaurantID != cmd.RestaurantID {
			return domain.ErrNotListingOwner
		}
		pending, err := tx.Requests().CountPendingForListing(ctx, listing.ID)
		if err != nil {
			return err
		}
		if pending > 0 {
			return domain.ErrListingHasPending.WithDetails("%d pending", pending)
		}
		deleted = listing
		return tx.Listings().Delete(ctx, listing.ID)
	})
	if err != nil {
		return err
	}

	invalidateListings(ctx, s.deps)
	publish(ctx, s.deps, events.ListingDeletedEvent{
		ListingID:    deleted.ID,
		RestaurantID: deleted.RestaurantID,
		OccurredAt:   s.deps.Now(),
	})
	s.deps.Logger.Info("Food listing deleted", zap.String("listing_id", deleted.ID.String()))
	return nil
}

// GetListing returns one listing regardless of status or expiry.
func (s *ListingService) GetListing(ctx context.Context, id uuid.UUID) (*domain.FoodListing, error) {
	return s.deps.Store.Listings().FindByID(ctx, id)
}

// ListRestaurantListings returns every listing of one restaurant, expired ones included.
func (s *ListingService) ListRestaurantListings(ctx context.Context, restaurantID uuid.UUID, page repository.Page) (*ListingPage, error) {
	filter := repository.ListingFilter{RestaurantID: &restaurantID, Page: page}
	return s.list(ctx, filter)
}

// BrowseListings is the public catalogue. It defaults to AVAILABLE listings and always
// hides expired ones. Pages are cached until the next listing change.
func (s *ListingService) BrowseListings(ctx context.Context, filter repository.ListingFilter) (*ListingPage, error) {
	if filter.Status == "" {
		filter.Status = domain.ListingAvailable
	}
	now := s.deps.Now()
	filter.ActiveAt = &now
	filter.RestaurantID = nil
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	if s.deps.Cache == nil {
		return s.list(ctx, filter)
	}

	key := browseCacheKey(filter)
	var page ListingPage
	if err := cache.GetJSON(ctx, s.deps.Cache, key, &page); err == nil {
		return dropExpired(&page, now), nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.deps.Logger.Warn("Listing cache read failed", zap.String("key", key), zap.Error(err))
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		page, err := s.list(ctx, filter)
		if err != nil {
			return nil, err
		}
		if err := cache.SetJSON(ctx, s.deps.Cache, key, page, s.deps.CacheTTL); err != nil {
			s.deps.Logger.Warn("Listing cache write failed", zap.String("key", key), zap.Error(err))
		}
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ListingPage), nil
}

func (s *ListingService) list(ctx context.Context, filter repository.ListingFilter) (*ListingPage, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	listings, total, err := s.deps.Store.Listings().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListingPage{Listings: listings, Total: total, Page: filter.Page.Page, Limit: filter.Limit}, nil
}

// browseCacheKey identifies a browse page independently of the request time.
func browseCacheKey(f repository.ListingFilter) string {
	return fmt.Sprintf("%sstatus=%s:category=%s:search=%s:page=%d:limit=%d",
		listingCachePrefix, f.Status, f.Category, strings.ToLower(f.Search), f.Page.Page, f.Limit)
}

// dropExpired hides listings that expired after the page was cached.
func dropExpired(page *ListingPage, now time.Time) *ListingPage {
	kept := page.Listings[:0]
	for _, l := range page.Listings {
		if !l.IsExpired(now) {
			kept = append(kept, l)
		}
	}
	page.Listings = kept
	return page
}
