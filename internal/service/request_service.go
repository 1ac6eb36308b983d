package service

import (
	"context"
	"fmt"
	"strings"

	"foodshare-service/internal/commands"
	"foodshare-service/internal/domain"
	"foodshare-service/internal/events"
	"foodshare-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestService drives the food request lifecycle: creation against a listing, the
// owning restaurant's decision, and cancellation by the requester.
type RequestService struct {
	deps Deps
}

func NewRequestService(deps Deps) *RequestService {
	return &RequestService{deps: deps.withDefaults()}
}

// CreateFoodRequest files a PENDING claim and notifies the listing's restaurant owner.
func (s *RequestService) CreateFoodRequest(ctx context.Context, cmd commands.CreateFoodRequestCommand) (*domain.FoodRequest, error) {
	if cmd.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity.WithDetails("got %d", cmd.Quantity)
	}

	now := s.deps.Now()
	var (
		request    *domain.FoodRequest
		listing    *domain.FoodListing
		requester  *domain.User
		restaurant *domain.Restaurant
	)
	err := s.deps.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		var err error
		if requester, err = tx.Users().FindByID(ctx, cmd.UserID); err != nil {
			return err
		}
		if listing, err = tx.Listings().FindByID(ctx, cmd.ListingID); err != nil {
			return err
		}
		if err := s.deps.Inventory.CheckAvailability(listing, cmd.Quantity, now); err != nil {
			return err
		}

		pending, err := tx.Requests().HasPending(ctx, cmd.UserID, cmd.ListingID)
		if err != nil {
			return err
		}
		if pending {
			return domain.ErrDuplicatePendingRequest
		}

		if restaurant, err = tx.Restaurants().FindByID(ctx, listing.RestaurantID); err != nil {
			return err
		}

		if request, err = domain.NewFoodRequest(cmd.UserID, cmd.ListingID, cmd.Quantity, strings.TrimSpace(cmd.Message), now); err != nil {
			return err
		}
		return tx.Requests().Create(ctx, request)
	})
	if err != nil {
		return nil, err
	}

	notifyUser(ctx, s.deps, restaurant.UserID,
		"New Food Request",
		fmt.Sprintf("%s has requested %d %s of %s", requester.Name, request.Quantity, listing.Unit, listing.Title),
		domain.NotificationNewFoodRequest,
	)
	publish(ctx, s.deps, events.FoodRequestCreatedEvent{
		RequestID:  request.ID,
		ListingID:  request.ListingID,
		UserID:     request.UserID,
		Quantity:   request.Quantity,
		OccurredAt: now,
	})

	s.deps.Logger.Info("Food request created",
		zap.String("request_id", request.ID.String()),
		zap.String("listing_id", listing.ID.String()),
		zap.Int("quantity", request.Quantity),
	)
	return request, nil
}

// DecideFoodRequest applies the owning restaurant's APPROVED or REJECTED decision.
//
// An approval decrements the listing before the request status is written, and both
// writes share one transaction: if the inventory update fails the request stays PENDING.
func (s *RequestService) DecideFoodRequest(ctx context.Context, cmd commands.DecideFoodRequestCommand) (*domain.FoodRequest, error) {
	decision, err := domain.ParseDecision(cmd.Decision)
	if err != nil {
		return nil, err
	}

	now := s.deps.Now()
	var (
		decided *domain.FoodRequest
		listing *domain.FoodListing
		taken   int
	)
	err = s.deps.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		request, err := tx.Requests().FindByID(ctx, cmd.RequestID)
		if err != nil {
			return err
		}
		if listing, err = tx.Listings().FindByIDForUpdate(ctx, request.ListingID); err != nil {
			return err
		}
		if listing.RestaurantID != cmd.RestaurantID {
			return domain.ErrNotRequestOwner
		}

		next := *request
		switch decision {
		case domain.RequestApproved:
			if err := next.Approve(cmd.PickupDate, now); err != nil {
				return err
			}
			if listing.Status != domain.ListingAvailable {
				return domain.ErrListingNotAvailable.WithDetails("status is %s", listing.Status)
			}
			if err := s.deps.Inventory.ApplyApproval(ctx, tx.Listings(), listing, request.Quantity, now); err != nil {
				return err
			}
			taken = request.Quantity
		case domain.RequestRejected:
			if err := next.Reject(now); err != nil {
				return err
			}
		}

		if err := tx.Requests().UpdateStatus(ctx, &next); err != nil {
			return err
		}
		decided = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	status := string(decided.Status)
	notifyUser(ctx, s.deps, decided.UserID,
		"Food Request "+status,
		fmt.Sprintf("Your request for %s has been %s", listing.Title, strings.ToLower(status)),
		domain.RequestStatusNotificationType(decided.Status),
	)
	publish(ctx, s.deps, events.FoodRequestDecidedEvent{
		RequestID:  decided.ID,
		ListingID:  decided.ListingID,
		UserID:     decided.UserID,
		Status:     status,
		PickupDate: decided.PickupDate,
		OccurredAt: now,
	})
	if taken > 0 {
		publish(ctx, s.deps, events.InventoryDecrementedEvent{
			ListingID:  listing.ID,
			RequestID:  decided.ID,
			Quantity:   taken,
			Remaining:  listing.Quantity,
			Status:     string(listing.Status),
			Version:    listing.Version,
			OccurredAt: now,
		})
		invalidateListings(ctx, s.deps)
	}

	s.deps.Logger.Info("Food request decided",
		zap.String("request_id", decided.ID.String()),
		zap.String("status", status),
	)
	return decided, nil
}

// CancelFoodRequest withdraws the caller's own PENDING request. Inventory is untouched
// and nobody is notified.
func (s *RequestService) CancelFoodRequest(ctx context.Context, cmd commands.CancelFoodRequestCommand) (*domain.FoodRequest, error) {
	now := s.deps.Now()
	var cancelled *domain.FoodRequest
	err := s.deps.Store.WithinTx(ctx, func(ctx context.Context, tx repository.Store) error {
		request, err := tx.Requests().FindByID(ctx, cmd.RequestID)
		if err != nil {
			return err
		}
		if request.UserID != cmd.UserID {
			return domain.ErrNotRequestOwner
		}
		if err := request.Cancel(now); err != nil {
			return err
		}
		if err := tx.Requests().UpdateStatus(ctx, request); err != nil {
			return err
		}
		cancelled = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.deps, events.FoodRequestCancelledEvent{
		RequestID:  cancelled.ID,
		ListingID:  cancelled.ListingID,
		UserID:     cancelled.UserID,
		OccurredAt: now,
	})
	s.deps.Logger.Info("Food request cancelled", zap.String("request_id", cancelled.ID.String()))
	return cancelled, nil
}

// GetFoodRequest returns a request visible to the caller: its requester or the
// restaurant owning the listing. restaurantID may be uuid.Nil.
func (s *RequestService) GetFoodRequest(ctx context.Context, id, userID, restaurantID uuid.UUID) (*domain.FoodRequest, error) {
	request, err := s.deps.Store.Requests().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.UserID == userID {
		return request, nil
	}
	if restaurantID != uuid.Nil {
		listing, err := s.deps.Store.Listings().FindByID(ctx, request.ListingID)
		if err == nil && listing.RestaurantID == restaurantID {
			return request, nil
		}
	}
	return nil, domain.ErrNotRequestOwner
}

// RequestPage is one page of food requests.
type RequestPage struct {
	Requests []domain.FoodRequest
	Total    int
	Page     int
	Limit    int
}

// ListUserRequests lists the requests filed by userID, newest first.
func (s *RequestService) ListUserRequests(ctx context.Context, userID uuid.UUID, filter repository.RequestFilter) (*RequestPage, error) {
	filter.UserID = &userID
	filter.RestaurantID = nil
	return s.list(ctx, filter)
}

// ListRestaurantRequests lists the requests made against the restaurant's listings.
func (s *RequestService) ListRestaurantRequests(ctx context.Context, restaurantID uuid.UUID, filter repository.RequestFilter) (*RequestPage, error) {
	filter.RestaurantID = &restaurantID
	filter.UserID = nil
	return s.list(ctx, filter)
}

func (s *RequestService) list(ctx context.Context, filter repository.RequestFilter) (*RequestPage, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	requests, total, err := s.deps.Store.Requests().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &RequestPage{Requests: requests, Total: total, Page: filter.Page.Page, Limit: filter.Limit}, nil
}
