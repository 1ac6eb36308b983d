// Package inventory owns the claimable quantity and status of food listings.
package inventory

import (
	"context"
	"time"

	"foodshare-service/internal/domain"
	"foodshare-service/internal/repository"

	"go.uber.org/zap"
)

// Manager checks and applies inventory changes for approved food requests.
type Manager struct {
	logger *zap.Logger
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

// CheckAvailability reports whether requested units of listing can be claimed at now.
func (m *Manager) CheckAvailability(listing *domain.FoodListing, requested int, now time.Time) error {
	if requested <= 0 {
		return domain.ErrInvalidQuantity.WithDetails("got %d", requested)
	}
	return listing.CheckAvailability(requested, now)
}

// ApplyApproval takes approved units off listing and persists the result with a single
// conditional write. The listing is updated in place only when the write succeeds.
//
// The write fails with domain.ErrConcurrentUpdate if the stored listing changed since it
// was read, so a decrement computed from a stale quantity is never applied.
func (m *Manager) ApplyApproval(ctx context.Context, listings repository.ListingRepository, listing *domain.FoodListing, approved int, now time.Time) error {
	next := *listing
	if err := next.ApplyApproval(approved, now); err != nil {
		m.logger.Error("Inventory invariant violated",
			zap.String("listing_id", listing.ID.String()),
			zap.Int("available", listing.Quantity),
			zap.Int("approved", approved),
			zap.Error(err),
		)
		return err
	}

	if err := listings.UpdateInventory(ctx, &next, listing.Version, approved); err != nil {
		return err
	}

	*listing = next
	m.logger.Info("Inventory decremented",
		zap.String("listing_id", listing.ID.String()),
		zap.Int("approved", approved),
		zap.Int("remaining", listing.Quantity),
		zap.String("status", string(listing.Status)),
	)
	return nil
}
