// Package service implements the marketplace use cases on top of the store.
package service

import (
	"context"
	"time"

	"foodshare-service/internal/cache"
	"foodshare-service/internal/events"
	"foodshare-service/internal/inventory"
	"foodshare-service/internal/notify"
	"foodshare-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Deps carries the collaborators shared by the services. Store is required; the
// remaining fields fall back to in-process defaults when left empty.
type Deps struct {
	Store     repository.Store
	Inventory *inventory.Manager
	Sink      notify.Sink
	Publisher events.EventPublisher
	Cache     cache.Cache
	CacheTTL  time.Duration
	Logger    *zap.Logger
	Now       func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Inventory == nil {
		d.Inventory = inventory.NewManager(d.Logger)
	}
	if d.Sink == nil {
		d.Sink = notify.NewStoreSink(d.Store, d.Logger, d.Now)
	}
	if d.Publisher == nil {
		d.Publisher = events.NewEventPublisher(d.Logger)
	}
	if d.CacheTTL == 0 {
		d.CacheTTL = time.Minute
	}
	return d
}

// notifyUser appends a notification and swallows any failure.
func notifyUser(ctx context.Context, d Deps, userID uuid.UUID, title, message, typeTag string) {
	if err := d.Sink.Append(ctx, userID, title, message, typeTag); err != nil {
		d.Logger.Warn("Failed to append notification",
			zap.String("user_id", userID.String()),
			zap.String("type", typeTag),
			zap.Error(err),
		)
	}
}

// publish emits a domain event and swallows any failure.
func publish(ctx context.Context, d Deps, event events.Event) {
	if err := d.Publisher.Publish(ctx, event); err != nil {
		d.Logger.Error("Failed to publish event",
			zap.String("event_type", event.EventType()),
			zap.String("key", event.PartitionKey()),
			zap.Error(err),
		)
	}
}

// listingCachePrefix namespaces cached browse pages; every listing mutation drops them all.
const listingCachePrefix = "listings:"

func invalidateListings(ctx context.Context, d Deps) {
	if d.Cache == nil {
		return
	}
	if err := d.Cache.DeleteByPattern(ctx, listingCachePrefix+"*"); err != nil {
		d.Logger.Warn("Failed to invalidate listing cache", zap.Error(err))
	}
}
