package service

import (
	"context"
	"encoding/json"
	"fmt"

	"foodshare-service/internal/events"

	"go.uber.org/zap"
)

// EventProcessor reacts to domain events consumed from Kafka. Listing events drop
// the local browse cache so writes made by other instances stop being served
// from stale pages.
type EventProcessor struct {
	deps Deps
}

func NewEventProcessor(deps Deps) *EventProcessor {
	return &EventProcessor{deps: deps.withDefaults()}
}

var listingEventTypes = map[string]bool{
	events.ListingCreatedEvent{}.EventType():       true,
	events.ListingUpdatedEvent{}.EventType():       true,
	events.ListingDeletedEvent{}.EventType():       true,
	events.InventoryDecrementedEvent{}.EventType(): true,
}

var requestEventTypes = map[string]bool{
	events.FoodRequestCreatedEvent{}.EventType():   true,
	events.FoodRequestDecidedEvent{}.EventType():   true,
	events.FoodRequestCancelledEvent{}.EventType(): true,
}

// Handle implements events.Handler.
func (p *EventProcessor) Handle(ctx context.Context, eventType string, payload []byte) error {
	var ref struct {
		ListingID string `json:"listing_id"`
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(payload, &ref); err != nil {
		p.deps.Logger.Warn("Undecodable event payload", zap.String("event_type", eventType), zap.Error(err))
	}

	switch {
	case listingEventTypes[eventType]:
		if p.deps.Cache == nil {
			return nil
		}
		if err := p.deps.Cache.DeleteByPattern(ctx, listingCachePrefix+"*"); err != nil {
			return fmt.Errorf("failed to invalidate listing cache: %w", err)
		}
		p.deps.Logger.Info("Listing cache invalidated",
			zap.String("event_type", eventType),
			zap.String("listing_id", ref.ListingID),
		)
	case requestEventTypes[eventType]:
		p.deps.Logger.Info("Food request event",
			zap.String("event_type", eventType),
			zap.String("request_id", ref.RequestID),
			zap.String("listing_id", ref.ListingID),
		)
	default:
		p.deps.Logger.Debug("Ignoring unknown event type", zap.String("event_type", eventType))
	}
	return nil
}

var _ events.Handler = (*EventProcessor)(nil)
