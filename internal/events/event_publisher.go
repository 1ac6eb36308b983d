package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Event is a domain event. PartitionKey keeps all events of one aggregate in order.
type Event interface {
	EventType() string
	PartitionKey() string
}

// Listing domain events
type ListingCreatedEvent struct {
	ListingID    uuid.UUID `json:"listing_id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Title        string    `json:"title"`
	Quantity     int       `json:"quantity"`
	Unit         string    `json:"unit"`
	ExpiryDate   time.Time `json:"expiry_date"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type ListingUpdatedEvent struct {
	ListingID  uuid.UUID `json:"listing_id"`
	Quantity   int       `json:"quantity"`
	Status     string    `json:"status"`
	Version    int       `json:"version"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ListingDeletedEvent struct {
	ListingID    uuid.UUID `json:"listing_id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// InventoryDecrementedEvent is emitted when an approved request is taken off a listing.
type InventoryDecrementedEvent struct {
	ListingID  uuid.UUID `json:"listing_id"`
	RequestID  uuid.UUID `json:"request_id"`
	Quantity   int       `json:"quantity"`
	Remaining  int       `json:"remaining"`
	Status     string    `json:"status"`
	Version    int       `json:"version"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Food request domain events
type FoodRequestCreatedEvent struct {
	RequestID  uuid.UUID `json:"request_id"`
	ListingID  uuid.UUID `json:"listing_id"`
	UserID     uuid.UUID `json:"user_id"`
	Quantity   int       `json:"quantity"`
	OccurredAt time.Time `json:"occurred_at"`
}

type FoodRequestDecidedEvent struct {
	RequestID  uuid.UUID  `json:"request_id"`
	ListingID  uuid.UUID  `json:"listing_id"`
	UserID     uuid.UUID  `json:"user_id"`
	Status     string     `json:"status"`
	PickupDate *time.Time `json:"pickup_date,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

type FoodRequestCancelledEvent struct {
	RequestID  uuid.UUID `json:"request_id"`
	ListingID  uuid.UUID `json:"listing_id"`
	UserID     uuid.UUID `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (ListingCreatedEvent) EventType() string       { return "ListingCreated" }
func (ListingUpdatedEvent) EventType() string       { return "ListingUpdated" }
func (ListingDeletedEvent) EventType() string       { return "ListingDeleted" }
func (InventoryDecrementedEvent) EventType() string { return "InventoryDecremented" }
func (FoodRequestCreatedEvent) EventType() string   { return "FoodRequestCreated" }
func (FoodRequestDecidedEvent) EventType() string   { return "FoodRequestDecided" }
func (FoodRequestCancelledEvent) EventType() string { return "FoodRequestCancelled" }

func (e ListingCreatedEvent) PartitionKey() string       { return e.ListingID.String() }
func (e ListingUpdatedEvent) PartitionKey() string       { return e.ListingID.String() }
func (e ListingDeletedEvent) PartitionKey() string       { return e.ListingID.String() }
func (e InventoryDecrementedEvent) PartitionKey() string { return e.ListingID.String() }
func (e FoodRequestCreatedEvent) PartitionKey() string   { return e.RequestID.String() }
func (e FoodRequestDecidedEvent) PartitionKey() string   { return e.RequestID.String() }
func (e FoodRequestCancelledEvent) PartitionKey() string { return e.RequestID.String() }

// InMemoryEventPublisher keeps published events in memory. It is the fallback when
// Kafka is disabled or unreachable.
type InMemoryEventPublisher struct {
	logger *zap.Logger
	mu     sync.Mutex
	events []Event
}

func NewEventPublisher(logger *zap.Logger) *InMemoryEventPublisher {
	return &InMemoryEventPublisher{
		logger: logger,
		events: make([]Event, 0),
	}
}

func (p *InMemoryEventPublisher) Publish(ctx context.Context, event Event) error {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
	p.logger.Debug("Event published (in-memory)", zap.String("event_type", event.EventType()), zap.String("key", event.PartitionKey()))
	return nil
}

// Events returns a copy of everything published so far.
func (p *InMemoryEventPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}
