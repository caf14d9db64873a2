// Package events carries domain events between modules without direct
// coupling. This is part of the platform layer and contains no business logic.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event.
type Event interface {
	// EventName identifies the event type, e.g. "tradein.listing.submitted".
	EventName() string
	// OccurredAt reports when the event happened.
	OccurredAt() time.Time
}

// BaseEvent carries the fields shared by all events.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler consumes events of the types it subscribed to.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// Bus publishes domain events to subscribed handlers.
type Bus interface {
	// Publish dispatches the event to all handlers registered for its name.
	// Handlers run asynchronously.
	Publish(ctx context.Context, event Event)

	// PublishSync dispatches the event and waits for every handler.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler under an event name. The name must match
	// what the event's EventName returns.
	Subscribe(eventName string, handler Handler)
}
