// Package events carries domain events between modules without the
// publisher knowing who listens. It lives in the platform layer and
// stays free of business logic.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event.
type Event interface {
	// EventName identifies the event type; subscribers key on it.
	EventName() string
	// OccurredAt reports when the event happened.
	OccurredAt() time.Time
}

// BaseEvent holds the fields shared by all events.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt reports when the event happened.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler consumes events of one type.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function act as a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle invokes the wrapped function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes domain events and fans them out to subscribers.
type Bus interface {
	// Publish delivers the event to every handler registered for its
	// name. Delivery is asynchronous.
	Publish(ctx context.Context, event Event)

	// PublishSync delivers the event and blocks until every handler
	// has finished.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler for the given event name, as
	// returned by Event.EventName.
	Subscribe(eventName string, handler Handler)
}
