package interfaces

import "context"

// Event represents something that happened to a registered service.
type Event interface {
	// EventType returns the type of the event
	EventType() string

	// Timestamp returns when the event occurred, in Unix nanoseconds
	Timestamp() int64

	// ServiceID returns the id of the service the event concerns, if any
	ServiceID() string
}

// EventHandler handles events of a specific type.
type EventHandler interface {
	// Handle processes an event
	Handle(ctx context.Context, event Event) error

	// EventType returns the type of events this handler processes
	EventType() string
}

// EventBus provides pub/sub fan-out for domain events. Publishing is
// best-effort from the caller's perspective: a failing handler must not
// fail the operation that emitted the event.
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, event Event) error

	// PublishAsync publishes an event asynchronously
	PublishAsync(ctx context.Context, event Event)

	// Subscribe registers a handler for a specific event type
	Subscribe(eventType string, handler EventHandler) error

	// Unsubscribe removes a handler for a specific event type
	Unsubscribe(eventType string, handler EventHandler) error
}
