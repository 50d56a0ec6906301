// Package events provides the in-memory event bus the connector layer
// uses to announce registry mutations without coupling to any cache
// implementation.
package events

import (
	"context"
	"sync"

	"github.com/arrdeck/arrdeck/pkg/interfaces"
)

// InMemoryEventBus is an in-process implementation of EventBus.
type InMemoryEventBus struct {
	handlers map[string][]interfaces.EventHandler
	mu       sync.RWMutex
	logger   interfaces.Logger
	wg       sync.WaitGroup
}

// NewInMemoryEventBus creates a new in-memory event bus.
func NewInMemoryEventBus(logger interfaces.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[string][]interfaces.EventHandler),
		logger:   logger,
	}
}

// Publish delivers an event to all subscribers. A failing handler is
// logged and skipped; the remaining handlers still run.
func (eb *InMemoryEventBus) Publish(ctx context.Context, event interfaces.Event) error {
	eb.mu.RLock()
	handlers := eb.handlers[event.EventType()]
	eb.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler.Handle(ctx, event); err != nil {
			eb.logger.Error("event handler failed",
				interfaces.String("event_type", event.EventType()),
				interfaces.String("service_id", event.ServiceID()),
				interfaces.Error(err))
		}
	}
	return nil
}

// PublishAsync publishes an event without blocking the caller.
func (eb *InMemoryEventBus) PublishAsync(ctx context.Context, event interfaces.Event) {
	eb.wg.Add(1)
	go func() {
		defer eb.wg.Done()
		if err := eb.Publish(ctx, event); err != nil {
			eb.logger.Error("async event publish failed",
				interfaces.String("event_type", event.EventType()),
				interfaces.Error(err))
		}
	}()
}

// Subscribe registers a handler for a specific event type.
func (eb *InMemoryEventBus) Subscribe(eventType string, handler interfaces.EventHandler) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	eb.logger.Debug("event handler subscribed",
		interfaces.String("event_type", eventType))
	return nil
}

// Unsubscribe removes a handler for a specific event type.
func (eb *InMemoryEventBus) Unsubscribe(eventType string, handler interfaces.EventHandler) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	handlers := eb.handlers[eventType]
	for i, h := range handlers {
		if h == handler {
			eb.handlers[eventType] = append(handlers[:i], handlers[i+1:]...)
			break
		}
	}
	return nil
}

// Wait blocks until all async publishes have been delivered. Used in
// tests and during shutdown.
func (eb *InMemoryEventBus) Wait() {
	eb.wg.Wait()
}
