package querycache

import (
	"context"

	"github.com/arrdeck/arrdeck/internal/connector"
	"github.com/arrdeck/arrdeck/pkg/events"
	"github.com/arrdeck/arrdeck/pkg/interfaces"
)

// Cache key scopes. Per-type entries live under "services:<type>:".
const (
	KeyServicesOverview = "services:overview"
	keyServicesPrefix   = "services:"
)

// TypePrefix returns the cache key prefix for one service type.
func TypePrefix(serviceType string) string {
	return keyServicesPrefix + serviceType + ":"
}

// Invalidator subscribes to registry events and drops the cache scopes
// they stale: the services overview on every change, plus the scope of
// each service type the event names.
type Invalidator struct {
	cache  interfaces.Cache
	logger interfaces.Logger
}

// NewInvalidator creates an invalidator over the given cache.
func NewInvalidator(cache interfaces.Cache, logger interfaces.Logger) *Invalidator {
	return &Invalidator{cache: cache, logger: logger}
}

// Register subscribes the invalidator to every registry event type.
func (inv *Invalidator) Register(bus interfaces.EventBus) error {
	for _, eventType := range []string{
		connector.EventConnectorAdded,
		connector.EventConnectorRemoved,
		connector.EventConnectionsTested,
	} {
		if err := bus.Subscribe(eventType, &invalidationHandler{inv: inv, eventType: eventType}); err != nil {
			return err
		}
	}
	return nil
}

func (inv *Invalidator) handle(ctx context.Context, event interfaces.Event) error {
	if err := inv.cache.Delete(ctx, KeyServicesOverview); err != nil {
		return err
	}
	for _, serviceType := range eventServiceTypes(event) {
		if err := inv.cache.DeletePrefix(ctx, TypePrefix(serviceType)); err != nil {
			return err
		}
	}
	inv.logger.Debug("Invalidated query cache",
		interfaces.String("event_type", event.EventType()),
		interfaces.String("service_id", event.ServiceID()))
	return nil
}

// eventServiceTypes extracts the service types an event names, from
// either the single-type or the multi-type payload key.
func eventServiceTypes(event interfaces.Event) []string {
	base, ok := event.(*events.BaseEvent)
	if !ok || base.Data == nil {
		return nil
	}
	if t, ok := base.Data[connector.EventKeyServiceType].(string); ok && t != "" {
		return []string{t}
	}
	switch raw := base.Data[connector.EventKeyServiceTypes].(type) {
	case []string:
		return raw
	case []interface{}:
		out := make([]string, 0, len(raw))
		for _, v := range raw {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

type invalidationHandler struct {
	inv       *Invalidator
	eventType string
}

func (h *invalidationHandler) Handle(ctx context.Context, event interfaces.Event) error {
	return h.inv.handle(ctx, event)
}

func (h *invalidationHandler) EventType() string { return h.eventType }
