// Package events mirrors registry events from the in-process bus onto
// NATS so external consumers (dashboards, automation) can react to
// connector changes without polling.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/arrdeck/arrdeck/internal/connector"
	"github.com/arrdeck/arrdeck/pkg/interfaces"
)

// NATSMirror republishes bus events onto "{prefix}.{eventType}"
// subjects. Delivery is best-effort; a broker outage never affects the
// registry operation that produced the event.
type NATSMirror struct {
	nc     *nats.Conn
	prefix string
	logger interfaces.Logger
}

// NewNATSMirror connects to the broker and returns the mirror with its
// cleanup func.
func NewNATSMirror(url, prefix string, logger interfaces.Logger) (*NATSMirror, func(), error) {
	opts := []nats.Option{
		nats.Name("arrdeck"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", interfaces.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", interfaces.String("url", nc.ConnectedUrl()))
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	cleanup := func() {
		if err := nc.Drain(); err != nil {
			logger.Warn("failed to drain NATS connection", interfaces.Error(err))
			nc.Close()
		}
	}
	return &NATSMirror{nc: nc, prefix: prefix, logger: logger}, cleanup, nil
}

// Register subscribes the mirror to every registry event type on the
// in-process bus.
func (m *NATSMirror) Register(bus interfaces.EventBus) error {
	for _, eventType := range []string{
		connector.EventConnectorAdded,
		connector.EventConnectorRemoved,
		connector.EventConnectionsTested,
	} {
		if err := bus.Subscribe(eventType, &mirrorHandler{mirror: m, eventType: eventType}); err != nil {
			return err
		}
	}
	return nil
}

func (m *NATSMirror) publish(event interfaces.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	subject := m.prefix + "." + event.EventType()
	if err := m.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	m.logger.Debug("mirrored event", interfaces.String("subject", subject))
	return nil
}

type mirrorHandler struct {
	mirror    *NATSMirror
	eventType string
}

func (h *mirrorHandler) Handle(_ context.Context, event interfaces.Event) error {
	return h.mirror.publish(event)
}

func (h *mirrorHandler) EventType() string { return h.eventType }
