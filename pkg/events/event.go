package events

import "time"

// BaseEvent is the standard implementation of the Event interface.
type BaseEvent struct {
	Type    string                 `json:"type"`
	Time    int64                  `json:"timestamp"`
	Service string                 `json:"serviceId,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
}

// NewEvent creates a new event.
func NewEvent(eventType string, data map[string]interface{}) *BaseEvent {
	return &BaseEvent{
		Type: eventType,
		Time: time.Now().UnixNano(),
		Data: data,
	}
}

// NewServiceEvent creates a new event tied to a registered service.
func NewServiceEvent(eventType, serviceID string, data map[string]interface{}) *BaseEvent {
	return &BaseEvent{
		Type:    eventType,
		Time:    time.Now().UnixNano(),
		Service: serviceID,
		Data:    data,
	}
}

// EventType returns the type of the event.
func (e *BaseEvent) EventType() string {
	return e.Type
}

// Timestamp returns when the event occurred.
func (e *BaseEvent) Timestamp() int64 {
	return e.Time
}

// ServiceID returns the id of the service the event concerns.
func (e *BaseEvent) ServiceID() string {
	return e.Service
}
