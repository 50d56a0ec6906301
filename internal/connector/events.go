package connector

// Registry event types published on the event bus. The query-cache
// layer subscribes to these to keep UI data fresh; nothing in this
// package knows how (or whether) invalidation happens.
const (
	EventConnectorAdded    = "connector.added"
	EventConnectorRemoved  = "connector.removed"
	EventConnectionsTested = "connectors.tested"
)

// Event payload keys.
const (
	EventKeyServiceType  = "serviceType"
	EventKeyServiceTypes = "serviceTypes"
	EventKeyServiceName  = "serviceName"
)
