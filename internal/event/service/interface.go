// Package service provides the event-type catalog and the emission contract shared by
// every producer of events.
package service

import (
	"context"

	"github.com/google/uuid"

	eventDomain "github.com/allisson/webhooks/internal/event/domain"
)

// Emitter accepts events for asynchronous delivery and returns the assigned event id.
type Emitter interface {
	Emit(ctx context.Context, input *eventDomain.EmitInput) (uuid.UUID, error)
}

// TestEmitter delivers a test event to a single subscription without event-type or
// attribute matching. Callers are responsible for checking the subscription is visible
// to the acting user.
type TestEmitter interface {
	EmitTest(ctx context.Context, input *eventDomain.EmitInput, subscriptionID uuid.UUID) (uuid.UUID, error)
}

// Contributor is a pluggable capability module that adds event types to the catalog.
type Contributor interface {
	// Name identifies the contributor and becomes the Source of its event types.
	Name() string
	EventTypes() []eventDomain.EventTypeInfo
}

// EventTypeCatalog answers which event types can be subscribed to.
type EventTypeCatalog interface {
	List() []eventDomain.EventTypeInfo
	IsKnown(eventType string) bool
	Validate(eventTypes []string) error
}
