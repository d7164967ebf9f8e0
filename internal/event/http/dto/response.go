package dto

import (
	eventDomain "github.com/allisson/webhooks/internal/event/domain"
)

// ListEventTypesResponse wraps the catalog listing.
type ListEventTypesResponse struct {
	Data []eventDomain.EventTypeInfo `json:"data"`
}

// EmitEventResponse carries the id assigned to an accepted event.
type EmitEventResponse struct {
	EventID string `json:"event_id"`
}
