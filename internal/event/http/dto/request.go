// Package dto provides data transfer objects for the event endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/webhooks/internal/validation"
)

// EmitEventRequest is the body of POST /v1/events. The acting user and company come
// from the caller identity.
type EmitEventRequest struct {
	EventType string         `json:"event_type"`
	AgentID   string         `json:"agent_id,omitempty"`
	AgentName string         `json:"agent_name,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Validate checks if the emit request is valid.
func (r *EmitEventRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EventType,
			validation.Required,
			customValidation.NotBlank,
			customValidation.EventTypeName,
		),
	)
}
