// Package domain defines the event envelope emitted by the host application and the
// event-type vocabulary subscriptions are written against.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Metadata keys with a meaning to the delivery pipeline.
const (
	MetadataTest             = "test"
	MetadataSubscriptionID   = "subscription_id"
	MetadataInboundWebhookID = "inbound_webhook_id"
	MetadataSourceIP         = "source_ip"
)

// Envelope is the canonical representation of one emitted event. It is built once per
// emission and only its delivery outcomes are persisted.
type Envelope struct {
	EventID   uuid.UUID      `json:"event_id"`
	EventType string         `json:"event_type"`
	Timestamp time.Time      `json:"timestamp"`
	UserID    string         `json:"user_id"`
	CompanyID string         `json:"company_id,omitempty"`
	AgentID   string         `json:"agent_id,omitempty"`
	AgentName string         `json:"agent_name,omitempty"`
	Data      map[string]any `json:"data"`
	Metadata  map[string]any `json:"metadata"`

	// TargetSubscriptionID addresses a test delivery to one subscription. It is set only
	// by the engine's test emission path and never read from metadata.
	TargetSubscriptionID *uuid.UUID `json:"-"`
}

// EmitInput contains the caller-supplied fields of an event. EventType and UserID are
// required; CompanyID is resolved from the acting user when empty.
type EmitInput struct {
	EventType string
	UserID    string
	CompanyID string
	AgentID   string
	AgentName string
	Data      map[string]any
	Metadata  map[string]any
}

// NewEnvelope stamps an input with a fresh UUIDv7 event id and the current UTC time.
func NewEnvelope(input *EmitInput) *Envelope {
	data := input.Data
	if data == nil {
		data = map[string]any{}
	}
	metadata := input.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	return &Envelope{
		EventID:   uuid.Must(uuid.NewV7()),
		EventType: input.EventType,
		Timestamp: time.Now().UTC(),
		UserID:    input.UserID,
		CompanyID: input.CompanyID,
		AgentID:   input.AgentID,
		AgentName: input.AgentName,
		Data:      data,
		Metadata:  metadata,
	}
}

// WithoutReservedMetadata returns a copy of metadata without the keys the delivery
// pipeline sets itself. Externally supplied metadata goes through it.
func WithoutReservedMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}
	cleaned := make(map[string]any, len(metadata))
	for k, v := range metadata {
		switch k {
		case MetadataTest, MetadataSubscriptionID:
			continue
		}
		cleaned[k] = v
	}
	return cleaned
}
