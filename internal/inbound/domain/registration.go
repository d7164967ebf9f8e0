// Package domain defines inbound webhook registrations and the values exchanged while
// processing an inbound call.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DefaultCapability selects the processor that re-emits inbound payloads as events.
const DefaultCapability = "event_forward"

// Registration allows an external system to push payloads under a generated API key.
// Only the SHA-256 hash of the key is stored.
type Registration struct {
	ID          uuid.UUID
	UserID      string
	CompanyID   *string
	Capability  string
	APIKeyHash  string
	Active      bool
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// URL returns the path external systems call.
func (r *Registration) URL() string {
	return "/webhook/" + r.ID.String()
}

// BelongsToCompany reports whether the registration is scoped to the given company.
func (r *Registration) BelongsToCompany(companyID string) bool {
	if r.CompanyID == nil {
		return companyID == ""
	}
	return *r.CompanyID == companyID
}

// CompanyIDValue returns the company id, or the empty string for unscoped registrations.
func (r *Registration) CompanyIDValue() string {
	if r.CompanyID == nil {
		return ""
	}
	return *r.CompanyID
}

// CreatedRegistration pairs a new registration with its plain API key, which is
// never retrievable again.
type CreatedRegistration struct {
	Registration *Registration
	APIKey       string
}

// CreateRegistrationInput contains the fields accepted when registering an inbound webhook.
// A blank capability selects DefaultCapability; Active defaults to true.
type CreateRegistrationInput struct {
	Capability  string
	Description string
	Active      *bool
}

// UpdateRegistrationInput contains the mutable fields. Nil fields are left unchanged.
type UpdateRegistrationInput struct {
	Capability  *string
	Description *string
	Active      *bool
}

// InboundRequest is one call received on the inbound endpoint. Body holds the raw
// request body; Payload is decoded from it once the caller is authenticated.
type InboundRequest struct {
	Body     []byte
	Payload  map[string]any
	Headers  map[string]string
	SourceIP string
}

// DecodePayload parses Body into Payload. A request that already carries a Payload is
// left untouched. Anything but a JSON object yields ErrInvalidPayload.
func (r *InboundRequest) DecodePayload() error {
	if r.Payload != nil {
		return nil
	}
	var payload map[string]any
	if err := json.Unmarshal(r.Body, &payload); err != nil || payload == nil {
		return ErrInvalidPayload
	}
	r.Payload = payload
	return nil
}

// ProcessResult is the processor output returned to the caller.
type ProcessResult map[string]any
