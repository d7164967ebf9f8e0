// Package dto provides data transfer objects for the inbound webhook endpoints.
package dto

import (
	"regexp"

	validation "github.com/jellydator/validation"

	inboundDomain "github.com/allisson/webhooks/internal/inbound/domain"
)

const (
	maxCapabilityLength  = 100
	maxDescriptionLength = 500
)

var capabilityPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.:-]*$`)

// CreateRegistrationRequest contains the parameters for registering an inbound webhook.
type CreateRegistrationRequest struct {
	Capability  string `json:"capability,omitempty"`
	Description string `json:"description,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}

// Validate checks if the create request is valid.
func (r *CreateRegistrationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Capability,
			validation.Match(capabilityPattern),
			validation.Length(0, maxCapabilityLength),
		),
		validation.Field(&r.Description, validation.Length(0, maxDescriptionLength)),
	)
}

// ToInput converts the request into the use case input.
func (r *CreateRegistrationRequest) ToInput() *inboundDomain.CreateRegistrationInput {
	return &inboundDomain.CreateRegistrationInput{
		Capability:  r.Capability,
		Description: r.Description,
		Active:      r.Active,
	}
}

// UpdateRegistrationRequest contains the mutable registration fields.
type UpdateRegistrationRequest struct {
	Capability  *string `json:"capability,omitempty"`
	Description *string `json:"description,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

// Validate checks if the update request is valid.
func (r *UpdateRegistrationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Capability,
			validation.Match(capabilityPattern),
			validation.Length(0, maxCapabilityLength),
		),
		validation.Field(&r.Description, validation.Length(0, maxDescriptionLength)),
	)
}

// ToInput converts the request into the use case input.
func (r *UpdateRegistrationRequest) ToInput() *inboundDomain.UpdateRegistrationInput {
	return &inboundDomain.UpdateRegistrationInput{
		Capability:  r.Capability,
		Description: r.Description,
		Active:      r.Active,
	}
}
