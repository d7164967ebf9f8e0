package dto

import (
	"time"

	inboundDomain "github.com/allisson/webhooks/internal/inbound/domain"
)

// RegistrationResponse represents an inbound webhook registration in API responses.
type RegistrationResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CompanyID   *string   `json:"company_id"`
	Capability  string    `json:"capability"`
	URL         string    `json:"url"`
	Active      bool      `json:"active"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateRegistrationResponse adds the one-time API key to the registration.
type CreateRegistrationResponse struct {
	RegistrationResponse
	APIKey string `json:"api_key"`
}

// ListRegistrationsResponse wraps a page of registrations.
type ListRegistrationsResponse struct {
	Data []RegistrationResponse `json:"data"`
}

// ProcessResponse is returned to external systems after a processed inbound call.
type ProcessResponse struct {
	Status string                      `json:"status"`
	Result inboundDomain.ProcessResult `json:"result"`
}

// MapRegistrationToResponse converts a domain registration to its API representation.
func MapRegistrationToResponse(registration *inboundDomain.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:          registration.ID.String(),
		UserID:      registration.UserID,
		CompanyID:   registration.CompanyID,
		Capability:  registration.Capability,
		URL:         registration.URL(),
		Active:      registration.Active,
		Description: registration.Description,
		CreatedAt:   registration.CreatedAt,
		UpdatedAt:   registration.UpdatedAt,
	}
}

// MapCreatedRegistrationToResponse includes the plain API key.
func MapCreatedRegistrationToResponse(created *inboundDomain.CreatedRegistration) CreateRegistrationResponse {
	return CreateRegistrationResponse{
		RegistrationResponse: MapRegistrationToResponse(created.Registration),
		APIKey:               created.APIKey,
	}
}

// MapRegistrationsToListResponse converts a page of registrations.
func MapRegistrationsToListResponse(registrations []*inboundDomain.Registration) ListRegistrationsResponse {
	data := make([]RegistrationResponse, 0, len(registrations))
	for _, registration := range registrations {
		data = append(data, MapRegistrationToResponse(registration))
	}
	return ListRegistrationsResponse{Data: data}
}
