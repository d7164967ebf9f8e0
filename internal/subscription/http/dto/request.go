// Package dto provides data transfer objects for the subscription endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
	customValidation "github.com/allisson/webhooks/internal/validation"
)

// Bounds for delivery policy fields.
const (
	maxRetryCount        = 10
	maxRetryDelaySeconds = 3600
	maxTimeoutSeconds    = 300
	maxTargetURLLength   = 2048
	maxDescriptionLength = 500
)

// CreateSubscriptionRequest contains the parameters for registering a subscription.
type CreateSubscriptionRequest struct {
	TargetURL         string                      `json:"target_url"`
	EventTypes        []string                    `json:"event_types"`
	Filters           *subscriptionDomain.Filters `json:"filters,omitempty"`
	Secret            string                      `json:"secret,omitempty"`
	Headers           map[string]string           `json:"headers,omitempty"`
	RetryCount        *int                        `json:"retry_count,omitempty"`
	RetryDelaySeconds *int                        `json:"retry_delay_seconds,omitempty"`
	TimeoutSeconds    *int                        `json:"timeout_seconds,omitempty"`
	Active            *bool                       `json:"active,omitempty"`
	Description       string                      `json:"description,omitempty"`
}

// Validate checks if the create subscription request is valid.
func (r *CreateSubscriptionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TargetURL,
			validation.Required,
			customValidation.NotBlank,
			customValidation.HTTPURL,
			validation.Length(1, maxTargetURLLength),
		),
		validation.Field(&r.EventTypes,
			validation.Required,
			validation.Each(validation.Required, customValidation.EventTypeName),
		),
		validation.Field(&r.Headers, customValidation.HeaderNames),
		validation.Field(&r.RetryCount, validation.Min(0), validation.Max(maxRetryCount)),
		validation.Field(&r.RetryDelaySeconds, validation.Min(0), validation.Max(maxRetryDelaySeconds)),
		validation.Field(&r.TimeoutSeconds, validation.Min(1), validation.Max(maxTimeoutSeconds)),
		validation.Field(&r.Description, validation.Length(0, maxDescriptionLength)),
	)
}

// ToInput converts the request into the use case input.
func (r *CreateSubscriptionRequest) ToInput() *subscriptionDomain.CreateSubscriptionInput {
	return &subscriptionDomain.CreateSubscriptionInput{
		TargetURL:         r.TargetURL,
		EventTypes:        r.EventTypes,
		Filters:           r.Filters,
		Secret:            r.Secret,
		Headers:           r.Headers,
		RetryCount:        r.RetryCount,
		RetryDelaySeconds: r.RetryDelaySeconds,
		TimeoutSeconds:    r.TimeoutSeconds,
		Active:            r.Active,
		Description:       r.Description,
	}
}

// UpdateSubscriptionRequest contains a partial update. Omitted fields are left unchanged;
// clear_filters removes the stored filters.
type UpdateSubscriptionRequest struct {
	TargetURL         *string                     `json:"target_url,omitempty"`
	EventTypes        *[]string                   `json:"event_types,omitempty"`
	Filters           *subscriptionDomain.Filters `json:"filters,omitempty"`
	ClearFilters      bool                        `json:"clear_filters,omitempty"`
	Secret            *string                     `json:"secret,omitempty"`
	Headers           *map[string]string          `json:"headers,omitempty"`
	RetryCount        *int                        `json:"retry_count,omitempty"`
	RetryDelaySeconds *int                        `json:"retry_delay_seconds,omitempty"`
	TimeoutSeconds    *int                        `json:"timeout_seconds,omitempty"`
	Active            *bool                       `json:"active,omitempty"`
	Description       *string                     `json:"description,omitempty"`
}

// Validate checks if the update subscription request is valid.
func (r *UpdateSubscriptionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TargetURL,
			validation.NilOrNotEmpty,
			customValidation.HTTPURL,
			validation.Length(1, maxTargetURLLength),
		),
		validation.Field(&r.EventTypes, validation.By(func(value interface{}) error {
			eventTypes, _ := value.(*[]string)
			if eventTypes == nil {
				return nil
			}
			return validation.Validate(*eventTypes,
				validation.Required,
				validation.Each(validation.Required, customValidation.EventTypeName),
			)
		})),
		validation.Field(&r.Headers, validation.By(func(value interface{}) error {
			headers, _ := value.(*map[string]string)
			if headers == nil {
				return nil
			}
			return customValidation.HeaderNames.Validate(*headers)
		})),
		validation.Field(&r.RetryCount, validation.Min(0), validation.Max(maxRetryCount)),
		validation.Field(&r.RetryDelaySeconds, validation.Min(0), validation.Max(maxRetryDelaySeconds)),
		validation.Field(&r.TimeoutSeconds, validation.Min(1), validation.Max(maxTimeoutSeconds)),
		validation.Field(&r.Description, validation.Length(0, maxDescriptionLength)),
	)
}

// ToInput converts the request into the use case input.
func (r *UpdateSubscriptionRequest) ToInput() *subscriptionDomain.UpdateSubscriptionInput {
	return &subscriptionDomain.UpdateSubscriptionInput{
		TargetURL:         r.TargetURL,
		EventTypes:        r.EventTypes,
		Filters:           r.Filters,
		ClearFilters:      r.ClearFilters,
		Secret:            r.Secret,
		Headers:           r.Headers,
		RetryCount:        r.RetryCount,
		RetryDelaySeconds: r.RetryDelaySeconds,
		TimeoutSeconds:    r.TimeoutSeconds,
		Active:            r.Active,
		Description:       r.Description,
	}
}

// SendTestRequest is the optional body of POST /v1/subscriptions/:id/test.
type SendTestRequest struct {
	EventType string         `json:"event_type,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Validate checks if the send test request is valid.
func (r *SendTestRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EventType, customValidation.EventTypeName),
	)
}
