// Package domain defines outbound webhook subscriptions and the pure decision functions
// that select them for an event.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Delivery policy defaults applied when a subscription is created without them.
const (
	DefaultRetryCount        = 3
	DefaultRetryDelaySeconds = 5
	DefaultTimeoutSeconds    = 30
)

// Subscription is a tenant-owned registration describing where events are delivered and
// under which conditions. Counters are mutated only by the delivery engine.
type Subscription struct {
	ID                uuid.UUID
	UserID            string
	CompanyID         *string
	TargetURL         string
	EventTypes        string
	Filters           *Filters
	Secret            string
	Headers           map[string]string
	RetryCount        int
	RetryDelaySeconds int
	TimeoutSeconds    int
	Active            bool
	Description       string

	TotalEventsSent      int64
	SuccessfulDeliveries int64
	FailedDeliveries     int64
	ConsecutiveFailures  int64
	LastDeliveryAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasSecret reports whether deliveries are signed.
func (s *Subscription) HasSecret() bool {
	return s.Secret != ""
}

// RetryDelay returns the wait between two attempts.
func (s *Subscription) RetryDelay() time.Duration {
	return time.Duration(s.RetryDelaySeconds) * time.Second
}

// Timeout returns the per-attempt HTTP timeout, falling back to the default when unset.
func (s *Subscription) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// BelongsToCompany reports whether the subscription is scoped to the given company.
func (s *Subscription) BelongsToCompany(companyID string) bool {
	if s.CompanyID == nil {
		return companyID == ""
	}
	return *s.CompanyID == companyID
}

// CreateSubscriptionInput contains the fields accepted when registering a subscription.
// Nil policy fields take the package defaults; Active defaults to true.
type CreateSubscriptionInput struct {
	TargetURL         string
	EventTypes        []string
	Filters           *Filters
	Secret            string
	Headers           map[string]string
	RetryCount        *int
	RetryDelaySeconds *int
	TimeoutSeconds    *int
	Active            *bool
	Description       string
}

// UpdateSubscriptionInput contains the fields of a partial update. Nil fields keep their
// stored value; an empty Secret removes signing.
type UpdateSubscriptionInput struct {
	TargetURL         *string
	EventTypes        *[]string
	Filters           *Filters
	ClearFilters      bool
	Secret            *string
	Headers           *map[string]string
	RetryCount        *int
	RetryDelaySeconds *int
	TimeoutSeconds    *int
	Active            *bool
	Description       *string
}

// SendTestInput describes a synthetic test delivery. EventType defaults to webhook.test.
type SendTestInput struct {
	EventType string
	Data      map[string]any
}

// Outcome is the terminal result of one delivery attempt, applied to the counters.
type Outcome struct {
	Success     bool
	DeliveredAt time.Time
}
