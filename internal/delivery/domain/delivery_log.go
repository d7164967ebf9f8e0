// Package domain defines the delivery log entity recorded for every physical webhook
// attempt, outbound deliveries and inbound calls alike.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Direction tells whether a log entry belongs to an outbound delivery or an inbound call.
type Direction string

const (
	// DirectionOutgoing marks an attempt to deliver an event to a subscription.
	DirectionOutgoing Direction = "outgoing"
	// DirectionIncoming marks a call received on an inbound webhook endpoint.
	DirectionIncoming Direction = "incoming"
)

// DefaultResponseMaxLength is the number of characters of a response body kept per entry.
const DefaultResponseMaxLength = 1000

// DeliveryLog is one physical attempt. Retries produce one entry each.
type DeliveryLog struct {
	ID               uuid.UUID
	Direction        Direction
	SubscriptionID   *uuid.UUID
	InboundWebhookID *uuid.UUID
	EventID          *uuid.UUID
	EventType        string
	RequestPayload   string
	ResponseBody     *string
	StatusCode       *int
	Attempt          int
	Success          bool
	ErrorMessage     *string
	DurationMs       int64
	CreatedAt        time.Time
}

// LogStats aggregates the delivery log entries of one subscription.
type LogStats struct {
	TotalAttempts      int64
	SuccessfulAttempts int64
	FailedAttempts     int64
	AvgDurationMs      float64
	LastAttemptAt      *time.Time
}

// Truncate cuts s to at most maxLen characters. A non-positive maxLen keeps s intact.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
