package dto

import (
	"time"

	deliveryDomain "github.com/allisson/webhooks/internal/delivery/domain"
	deliveryDTO "github.com/allisson/webhooks/internal/delivery/http/dto"
	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
)

// SubscriptionResponse represents a subscription in API responses. The secret is never
// returned; HasSecret tells whether deliveries are signed.
type SubscriptionResponse struct {
	ID                   string                      `json:"id"`
	UserID               string                      `json:"user_id"`
	CompanyID            *string                     `json:"company_id"`
	TargetURL            string                      `json:"target_url"`
	EventTypes           []string                    `json:"event_types"`
	Filters              *subscriptionDomain.Filters `json:"filters"`
	HasSecret            bool                        `json:"has_secret"`
	Headers              map[string]string           `json:"headers"`
	RetryCount           int                         `json:"retry_count"`
	RetryDelaySeconds    int                         `json:"retry_delay_seconds"`
	TimeoutSeconds       int                         `json:"timeout_seconds"`
	Active               bool                        `json:"active"`
	Description          string                      `json:"description"`
	TotalEventsSent      int64                       `json:"total_events_sent"`
	SuccessfulDeliveries int64                       `json:"successful_deliveries"`
	FailedDeliveries     int64                       `json:"failed_deliveries"`
	ConsecutiveFailures  int64                       `json:"consecutive_failures"`
	LastDeliveryAt       *time.Time                  `json:"last_delivery_at"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`
}

// ListSubscriptionsResponse wraps a page of subscriptions.
type ListSubscriptionsResponse struct {
	Data []SubscriptionResponse `json:"data"`
}

// SendTestResponse carries the id of the emitted test event.
type SendTestResponse struct {
	EventID string `json:"event_id"`
}

// SubscriptionStatsResponse combines the subscription counters with delivery log aggregates.
type SubscriptionStatsResponse struct {
	SubscriptionID       string                       `json:"subscription_id"`
	TotalEventsSent      int64                        `json:"total_events_sent"`
	SuccessfulDeliveries int64                        `json:"successful_deliveries"`
	FailedDeliveries     int64                        `json:"failed_deliveries"`
	ConsecutiveFailures  int64                        `json:"consecutive_failures"`
	LastDeliveryAt       *time.Time                   `json:"last_delivery_at"`
	CircuitState         string                       `json:"circuit_state"`
	Logs                 deliveryDTO.LogStatsResponse `json:"logs"`
}

// MapSubscriptionToResponse converts a domain subscription to its API representation.
func MapSubscriptionToResponse(sub *subscriptionDomain.Subscription) SubscriptionResponse {
	eventTypes := subscriptionDomain.ParseEventTypes(sub.EventTypes)
	if eventTypes == nil {
		eventTypes = []string{}
	}
	headers := sub.Headers
	if headers == nil {
		headers = map[string]string{}
	}

	return SubscriptionResponse{
		ID:                   sub.ID.String(),
		UserID:               sub.UserID,
		CompanyID:            sub.CompanyID,
		TargetURL:            sub.TargetURL,
		EventTypes:           eventTypes,
		Filters:              sub.Filters,
		HasSecret:            sub.HasSecret(),
		Headers:              headers,
		RetryCount:           sub.RetryCount,
		RetryDelaySeconds:    sub.RetryDelaySeconds,
		TimeoutSeconds:       sub.TimeoutSeconds,
		Active:               sub.Active,
		Description:          sub.Description,
		TotalEventsSent:      sub.TotalEventsSent,
		SuccessfulDeliveries: sub.SuccessfulDeliveries,
		FailedDeliveries:     sub.FailedDeliveries,
		ConsecutiveFailures:  sub.ConsecutiveFailures,
		LastDeliveryAt:       sub.LastDeliveryAt,
		CreatedAt:            sub.CreatedAt,
		UpdatedAt:            sub.UpdatedAt,
	}
}

// MapSubscriptionsToListResponse converts a page of subscriptions.
func MapSubscriptionsToListResponse(subs []*subscriptionDomain.Subscription) ListSubscriptionsResponse {
	data := make([]SubscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		data = append(data, MapSubscriptionToResponse(sub))
	}
	return ListSubscriptionsResponse{Data: data}
}

// MapSubscriptionStats combines counters, breaker state and log aggregates.
func MapSubscriptionStats(
	sub *subscriptionDomain.Subscription,
	stats *deliveryDomain.LogStats,
	circuitState string,
) SubscriptionStatsResponse {
	return SubscriptionStatsResponse{
		SubscriptionID:       sub.ID.String(),
		TotalEventsSent:      sub.TotalEventsSent,
		SuccessfulDeliveries: sub.SuccessfulDeliveries,
		FailedDeliveries:     sub.FailedDeliveries,
		ConsecutiveFailures:  sub.ConsecutiveFailures,
		LastDeliveryAt:       sub.LastDeliveryAt,
		CircuitState:         circuitState,
		Logs:                 deliveryDTO.MapLogStatsToResponse(stats),
	}
}
