// Package dto provides the JSON representation of delivery log entries shared by the
// subscription and inbound webhook endpoints.
package dto

import (
	"time"

	deliveryDomain "github.com/allisson/webhooks/internal/delivery/domain"
)

// DeliveryLogResponse represents one delivery attempt in API responses.
type DeliveryLogResponse struct {
	ID               string    `json:"id"`
	Direction        string    `json:"direction"`
	SubscriptionID   *string   `json:"subscription_id"`
	InboundWebhookID *string   `json:"inbound_webhook_id"`
	EventID          *string   `json:"event_id"`
	EventType        string    `json:"event_type"`
	RequestPayload   string    `json:"request_payload"`
	ResponseBody     *string   `json:"response_body"`
	StatusCode       *int      `json:"status_code"`
	Attempt          int       `json:"attempt"`
	Success          bool      `json:"success"`
	ErrorMessage     *string   `json:"error_message"`
	DurationMs       int64     `json:"duration_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// ListDeliveryLogsResponse wraps a page of delivery log entries.
type ListDeliveryLogsResponse struct {
	Data []DeliveryLogResponse `json:"data"`
}

// LogStatsResponse contains aggregates computed over delivery log entries.
type LogStatsResponse struct {
	TotalAttempts      int64      `json:"total_attempts"`
	SuccessfulAttempts int64      `json:"successful_attempts"`
	FailedAttempts     int64      `json:"failed_attempts"`
	AvgDurationMs      float64    `json:"avg_duration_ms"`
	LastAttemptAt      *time.Time `json:"last_attempt_at"`
}

// MapDeliveryLogToResponse converts a domain entry to its API representation.
func MapDeliveryLogToResponse(deliveryLog *deliveryDomain.DeliveryLog) DeliveryLogResponse {
	response := DeliveryLogResponse{
		ID:             deliveryLog.ID.String(),
		Direction:      string(deliveryLog.Direction),
		EventType:      deliveryLog.EventType,
		RequestPayload: deliveryLog.RequestPayload,
		ResponseBody:   deliveryLog.ResponseBody,
		StatusCode:     deliveryLog.StatusCode,
		Attempt:        deliveryLog.Attempt,
		Success:        deliveryLog.Success,
		ErrorMessage:   deliveryLog.ErrorMessage,
		DurationMs:     deliveryLog.DurationMs,
		CreatedAt:      deliveryLog.CreatedAt,
	}
	if deliveryLog.SubscriptionID != nil {
		id := deliveryLog.SubscriptionID.String()
		response.SubscriptionID = &id
	}
	if deliveryLog.InboundWebhookID != nil {
		id := deliveryLog.InboundWebhookID.String()
		response.InboundWebhookID = &id
	}
	if deliveryLog.EventID != nil {
		id := deliveryLog.EventID.String()
		response.EventID = &id
	}
	return response
}

// MapDeliveryLogsToListResponse converts a page of entries.
func MapDeliveryLogsToListResponse(logs []*deliveryDomain.DeliveryLog) ListDeliveryLogsResponse {
	data := make([]DeliveryLogResponse, 0, len(logs))
	for _, deliveryLog := range logs {
		data = append(data, MapDeliveryLogToResponse(deliveryLog))
	}
	return ListDeliveryLogsResponse{Data: data}
}

// MapLogStatsToResponse converts log aggregates.
func MapLogStatsToResponse(stats *deliveryDomain.LogStats) LogStatsResponse {
	return LogStatsResponse{
		TotalAttempts:      stats.TotalAttempts,
		SuccessfulAttempts: stats.SuccessfulAttempts,
		FailedAttempts:     stats.FailedAttempts,
		AvgDurationMs:      stats.AvgDurationMs,
		LastAttemptAt:      stats.LastAttemptAt,
	}
}
