// Package usecase implements the delivery engine and the delivery log queries.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	deliveryDomain "github.com/allisson/webhooks/internal/delivery/domain"
	deliveryService "github.com/allisson/webhooks/internal/delivery/service"
	eventDomain "github.com/allisson/webhooks/internal/event/domain"
	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
)

// DeliveryLogRepository defines persistence operations for delivery log entries.
// Implementations must support transaction-aware operations via context propagation.
type DeliveryLogRepository interface {
	// Create appends one entry.
	Create(ctx context.Context, deliveryLog *deliveryDomain.DeliveryLog) error

	// ListBySubscription retrieves a subscription's entries, newest first.
	ListBySubscription(
		ctx context.Context,
		subscriptionID uuid.UUID,
		offset, limit int,
	) ([]*deliveryDomain.DeliveryLog, error)

	// ListByInboundWebhook retrieves an inbound webhook's entries, newest first.
	ListByInboundWebhook(
		ctx context.Context,
		inboundWebhookID uuid.UUID,
		offset, limit int,
	) ([]*deliveryDomain.DeliveryLog, error)

	// StatsBySubscription aggregates a subscription's entries.
	StatsBySubscription(ctx context.Context, subscriptionID uuid.UUID) (*deliveryDomain.LogStats, error)

	// DeleteOlderThan removes (or with dryRun counts) entries created before olderThan.
	DeleteOlderThan(ctx context.Context, olderThan time.Time, dryRun bool) (int64, error)
}

// SubscriptionStore is the part of the subscription registry the engine reads and updates.
type SubscriptionStore interface {
	Get(ctx context.Context, subscriptionID uuid.UUID) (*subscriptionDomain.Subscription, error)
	ListActiveByCompany(ctx context.Context, companyID string) ([]*subscriptionDomain.Subscription, error)
	RecordOutcome(ctx context.Context, subscriptionID uuid.UUID, outcome subscriptionDomain.Outcome) error
}

// CompanyResolver maps an acting user to the company owning its events.
type CompanyResolver interface {
	ResolveCompany(ctx context.Context, userID string) (string, error)
}

// PayloadTransformer builds the wire payload for a destination URL.
type PayloadTransformer interface {
	Transform(targetURL string, env *eventDomain.Envelope) (any, error)
}

// CircuitStateReader reports the breaker state of a subscription's destination.
type CircuitStateReader interface {
	CircuitState(subscriptionID uuid.UUID) string
}

// Sender performs one outbound HTTP attempt.
type Sender interface {
	Send(ctx context.Context, req *deliveryService.OutboundRequest) (*deliveryService.OutboundResponse, error)
}

// DeliveryLogUseCase exposes delivery log queries and retention.
type DeliveryLogUseCase interface {
	ListBySubscription(
		ctx context.Context,
		subscriptionID uuid.UUID,
		offset, limit int,
	) ([]*deliveryDomain.DeliveryLog, error)

	ListByInboundWebhook(
		ctx context.Context,
		inboundWebhookID uuid.UUID,
		offset, limit int,
	) ([]*deliveryDomain.DeliveryLog, error)

	StatsBySubscription(ctx context.Context, subscriptionID uuid.UUID) (*deliveryDomain.LogStats, error)

	// DeleteOlderThan removes entries older than the given number of days. With dryRun
	// set it only reports how many entries would be removed.
	DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error)
}
