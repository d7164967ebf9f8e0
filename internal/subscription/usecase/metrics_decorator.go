package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/webhooks/internal/metrics"
	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
)

const metricsDomain = "subscriptions"

// subscriptionUseCaseWithMetrics decorates SubscriptionUseCase with metrics instrumentation.
type subscriptionUseCaseWithMetrics struct {
	next    SubscriptionUseCase
	metrics metrics.BusinessMetrics
}

// NewSubscriptionUseCaseWithMetrics wraps a SubscriptionUseCase with metrics recording.
func NewSubscriptionUseCaseWithMetrics(
	useCase SubscriptionUseCase,
	m metrics.BusinessMetrics,
) SubscriptionUseCase {
	return &subscriptionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *subscriptionUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusFor(err)
	s.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	s.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// Create records metrics for subscription creation.
func (s *subscriptionUseCaseWithMetrics) Create(
	ctx context.Context,
	principal tenantDomain.Principal,
	input *subscriptionDomain.CreateSubscriptionInput,
) (*subscriptionDomain.Subscription, error) {
	start := time.Now()
	sub, err := s.next.Create(ctx, principal, input)
	s.record(ctx, "subscription_create", start, err)
	return sub, err
}

// Get records metrics for subscription retrieval.
func (s *subscriptionUseCaseWithMetrics) Get(
	ctx context.Context,
	principal tenantDomain.Principal,
	subscriptionID uuid.UUID,
) (*subscriptionDomain.Subscription, error) {
	start := time.Now()
	sub, err := s.next.Get(ctx, principal, subscriptionID)
	s.record(ctx, "subscription_get", start, err)
	return sub, err
}

// List records metrics for subscription listing.
func (s *subscriptionUseCaseWithMetrics) List(
	ctx context.Context,
	principal tenantDomain.Principal,
	offset, limit int,
) ([]*subscriptionDomain.Subscription, error) {
	start := time.Now()
	subs, err := s.next.List(ctx, principal, offset, limit)
	s.record(ctx, "subscription_list", start, err)
	return subs, err
}

// Update records metrics for subscription updates.
func (s *subscriptionUseCaseWithMetrics) Update(
	ctx context.Context,
	principal tenantDomain.Principal,
	subscriptionID uuid.UUID,
	input *subscriptionDomain.UpdateSubscriptionInput,
) (*subscriptionDomain.Subscription, error) {
	start := time.Now()
	sub, err := s.next.Update(ctx, principal, subscriptionID, input)
	s.record(ctx, "subscription_update", start, err)
	return sub, err
}

// Delete records metrics for subscription deletion.
func (s *subscriptionUseCaseWithMetrics) Delete(
	ctx context.Context,
	principal tenantDomain.Principal,
	subscriptionID uuid.UUID,
) error {
	start := time.Now()
	err := s.next.Delete(ctx, principal, subscriptionID)
	s.record(ctx, "subscription_delete", start, err)
	return err
}

// SendTest records metrics for test deliveries.
func (s *subscriptionUseCaseWithMetrics) SendTest(
	ctx context.Context,
	principal tenantDomain.Principal,
	subscriptionID uuid.UUID,
	input *subscriptionDomain.SendTestInput,
) (uuid.UUID, error) {
	start := time.Now()
	eventID, err := s.next.SendTest(ctx, principal, subscriptionID, input)
	s.record(ctx, "subscription_send_test", start, err)
	return eventID, err
}
