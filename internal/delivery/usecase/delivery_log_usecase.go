package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	deliveryDomain "github.com/allisson/webhooks/internal/delivery/domain"
)

type deliveryLogUseCase struct {
	repo DeliveryLogRepository
	now  func() time.Time
}

func (d *deliveryLogUseCase) ListBySubscription(
	ctx context.Context,
	subscriptionID uuid.UUID,
	offset, limit int,
) ([]*deliveryDomain.DeliveryLog, error) {
	return d.repo.ListBySubscription(ctx, subscriptionID, offset, limit)
}

func (d *deliveryLogUseCase) ListByInboundWebhook(
	ctx context.Context,
	inboundWebhookID uuid.UUID,
	offset, limit int,
) ([]*deliveryDomain.DeliveryLog, error) {
	return d.repo.ListByInboundWebhook(ctx, inboundWebhookID, offset, limit)
}

func (d *deliveryLogUseCase) StatsBySubscription(
	ctx context.Context,
	subscriptionID uuid.UUID,
) (*deliveryDomain.LogStats, error) {
	return d.repo.StatsBySubscription(ctx, subscriptionID)
}

// DeleteOlderThan converts days into a UTC cutoff and delegates to the repository.
func (d *deliveryLogUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	if days < 0 {
		return 0, deliveryDomain.ErrInvalidRetentionDays
	}

	cutoff := d.now().UTC().AddDate(0, 0, -days)
	return d.repo.DeleteOlderThan(ctx, cutoff, dryRun)
}

// NewDeliveryLogUseCase creates a DeliveryLogUseCase.
func NewDeliveryLogUseCase(repo DeliveryLogRepository) DeliveryLogUseCase {
	return &deliveryLogUseCase{repo: repo, now: time.Now}
}
