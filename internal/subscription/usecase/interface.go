// Package usecase defines business logic for managing outbound webhook subscriptions.
package usecase

import (
	"context"

	"github.com/google/uuid"

	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
)

// SubscriptionRepository defines persistence operations for subscriptions.
// Implementations must support transaction-aware operations via context propagation.
type SubscriptionRepository interface {
	// Create stores a new subscription.
	Create(ctx context.Context, sub *subscriptionDomain.Subscription) error

	// Get retrieves a subscription by ID. Returns ErrSubscriptionNotFound if not found.
	Get(ctx context.Context, subscriptionID uuid.UUID) (*subscriptionDomain.Subscription, error)

	// List retrieves the company's subscriptions, or the user's unscoped ones when companyID is nil.
	List(
		ctx context.Context,
		companyID *string,
		userID string,
		offset, limit int,
	) ([]*subscriptionDomain.Subscription, error)

	// Update replaces the mutable fields. Returns ErrSubscriptionNotFound if not found.
	Update(ctx context.Context, sub *subscriptionDomain.Subscription) error

	// Delete removes a subscription. Returns ErrSubscriptionNotFound if not found.
	Delete(ctx context.Context, subscriptionID uuid.UUID) error

	// ListActiveByCompany retrieves every active subscription of a company.
	ListActiveByCompany(ctx context.Context, companyID string) ([]*subscriptionDomain.Subscription, error)

	// RecordOutcome atomically applies one attempt's outcome to the delivery counters.
	RecordOutcome(ctx context.Context, subscriptionID uuid.UUID, outcome subscriptionDomain.Outcome) error
}

// SubscriptionUseCase defines subscription management scoped to the calling principal.
// Reads are tenant-wide; mutations are restricted to the owning user.
type SubscriptionUseCase interface {
	Create(
		ctx context.Context,
		principal tenantDomain.Principal,
		input *subscriptionDomain.CreateSubscriptionInput,
	) (*subscriptionDomain.Subscription, error)

	// Get returns ErrSubscriptionNotFound for subscriptions outside the caller's tenant.
	Get(
		ctx context.Context,
		principal tenantDomain.Principal,
		subscriptionID uuid.UUID,
	) (*subscriptionDomain.Subscription, error)

	List(
		ctx context.Context,
		principal tenantDomain.Principal,
		offset, limit int,
	) ([]*subscriptionDomain.Subscription, error)

	// Update validates new event types against the catalog and rejects unknown ones.
	Update(
		ctx context.Context,
		principal tenantDomain.Principal,
		subscriptionID uuid.UUID,
		input *subscriptionDomain.UpdateSubscriptionInput,
	) (*subscriptionDomain.Subscription, error)

	Delete(ctx context.Context, principal tenantDomain.Principal, subscriptionID uuid.UUID) error

	// SendTest emits a synthetic event tagged metadata.test=true addressed to one subscription.
	SendTest(
		ctx context.Context,
		principal tenantDomain.Principal,
		subscriptionID uuid.UUID,
		input *subscriptionDomain.SendTestInput,
	) (uuid.UUID, error)
}
