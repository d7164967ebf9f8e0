package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	eventDomain "github.com/allisson/webhooks/internal/event/domain"
	eventService "github.com/allisson/webhooks/internal/event/service"
	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
)

// subscriptionUseCase implements SubscriptionUseCase.
type subscriptionUseCase struct {
	subscriptionRepo SubscriptionRepository
	catalog          eventService.EventTypeCatalog
	emitter          eventService.TestEmitter
}

// Create registers a subscription owned by the caller and scoped to the caller's company.
func (s *subscriptionUseCase) Create(
	ctx context.Context,
	principal tenantDomain.Principal,
	input *subscriptionDomain.CreateSubscriptionInput,
) (*subscriptionDomain.Subscription, error) {
	if err := s.catalog.Validate(input.EventTypes); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub := &subscriptionDomain.Subscription{
		ID:                uuid.Must(uuid.NewV7()),
		UserID:            principal.UserID,
		CompanyID:         principal.CompanyPtr(),
		TargetURL:         input.TargetURL,
		EventTypes:        subscriptionDomain.FormatEventTypes(input.EventTypes),
		Secret:            input.Secret,
		Headers:           input.Headers,
		RetryCount:        intOrDefault(input.RetryCount, subscriptionDomain.DefaultRetryCount),
		RetryDelaySeconds: intOrDefault(input.RetryDelaySeconds, subscriptionDomain.DefaultRetryDelaySeconds),
		TimeoutSeconds:    intOrDefault(input.TimeoutSeconds, subscriptionDomain.DefaultTimeoutSeconds),
		Active:            input.Active == nil || *input.Active,
		Description:       input.Description,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if !input.Filters.IsEmpty() {
		sub.Filters = input.Filters
	}

	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Get retrieves a subscription visible to the caller.
func (s *subscriptionUseCase) Get(
	ctx context.Context,
	principal tenantDomain.Principal,
	subscriptionID uuid.UUID,
) (*subscriptionDomain.Subscription, error) {
	sub, err := s.subscriptionRepo.Get(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if !visibleTo(sub, principal) {
		return nil, subscriptionDomain.ErrSubscriptionNotFound
	}
	return sub, nil
}

// List retrieves the subscriptions visible to the caller.
func (s *subscriptionUseCase) List(
	ctx context.Context,
	principal tenantDomain.Principal,
	offset, limit int,
) ([]*subscriptionDomain.Subscription, error) {
	return s.subscriptionRepo.List(ctx, principal.CompanyPtr(), principal.UserID, offset, limit)
}

// Update applies a partial update to a subscription owned by the caller.
func (s *subscriptionUseCase) Update(
	ctx context.Context,
	principal tenantDomain.Principal,
	subscriptionID uuid.UUID,
	input *subscriptionDomain.UpdateSubscriptionInput,
) (*subscriptionDomain.Subscription, error) {
	sub, err := s.getOwned(ctx, principal, subscriptionID)
	if err != nil {
		return nil, err
	}

	if input.EventTypes != nil {
		if err := s.catalog.Validate(*input.EventTypes); err != nil {
			return nil, err
		}
		sub.EventTypes = subscriptionDomain.FormatEventTypes(*input.EventTypes)
	}
	if input.TargetURL != nil {
		sub.TargetURL = *input.TargetURL
	}
	if input.ClearFilters {
		sub.Filters = nil
	} else if input.Filters != nil {
		sub.Filters = input.Filters
	}
	if input.Secret != nil {
		sub.Secret = *input.Secret
	}
	if input.Headers != nil {
		sub.Headers = *input.Headers
	}
	if input.RetryCount != nil {
		sub.RetryCount = *input.RetryCount
	}
	if input.RetryDelaySeconds != nil {
		sub.RetryDelaySeconds = *input.RetryDelaySeconds
	}
	if input.TimeoutSeconds != nil {
		sub.TimeoutSeconds = *input.TimeoutSeconds
	}
	if input.Active != nil {
		sub.Active = *input.Active
	}
	if input.Description != nil {
		sub.Description = *input.Description
	}
	sub.UpdatedAt = time.Now().UTC()

	if err := s.subscriptionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Delete removes a subscription owned by the caller.
func (s *subscriptionUseCase) Delete(
	ctx context.Context,
	principal tenantDomain.Principal,
	subscriptionID uuid.UUID,
) error {
	if _, err := s.getOwned(ctx, principal, subscriptionID); err != nil {
		return err
	}
	return s.subscriptionRepo.Delete(ctx, subscriptionID)
}

// SendTest emits a test probe that the engine delivers to this subscription only.
func (s *subscriptionUseCase) SendTest(
	ctx context.Context,
	principal tenantDomain.Principal,
	subscriptionID uuid.UUID,
	input *subscriptionDomain.SendTestInput,
) (uuid.UUID, error) {
	sub, err := s.Get(ctx, principal, subscriptionID)
	if err != nil {
		return uuid.Nil, err
	}
	if !sub.Active {
		return uuid.Nil, subscriptionDomain.ErrSubscriptionInactive
	}

	eventType := input.EventType
	if eventType == "" {
		eventType = eventDomain.WebhookTest
	}
	data := input.Data
	if data == nil {
		data = map[string]any{"message": "This is a test webhook delivery"}
	}

	var companyID string
	if sub.CompanyID != nil {
		companyID = *sub.CompanyID
	}

	return s.emitter.EmitTest(ctx, &eventDomain.EmitInput{
		EventType: eventType,
		UserID:    principal.UserID,
		CompanyID: companyID,
		Data:      data,
	}, sub.ID)
}

func (s *subscriptionUseCase) getOwned(
	ctx context.Context,
	principal tenantDomain.Principal,
	subscriptionID uuid.UUID,
) (*subscriptionDomain.Subscription, error) {
	sub, err := s.Get(ctx, principal, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.UserID != principal.UserID {
		return nil, subscriptionDomain.ErrSubscriptionForbidden
	}
	return sub, nil
}

// visibleTo scopes company subscriptions to company members and unscoped ones to their owner.
func visibleTo(sub *subscriptionDomain.Subscription, principal tenantDomain.Principal) bool {
	if principal.HasCompany() {
		return sub.BelongsToCompany(principal.CompanyID)
	}
	return sub.CompanyID == nil && sub.UserID == principal.UserID
}

func intOrDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

// NewSubscriptionUseCase creates a new SubscriptionUseCase.
func NewSubscriptionUseCase(
	subscriptionRepo SubscriptionRepository,
	catalog eventService.EventTypeCatalog,
	emitter eventService.TestEmitter,
) SubscriptionUseCase {
	return &subscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		catalog:          catalog,
		emitter:          emitter,
	}
}
