package domain

import (
	"github.com/allisson/webhooks/internal/errors"
)

// Domain-specific errors for subscription operations.
var (
	// ErrSubscriptionNotFound indicates the subscription does not exist or is outside the caller's tenant.
	ErrSubscriptionNotFound = errors.Wrap(errors.ErrNotFound, "subscription not found")

	// ErrSubscriptionForbidden indicates a mutation attempted by a user who does not own the subscription.
	ErrSubscriptionForbidden = errors.Wrap(errors.ErrForbidden, "subscription belongs to another user")

	// ErrSubscriptionInactive indicates a test delivery requested for an inactive subscription.
	ErrSubscriptionInactive = errors.Wrap(errors.ErrInvalidInput, "subscription is inactive")
)
