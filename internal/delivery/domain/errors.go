package domain

import (
	"github.com/allisson/webhooks/internal/errors"
)

// Domain-specific errors for delivery log operations.
var (
	// ErrInvalidRetentionDays indicates a negative retention window.
	ErrInvalidRetentionDays = errors.Wrap(errors.ErrInvalidInput, "days must be a positive number")
)
