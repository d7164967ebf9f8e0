package domain

import (
	"github.com/allisson/webhooks/internal/errors"
)

// Event emission and catalog errors.
var (
	// ErrEventTypeRequired indicates an emission without an event type.
	ErrEventTypeRequired = errors.Wrap(errors.ErrInvalidInput, "event type is required")

	// ErrUserIDRequired indicates an emission without an acting user.
	ErrUserIDRequired = errors.Wrap(errors.ErrInvalidInput, "user id is required")

	// ErrUnknownEventType indicates a subscription referencing an event type missing from the catalog.
	ErrUnknownEventType = errors.Wrap(errors.ErrInvalidInput, "unknown event type")

	// ErrEngineStopped indicates an emission after the delivery engine started shutting down.
	ErrEngineStopped = errors.New("delivery engine stopped")
)
