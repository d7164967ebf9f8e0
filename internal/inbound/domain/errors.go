package domain

import (
	"github.com/allisson/webhooks/internal/errors"
)

// Domain-specific errors for inbound webhook operations.
var (
	// ErrRegistrationNotFound indicates the registration does not exist or is outside the caller's tenant.
	ErrRegistrationNotFound = errors.Wrap(errors.ErrNotFound, "inbound webhook not found")

	// ErrRegistrationForbidden indicates a mutation attempted by a user who does not own the registration.
	ErrRegistrationForbidden = errors.Wrap(errors.ErrForbidden, "inbound webhook belongs to another user")

	// ErrInvalidCredentials indicates that no registration matches the presented id and key.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid inbound webhook credentials")

	// ErrRegistrationInactive indicates a call to a deactivated registration.
	ErrRegistrationInactive = errors.Wrap(errors.ErrForbidden, "inbound webhook is inactive")

	// ErrProcessingFailed indicates the bound processor failed.
	ErrProcessingFailed = errors.New("inbound webhook processing failed")

	// ErrInvalidPayload indicates an inbound call whose body is not a JSON object.
	ErrInvalidPayload = errors.Wrap(errors.ErrInvalidInput, "payload must be a JSON object")
)
