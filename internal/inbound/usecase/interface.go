// Package usecase defines business logic for inbound webhook registrations and for
// processing inbound calls.
package usecase

import (
	"context"

	"github.com/google/uuid"

	deliveryDomain "github.com/allisson/webhooks/internal/delivery/domain"
	inboundDomain "github.com/allisson/webhooks/internal/inbound/domain"
	inboundService "github.com/allisson/webhooks/internal/inbound/service"
	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
)

// RegistrationRepository defines persistence operations for inbound webhook registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, registration *inboundDomain.Registration) error

	// Get returns ErrRegistrationNotFound if the registration does not exist.
	Get(ctx context.Context, registrationID uuid.UUID) (*inboundDomain.Registration, error)

	// GetByIDAndKeyHash matches both halves in one lookup and returns ErrInvalidCredentials
	// when there is no exact match.
	GetByIDAndKeyHash(
		ctx context.Context,
		registrationID uuid.UUID,
		keyHash string,
	) (*inboundDomain.Registration, error)

	List(
		ctx context.Context,
		companyID *string,
		userID string,
		offset, limit int,
	) ([]*inboundDomain.Registration, error)

	Update(ctx context.Context, registration *inboundDomain.Registration) error

	Delete(ctx context.Context, registrationID uuid.UUID) error
}

// DeliveryLogWriter stores incoming delivery log entries.
type DeliveryLogWriter interface {
	Create(ctx context.Context, deliveryLog *deliveryDomain.DeliveryLog) error
}

// ProcessorResolver selects the processor bound to a capability.
type ProcessorResolver interface {
	Resolve(capability string) inboundService.Processor
}

// KeyGenerator issues API keys together with their stored hash.
type KeyGenerator interface {
	Generate() (plainKey string, keyHash string, err error)
}

// RegistrationUseCase manages inbound webhook registrations scoped to the calling principal.
type RegistrationUseCase interface {
	// Create returns the plain API key exactly once.
	Create(
		ctx context.Context,
		principal tenantDomain.Principal,
		input *inboundDomain.CreateRegistrationInput,
	) (*inboundDomain.CreatedRegistration, error)

	Get(
		ctx context.Context,
		principal tenantDomain.Principal,
		registrationID uuid.UUID,
	) (*inboundDomain.Registration, error)

	List(
		ctx context.Context,
		principal tenantDomain.Principal,
		offset, limit int,
	) ([]*inboundDomain.Registration, error)

	Update(
		ctx context.Context,
		principal tenantDomain.Principal,
		registrationID uuid.UUID,
		input *inboundDomain.UpdateRegistrationInput,
	) (*inboundDomain.Registration, error)

	Delete(ctx context.Context, principal tenantDomain.Principal, registrationID uuid.UUID) error
}

// ProcessUseCase authenticates an inbound call and hands it to the bound processor.
type ProcessUseCase interface {
	Process(
		ctx context.Context,
		registrationID uuid.UUID,
		presentedKey string,
		req *inboundDomain.InboundRequest,
	) (inboundDomain.ProcessResult, error)
}
