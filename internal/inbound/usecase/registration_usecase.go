package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	inboundDomain "github.com/allisson/webhooks/internal/inbound/domain"
	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
)

type registrationUseCase struct {
	registrationRepo RegistrationRepository
	keys             KeyGenerator
}

// Create registers an inbound webhook owned by the caller and generates its API key.
func (r *registrationUseCase) Create(
	ctx context.Context,
	principal tenantDomain.Principal,
	input *inboundDomain.CreateRegistrationInput,
) (*inboundDomain.CreatedRegistration, error) {
	plainKey, keyHash, err := r.keys.Generate()
	if err != nil {
		return nil, err
	}

	capability := strings.TrimSpace(input.Capability)
	if capability == "" {
		capability = inboundDomain.DefaultCapability
	}

	now := time.Now().UTC()
	registration := &inboundDomain.Registration{
		ID:          uuid.Must(uuid.NewV7()),
		UserID:      principal.UserID,
		CompanyID:   principal.CompanyPtr(),
		Capability:  capability,
		APIKeyHash:  keyHash,
		Active:      input.Active == nil || *input.Active,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := r.registrationRepo.Create(ctx, registration); err != nil {
		return nil, err
	}
	return &inboundDomain.CreatedRegistration{Registration: registration, APIKey: plainKey}, nil
}

// Get retrieves a registration visible to the caller.
func (r *registrationUseCase) Get(
	ctx context.Context,
	principal tenantDomain.Principal,
	registrationID uuid.UUID,
) (*inboundDomain.Registration, error) {
	registration, err := r.registrationRepo.Get(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if !visibleTo(registration, principal) {
		return nil, inboundDomain.ErrRegistrationNotFound
	}
	return registration, nil
}

// List retrieves the registrations visible to the caller.
func (r *registrationUseCase) List(
	ctx context.Context,
	principal tenantDomain.Principal,
	offset, limit int,
) ([]*inboundDomain.Registration, error) {
	return r.registrationRepo.List(ctx, principal.CompanyPtr(), principal.UserID, offset, limit)
}

// Update applies a partial update to a registration owned by the caller.
func (r *registrationUseCase) Update(
	ctx context.Context,
	principal tenantDomain.Principal,
	registrationID uuid.UUID,
	input *inboundDomain.UpdateRegistrationInput,
) (*inboundDomain.Registration, error) {
	registration, err := r.getOwned(ctx, principal, registrationID)
	if err != nil {
		return nil, err
	}

	if input.Capability != nil {
		registration.Capability = strings.TrimSpace(*input.Capability)
		if registration.Capability == "" {
			registration.Capability = inboundDomain.DefaultCapability
		}
	}
	if input.Description != nil {
		registration.Description = *input.Description
	}
	if input.Active != nil {
		registration.Active = *input.Active
	}
	registration.UpdatedAt = time.Now().UTC()

	if err := r.registrationRepo.Update(ctx, registration); err != nil {
		return nil, err
	}
	return registration, nil
}

// Delete removes a registration owned by the caller.
func (r *registrationUseCase) Delete(
	ctx context.Context,
	principal tenantDomain.Principal,
	registrationID uuid.UUID,
) error {
	if _, err := r.getOwned(ctx, principal, registrationID); err != nil {
		return err
	}
	return r.registrationRepo.Delete(ctx, registrationID)
}

func (r *registrationUseCase) getOwned(
	ctx context.Context,
	principal tenantDomain.Principal,
	registrationID uuid.UUID,
) (*inboundDomain.Registration, error) {
	registration, err := r.Get(ctx, principal, registrationID)
	if err != nil {
		return nil, err
	}
	if registration.UserID != principal.UserID {
		return nil, inboundDomain.ErrRegistrationForbidden
	}
	return registration, nil
}

func visibleTo(registration *inboundDomain.Registration, principal tenantDomain.Principal) bool {
	if principal.HasCompany() {
		return registration.BelongsToCompany(principal.CompanyID)
	}
	return registration.CompanyID == nil && registration.UserID == principal.UserID
}

// NewRegistrationUseCase creates a new RegistrationUseCase.
func NewRegistrationUseCase(registrationRepo RegistrationRepository, keys KeyGenerator) RegistrationUseCase {
	return &registrationUseCase{
		registrationRepo: registrationRepo,
		keys:             keys,
	}
}
