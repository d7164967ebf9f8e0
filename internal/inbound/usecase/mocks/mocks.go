// Package mocks provides mock implementations of inbound webhook interfaces for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	inboundDomain "github.com/allisson/webhooks/internal/inbound/domain"
	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
)

// MockRegistrationRepository is a mock implementation of RegistrationRepository.
type MockRegistrationRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockRegistrationRepository) Create(ctx context.Context, registration *inboundDomain.Registration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockRegistrationRepository) Get(
	ctx context.Context,
	registrationID uuid.UUID,
) (*inboundDomain.Registration, error) {
	args := m.Called(ctx, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inboundDomain.Registration), args.Error(1)
}

// GetByIDAndKeyHash mocks the GetByIDAndKeyHash method.
func (m *MockRegistrationRepository) GetByIDAndKeyHash(
	ctx context.Context,
	registrationID uuid.UUID,
	keyHash string,
) (*inboundDomain.Registration, error) {
	args := m.Called(ctx, registrationID, keyHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inboundDomain.Registration), args.Error(1)
}

// List mocks the List method.
func (m *MockRegistrationRepository) List(
	ctx context.Context,
	companyID *string,
	userID string,
	offset, limit int,
) ([]*inboundDomain.Registration, error) {
	args := m.Called(ctx, companyID, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inboundDomain.Registration), args.Error(1)
}

// Update mocks the Update method.
func (m *MockRegistrationRepository) Update(ctx context.Context, registration *inboundDomain.Registration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

// Delete mocks the Delete method.
func (m *MockRegistrationRepository) Delete(ctx context.Context, registrationID uuid.UUID) error {
	args := m.Called(ctx, registrationID)
	return args.Error(0)
}

// MockKeyGenerator is a mock implementation of KeyGenerator.
type MockKeyGenerator struct {
	mock.Mock
}

// Generate mocks the Generate method.
func (m *MockKeyGenerator) Generate() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

// MockRegistrationUseCase is a mock implementation of RegistrationUseCase.
type MockRegistrationUseCase struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockRegistrationUseCase) Create(
	ctx context.Context,
	principal tenantDomain.Principal,
	input *inboundDomain.CreateRegistrationInput,
) (*inboundDomain.CreatedRegistration, error) {
	args := m.Called(ctx, principal, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inboundDomain.CreatedRegistration), args.Error(1)
}

// Get mocks the Get method.
func (m *MockRegistrationUseCase) Get(
	ctx context.Context,
	principal tenantDomain.Principal,
	registrationID uuid.UUID,
) (*inboundDomain.Registration, error) {
	args := m.Called(ctx, principal, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inboundDomain.Registration), args.Error(1)
}

// List mocks the List method.
func (m *MockRegistrationUseCase) List(
	ctx context.Context,
	principal tenantDomain.Principal,
	offset, limit int,
) ([]*inboundDomain.Registration, error) {
	args := m.Called(ctx, principal, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inboundDomain.Registration), args.Error(1)
}

// Update mocks the Update method.
func (m *MockRegistrationUseCase) Update(
	ctx context.Context,
	principal tenantDomain.Principal,
	registrationID uuid.UUID,
	input *inboundDomain.UpdateRegistrationInput,
) (*inboundDomain.Registration, error) {
	args := m.Called(ctx, principal, registrationID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inboundDomain.Registration), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockRegistrationUseCase) Delete(
	ctx context.Context,
	principal tenantDomain.Principal,
	registrationID uuid.UUID,
) error {
	args := m.Called(ctx, principal, registrationID)
	return args.Error(0)
}

// MockProcessUseCase is a mock implementation of ProcessUseCase.
type MockProcessUseCase struct {
	mock.Mock
}

// Process mocks the Process method.
func (m *MockProcessUseCase) Process(
	ctx context.Context,
	registrationID uuid.UUID,
	presentedKey string,
	req *inboundDomain.InboundRequest,
) (inboundDomain.ProcessResult, error) {
	args := m.Called(ctx, registrationID, presentedKey, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(inboundDomain.ProcessResult), args.Error(1)
}
