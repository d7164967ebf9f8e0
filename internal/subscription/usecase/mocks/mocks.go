// Package mocks provides mock implementations of subscription use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
)

// MockSubscriptionRepository is a mock implementation of SubscriptionRepository.
type MockSubscriptionRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockSubscriptionRepository) Create(ctx context.Context, sub *subscriptionDomain.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

// Get mocks the Get method.
func (m *MockSubscriptionRepository) Get(
	ctx context.Context,
	subscriptionID uuid.UUID,
) (*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscriptionDomain.Subscription), args.Error(1)
}

// List mocks the List method.
func (m *MockSubscriptionRepository) List(
	ctx context.Context,
	companyID *string,
	userID string,
	offset, limit int,
) ([]*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, companyID, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscriptionDomain.Subscription), args.Error(1)
}

// Update mocks the Update method.
func (m *MockSubscriptionRepository) Update(ctx context.Context, sub *subscriptionDomain.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

// Delete mocks the Delete method.
func (m *MockSubscriptionRepository) Delete(ctx context.Context, subscriptionID uuid.UUID) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

// ListActiveByCompany mocks the ListActiveByCompany method.
func (m *MockSubscriptionRepository) ListActiveByCompany(
	ctx context.Context,
	companyID string,
) ([]*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscriptionDomain.Subscription), args.Error(1)
}

// RecordOutcome mocks the RecordOutcome method.
func (m *MockSubscriptionRepository) RecordOutcome(
	ctx context.Context,
	subscriptionID uuid.UUID,
	outcome subscriptionDomain.Outcome,
) error {
	args := m.Called(ctx, subscriptionID, outcome)
	return args.Error(0)
}

// MockSubscriptionUseCase is a mock implementation of SubscriptionUseCase.
type MockSubscriptionUseCase struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockSubscriptionUseCase) Create(
	ctx context.Context,
	principal tenantDomain.Principal,
	input *subscriptionDomain.CreateSubscriptionInput,
) (*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, principal, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscriptionDomain.Subscription), args.Error(1)
}

// Get mocks the Get method.
func (m *MockSubscriptionUseCase) Get(
	ctx context.Context,
	principal tenantDomain.Principal,
	subscriptionID uuid.UUID,
) (*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, principal, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscriptionDomain.Subscription), args.Error(1)
}

// List mocks the List method.
func (m *MockSubscriptionUseCase) List(
	ctx context.Context,
	principal tenantDomain.Principal,
	offset, limit int,
) ([]*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, principal, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*subscriptionDomain.Subscription), args.Error(1)
}

// Update mocks the Update method.
func (m *MockSubscriptionUseCase) Update(
	ctx context.Context,
	principal tenantDomain.Principal,
	subscriptionID uuid.UUID,
	input *subscriptionDomain.UpdateSubscriptionInput,
) (*subscriptionDomain.Subscription, error) {
	args := m.Called(ctx, principal, subscriptionID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscriptionDomain.Subscription), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockSubscriptionUseCase) Delete(
	ctx context.Context,
	principal tenantDomain.Principal,
	subscriptionID uuid.UUID,
) error {
	args := m.Called(ctx, principal, subscriptionID)
	return args.Error(0)
}

// SendTest mocks the SendTest method.
func (m *MockSubscriptionUseCase) SendTest(
	ctx context.Context,
	principal tenantDomain.Principal,
	subscriptionID uuid.UUID,
	input *subscriptionDomain.SendTestInput,
) (uuid.UUID, error) {
	args := m.Called(ctx, principal, subscriptionID, input)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
