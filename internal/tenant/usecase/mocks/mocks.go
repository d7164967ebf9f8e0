// Package mocks provides mock implementations of tenant interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
)

// MockMembershipRepository is a mock implementation of MembershipRepository.
type MockMembershipRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockMembershipRepository) Create(ctx context.Context, membership *tenantDomain.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

// GetCompanyIDByUserID mocks the GetCompanyIDByUserID method.
func (m *MockMembershipRepository) GetCompanyIDByUserID(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// MockCompanyCache is a mock implementation of CompanyCache.
type MockCompanyCache struct {
	mock.Mock
}

// Forget mocks the Forget method.
func (m *MockCompanyCache) Forget(userID string) {
	m.Called(userID)
}

// MockMembershipUseCase is a mock implementation of MembershipUseCase.
type MockMembershipUseCase struct {
	mock.Mock
}

// AddMember mocks the AddMember method.
func (m *MockMembershipUseCase) AddMember(
	ctx context.Context,
	userID, companyID string,
) (*tenantDomain.Membership, error) {
	args := m.Called(ctx, userID, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tenantDomain.Membership), args.Error(1)
}
