// Package mocks provides mock implementations of delivery use case interfaces for testing.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	deliveryDomain "github.com/allisson/webhooks/internal/delivery/domain"
)

// MockDeliveryLogRepository is a mock implementation of DeliveryLogRepository.
type MockDeliveryLogRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockDeliveryLogRepository) Create(ctx context.Context, deliveryLog *deliveryDomain.DeliveryLog) error {
	args := m.Called(ctx, deliveryLog)
	return args.Error(0)
}

// ListBySubscription mocks the ListBySubscription method.
func (m *MockDeliveryLogRepository) ListBySubscription(
	ctx context.Context,
	subscriptionID uuid.UUID,
	offset, limit int,
) ([]*deliveryDomain.DeliveryLog, error) {
	args := m.Called(ctx, subscriptionID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*deliveryDomain.DeliveryLog), args.Error(1)
}

// ListByInboundWebhook mocks the ListByInboundWebhook method.
func (m *MockDeliveryLogRepository) ListByInboundWebhook(
	ctx context.Context,
	inboundWebhookID uuid.UUID,
	offset, limit int,
) ([]*deliveryDomain.DeliveryLog, error) {
	args := m.Called(ctx, inboundWebhookID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*deliveryDomain.DeliveryLog), args.Error(1)
}

// StatsBySubscription mocks the StatsBySubscription method.
func (m *MockDeliveryLogRepository) StatsBySubscription(
	ctx context.Context,
	subscriptionID uuid.UUID,
) (*deliveryDomain.LogStats, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deliveryDomain.LogStats), args.Error(1)
}

// DeleteOlderThan mocks the DeleteOlderThan method.
func (m *MockDeliveryLogRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	args := m.Called(ctx, olderThan, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// MockDeliveryLogUseCase is a mock implementation of DeliveryLogUseCase.
type MockDeliveryLogUseCase struct {
	mock.Mock
}

// ListBySubscription mocks the ListBySubscription method.
func (m *MockDeliveryLogUseCase) ListBySubscription(
	ctx context.Context,
	subscriptionID uuid.UUID,
	offset, limit int,
) ([]*deliveryDomain.DeliveryLog, error) {
	args := m.Called(ctx, subscriptionID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*deliveryDomain.DeliveryLog), args.Error(1)
}

// ListByInboundWebhook mocks the ListByInboundWebhook method.
func (m *MockDeliveryLogUseCase) ListByInboundWebhook(
	ctx context.Context,
	inboundWebhookID uuid.UUID,
	offset, limit int,
) ([]*deliveryDomain.DeliveryLog, error) {
	args := m.Called(ctx, inboundWebhookID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*deliveryDomain.DeliveryLog), args.Error(1)
}

// StatsBySubscription mocks the StatsBySubscription method.
func (m *MockDeliveryLogUseCase) StatsBySubscription(
	ctx context.Context,
	subscriptionID uuid.UUID,
) (*deliveryDomain.LogStats, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deliveryDomain.LogStats), args.Error(1)
}

// DeleteOlderThan mocks the DeleteOlderThan method.
func (m *MockDeliveryLogUseCase) DeleteOlderThan(ctx context.Context, days int, dryRun bool) (int64, error) {
	args := m.Called(ctx, days, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

// MockCompanyResolver is a mock implementation of CompanyResolver.
type MockCompanyResolver struct {
	mock.Mock
}

// ResolveCompany mocks the ResolveCompany method.
func (m *MockCompanyResolver) ResolveCompany(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// MockCircuitStateReader is a mock implementation of CircuitStateReader.
type MockCircuitStateReader struct {
	mock.Mock
}

// CircuitState mocks the CircuitState method.
func (m *MockCircuitStateReader) CircuitState(subscriptionID uuid.UUID) string {
	args := m.Called(subscriptionID)
	return args.String(0)
}
