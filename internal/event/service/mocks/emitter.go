// Package mocks provides mock implementations of event service interfaces for testing.
package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	eventDomain "github.com/allisson/webhooks/internal/event/domain"
)

// MockEmitter is a mock implementation of Emitter for testing.
type MockEmitter struct {
	mock.Mock
}

// NewMockEmitter creates a MockEmitter whose expectations are asserted at test cleanup.
func NewMockEmitter(t *testing.T) *MockEmitter {
	m := &MockEmitter{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Emit mocks the Emit method of Emitter.
func (m *MockEmitter) Emit(ctx context.Context, input *eventDomain.EmitInput) (uuid.UUID, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// EmitTest mocks the EmitTest method of TestEmitter.
func (m *MockEmitter) EmitTest(
	ctx context.Context,
	input *eventDomain.EmitInput,
	subscriptionID uuid.UUID,
) (uuid.UUID, error) {
	args := m.Called(ctx, input, subscriptionID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
