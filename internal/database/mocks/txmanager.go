// Package mocks provides test doubles for the database package.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockTxManager is a mock implementation of database.TxManager. Unless an error is
// configured for WithTx, the callback runs with the given context.
type MockTxManager struct {
	mock.Mock
}

// NewMockTxManager creates a MockTxManager that runs callbacks directly and asserts
// configured expectations on cleanup.
func NewMockTxManager(t *testing.T) *MockTxManager {
	m := &MockTxManager{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// WithTx mocks the WithTx method of TxManager.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if len(m.ExpectedCalls) == 0 {
		return fn(ctx)
	}
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}
