package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	inboundDomain "github.com/allisson/webhooks/internal/inbound/domain"
	"github.com/allisson/webhooks/internal/inbound/usecase"
	"github.com/allisson/webhooks/internal/inbound/usecase/mocks"
	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
)

type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func expectRecorded(ctx context.Context, m *mockBusinessMetrics, operation, status string) {
	m.On("RecordOperation", ctx, "inbound_webhooks", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "inbound_webhooks", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestRegistrationUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	principal := tenantDomain.Principal{UserID: "u1"}
	id := uuid.Must(uuid.NewV7())

	t.Run("Create success", func(t *testing.T) {
		next := &mocks.MockRegistrationUseCase{}
		m := &mockBusinessMetrics{}
		uc := usecase.NewRegistrationUseCaseWithMetrics(next, m)
		input := &inboundDomain.CreateRegistrationInput{Capability: "crm"}
		output := &inboundDomain.CreatedRegistration{Registration: &inboundDomain.Registration{ID: id}, APIKey: "whk_x"}

		next.On("Create", ctx, principal, input).Return(output, nil).Once()
		expectRecorded(ctx, m, "inbound_webhook_create", "success")

		res, err := uc.Create(ctx, principal, input)
		assert.NoError(t, err)
		assert.Equal(t, output, res)
		next.AssertExpectations(t)
		m.AssertExpectations(t)
	})

	t.Run("Delete error", func(t *testing.T) {
		next := &mocks.MockRegistrationUseCase{}
		m := &mockBusinessMetrics{}
		uc := usecase.NewRegistrationUseCaseWithMetrics(next, m)

		next.On("Delete", ctx, principal, id).Return(inboundDomain.ErrRegistrationNotFound).Once()
		expectRecorded(ctx, m, "inbound_webhook_delete", "error")

		err := uc.Delete(ctx, principal, id)
		assert.ErrorIs(t, err, inboundDomain.ErrRegistrationNotFound)
		m.AssertExpectations(t)
	})
}

func TestProcessUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	id := uuid.Must(uuid.NewV7())
	req := &inboundDomain.InboundRequest{Payload: map[string]any{"a": 1}}

	t.Run("Process error", func(t *testing.T) {
		next := &mocks.MockProcessUseCase{}
		m := &mockBusinessMetrics{}
		uc := usecase.NewProcessUseCaseWithMetrics(next, m)

		next.On("Process", ctx, id, "whk_x", req).Return(nil, errors.New("boom")).Once()
		expectRecorded(ctx, m, "inbound_webhook_process", "error")

		_, err := uc.Process(ctx, id, "whk_x", req)
		assert.Error(t, err)
		m.AssertExpectations(t)
	})
}
