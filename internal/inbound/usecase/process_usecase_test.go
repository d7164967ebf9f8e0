package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	deliveryDomain "github.com/allisson/webhooks/internal/delivery/domain"
	deliveryMocks "github.com/allisson/webhooks/internal/delivery/usecase/mocks"
	apperrors "github.com/allisson/webhooks/internal/errors"
	inboundDomain "github.com/allisson/webhooks/internal/inbound/domain"
	inboundService "github.com/allisson/webhooks/internal/inbound/service"
	inboundMocks "github.com/allisson/webhooks/internal/inbound/usecase/mocks"
	"github.com/allisson/webhooks/internal/testutil"
)

type stubProcessor struct {
	result inboundDomain.ProcessResult
	err    error
	panics bool
	calls  int
}

func (s *stubProcessor) Process(
	_ context.Context,
	_ *inboundDomain.Registration,
	_ *inboundDomain.InboundRequest,
) (inboundDomain.ProcessResult, error) {
	s.calls++
	if s.panics {
		panic("processor exploded")
	}
	return s.result, s.err
}

type processFixture struct {
	repo      *inboundMocks.MockRegistrationRepository
	logs      *deliveryMocks.MockDeliveryLogRepository
	processor *stubProcessor
	useCase   ProcessUseCase
}

func newProcessFixture(t *testing.T) *processFixture {
	t.Helper()

	f := &processFixture{
		repo:      &inboundMocks.MockRegistrationRepository{},
		logs:      &deliveryMocks.MockDeliveryLogRepository{},
		processor: &stubProcessor{},
	}
	registry := inboundService.NewProcessorRegistry(f.processor)
	f.useCase = NewProcessUseCase(f.repo, f.logs, registry, testutil.DiscardLogger(), 1000)

	t.Cleanup(func() {
		f.repo.AssertExpectations(t)
		f.logs.AssertExpectations(t)
	})
	return f
}

func (f *processFixture) expectLog(match func(entry *deliveryDomain.DeliveryLog) bool) {
	f.logs.On("Create", mock.Anything, mock.MatchedBy(match)).Return(nil).Once()
}

func TestProcessUseCase_Process(t *testing.T) {
	const key = "whk_presented"
	keyHash := inboundService.HashAPIKey(key)
	req := &inboundDomain.InboundRequest{Payload: map[string]any{"lead": "ada"}, SourceIP: "203.0.113.7"}

	t.Run("Success_ProcessedAndLogged", func(t *testing.T) {
		f := newProcessFixture(t)
		registration := newRegistration("u1", "c1")
		eventID := uuid.Must(uuid.NewV7())
		f.processor.result = inboundDomain.ProcessResult{"event_id": eventID.String()}

		f.repo.On("GetByIDAndKeyHash", mock.Anything, registration.ID, keyHash).Return(registration, nil).Once()
		f.expectLog(func(entry *deliveryDomain.DeliveryLog) bool {
			return entry.Direction == deliveryDomain.DirectionIncoming &&
				*entry.InboundWebhookID == registration.ID &&
				entry.EventID != nil && *entry.EventID == eventID &&
				entry.Success && *entry.StatusCode == http.StatusOK &&
				entry.RequestPayload == `{"lead":"ada"}` &&
				entry.ErrorMessage == nil && entry.ResponseBody != nil
		})

		result, err := f.useCase.Process(context.Background(), registration.ID, key, req)
		require.NoError(t, err)
		assert.Equal(t, eventID.String(), result["event_id"])
		assert.Equal(t, 1, f.processor.calls)
	})

	t.Run("Success_RawBodyDecodedAfterAuthentication", func(t *testing.T) {
		f := newProcessFixture(t)
		registration := newRegistration("u1", "c1")
		f.processor.result = inboundDomain.ProcessResult{"ok": true}
		raw := &inboundDomain.InboundRequest{Body: []byte(`{"lead":"grace"}`)}

		f.repo.On("GetByIDAndKeyHash", mock.Anything, registration.ID, keyHash).Return(registration, nil).Once()
		f.expectLog(func(entry *deliveryDomain.DeliveryLog) bool {
			return entry.Success && entry.RequestPayload == `{"lead":"grace"}`
		})

		_, err := f.useCase.Process(context.Background(), registration.ID, key, raw)
		require.NoError(t, err)
		assert.Equal(t, "grace", raw.Payload["lead"])
		assert.Equal(t, 1, f.processor.calls)
	})

	t.Run("Error_MalformedBodyLoggedForAuthenticatedCaller", func(t *testing.T) {
		f := newProcessFixture(t)
		registration := newRegistration("u1", "c1")
		raw := &inboundDomain.InboundRequest{Body: []byte(`[1,2,3]`)}

		f.repo.On("GetByIDAndKeyHash", mock.Anything, registration.ID, keyHash).Return(registration, nil).Once()
		f.expectLog(func(entry *deliveryDomain.DeliveryLog) bool {
			return !entry.Success && *entry.StatusCode == http.StatusUnprocessableEntity &&
				entry.RequestPayload == `[1,2,3]` && entry.ErrorMessage != nil
		})

		_, err := f.useCase.Process(context.Background(), registration.ID, key, raw)
		assert.ErrorIs(t, err, inboundDomain.ErrInvalidPayload)
		assert.Equal(t, 0, f.processor.calls)
	})

	t.Run("Error_MalformedBodyWithWrongKeyIsUnauthorized", func(t *testing.T) {
		f := newProcessFixture(t)
		id := uuid.Must(uuid.NewV7())
		raw := &inboundDomain.InboundRequest{Body: []byte(`not json`)}

		f.repo.On("GetByIDAndKeyHash", mock.Anything, id, keyHash).
			Return(nil, inboundDomain.ErrInvalidCredentials).Once()
		f.repo.On("Get", mock.Anything, id).Return(nil, inboundDomain.ErrRegistrationNotFound).Once()

		_, err := f.useCase.Process(context.Background(), id, key, raw)
		assert.ErrorIs(t, err, inboundDomain.ErrInvalidCredentials)
	})

	t.Run("Error_UnknownRegistrationNotLogged", func(t *testing.T) {
		f := newProcessFixture(t)
		id := uuid.Must(uuid.NewV7())

		f.repo.On("GetByIDAndKeyHash", mock.Anything, id, keyHash).
			Return(nil, inboundDomain.ErrInvalidCredentials).Once()
		f.repo.On("Get", mock.Anything, id).Return(nil, inboundDomain.ErrRegistrationNotFound).Once()

		_, err := f.useCase.Process(context.Background(), id, key, req)
		assert.ErrorIs(t, err, inboundDomain.ErrInvalidCredentials)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
		assert.Equal(t, 0, f.processor.calls)
	})

	t.Run("Error_WrongKeyLoggedWithSameResponse", func(t *testing.T) {
		f := newProcessFixture(t)
		registration := newRegistration("u1", "c1")

		f.repo.On("GetByIDAndKeyHash", mock.Anything, registration.ID, inboundService.HashAPIKey("whk_wrong")).
			Return(nil, inboundDomain.ErrInvalidCredentials).Once()
		f.repo.On("Get", mock.Anything, registration.ID).Return(registration, nil).Once()
		f.expectLog(func(entry *deliveryDomain.DeliveryLog) bool {
			return !entry.Success && *entry.StatusCode == http.StatusUnauthorized &&
				entry.ErrorMessage != nil && *entry.InboundWebhookID == registration.ID
		})

		_, err := f.useCase.Process(context.Background(), registration.ID, "whk_wrong", req)
		assert.ErrorIs(t, err, inboundDomain.ErrInvalidCredentials)
		assert.Equal(t, 0, f.processor.calls)
	})

	t.Run("Error_Inactive", func(t *testing.T) {
		f := newProcessFixture(t)
		registration := newRegistration("u1", "c1")
		registration.Active = false

		f.repo.On("GetByIDAndKeyHash", mock.Anything, registration.ID, keyHash).Return(registration, nil).Once()
		f.expectLog(func(entry *deliveryDomain.DeliveryLog) bool {
			return !entry.Success && *entry.StatusCode == http.StatusForbidden
		})

		_, err := f.useCase.Process(context.Background(), registration.ID, key, req)
		assert.ErrorIs(t, err, inboundDomain.ErrRegistrationInactive)
		assert.Equal(t, 0, f.processor.calls)
	})

	t.Run("Error_ProcessorFailure", func(t *testing.T) {
		f := newProcessFixture(t)
		registration := newRegistration("u1", "c1")
		f.processor.err = errors.New("crm unavailable")

		f.repo.On("GetByIDAndKeyHash", mock.Anything, registration.ID, keyHash).Return(registration, nil).Once()
		f.expectLog(func(entry *deliveryDomain.DeliveryLog) bool {
			return !entry.Success && *entry.StatusCode == http.StatusInternalServerError &&
				*entry.ErrorMessage == "crm unavailable"
		})

		_, err := f.useCase.Process(context.Background(), registration.ID, key, req)
		assert.ErrorIs(t, err, inboundDomain.ErrProcessingFailed)
	})

	t.Run("Error_ProcessorPanic", func(t *testing.T) {
		f := newProcessFixture(t)
		registration := newRegistration("u1", "c1")
		f.processor.panics = true

		f.repo.On("GetByIDAndKeyHash", mock.Anything, registration.ID, keyHash).Return(registration, nil).Once()
		f.expectLog(func(entry *deliveryDomain.DeliveryLog) bool {
			return !entry.Success && *entry.ErrorMessage == "processor panic: processor exploded"
		})

		_, err := f.useCase.Process(context.Background(), registration.ID, key, req)
		assert.ErrorIs(t, err, inboundDomain.ErrProcessingFailed)
	})

	t.Run("Success_LogWriteFailureIgnored", func(t *testing.T) {
		f := newProcessFixture(t)
		registration := newRegistration("u1", "c1")
		f.processor.result = inboundDomain.ProcessResult{"ok": true}

		f.repo.On("GetByIDAndKeyHash", mock.Anything, registration.ID, keyHash).Return(registration, nil).Once()
		f.logs.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

		result, err := f.useCase.Process(context.Background(), registration.ID, key, req)
		require.NoError(t, err)
		assert.Equal(t, true, result["ok"])
	})

	t.Run("Error_LookupFailure", func(t *testing.T) {
		f := newProcessFixture(t)
		id := uuid.Must(uuid.NewV7())

		f.repo.On("GetByIDAndKeyHash", mock.Anything, id, keyHash).Return(nil, errors.New("db down")).Once()

		_, err := f.useCase.Process(context.Background(), id, key, req)
		assert.EqualError(t, err, "db down")
	})
}
