package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	deliveryDomain "github.com/allisson/webhooks/internal/delivery/domain"
	deliveryDTO "github.com/allisson/webhooks/internal/delivery/http/dto"
	deliveryMocks "github.com/allisson/webhooks/internal/delivery/usecase/mocks"
	"github.com/allisson/webhooks/internal/httputil"
	inboundDomain "github.com/allisson/webhooks/internal/inbound/domain"
	"github.com/allisson/webhooks/internal/inbound/http/dto"
	inboundMocks "github.com/allisson/webhooks/internal/inbound/usecase/mocks"
	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
	"github.com/allisson/webhooks/internal/testutil"
)

var testPrincipal = tenantDomain.Principal{UserID: "u1", CompanyID: "c1"}

func setupRegistrationHandler(
	t *testing.T,
) (*RegistrationHandler, *inboundMocks.MockRegistrationUseCase, *deliveryMocks.MockDeliveryLogUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	registrationUseCase := &inboundMocks.MockRegistrationUseCase{}
	deliveryLogUseCase := &deliveryMocks.MockDeliveryLogUseCase{}

	t.Cleanup(func() {
		registrationUseCase.AssertExpectations(t)
		deliveryLogUseCase.AssertExpectations(t)
	})

	handler := NewRegistrationHandler(registrationUseCase, deliveryLogUseCase, testutil.DiscardLogger())
	return handler, registrationUseCase, deliveryLogUseCase
}

func createTestContext(method, path string, body []byte, id string, withPrincipal bool) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if withPrincipal {
		req = req.WithContext(httputil.WithPrincipal(req.Context(), testPrincipal))
	}
	c.Request = req
	if id != "" {
		c.Params = gin.Params{{Key: "id", Value: id}}
	}

	return c, w
}

func newTestRegistration() *inboundDomain.Registration {
	companyID := "c1"
	now := time.Now().UTC()
	return &inboundDomain.Registration{
		ID:          uuid.Must(uuid.NewV7()),
		UserID:      "u1",
		CompanyID:   &companyID,
		Capability:  inboundDomain.DefaultCapability,
		APIKeyHash:  "hash",
		Active:      true,
		Description: "crm leads",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestRegistrationHandler_CreateHandler(t *testing.T) {
	t.Run("Success_ReturnsAPIKeyOnce", func(t *testing.T) {
		handler, registrationUseCase, _ := setupRegistrationHandler(t)
		registration := newTestRegistration()

		registrationUseCase.On("Create", mock.Anything, testPrincipal,
			mock.MatchedBy(func(input *inboundDomain.CreateRegistrationInput) bool {
				return input.Description == "crm leads"
			}),
		).Return(&inboundDomain.CreatedRegistration{Registration: registration, APIKey: "whk_plain"}, nil).Once()

		body := []byte(`{"description":"crm leads"}`)
		c, w := createTestContext(http.MethodPost, "/v1/inbound-webhooks", body, "", true)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var response dto.CreateRegistrationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "whk_plain", response.APIKey)
		assert.Equal(t, registration.ID.String(), response.ID)
		assert.Equal(t, "/webhook/"+registration.ID.String(), response.URL)
		assert.NotContains(t, w.Body.String(), "api_key_hash")
	})

	t.Run("Error_InvalidCapability", func(t *testing.T) {
		handler, _, _ := setupRegistrationHandler(t)

		body := []byte(`{"capability":"crm leads"}`)
		c, w := createTestContext(http.MethodPost, "/v1/inbound-webhooks", body, "", true)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_MalformedJSON", func(t *testing.T) {
		handler, _, _ := setupRegistrationHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/inbound-webhooks", []byte(`{`), "", true)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_NoPrincipal", func(t *testing.T) {
		handler, _, _ := setupRegistrationHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/inbound-webhooks", []byte(`{}`), "", false)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRegistrationHandler_ListHandler(t *testing.T) {
	t.Run("Success_DefaultPagination", func(t *testing.T) {
		handler, registrationUseCase, _ := setupRegistrationHandler(t)
		registration := newTestRegistration()

		registrationUseCase.On("List", mock.Anything, testPrincipal, 0, httputil.DefaultLimit).
			Return([]*inboundDomain.Registration{registration}, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/inbound-webhooks", nil, "", true)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.ListRegistrationsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 1)
		assert.Equal(t, registration.ID.String(), response.Data[0].ID)
	})

	t.Run("Error_InvalidLimit", func(t *testing.T) {
		handler, _, _ := setupRegistrationHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/inbound-webhooks?limit=0", nil, "", true)

		handler.ListHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestRegistrationHandler_GetHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, registrationUseCase, _ := setupRegistrationHandler(t)
		registration := newTestRegistration()

		registrationUseCase.On("Get", mock.Anything, testPrincipal, registration.ID).Return(registration, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/inbound-webhooks/x", nil, registration.ID.String(), true)

		handler.GetHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), registration.ID.String())
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		handler, _, _ := setupRegistrationHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/inbound-webhooks/x", nil, "bad", true)

		handler.GetHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, registrationUseCase, _ := setupRegistrationHandler(t)
		id := uuid.Must(uuid.NewV7())

		registrationUseCase.On("Get", mock.Anything, testPrincipal, id).
			Return(nil, inboundDomain.ErrRegistrationNotFound).Once()

		c, w := createTestContext(http.MethodGet, "/v1/inbound-webhooks/x", nil, id.String(), true)

		handler.GetHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRegistrationHandler_UpdateHandler(t *testing.T) {
	t.Run("Success_Deactivate", func(t *testing.T) {
		handler, registrationUseCase, _ := setupRegistrationHandler(t)
		registration := newTestRegistration()
		registration.Active = false

		registrationUseCase.On("Update", mock.Anything, testPrincipal, registration.ID,
			mock.MatchedBy(func(input *inboundDomain.UpdateRegistrationInput) bool {
				return input.Active != nil && !*input.Active && input.Capability == nil
			}),
		).Return(registration, nil).Once()

		c, w := createTestContext(http.MethodPut, "/v1/inbound-webhooks/x", []byte(`{"active":false}`), registration.ID.String(), true)

		handler.UpdateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"active":false`)
	})

	t.Run("Error_Forbidden", func(t *testing.T) {
		handler, registrationUseCase, _ := setupRegistrationHandler(t)
		id := uuid.Must(uuid.NewV7())

		registrationUseCase.On("Update", mock.Anything, testPrincipal, id, mock.Anything).
			Return(nil, inboundDomain.ErrRegistrationForbidden).Once()

		c, w := createTestContext(http.MethodPut, "/v1/inbound-webhooks/x", []byte(`{"active":true}`), id.String(), true)

		handler.UpdateHandler(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRegistrationHandler_DeleteHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, registrationUseCase, _ := setupRegistrationHandler(t)
		id := uuid.Must(uuid.NewV7())

		registrationUseCase.On("Delete", mock.Anything, testPrincipal, id).Return(nil).Once()

		c, w := createTestContext(http.MethodDelete, "/v1/inbound-webhooks/x", nil, id.String(), true)

		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, registrationUseCase, _ := setupRegistrationHandler(t)
		id := uuid.Must(uuid.NewV7())

		registrationUseCase.On("Delete", mock.Anything, testPrincipal, id).
			Return(inboundDomain.ErrRegistrationNotFound).Once()

		c, w := createTestContext(http.MethodDelete, "/v1/inbound-webhooks/x", nil, id.String(), true)

		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRegistrationHandler_LogsHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, registrationUseCase, deliveryLogUseCase := setupRegistrationHandler(t)
		registration := newTestRegistration()
		statusCode := http.StatusOK
		logs := []*deliveryDomain.DeliveryLog{
			{
				ID:               uuid.Must(uuid.NewV7()),
				Direction:        deliveryDomain.DirectionIncoming,
				InboundWebhookID: &registration.ID,
				EventType:        "webhook.received",
				RequestPayload:   `{"lead":"ada"}`,
				StatusCode:       &statusCode,
				Success:          true,
				CreatedAt:        time.Now().UTC(),
			},
		}

		registrationUseCase.On("Get", mock.Anything, testPrincipal, registration.ID).Return(registration, nil).Once()
		deliveryLogUseCase.On("ListByInboundWebhook", mock.Anything, registration.ID, 0, 10).Return(logs, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/inbound-webhooks/x/logs?limit=10", nil, registration.ID.String(), true)

		handler.LogsHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response deliveryDTO.ListDeliveryLogsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 1)
		assert.Equal(t, "incoming", response.Data[0].Direction)
	})

	t.Run("Error_NotVisible", func(t *testing.T) {
		handler, registrationUseCase, _ := setupRegistrationHandler(t)
		id := uuid.Must(uuid.NewV7())

		registrationUseCase.On("Get", mock.Anything, testPrincipal, id).
			Return(nil, inboundDomain.ErrRegistrationNotFound).Once()

		c, w := createTestContext(http.MethodGet, "/v1/inbound-webhooks/x/logs", nil, id.String(), true)

		handler.LogsHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
