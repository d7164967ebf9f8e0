package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	deliveryDTO "github.com/allisson/webhooks/internal/delivery/http/dto"
	deliveryUsecase "github.com/allisson/webhooks/internal/delivery/usecase"
	"github.com/allisson/webhooks/internal/httputil"
	"github.com/allisson/webhooks/internal/inbound/http/dto"
	inboundUsecase "github.com/allisson/webhooks/internal/inbound/usecase"
	customValidation "github.com/allisson/webhooks/internal/validation"
)

// RegistrationHandler handles inbound webhook registration management.
type RegistrationHandler struct {
	registrationUseCase inboundUsecase.RegistrationUseCase
	deliveryLogUseCase  deliveryUsecase.DeliveryLogUseCase
	logger              *slog.Logger
}

// NewRegistrationHandler creates a new registration handler.
func NewRegistrationHandler(
	registrationUseCase inboundUsecase.RegistrationUseCase,
	deliveryLogUseCase deliveryUsecase.DeliveryLogUseCase,
	logger *slog.Logger,
) *RegistrationHandler {
	return &RegistrationHandler{
		registrationUseCase: registrationUseCase,
		deliveryLogUseCase:  deliveryLogUseCase,
		logger:              logger,
	}
}

// CreateHandler registers an inbound webhook. The API key appears only in this response.
// POST /v1/inbound-webhooks - Returns 201 Created.
func (h *RegistrationHandler) CreateHandler(c *gin.Context) {
	principal, ok := httputil.MustPrincipal(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	created, err := h.registrationUseCase.Create(c.Request.Context(), principal, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCreatedRegistrationToResponse(created))
}

// ListHandler lists the registrations visible to the caller.
// GET /v1/inbound-webhooks?offset=0&limit=50
func (h *RegistrationHandler) ListHandler(c *gin.Context) {
	principal, ok := httputil.MustPrincipal(c, h.logger)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	registrations, err := h.registrationUseCase.List(c.Request.Context(), principal, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRegistrationsToListResponse(registrations))
}

// GetHandler retrieves a registration by ID.
// GET /v1/inbound-webhooks/:id
func (h *RegistrationHandler) GetHandler(c *gin.Context) {
	principal, ok := httputil.MustPrincipal(c, h.logger)
	if !ok {
		return
	}

	registrationID, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	registration, err := h.registrationUseCase.Get(c.Request.Context(), principal, registrationID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRegistrationToResponse(registration))
}

// UpdateHandler changes the capability, description or active flag.
// PUT /v1/inbound-webhooks/:id
func (h *RegistrationHandler) UpdateHandler(c *gin.Context) {
	principal, ok := httputil.MustPrincipal(c, h.logger)
	if !ok {
		return
	}

	registrationID, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.UpdateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	registration, err := h.registrationUseCase.Update(c.Request.Context(), principal, registrationID, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRegistrationToResponse(registration))
}

// DeleteHandler removes a registration.
// DELETE /v1/inbound-webhooks/:id - Returns 204 No Content.
func (h *RegistrationHandler) DeleteHandler(c *gin.Context) {
	principal, ok := httputil.MustPrincipal(c, h.logger)
	if !ok {
		return
	}

	registrationID, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.registrationUseCase.Delete(c.Request.Context(), principal, registrationID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// LogsHandler lists the incoming calls recorded for a registration, newest first.
// GET /v1/inbound-webhooks/:id/logs?offset=0&limit=50
func (h *RegistrationHandler) LogsHandler(c *gin.Context) {
	principal, ok := httputil.MustPrincipal(c, h.logger)
	if !ok {
		return
	}

	registrationID, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	registration, err := h.registrationUseCase.Get(c.Request.Context(), principal, registrationID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	logs, err := h.deliveryLogUseCase.ListByInboundWebhook(c.Request.Context(), registration.ID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, deliveryDTO.MapDeliveryLogsToListResponse(logs))
}
