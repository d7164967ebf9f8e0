// Package http provides HTTP handlers for outbound webhook subscription management.
package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	deliveryDTO "github.com/allisson/webhooks/internal/delivery/http/dto"
	deliveryUsecase "github.com/allisson/webhooks/internal/delivery/usecase"
	"github.com/allisson/webhooks/internal/httputil"
	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
	"github.com/allisson/webhooks/internal/subscription/http/dto"
	subscriptionUsecase "github.com/allisson/webhooks/internal/subscription/usecase"
	customValidation "github.com/allisson/webhooks/internal/validation"
)

// SubscriptionHandler handles HTTP requests for subscription management operations.
// All routes require a caller identity set by PrincipalMiddleware.
type SubscriptionHandler struct {
	subscriptionUseCase subscriptionUsecase.SubscriptionUseCase
	deliveryLogUseCase  deliveryUsecase.DeliveryLogUseCase
	circuitStates       deliveryUsecase.CircuitStateReader
	logger              *slog.Logger
}

// NewSubscriptionHandler creates a new subscription handler with required dependencies.
func NewSubscriptionHandler(
	subscriptionUseCase subscriptionUsecase.SubscriptionUseCase,
	deliveryLogUseCase deliveryUsecase.DeliveryLogUseCase,
	circuitStates deliveryUsecase.CircuitStateReader,
	logger *slog.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionUseCase: subscriptionUseCase,
		deliveryLogUseCase:  deliveryLogUseCase,
		circuitStates:       circuitStates,
		logger:              logger,
	}
}

// CreateHandler registers a new subscription owned by the caller.
// POST /v1/subscriptions - Returns 201 Created.
func (h *SubscriptionHandler) CreateHandler(c *gin.Context) {
	principal, ok := httputil.MustPrincipal(c, h.logger)
	if !ok {
		return
	}

	var req dto.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	sub, err := h.subscriptionUseCase.Create(c.Request.Context(), principal, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapSubscriptionToResponse(sub))
}

// ListHandler lists the subscriptions visible to the caller with pagination.
// GET /v1/subscriptions?offset=0&limit=50
func (h *SubscriptionHandler) ListHandler(c *gin.Context) {
	principal, ok := httputil.MustPrincipal(c, h.logger)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	subs, err := h.subscriptionUseCase.List(c.Request.Context(), principal, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSubscriptionsToListResponse(subs))
}

// GetHandler retrieves a subscription by ID.
// GET /v1/subscriptions/:id
func (h *SubscriptionHandler) GetHandler(c *gin.Context) {
	principal, ok := httputil.MustPrincipal(c, h.logger)
	if !ok {
		return
	}

	subscriptionID, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	sub, err := h.subscriptionUseCase.Get(c.Request.Context(), principal, subscriptionID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSubscriptionToResponse(sub))
}

// UpdateHandler applies a partial update to a subscription owned by the caller.
// PUT /v1/subscriptions/:id
func (h *SubscriptionHandler) UpdateHandler(c *gin.Context) {
	principal, ok := httputil.MustPrincipal(c, h.logger)
	if !ok {
		return
	}

	subscriptionID, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	sub, err := h.subscriptionUseCase.Update(c.Request.Context(), principal, subscriptionID, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSubscriptionToResponse(sub))
}

// DeleteHandler removes a subscription and its delivery log.
// DELETE /v1/subscriptions/:id - Returns 204 No Content.
func (h *SubscriptionHandler) DeleteHandler(c *gin.Context) {
	principal, ok := httputil.MustPrincipal(c, h.logger)
	if !ok {
		return
	}

	subscriptionID, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.subscriptionUseCase.Delete(c.Request.Context(), principal, subscriptionID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// SendTestHandler emits a test event addressed only to this subscription.
// POST /v1/subscriptions/:id/test - The body is optional. Returns 202 Accepted.
func (h *SubscriptionHandler) SendTestHandler(c *gin.Context) {
	principal, ok := httputil.MustPrincipal(c, h.logger)
	if !ok {
		return
	}

	subscriptionID, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.SendTestRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	eventID, err := h.subscriptionUseCase.SendTest(
		c.Request.Context(),
		principal,
		subscriptionID,
		&subscriptionDomain.SendTestInput{EventType: req.EventType, Data: req.Data},
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusAccepted, dto.SendTestResponse{EventID: eventID.String()})
}

// StatsHandler returns the delivery counters, breaker state and log aggregates of a
// subscription.
// GET /v1/subscriptions/:id/stats
func (h *SubscriptionHandler) StatsHandler(c *gin.Context) {
	principal, ok := httputil.MustPrincipal(c, h.logger)
	if !ok {
		return
	}

	subscriptionID, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	sub, err := h.subscriptionUseCase.Get(c.Request.Context(), principal, subscriptionID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	stats, err := h.deliveryLogUseCase.StatsBySubscription(c.Request.Context(), sub.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapSubscriptionStats(sub, stats, h.circuitStates.CircuitState(sub.ID)))
}

// LogsHandler lists delivery attempts of a subscription, newest first.
// GET /v1/subscriptions/:id/logs?offset=0&limit=50
func (h *SubscriptionHandler) LogsHandler(c *gin.Context) {
	principal, ok := httputil.MustPrincipal(c, h.logger)
	if !ok {
		return
	}

	subscriptionID, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	sub, err := h.subscriptionUseCase.Get(c.Request.Context(), principal, subscriptionID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	logs, err := h.deliveryLogUseCase.ListBySubscription(c.Request.Context(), sub.ID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, deliveryDTO.MapDeliveryLogsToListResponse(logs))
}
