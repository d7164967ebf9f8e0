// Package http provides HTTP handlers for the event-type catalog and event emission.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	eventDomain "github.com/allisson/webhooks/internal/event/domain"
	"github.com/allisson/webhooks/internal/event/http/dto"
	eventService "github.com/allisson/webhooks/internal/event/service"
	"github.com/allisson/webhooks/internal/httputil"
	customValidation "github.com/allisson/webhooks/internal/validation"
)

// EventHandler serves the catalog listing and HTTP emission.
type EventHandler struct {
	catalog eventService.EventTypeCatalog
	emitter eventService.Emitter
	logger  *slog.Logger
}

// NewEventHandler creates a new event handler.
func NewEventHandler(
	catalog eventService.EventTypeCatalog,
	emitter eventService.Emitter,
	logger *slog.Logger,
) *EventHandler {
	return &EventHandler{
		catalog: catalog,
		emitter: emitter,
		logger:  logger,
	}
}

// ListTypesHandler returns the merged core and contributed event types.
// GET /v1/event-types
func (h *EventHandler) ListTypesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ListEventTypesResponse{Data: h.catalog.List()})
}

// EmitHandler accepts an event for asynchronous delivery.
// POST /v1/events - Returns 202 Accepted with the assigned event id.
func (h *EventHandler) EmitHandler(c *gin.Context) {
	principal, ok := httputil.MustPrincipal(c, h.logger)
	if !ok {
		return
	}

	var req dto.EmitEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	eventID, err := h.emitter.Emit(c.Request.Context(), &eventDomain.EmitInput{
		EventType: req.EventType,
		UserID:    principal.UserID,
		CompanyID: principal.CompanyID,
		AgentID:   req.AgentID,
		AgentName: req.AgentName,
		Data:      req.Data,
		Metadata:  eventDomain.WithoutReservedMetadata(req.Metadata),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusAccepted, dto.EmitEventResponse{EventID: eventID.String()})
}
