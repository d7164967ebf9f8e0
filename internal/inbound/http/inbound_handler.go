// Package http provides HTTP handlers for inbound webhook registration management and
// for the public inbound endpoint.
package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/allisson/webhooks/internal/httputil"
	inboundDomain "github.com/allisson/webhooks/internal/inbound/domain"
	"github.com/allisson/webhooks/internal/inbound/http/dto"
	inboundUsecase "github.com/allisson/webhooks/internal/inbound/usecase"
)

const bearerPrefix = "bearer "

// InboundHandler serves POST /webhook/:id for external systems.
type InboundHandler struct {
	processUseCase inboundUsecase.ProcessUseCase
	logger         *slog.Logger
}

// NewInboundHandler creates a new inbound handler.
func NewInboundHandler(processUseCase inboundUsecase.ProcessUseCase, logger *slog.Logger) *InboundHandler {
	return &InboundHandler{
		processUseCase: processUseCase,
		logger:         logger,
	}
}

// ReceiveHandler authenticates the call with the registration API key and processes the
// JSON object body. The body is only decoded once the key has been accepted.
// POST /webhook/:id - Authorization: Bearer <api_key>
//
// Error responses:
//   - 401 Unauthorized: missing key, or id and key do not match a registration
//   - 403 Forbidden: registration is inactive
//   - 422 Unprocessable Entity: body is not a JSON object
//   - 500: processor failure
func (h *InboundHandler) ReceiveHandler(c *gin.Context) {
	presentedKey, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		h.logger.Debug("inbound webhook rejected: missing bearer key")
		httputil.HandleErrorGin(c, inboundDomain.ErrInvalidCredentials, h.logger)
		return
	}

	// malformed ids cannot match and get the same answer as a wrong key
	registrationID, err := httputil.ParseUUIDParam(c, "id")
	if err != nil {
		httputil.HandleErrorGin(c, inboundDomain.ErrInvalidCredentials, h.logger)
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	result, err := h.processUseCase.Process(c.Request.Context(), registrationID, presentedKey, &inboundDomain.InboundRequest{
		Body:     body,
		Headers:  forwardedHeaders(c.Request.Header),
		SourceIP: c.ClientIP(),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ProcessResponse{Status: "ok", Result: result})
}

// bearerToken parses "Bearer <token>" with a case-insensitive scheme.
func bearerToken(header string) (string, bool) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}

// forwardedHeaders flattens the request headers for processors, leaving out credentials.
func forwardedHeaders(header http.Header) map[string]string {
	headers := make(map[string]string, len(header))
	for name, values := range header {
		if strings.EqualFold(name, "Authorization") || strings.EqualFold(name, "Cookie") || len(values) == 0 {
			continue
		}
		headers[name] = values[0]
	}
	return headers
}
