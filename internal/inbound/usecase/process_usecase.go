package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	deliveryDomain "github.com/allisson/webhooks/internal/delivery/domain"
	apperrors "github.com/allisson/webhooks/internal/errors"
	eventDomain "github.com/allisson/webhooks/internal/event/domain"
	inboundDomain "github.com/allisson/webhooks/internal/inbound/domain"
	inboundService "github.com/allisson/webhooks/internal/inbound/service"
)

type processUseCase struct {
	registrationRepo  RegistrationRepository
	logs              DeliveryLogWriter
	processors        ProcessorResolver
	logger            *slog.Logger
	responseMaxLength int
	now               func() time.Time
}

// Process authenticates the call, decodes its body, runs the bound processor and writes
// one incoming log entry. Calls that fail the combined id and key lookup are logged only
// when the id alone belongs to a registration, and the response is the same either way.
// The body is not inspected before the caller is authenticated.
func (p *processUseCase) Process(
	ctx context.Context,
	registrationID uuid.UUID,
	presentedKey string,
	req *inboundDomain.InboundRequest,
) (inboundDomain.ProcessResult, error) {
	start := p.now()
	payload := requestPayload(req)

	registration, err := p.registrationRepo.GetByIDAndKeyHash(
		ctx,
		registrationID,
		inboundService.HashAPIKey(presentedKey),
	)
	if err != nil {
		if !apperrors.Is(err, inboundDomain.ErrInvalidCredentials) {
			return nil, err
		}
		if _, getErr := p.registrationRepo.Get(ctx, registrationID); getErr == nil {
			p.writeLog(ctx, registrationID, nil, payload, http.StatusUnauthorized, nil, err, start)
		}
		p.logger.Warn("inbound webhook authentication failed",
			slog.String("inbound_webhook_id", registrationID.String()),
			slog.String("source_ip", req.SourceIP),
		)
		return nil, inboundDomain.ErrInvalidCredentials
	}

	if !registration.Active {
		p.writeLog(ctx, registration.ID, nil, payload, http.StatusForbidden, nil,
			inboundDomain.ErrRegistrationInactive, start)
		return nil, inboundDomain.ErrRegistrationInactive
	}

	if err := req.DecodePayload(); err != nil {
		p.writeLog(ctx, registration.ID, nil, payload, http.StatusUnprocessableEntity, nil, err, start)
		return nil, err
	}

	result, err := p.invoke(ctx, registration, req)
	if err != nil {
		p.writeLog(ctx, registration.ID, nil, payload, http.StatusInternalServerError, nil, err, start)
		p.logger.Error("inbound webhook processing failed",
			slog.String("inbound_webhook_id", registration.ID.String()),
			slog.String("capability", registration.Capability),
			slog.Any("error", err),
		)
		return nil, apperrors.Wrap(inboundDomain.ErrProcessingFailed, err.Error())
	}

	responseBody := encodePayload(result)
	p.writeLog(ctx, registration.ID, eventIDOf(result), payload, http.StatusOK, &responseBody, nil, start)
	return result, nil
}

// invoke runs the processor, converting a panic into an error.
func (p *processUseCase) invoke(
	ctx context.Context,
	registration *inboundDomain.Registration,
	req *inboundDomain.InboundRequest,
) (result inboundDomain.ProcessResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("processor panic: %v", r)
		}
	}()

	return p.processors.Resolve(registration.Capability).Process(ctx, registration, req)
}

func (p *processUseCase) writeLog(
	ctx context.Context,
	registrationID uuid.UUID,
	eventID *uuid.UUID,
	payload string,
	statusCode int,
	responseBody *string,
	failure error,
	start time.Time,
) {
	entry := &deliveryDomain.DeliveryLog{
		ID:               uuid.Must(uuid.NewV7()),
		Direction:        deliveryDomain.DirectionIncoming,
		InboundWebhookID: &registrationID,
		EventID:          eventID,
		EventType:        eventDomain.WebhookReceived,
		RequestPayload:   payload,
		StatusCode:       &statusCode,
		Success:          failure == nil,
		DurationMs:       p.now().Sub(start).Milliseconds(),
		CreatedAt:        p.now().UTC(),
	}
	if responseBody != nil {
		truncated := deliveryDomain.Truncate(*responseBody, p.responseMaxLength)
		entry.ResponseBody = &truncated
	}
	if failure != nil {
		message := failure.Error()
		entry.ErrorMessage = &message
	}

	if err := p.logs.Create(context.WithoutCancel(ctx), entry); err != nil {
		p.logger.Error("failed to write inbound delivery log",
			slog.String("inbound_webhook_id", registrationID.String()),
			slog.Any("error", err),
		)
	}
}

func requestPayload(req *inboundDomain.InboundRequest) string {
	if req.Body != nil {
		return string(req.Body)
	}
	return encodePayload(req.Payload)
}

func encodePayload(v any) string {
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(encoded)
}

func eventIDOf(result inboundDomain.ProcessResult) *uuid.UUID {
	raw, ok := result["event_id"].(string)
	if !ok {
		return nil
	}
	eventID, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &eventID
}

// NewProcessUseCase creates a new ProcessUseCase. responseMaxLength bounds the stored
// processor result.
func NewProcessUseCase(
	registrationRepo RegistrationRepository,
	logs DeliveryLogWriter,
	processors ProcessorResolver,
	logger *slog.Logger,
	responseMaxLength int,
) ProcessUseCase {
	return &processUseCase{
		registrationRepo:  registrationRepo,
		logs:              logs,
		processors:        processors,
		logger:            logger,
		responseMaxLength: responseMaxLength,
		now:               time.Now,
	}
}
