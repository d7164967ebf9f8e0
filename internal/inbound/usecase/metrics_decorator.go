package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	inboundDomain "github.com/allisson/webhooks/internal/inbound/domain"
	"github.com/allisson/webhooks/internal/metrics"
	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
)

const metricsDomain = "inbound_webhooks"

type registrationUseCaseWithMetrics struct {
	next    RegistrationUseCase
	metrics metrics.BusinessMetrics
}

// NewRegistrationUseCaseWithMetrics wraps a RegistrationUseCase with metrics recording.
func NewRegistrationUseCaseWithMetrics(useCase RegistrationUseCase, m metrics.BusinessMetrics) RegistrationUseCase {
	return &registrationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func record(ctx context.Context, m metrics.BusinessMetrics, operation string, start time.Time, err error) {
	status := metrics.StatusFor(err)
	m.RecordOperation(ctx, metricsDomain, operation, status)
	m.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

func (r *registrationUseCaseWithMetrics) Create(
	ctx context.Context,
	principal tenantDomain.Principal,
	input *inboundDomain.CreateRegistrationInput,
) (*inboundDomain.CreatedRegistration, error) {
	start := time.Now()
	created, err := r.next.Create(ctx, principal, input)
	record(ctx, r.metrics, "inbound_webhook_create", start, err)
	return created, err
}

func (r *registrationUseCaseWithMetrics) Get(
	ctx context.Context,
	principal tenantDomain.Principal,
	registrationID uuid.UUID,
) (*inboundDomain.Registration, error) {
	start := time.Now()
	registration, err := r.next.Get(ctx, principal, registrationID)
	record(ctx, r.metrics, "inbound_webhook_get", start, err)
	return registration, err
}

func (r *registrationUseCaseWithMetrics) List(
	ctx context.Context,
	principal tenantDomain.Principal,
	offset, limit int,
) ([]*inboundDomain.Registration, error) {
	start := time.Now()
	registrations, err := r.next.List(ctx, principal, offset, limit)
	record(ctx, r.metrics, "inbound_webhook_list", start, err)
	return registrations, err
}

func (r *registrationUseCaseWithMetrics) Update(
	ctx context.Context,
	principal tenantDomain.Principal,
	registrationID uuid.UUID,
	input *inboundDomain.UpdateRegistrationInput,
) (*inboundDomain.Registration, error) {
	start := time.Now()
	registration, err := r.next.Update(ctx, principal, registrationID, input)
	record(ctx, r.metrics, "inbound_webhook_update", start, err)
	return registration, err
}

func (r *registrationUseCaseWithMetrics) Delete(
	ctx context.Context,
	principal tenantDomain.Principal,
	registrationID uuid.UUID,
) error {
	start := time.Now()
	err := r.next.Delete(ctx, principal, registrationID)
	record(ctx, r.metrics, "inbound_webhook_delete", start, err)
	return err
}

type processUseCaseWithMetrics struct {
	next    ProcessUseCase
	metrics metrics.BusinessMetrics
}

// NewProcessUseCaseWithMetrics wraps a ProcessUseCase with metrics recording.
func NewProcessUseCaseWithMetrics(useCase ProcessUseCase, m metrics.BusinessMetrics) ProcessUseCase {
	return &processUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Process records metrics for inbound calls, including rejected ones.
func (p *processUseCaseWithMetrics) Process(
	ctx context.Context,
	registrationID uuid.UUID,
	presentedKey string,
	req *inboundDomain.InboundRequest,
) (inboundDomain.ProcessResult, error) {
	start := time.Now()
	result, err := p.next.Process(ctx, registrationID, presentedKey, req)
	record(ctx, p.metrics, "inbound_webhook_process", start, err)
	return result, err
}
