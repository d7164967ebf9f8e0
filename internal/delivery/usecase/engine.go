package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/allisson/webhooks/internal/database"
	deliveryDomain "github.com/allisson/webhooks/internal/delivery/domain"
	deliveryService "github.com/allisson/webhooks/internal/delivery/service"
	eventDomain "github.com/allisson/webhooks/internal/event/domain"
	"github.com/allisson/webhooks/internal/metrics"
	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
)

// DefaultMaxConcurrency bounds in-flight HTTP attempts when no limit is configured.
const DefaultMaxConcurrency = 100

const skipReasonCircuitOpen = "circuit_open"

// EngineConfig holds the tunables of the delivery engine.
type EngineConfig struct {
	// MaxConcurrency is the number of HTTP attempts allowed in flight at once.
	MaxConcurrency int
	// TreatNon2xxAsFailure makes non-2xx responses failed attempts.
	TreatNon2xxAsFailure bool
	// ResponseMaxLength is the number of response characters kept in a log entry.
	ResponseMaxLength int
}

// Engine emits events and delivers them to matching subscriptions. Emit returns as soon
// as the event id is assigned; resolution, matching and delivery run on goroutines owned
// by the engine until Shutdown.
type Engine struct {
	subscriptions SubscriptionStore
	logs          DeliveryLogRepository
	txManager     database.TxManager
	resolver      CompanyResolver
	breakers      *deliveryService.CircuitBreakers
	transformers  PayloadTransformer
	sender        Sender
	metrics       metrics.DeliveryMetrics
	logger        *slog.Logger

	sem                  *semaphore.Weighted
	treatNon2xxAsFailure bool
	responseMaxLength    int

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	stopped bool
}

// Emit validates input, assigns an event id and schedules the event. The caller's context
// only bounds validation; delivery is detached from it.
func (e *Engine) Emit(ctx context.Context, input *eventDomain.EmitInput) (uuid.UUID, error) {
	if err := validateEmitInput(input); err != nil {
		return uuid.Nil, err
	}
	env := eventDomain.NewEnvelope(input)
	env.Metadata = eventDomain.WithoutReservedMetadata(env.Metadata)
	return e.schedule(ctx, env)
}

// EmitTest schedules a test event addressed to one subscription. The event is tagged
// test=true and skips event-type and attribute matching; the subscription must still be
// active and belong to the event's company.
func (e *Engine) EmitTest(
	ctx context.Context,
	input *eventDomain.EmitInput,
	subscriptionID uuid.UUID,
) (uuid.UUID, error) {
	if err := validateEmitInput(input); err != nil {
		return uuid.Nil, err
	}
	env := eventDomain.NewEnvelope(input)
	env.Metadata = eventDomain.WithoutReservedMetadata(env.Metadata)
	env.Metadata[eventDomain.MetadataTest] = true
	env.Metadata[eventDomain.MetadataSubscriptionID] = subscriptionID.String()
	env.TargetSubscriptionID = &subscriptionID
	return e.schedule(ctx, env)
}

func validateEmitInput(input *eventDomain.EmitInput) error {
	if input == nil || input.EventType == "" {
		return eventDomain.ErrEventTypeRequired
	}
	if input.UserID == "" {
		return eventDomain.ErrUserIDRequired
	}
	return nil
}

func (e *Engine) schedule(ctx context.Context, env *eventDomain.Envelope) (uuid.UUID, error) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return uuid.Nil, eventDomain.ErrEngineStopped
	}
	e.wg.Add(1)
	e.mu.Unlock()

	e.metrics.RecordEvent(ctx, metrics.EventEmitted)
	e.logger.Debug("event emitted",
		slog.String("event_id", env.EventID.String()),
		slog.String("event_type", env.EventType),
	)

	go func() {
		defer e.wg.Done()
		e.dispatch(env)
	}()

	return env.EventID, nil
}

// Shutdown stops accepting events and waits for every scheduled delivery. When ctx
// expires first, pending retry sleeps and HTTP calls are cancelled and ctx.Err() is
// returned once the goroutines have exited.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	e.stopped = true
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.cancel()
		return nil
	case <-ctx.Done():
		e.cancel()
		<-done
		return ctx.Err()
	}
}

// CircuitState reports whether deliveries to a subscription are currently skipped.
func (e *Engine) CircuitState(subscriptionID uuid.UUID) string {
	return e.breakers.State(subscriptionID.String())
}

func (e *Engine) dispatch(env *eventDomain.Envelope) {
	ctx := e.baseCtx
	logger := e.logger.With(
		slog.String("event_id", env.EventID.String()),
		slog.String("event_type", env.EventType),
	)

	if env.CompanyID == "" {
		companyID, err := e.resolver.ResolveCompany(ctx, env.UserID)
		if err != nil || companyID == "" {
			logger.Warn("event dropped: company could not be resolved",
				slog.String("user_id", env.UserID),
				slog.Any("error", err),
			)
			e.metrics.RecordEvent(ctx, metrics.EventDropped)
			return
		}
		env.CompanyID = companyID
	}

	subs, err := e.resolveSubscriptions(ctx, env, logger)
	if err != nil {
		logger.Error("failed to load subscriptions", slog.Any("error", err))
		e.metrics.RecordEvent(ctx, metrics.EventDropped)
		return
	}
	e.metrics.RecordEvent(ctx, metrics.EventDispatched)

	for _, sub := range subs {
		if !e.breakers.Allow(sub.ID.String()) {
			logger.Debug("delivery skipped: circuit open", slog.String("subscription_id", sub.ID.String()))
			e.metrics.RecordSkipped(ctx, skipReasonCircuitOpen)
			continue
		}

		e.wg.Add(1)
		go func(sub *subscriptionDomain.Subscription) {
			defer e.wg.Done()
			e.deliver(sub, env)
		}(sub)
	}
}

// resolveSubscriptions returns the subscriptions an event must be delivered to. A test
// event goes to its single target; any other event goes to every active subscription of
// its company that matches the event type and the attribute filters.
func (e *Engine) resolveSubscriptions(
	ctx context.Context,
	env *eventDomain.Envelope,
	logger *slog.Logger,
) ([]*subscriptionDomain.Subscription, error) {
	if env.TargetSubscriptionID != nil {
		targetID := *env.TargetSubscriptionID
		sub, err := e.subscriptions.Get(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if !sub.Active || !sub.BelongsToCompany(env.CompanyID) {
			logger.Warn("test event target is not deliverable", slog.String("subscription_id", targetID.String()))
			return nil, nil
		}
		return []*subscriptionDomain.Subscription{sub}, nil
	}

	active, err := e.subscriptions.ListActiveByCompany(ctx, env.CompanyID)
	if err != nil {
		return nil, err
	}

	matched := make([]*subscriptionDomain.Subscription, 0, len(active))
	for _, sub := range active {
		if !subscriptionDomain.Subscribes(sub.EventTypes, env.EventType) {
			continue
		}
		if !sub.Filters.Matches(env) {
			continue
		}
		matched = append(matched, sub)
	}
	return matched, nil
}

// deliver runs the attempts of one (subscription, event) pair sequentially.
func (e *Engine) deliver(sub *subscriptionDomain.Subscription, env *eventDomain.Envelope) {
	logger := e.logger.With(
		slog.String("event_id", env.EventID.String()),
		slog.String("subscription_id", sub.ID.String()),
	)

	payload, err := e.transformers.Transform(sub.TargetURL, env)
	if err != nil {
		logger.Warn("payload transform failed, using fallback", slog.Any("error", err))
	}

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to encode payload", slog.Any("error", err))
		return
	}

	req := &deliveryService.OutboundRequest{
		URL:           sub.TargetURL,
		Body:          body,
		Secret:        sub.Secret,
		EventType:     env.EventType,
		EventID:       env.EventID,
		StaticHeaders: sub.Headers,
		Timeout:       sub.Timeout(),
	}

	for attempt := 0; ; attempt++ {
		req.Attempt = attempt
		success, err := e.attempt(sub, env, req, logger)
		if err != nil {
			logger.Warn("delivery aborted", slog.Int("attempt", attempt), slog.Any("error", err))
			return
		}
		if success || attempt >= sub.RetryCount {
			return
		}
		if err := e.sleep(e.baseCtx, sub.RetryDelay()); err != nil {
			logger.Warn("delivery aborted during retry delay", slog.Int("attempt", attempt), slog.Any("error", err))
			return
		}
	}
}

// attempt performs one HTTP call and records its outcome. The returned error is set only
// when the engine is being torn down before the call could be made.
func (e *Engine) attempt(
	sub *subscriptionDomain.Subscription,
	env *eventDomain.Envelope,
	req *deliveryService.OutboundRequest,
	logger *slog.Logger,
) (bool, error) {
	if err := e.sem.Acquire(e.baseCtx, 1); err != nil {
		return false, err
	}

	start := e.now()
	resp, sendErr := e.sender.Send(e.baseCtx, req)
	duration := e.now().Sub(start)
	e.sem.Release(1)

	entry := &deliveryDomain.DeliveryLog{
		ID:             uuid.Must(uuid.NewV7()),
		Direction:      deliveryDomain.DirectionOutgoing,
		SubscriptionID: &sub.ID,
		EventID:        &env.EventID,
		EventType:      env.EventType,
		RequestPayload: string(req.Body),
		Attempt:        req.Attempt,
		DurationMs:     duration.Milliseconds(),
		CreatedAt:      e.now().UTC(),
	}

	var failure string
	switch {
	case sendErr != nil:
		failure = sendErr.Error()
	case e.treatNon2xxAsFailure && (resp.StatusCode < 200 || resp.StatusCode > 299):
		failure = fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
	}
	if resp != nil {
		statusCode := resp.StatusCode
		body := deliveryDomain.Truncate(resp.Body, e.responseMaxLength)
		entry.StatusCode = &statusCode
		entry.ResponseBody = &body
	}

	entry.Success = failure == ""
	outcome := metrics.AttemptSuccess
	if entry.Success {
		e.breakers.RecordSuccess(sub.ID.String())
		logger.Info("webhook delivered",
			slog.Int("attempt", req.Attempt),
			slog.Int("status_code", resp.StatusCode),
			slog.Int64("duration_ms", entry.DurationMs),
		)
	} else {
		outcome = metrics.AttemptFailure
		entry.ErrorMessage = &failure
		e.breakers.RecordFailure(sub.ID.String())
		logger.Warn("webhook delivery failed",
			slog.Int("attempt", req.Attempt),
			slog.String("error", failure),
			slog.Int64("duration_ms", entry.DurationMs),
		)
	}
	e.metrics.RecordAttempt(e.baseCtx, destinationHost(sub.TargetURL), outcome, duration)

	e.recordBookkeeping(sub, entry, logger)
	return entry.Success, nil
}

// recordBookkeeping writes the log entry and the counter update in one transaction.
// Failures are logged and never change the delivery outcome.
func (e *Engine) recordBookkeeping(
	sub *subscriptionDomain.Subscription,
	entry *deliveryDomain.DeliveryLog,
	logger *slog.Logger,
) {
	ctx := context.WithoutCancel(e.baseCtx)
	err := e.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := e.logs.Create(ctx, entry); err != nil {
			return err
		}
		return e.subscriptions.RecordOutcome(ctx, sub.ID, subscriptionDomain.Outcome{
			Success:     entry.Success,
			DeliveredAt: entry.CreatedAt,
		})
	})
	if err != nil {
		logger.Error("failed to record delivery attempt",
			slog.Int("attempt", entry.Attempt),
			slog.Any("error", err),
		)
	}
}

func destinationHost(targetURL string) string {
	parsed, err := url.Parse(targetURL)
	if err != nil || parsed.Host == "" {
		return "unknown"
	}
	return parsed.Host
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewEngine creates a delivery engine ready to accept events.
func NewEngine(
	subscriptions SubscriptionStore,
	logs DeliveryLogRepository,
	txManager database.TxManager,
	resolver CompanyResolver,
	breakers *deliveryService.CircuitBreakers,
	transformers PayloadTransformer,
	sender Sender,
	deliveryMetrics metrics.DeliveryMetrics,
	logger *slog.Logger,
	cfg EngineConfig,
) *Engine {
	maxConcurrency := cfg.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	responseMaxLength := cfg.ResponseMaxLength
	if responseMaxLength <= 0 {
		responseMaxLength = deliveryDomain.DefaultResponseMaxLength
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	return &Engine{
		subscriptions:        subscriptions,
		logs:                 logs,
		txManager:            txManager,
		resolver:             resolver,
		breakers:             breakers,
		transformers:         transformers,
		sender:               sender,
		metrics:              deliveryMetrics,
		logger:               logger,
		sem:                  semaphore.NewWeighted(int64(maxConcurrency)),
		treatNon2xxAsFailure: cfg.TreatNon2xxAsFailure,
		responseMaxLength:    responseMaxLength,
		sleep:                sleepContext,
		now:                  time.Now,
		baseCtx:              baseCtx,
		cancel:               cancel,
	}
}
