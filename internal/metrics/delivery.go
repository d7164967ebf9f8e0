package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Event lifecycle outcomes recorded by DeliveryMetrics.RecordEvent.
const (
	EventEmitted    = "emitted"
	EventDropped    = "dropped"
	EventDispatched = "dispatched"
)

// Attempt outcomes recorded by DeliveryMetrics.RecordAttempt.
const (
	AttemptSuccess = "success"
	AttemptFailure = "failure"
)

// DeliveryMetrics records the behaviour of the outbound delivery engine.
type DeliveryMetrics interface {
	// RecordEvent counts an emitted event reaching a lifecycle stage.
	RecordEvent(ctx context.Context, outcome string)

	// RecordAttempt counts one physical HTTP attempt and its latency.
	// destination is the transformer name serving the target URL (e.g. "discord", "generic").
	RecordAttempt(ctx context.Context, destination, outcome string, duration time.Duration)

	// RecordSkipped counts a delivery that was not attempted.
	RecordSkipped(ctx context.Context, reason string)
}

type deliveryMetrics struct {
	eventCounter   metric.Int64Counter
	attemptCounter metric.Int64Counter
	attemptHisto   metric.Float64Histogram
	skippedCounter metric.Int64Counter
}

// NewDeliveryMetrics creates DeliveryMetrics instruments on the given meter provider.
func NewDeliveryMetrics(meterProvider metric.MeterProvider, namespace string) (DeliveryMetrics, error) {
	meter := meterProvider.Meter(namespace)

	eventCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_events_total", namespace),
		metric.WithDescription("Emitted events by lifecycle stage"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event counter: %w", err)
	}

	attemptCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_delivery_attempts_total", namespace),
		metric.WithDescription("Outbound delivery attempts by destination and outcome"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery attempt counter: %w", err)
	}

	attemptHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_delivery_attempt_duration_seconds", namespace),
		metric.WithDescription("Outbound delivery attempt latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery attempt histogram: %w", err)
	}

	skippedCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_delivery_skipped_total", namespace),
		metric.WithDescription("Deliveries skipped without an attempt"),
		metric.WithUnit("{delivery}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery skipped counter: %w", err)
	}

	return &deliveryMetrics{
		eventCounter:   eventCounter,
		attemptCounter: attemptCounter,
		attemptHisto:   attemptHisto,
		skippedCounter: skippedCounter,
	}, nil
}

func (d *deliveryMetrics) RecordEvent(ctx context.Context, outcome string) {
	d.eventCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (d *deliveryMetrics) RecordAttempt(
	ctx context.Context,
	destination, outcome string,
	duration time.Duration,
) {
	attrs := metric.WithAttributes(
		attribute.String("destination", destination),
		attribute.String("outcome", outcome),
	)
	d.attemptCounter.Add(ctx, 1, attrs)
	d.attemptHisto.Record(ctx, duration.Seconds(), attrs)
}

func (d *deliveryMetrics) RecordSkipped(ctx context.Context, reason string) {
	d.skippedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// NoOpDeliveryMetrics discards delivery measurements.
type NoOpDeliveryMetrics struct{}

// NewNoOpDeliveryMetrics creates a no-op DeliveryMetrics implementation.
func NewNoOpDeliveryMetrics() DeliveryMetrics {
	return &NoOpDeliveryMetrics{}
}

func (n *NoOpDeliveryMetrics) RecordEvent(ctx context.Context, outcome string) {}

func (n *NoOpDeliveryMetrics) RecordAttempt(
	ctx context.Context,
	destination, outcome string,
	duration time.Duration,
) {
}

func (n *NoOpDeliveryMetrics) RecordSkipped(ctx context.Context, reason string) {}
