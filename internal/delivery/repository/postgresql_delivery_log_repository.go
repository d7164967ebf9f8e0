// Package repository implements delivery log persistence.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// Log entries are append-only; the only mutation is retention cleanup.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/webhooks/internal/database"
	deliveryDomain "github.com/allisson/webhooks/internal/delivery/domain"
	apperrors "github.com/allisson/webhooks/internal/errors"
)

const deliveryLogColumns = `id, direction, subscription_id, inbound_webhook_id, event_id, event_type,
			  request_payload, response_body, status_code, attempt, success, error_message,
			  duration_ms, created_at`

// PostgreSQLDeliveryLogRepository implements DeliveryLog persistence for PostgreSQL.
type PostgreSQLDeliveryLogRepository struct {
	db *sql.DB
}

// Create inserts a new DeliveryLog entry.
func (p *PostgreSQLDeliveryLogRepository) Create(
	ctx context.Context,
	deliveryLog *deliveryDomain.DeliveryLog,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO webhook_delivery_logs (id, direction, subscription_id, inbound_webhook_id,
			  event_id, event_type, request_payload, response_body, status_code, attempt, success,
			  error_message, duration_ms, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := querier.ExecContext(
		ctx,
		query,
		deliveryLog.ID,
		string(deliveryLog.Direction),
		nullableUUID(deliveryLog.SubscriptionID),
		nullableUUID(deliveryLog.InboundWebhookID),
		nullableUUID(deliveryLog.EventID),
		deliveryLog.EventType,
		deliveryLog.RequestPayload,
		deliveryLog.ResponseBody,
		deliveryLog.StatusCode,
		deliveryLog.Attempt,
		deliveryLog.Success,
		deliveryLog.ErrorMessage,
		deliveryLog.DurationMs,
		deliveryLog.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create delivery log")
	}
	return nil
}

// ListBySubscription retrieves the outgoing entries of a subscription, newest first.
func (p *PostgreSQLDeliveryLogRepository) ListBySubscription(
	ctx context.Context,
	subscriptionID uuid.UUID,
	offset, limit int,
) ([]*deliveryDomain.DeliveryLog, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + deliveryLogColumns + ` FROM webhook_delivery_logs
			  WHERE subscription_id = $1
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, subscriptionID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list delivery logs")
	}
	return collectPostgreSQLDeliveryLogs(rows)
}

// ListByInboundWebhook retrieves the incoming entries of an inbound webhook, newest first.
func (p *PostgreSQLDeliveryLogRepository) ListByInboundWebhook(
	ctx context.Context,
	inboundWebhookID uuid.UUID,
	offset, limit int,
) ([]*deliveryDomain.DeliveryLog, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + deliveryLogColumns + ` FROM webhook_delivery_logs
			  WHERE inbound_webhook_id = $1
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, inboundWebhookID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list delivery logs")
	}
	return collectPostgreSQLDeliveryLogs(rows)
}

// StatsBySubscription aggregates the entries of a subscription.
func (p *PostgreSQLDeliveryLogRepository) StatsBySubscription(
	ctx context.Context,
	subscriptionID uuid.UUID,
) (*deliveryDomain.LogStats, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*),
			  COALESCE(SUM(CASE WHEN success THEN 1 ELSE 0 END), 0),
			  COALESCE(AVG(duration_ms), 0),
			  MAX(created_at)
			  FROM webhook_delivery_logs
			  WHERE subscription_id = $1`

	var stats deliveryDomain.LogStats
	var lastAttemptAt sql.NullTime
	err := querier.QueryRowContext(ctx, query, subscriptionID).Scan(
		&stats.TotalAttempts,
		&stats.SuccessfulAttempts,
		&stats.AvgDurationMs,
		&lastAttemptAt,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to aggregate delivery logs")
	}

	stats.FailedAttempts = stats.TotalAttempts - stats.SuccessfulAttempts
	if lastAttemptAt.Valid {
		stats.LastAttemptAt = &lastAttemptAt.Time
	}
	return &stats, nil
}

// DeleteOlderThan removes entries created before olderThan and returns how many were
// affected. With dryRun set the entries are only counted.
func (p *PostgreSQLDeliveryLogRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	if dryRun {
		var count int64
		query := `SELECT COUNT(*) FROM webhook_delivery_logs WHERE created_at < $1`
		if err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count delivery logs")
		}
		return count, nil
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM webhook_delivery_logs WHERE created_at < $1`, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete delivery logs")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return count, nil
}

func collectPostgreSQLDeliveryLogs(rows *sql.Rows) ([]*deliveryDomain.DeliveryLog, error) {
	defer func() {
		_ = rows.Close()
	}()

	logs := make([]*deliveryDomain.DeliveryLog, 0)
	for rows.Next() {
		var deliveryLog deliveryDomain.DeliveryLog
		var direction string
		var subscriptionID, inboundWebhookID, eventID uuid.NullUUID
		var statusCode sql.NullInt64

		err := rows.Scan(
			&deliveryLog.ID,
			&direction,
			&subscriptionID,
			&inboundWebhookID,
			&eventID,
			&deliveryLog.EventType,
			&deliveryLog.RequestPayload,
			&deliveryLog.ResponseBody,
			&statusCode,
			&deliveryLog.Attempt,
			&deliveryLog.Success,
			&deliveryLog.ErrorMessage,
			&deliveryLog.DurationMs,
			&deliveryLog.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan delivery log row")
		}

		deliveryLog.Direction = deliveryDomain.Direction(direction)
		deliveryLog.SubscriptionID = uuidPtr(subscriptionID)
		deliveryLog.InboundWebhookID = uuidPtr(inboundWebhookID)
		deliveryLog.EventID = uuidPtr(eventID)
		deliveryLog.StatusCode = intPtr(statusCode)
		logs = append(logs, &deliveryLog)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating delivery log rows")
	}
	return logs, nil
}

// NewPostgreSQLDeliveryLogRepository creates a new PostgreSQL DeliveryLog repository.
func NewPostgreSQLDeliveryLogRepository(db *sql.DB) *PostgreSQLDeliveryLogRepository {
	return &PostgreSQLDeliveryLogRepository{db: db}
}

func nullableUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}

func uuidPtr(id uuid.NullUUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	value := id.UUID
	return &value
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	value := int(n.Int64)
	return &value
}
