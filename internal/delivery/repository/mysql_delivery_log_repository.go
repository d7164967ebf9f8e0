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

// MySQLDeliveryLogRepository implements DeliveryLog persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLDeliveryLogRepository struct {
	db *sql.DB
}

// Create inserts a new DeliveryLog entry.
func (m *MySQLDeliveryLogRepository) Create(
	ctx context.Context,
	deliveryLog *deliveryDomain.DeliveryLog,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := deliveryLog.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal delivery log id")
	}
	subscriptionID, err := nullableBinaryUUID(deliveryLog.SubscriptionID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal subscription id")
	}
	inboundWebhookID, err := nullableBinaryUUID(deliveryLog.InboundWebhookID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal inbound webhook id")
	}
	eventID, err := nullableBinaryUUID(deliveryLog.EventID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal event id")
	}

	query := `INSERT INTO webhook_delivery_logs (id, direction, subscription_id, inbound_webhook_id,
			  event_id, event_type, request_payload, response_body, status_code, attempt, success,
			  error_message, duration_ms, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		string(deliveryLog.Direction),
		subscriptionID,
		inboundWebhookID,
		eventID,
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
func (m *MySQLDeliveryLogRepository) ListBySubscription(
	ctx context.Context,
	subscriptionID uuid.UUID,
	offset, limit int,
) ([]*deliveryDomain.DeliveryLog, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := subscriptionID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal subscription id")
	}

	query := `SELECT ` + deliveryLogColumns + ` FROM webhook_delivery_logs
			  WHERE subscription_id = ?
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, id, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list delivery logs")
	}
	return collectMySQLDeliveryLogs(rows)
}

// ListByInboundWebhook retrieves the incoming entries of an inbound webhook, newest first.
func (m *MySQLDeliveryLogRepository) ListByInboundWebhook(
	ctx context.Context,
	inboundWebhookID uuid.UUID,
	offset, limit int,
) ([]*deliveryDomain.DeliveryLog, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := inboundWebhookID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal inbound webhook id")
	}

	query := `SELECT ` + deliveryLogColumns + ` FROM webhook_delivery_logs
			  WHERE inbound_webhook_id = ?
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, id, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list delivery logs")
	}
	return collectMySQLDeliveryLogs(rows)
}

// StatsBySubscription aggregates the entries of a subscription.
func (m *MySQLDeliveryLogRepository) StatsBySubscription(
	ctx context.Context,
	subscriptionID uuid.UUID,
) (*deliveryDomain.LogStats, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := subscriptionID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal subscription id")
	}

	query := `SELECT COUNT(*),
			  COALESCE(SUM(CASE WHEN success THEN 1 ELSE 0 END), 0),
			  COALESCE(AVG(duration_ms), 0),
			  MAX(created_at)
			  FROM webhook_delivery_logs
			  WHERE subscription_id = ?`

	var stats deliveryDomain.LogStats
	var lastAttemptAt sql.NullTime
	err = querier.QueryRowContext(ctx, query, id).Scan(
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
func (m *MySQLDeliveryLogRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	if dryRun {
		var count int64
		query := `SELECT COUNT(*) FROM webhook_delivery_logs WHERE created_at < ?`
		if err := querier.QueryRowContext(ctx, query, olderThan).Scan(&count); err != nil {
			return 0, apperrors.Wrap(err, "failed to count delivery logs")
		}
		return count, nil
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM webhook_delivery_logs WHERE created_at < ?`, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete delivery logs")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return count, nil
}

func collectMySQLDeliveryLogs(rows *sql.Rows) ([]*deliveryDomain.DeliveryLog, error) {
	defer func() {
		_ = rows.Close()
	}()

	logs := make([]*deliveryDomain.DeliveryLog, 0)
	for rows.Next() {
		var deliveryLog deliveryDomain.DeliveryLog
		var idBytes, subscriptionID, inboundWebhookID, eventID []byte
		var direction string
		var statusCode sql.NullInt64

		err := rows.Scan(
			&idBytes,
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

		if err := deliveryLog.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal delivery log id")
		}
		if deliveryLog.SubscriptionID, err = binaryUUIDPtr(subscriptionID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal subscription id")
		}
		if deliveryLog.InboundWebhookID, err = binaryUUIDPtr(inboundWebhookID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal inbound webhook id")
		}
		if deliveryLog.EventID, err = binaryUUIDPtr(eventID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal event id")
		}
		deliveryLog.Direction = deliveryDomain.Direction(direction)
		deliveryLog.StatusCode = intPtr(statusCode)
		logs = append(logs, &deliveryLog)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating delivery log rows")
	}
	return logs, nil
}

// NewMySQLDeliveryLogRepository creates a new MySQL DeliveryLog repository.
func NewMySQLDeliveryLogRepository(db *sql.DB) *MySQLDeliveryLogRepository {
	return &MySQLDeliveryLogRepository{db: db}
}

func nullableBinaryUUID(id *uuid.UUID) (any, error) {
	if id == nil {
		return nil, nil
	}
	return id.MarshalBinary()
}

func binaryUUIDPtr(b []byte) (*uuid.UUID, error) {
	if b == nil {
		return nil, nil
	}
	var id uuid.UUID
	if err := id.UnmarshalBinary(b); err != nil {
		return nil, err
	}
	return &id, nil
}
