package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	deliveryDomain "github.com/allisson/webhooks/internal/delivery/domain"
	"github.com/allisson/webhooks/internal/testutil"
)

var deliveryLogColumnNames = []string{
	"id", "direction", "subscription_id", "inbound_webhook_id", "event_id", "event_type",
	"request_payload", "response_body", "status_code", "attempt", "success", "error_message",
	"duration_ms", "created_at",
}

func newTestDeliveryLog() *deliveryDomain.DeliveryLog {
	subscriptionID := uuid.Must(uuid.NewV7())
	eventID := uuid.Must(uuid.NewV7())
	body := "ok"
	statusCode := 200
	return &deliveryDomain.DeliveryLog{
		ID:             uuid.Must(uuid.NewV7()),
		Direction:      deliveryDomain.DirectionOutgoing,
		SubscriptionID: &subscriptionID,
		EventID:        &eventID,
		EventType:      "chat.completed",
		RequestPayload: `{"event_type":"chat.completed"}`,
		ResponseBody:   &body,
		StatusCode:     &statusCode,
		Attempt:        1,
		Success:        true,
		DurationMs:     42,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestPostgreSQLDeliveryLogRepository_Create(t *testing.T) {
	t.Run("Success_OutgoingEntry", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLDeliveryLogRepository(db)
		entry := newTestDeliveryLog()

		mock.ExpectExec(testutil.Query("INSERT INTO webhook_delivery_logs")).
			WithArgs(
				entry.ID, "outgoing", *entry.SubscriptionID, nil, *entry.EventID, "chat.completed",
				entry.RequestPayload, "ok", 200, 1, true, nil, int64(42), entry.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(context.Background(), entry))
	})

	t.Run("Success_FailedIncomingEntry", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLDeliveryLogRepository(db)
		inboundID := uuid.Must(uuid.NewV7())
		message := "invalid credentials"
		entry := &deliveryDomain.DeliveryLog{
			ID:               uuid.Must(uuid.NewV7()),
			Direction:        deliveryDomain.DirectionIncoming,
			InboundWebhookID: &inboundID,
			EventType:        "webhook.received",
			RequestPayload:   "{}",
			ErrorMessage:     &message,
			CreatedAt:        time.Now().UTC(),
		}

		mock.ExpectExec(testutil.Query("INSERT INTO webhook_delivery_logs")).
			WithArgs(
				entry.ID, "incoming", nil, inboundID, nil, "webhook.received", "{}", nil, nil, 0, false,
				message, int64(0), entry.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(context.Background(), entry))
	})

	t.Run("Error_DatabaseFailure", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLDeliveryLogRepository(db)

		mock.ExpectExec(testutil.Query("INSERT INTO webhook_delivery_logs")).
			WillReturnError(errors.New("connection reset"))

		err := repo.Create(context.Background(), newTestDeliveryLog())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create delivery log")
	})
}

func TestPostgreSQLDeliveryLogRepository_ListBySubscription(t *testing.T) {
	t.Run("Success_ScansNullableColumns", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLDeliveryLogRepository(db)
		entry := newTestDeliveryLog()

		rows := sqlmock.NewRows(deliveryLogColumnNames).
			AddRow(
				entry.ID.String(), "outgoing", entry.SubscriptionID.String(), nil, entry.EventID.String(),
				"chat.completed", entry.RequestPayload, "ok", int64(200), int64(1), true, nil,
				int64(42), entry.CreatedAt,
			).
			AddRow(
				uuid.Must(uuid.NewV7()).String(), "outgoing", entry.SubscriptionID.String(), nil,
				entry.EventID.String(), "chat.completed", entry.RequestPayload, nil, nil, int64(0),
				false, "connection refused", int64(3), entry.CreatedAt,
			)
		mock.ExpectQuery(testutil.Query("WHERE subscription_id = $1")).
			WithArgs(*entry.SubscriptionID, 50, 0).
			WillReturnRows(rows)

		logs, err := repo.ListBySubscription(context.Background(), *entry.SubscriptionID, 0, 50)
		require.NoError(t, err)
		require.Len(t, logs, 2)

		assert.Equal(t, entry.ID, logs[0].ID)
		assert.Equal(t, deliveryDomain.DirectionOutgoing, logs[0].Direction)
		assert.Equal(t, entry.SubscriptionID, logs[0].SubscriptionID)
		assert.Nil(t, logs[0].InboundWebhookID)
		require.NotNil(t, logs[0].StatusCode)
		assert.Equal(t, 200, *logs[0].StatusCode)
		assert.True(t, logs[0].Success)

		assert.Nil(t, logs[1].StatusCode)
		assert.Nil(t, logs[1].ResponseBody)
		require.NotNil(t, logs[1].ErrorMessage)
		assert.Equal(t, "connection refused", *logs[1].ErrorMessage)
	})

	t.Run("Success_Empty", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLDeliveryLogRepository(db)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectQuery(testutil.Query("WHERE subscription_id = $1")).
			WithArgs(id, 10, 20).
			WillReturnRows(sqlmock.NewRows(deliveryLogColumnNames))

		logs, err := repo.ListBySubscription(context.Background(), id, 20, 10)
		require.NoError(t, err)
		assert.Empty(t, logs)
	})

	t.Run("Error_QueryFailure", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLDeliveryLogRepository(db)

		mock.ExpectQuery(testutil.Query("WHERE subscription_id = $1")).
			WillReturnError(errors.New("boom"))

		_, err := repo.ListBySubscription(context.Background(), uuid.Must(uuid.NewV7()), 0, 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list delivery logs")
	})
}

func TestPostgreSQLDeliveryLogRepository_ListByInboundWebhook(t *testing.T) {
	t.Run("Success_IncomingEntries", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLDeliveryLogRepository(db)
		inboundID := uuid.Must(uuid.NewV7())

		rows := sqlmock.NewRows(deliveryLogColumnNames).AddRow(
			uuid.Must(uuid.NewV7()).String(), "incoming", nil, inboundID.String(), nil,
			"webhook.received", "{}", `{"event_id":"x"}`, nil, int64(0), true, nil, int64(5), time.Now(),
		)
		mock.ExpectQuery(testutil.Query("WHERE inbound_webhook_id = $1")).
			WithArgs(inboundID, 50, 0).
			WillReturnRows(rows)

		logs, err := repo.ListByInboundWebhook(context.Background(), inboundID, 0, 50)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, deliveryDomain.DirectionIncoming, logs[0].Direction)
		require.NotNil(t, logs[0].InboundWebhookID)
		assert.Equal(t, inboundID, *logs[0].InboundWebhookID)
		assert.Nil(t, logs[0].SubscriptionID)
		assert.Nil(t, logs[0].EventID)
	})
}

func TestPostgreSQLDeliveryLogRepository_StatsBySubscription(t *testing.T) {
	t.Run("Success_Aggregates", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLDeliveryLogRepository(db)
		id := uuid.Must(uuid.NewV7())
		last := time.Now().UTC()

		mock.ExpectQuery(testutil.Query("FROM webhook_delivery_logs")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"count", "sum", "avg", "max"}).
				AddRow(int64(10), int64(7), float64(120.5), last))

		stats, err := repo.StatsBySubscription(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, int64(10), stats.TotalAttempts)
		assert.Equal(t, int64(7), stats.SuccessfulAttempts)
		assert.Equal(t, int64(3), stats.FailedAttempts)
		assert.InDelta(t, 120.5, stats.AvgDurationMs, 0.001)
		require.NotNil(t, stats.LastAttemptAt)
		assert.Equal(t, last, *stats.LastAttemptAt)
	})

	t.Run("Success_NoEntries", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLDeliveryLogRepository(db)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectQuery(testutil.Query("FROM webhook_delivery_logs")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"count", "sum", "avg", "max"}).
				AddRow(int64(0), int64(0), float64(0), nil))

		stats, err := repo.StatsBySubscription(context.Background(), id)
		require.NoError(t, err)
		assert.Zero(t, stats.TotalAttempts)
		assert.Nil(t, stats.LastAttemptAt)
	})
}

func TestPostgreSQLDeliveryLogRepository_DeleteOlderThan(t *testing.T) {
	cutoff := time.Now().UTC().AddDate(0, 0, -30)

	t.Run("Success_Delete", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLDeliveryLogRepository(db)

		mock.ExpectExec(testutil.Query("DELETE FROM webhook_delivery_logs WHERE created_at < $1")).
			WithArgs(cutoff).
			WillReturnResult(sqlmock.NewResult(0, 12))

		count, err := repo.DeleteOlderThan(context.Background(), cutoff, false)
		require.NoError(t, err)
		assert.Equal(t, int64(12), count)
	})

	t.Run("Success_DryRunCountsOnly", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLDeliveryLogRepository(db)

		mock.ExpectQuery(testutil.Query("SELECT COUNT(*) FROM webhook_delivery_logs WHERE created_at < $1")).
			WithArgs(cutoff).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))

		count, err := repo.DeleteOlderThan(context.Background(), cutoff, true)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
	})

	t.Run("Error_DeleteFailure", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewPostgreSQLDeliveryLogRepository(db)

		mock.ExpectExec(testutil.Query("DELETE FROM webhook_delivery_logs")).
			WillReturnError(errors.New("lock timeout"))

		_, err := repo.DeleteOlderThan(context.Background(), cutoff, false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete delivery logs")
	})
}
