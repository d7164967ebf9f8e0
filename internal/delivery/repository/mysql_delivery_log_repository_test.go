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

	"github.com/allisson/webhooks/internal/testutil"
)

func mustBinary(t *testing.T, id uuid.UUID) []byte {
	t.Helper()
	b, err := id.MarshalBinary()
	require.NoError(t, err)
	return b
}

func TestMySQLDeliveryLogRepository_Create(t *testing.T) {
	t.Run("Success_BinaryIDs", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLDeliveryLogRepository(db)
		entry := newTestDeliveryLog()

		mock.ExpectExec(testutil.Query("INSERT INTO webhook_delivery_logs")).
			WithArgs(
				mustBinary(t, entry.ID), "outgoing", mustBinary(t, *entry.SubscriptionID), nil,
				mustBinary(t, *entry.EventID), "chat.completed", entry.RequestPayload, "ok", 200, 1, true,
				nil, int64(42), entry.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(context.Background(), entry))
	})

	t.Run("Error_DatabaseFailure", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLDeliveryLogRepository(db)

		mock.ExpectExec(testutil.Query("INSERT INTO webhook_delivery_logs")).
			WillReturnError(errors.New("deadlock"))

		err := repo.Create(context.Background(), newTestDeliveryLog())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create delivery log")
	})
}

func TestMySQLDeliveryLogRepository_ListBySubscription(t *testing.T) {
	t.Run("Success_UnmarshalsBinaryIDs", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLDeliveryLogRepository(db)
		entry := newTestDeliveryLog()

		rows := sqlmock.NewRows(deliveryLogColumnNames).AddRow(
			mustBinary(t, entry.ID), "outgoing", mustBinary(t, *entry.SubscriptionID), nil,
			mustBinary(t, *entry.EventID), "chat.completed", entry.RequestPayload, "ok", int64(200),
			int64(1), true, nil, int64(42), entry.CreatedAt,
		)
		mock.ExpectQuery(testutil.Query("WHERE subscription_id = ?")).
			WithArgs(mustBinary(t, *entry.SubscriptionID), 50, 0).
			WillReturnRows(rows)

		logs, err := repo.ListBySubscription(context.Background(), *entry.SubscriptionID, 0, 50)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, entry.ID, logs[0].ID)
		assert.Equal(t, entry.SubscriptionID, logs[0].SubscriptionID)
		assert.Equal(t, entry.EventID, logs[0].EventID)
		assert.Nil(t, logs[0].InboundWebhookID)
		require.NotNil(t, logs[0].StatusCode)
		assert.Equal(t, 200, *logs[0].StatusCode)
	})

	t.Run("Error_InvalidBinaryID", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLDeliveryLogRepository(db)
		id := uuid.Must(uuid.NewV7())

		rows := sqlmock.NewRows(deliveryLogColumnNames).AddRow(
			[]byte{0x01}, "outgoing", nil, nil, nil, "chat.completed", "{}", nil, nil,
			int64(0), false, nil, int64(0), time.Now(),
		)
		mock.ExpectQuery(testutil.Query("WHERE subscription_id = ?")).
			WithArgs(mustBinary(t, id), 10, 0).
			WillReturnRows(rows)

		_, err := repo.ListBySubscription(context.Background(), id, 0, 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal delivery log id")
	})
}

func TestMySQLDeliveryLogRepository_ListByInboundWebhook(t *testing.T) {
	t.Run("Success_IncomingEntries", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLDeliveryLogRepository(db)
		inboundID := uuid.Must(uuid.NewV7())

		rows := sqlmock.NewRows(deliveryLogColumnNames).AddRow(
			mustBinary(t, uuid.Must(uuid.NewV7())), "incoming", nil, mustBinary(t, inboundID), nil,
			"webhook.received", "{}", nil, nil, int64(0), false, "processor failed", int64(2), time.Now(),
		)
		mock.ExpectQuery(testutil.Query("WHERE inbound_webhook_id = ?")).
			WithArgs(mustBinary(t, inboundID), 50, 0).
			WillReturnRows(rows)

		logs, err := repo.ListByInboundWebhook(context.Background(), inboundID, 0, 50)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		require.NotNil(t, logs[0].InboundWebhookID)
		assert.Equal(t, inboundID, *logs[0].InboundWebhookID)
		require.NotNil(t, logs[0].ErrorMessage)
		assert.Equal(t, "processor failed", *logs[0].ErrorMessage)
	})
}

func TestMySQLDeliveryLogRepository_StatsBySubscription(t *testing.T) {
	t.Run("Success_Aggregates", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLDeliveryLogRepository(db)
		id := uuid.Must(uuid.NewV7())

		mock.ExpectQuery(testutil.Query("FROM webhook_delivery_logs")).
			WithArgs(mustBinary(t, id)).
			WillReturnRows(sqlmock.NewRows([]string{"count", "sum", "avg", "max"}).
				AddRow(int64(3), []byte("1"), []byte("250.0000"), nil))

		stats, err := repo.StatsBySubscription(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.TotalAttempts)
		assert.Equal(t, int64(1), stats.SuccessfulAttempts)
		assert.Equal(t, int64(2), stats.FailedAttempts)
		assert.InDelta(t, 250.0, stats.AvgDurationMs, 0.001)
		assert.Nil(t, stats.LastAttemptAt)
	})
}

func TestMySQLDeliveryLogRepository_DeleteOlderThan(t *testing.T) {
	cutoff := time.Now().UTC().AddDate(0, 0, -7)

	t.Run("Success_Delete", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLDeliveryLogRepository(db)

		mock.ExpectExec(testutil.Query("DELETE FROM webhook_delivery_logs WHERE created_at < ?")).
			WithArgs(cutoff).
			WillReturnResult(sqlmock.NewResult(0, 3))

		count, err := repo.DeleteOlderThan(context.Background(), cutoff, false)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})

	t.Run("Success_DryRun", func(t *testing.T) {
		db, mock := testutil.NewMockDB(t)
		repo := NewMySQLDeliveryLogRepository(db)

		mock.ExpectQuery(testutil.Query("SELECT COUNT(*) FROM webhook_delivery_logs WHERE created_at < ?")).
			WithArgs(cutoff).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(9)))

		count, err := repo.DeleteOlderThan(context.Background(), cutoff, true)
		require.NoError(t, err)
		assert.Equal(t, int64(9), count)
	})
}
