package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/webhooks/internal/database"
	apperrors "github.com/allisson/webhooks/internal/errors"
	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
)

// MySQLSubscriptionRepository implements Subscription persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLSubscriptionRepository struct {
	db *sql.DB
}

// Create inserts a new Subscription.
func (m *MySQLSubscriptionRepository) Create(
	ctx context.Context,
	sub *subscriptionDomain.Subscription,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := sub.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal subscription id")
	}

	filters, headers, err := marshalJSONColumns(sub)
	if err != nil {
		return err
	}

	query := `INSERT INTO webhook_subscriptions (id, user_id, company_id, target_url, event_types, filters,
			  secret, headers, retry_count, retry_delay_seconds, timeout_seconds, active, description,
			  created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		sub.UserID,
		sub.CompanyID,
		sub.TargetURL,
		sub.EventTypes,
		nullableString(filters),
		sub.Secret,
		nullableString(headers),
		sub.RetryCount,
		sub.RetryDelaySeconds,
		sub.TimeoutSeconds,
		sub.Active,
		sub.Description,
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create subscription")
	}
	return nil
}

// Get retrieves a Subscription by ID. Returns ErrSubscriptionNotFound if it doesn't exist.
func (m *MySQLSubscriptionRepository) Get(
	ctx context.Context,
	subscriptionID uuid.UUID,
) (*subscriptionDomain.Subscription, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := subscriptionID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal subscription id")
	}

	query := `SELECT ` + subscriptionColumns + ` FROM webhook_subscriptions WHERE id = ?`

	sub, err := scanMySQLSubscription(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, subscriptionDomain.ErrSubscriptionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get subscription")
	}
	return sub, nil
}

// List retrieves the subscriptions visible in a scope ordered by ID descending.
func (m *MySQLSubscriptionRepository) List(
	ctx context.Context,
	companyID *string,
	userID string,
	offset, limit int,
) ([]*subscriptionDomain.Subscription, error) {
	querier := database.GetTx(ctx, m.db)

	var rows *sql.Rows
	var err error
	if companyID != nil {
		query := `SELECT ` + subscriptionColumns + ` FROM webhook_subscriptions
			  WHERE company_id = ?
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`
		rows, err = querier.QueryContext(ctx, query, *companyID, limit, offset)
	} else {
		query := `SELECT ` + subscriptionColumns + ` FROM webhook_subscriptions
			  WHERE company_id IS NULL AND user_id = ?
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`
		rows, err = querier.QueryContext(ctx, query, userID, limit, offset)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list subscriptions")
	}

	return collectMySQLSubscriptions(rows)
}

// ListActiveByCompany retrieves every active subscription of a company.
func (m *MySQLSubscriptionRepository) ListActiveByCompany(
	ctx context.Context,
	companyID string,
) ([]*subscriptionDomain.Subscription, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + subscriptionColumns + ` FROM webhook_subscriptions
			  WHERE company_id = ? AND active = TRUE
			  ORDER BY id`

	rows, err := querier.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list active subscriptions")
	}

	return collectMySQLSubscriptions(rows)
}

// Update replaces the mutable fields of a Subscription. Counters are left untouched.
func (m *MySQLSubscriptionRepository) Update(
	ctx context.Context,
	sub *subscriptionDomain.Subscription,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := sub.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal subscription id")
	}

	filters, headers, err := marshalJSONColumns(sub)
	if err != nil {
		return err
	}

	query := `UPDATE webhook_subscriptions
			  SET target_url = ?,
				  event_types = ?,
				  filters = ?,
				  secret = ?,
				  headers = ?,
				  retry_count = ?,
				  retry_delay_seconds = ?,
				  timeout_seconds = ?,
				  active = ?,
				  description = ?,
				  updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		sub.TargetURL,
		sub.EventTypes,
		nullableString(filters),
		sub.Secret,
		nullableString(headers),
		sub.RetryCount,
		sub.RetryDelaySeconds,
		sub.TimeoutSeconds,
		sub.Active,
		sub.Description,
		sub.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update subscription")
	}
	return requireAffected(result, "failed to update subscription")
}

// Delete removes a Subscription and, through the foreign key, its delivery logs.
func (m *MySQLSubscriptionRepository) Delete(ctx context.Context, subscriptionID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := subscriptionID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal subscription id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM webhook_subscriptions WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete subscription")
	}
	return requireAffected(result, "failed to delete subscription")
}

// RecordOutcome applies one attempt's terminal outcome to the counters in a single
// atomic statement.
func (m *MySQLSubscriptionRepository) RecordOutcome(
	ctx context.Context,
	subscriptionID uuid.UUID,
	outcome subscriptionDomain.Outcome,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := subscriptionID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal subscription id")
	}

	query := `UPDATE webhook_subscriptions
			  SET total_events_sent = total_events_sent + 1,
				  failed_deliveries = failed_deliveries + 1,
				  consecutive_failures = consecutive_failures + 1,
				  last_delivery_at = ?
			  WHERE id = ?`
	if outcome.Success {
		query = `UPDATE webhook_subscriptions
			  SET total_events_sent = total_events_sent + 1,
				  successful_deliveries = successful_deliveries + 1,
				  consecutive_failures = 0,
				  last_delivery_at = ?
			  WHERE id = ?`
	}

	if _, err := querier.ExecContext(ctx, query, outcome.DeliveredAt, id); err != nil {
		return apperrors.Wrap(err, "failed to record subscription delivery outcome")
	}
	return nil
}

func scanMySQLSubscription(row rowScanner) (*subscriptionDomain.Subscription, error) {
	var sub subscriptionDomain.Subscription
	var idBytes []byte
	var filters []byte
	var headers []byte

	err := row.Scan(
		&idBytes,
		&sub.UserID,
		&sub.CompanyID,
		&sub.TargetURL,
		&sub.EventTypes,
		&filters,
		&sub.Secret,
		&headers,
		&sub.RetryCount,
		&sub.RetryDelaySeconds,
		&sub.TimeoutSeconds,
		&sub.Active,
		&sub.Description,
		&sub.TotalEventsSent,
		&sub.SuccessfulDeliveries,
		&sub.FailedDeliveries,
		&sub.ConsecutiveFailures,
		&sub.LastDeliveryAt,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := sub.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal subscription id")
	}
	if err := unmarshalJSONColumns(&sub, filters, headers); err != nil {
		return nil, err
	}
	return &sub, nil
}

func collectMySQLSubscriptions(rows *sql.Rows) ([]*subscriptionDomain.Subscription, error) {
	defer func() {
		_ = rows.Close()
	}()

	subs := make([]*subscriptionDomain.Subscription, 0)
	for rows.Next() {
		sub, err := scanMySQLSubscription(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan subscription row")
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating subscription rows")
	}
	return subs, nil
}

// NewMySQLSubscriptionRepository creates a new MySQL Subscription repository.
func NewMySQLSubscriptionRepository(db *sql.DB) *MySQLSubscriptionRepository {
	return &MySQLSubscriptionRepository{db: db}
}
