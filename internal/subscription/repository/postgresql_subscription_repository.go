// Package repository implements subscription persistence.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL uses native UUID and JSONB types, MySQL uses BINARY(16) and JSON types.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/webhooks/internal/database"
	apperrors "github.com/allisson/webhooks/internal/errors"
	subscriptionDomain "github.com/allisson/webhooks/internal/subscription/domain"
)

const subscriptionColumns = `id, user_id, company_id, target_url, event_types, filters, secret, headers,
			  retry_count, retry_delay_seconds, timeout_seconds, active, description,
			  total_events_sent, successful_deliveries, failed_deliveries, consecutive_failures,
			  last_delivery_at, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// PostgreSQLSubscriptionRepository implements Subscription persistence for PostgreSQL.
type PostgreSQLSubscriptionRepository struct {
	db *sql.DB
}

// Create inserts a new Subscription.
func (p *PostgreSQLSubscriptionRepository) Create(
	ctx context.Context,
	sub *subscriptionDomain.Subscription,
) error {
	querier := database.GetTx(ctx, p.db)

	filters, headers, err := marshalJSONColumns(sub)
	if err != nil {
		return err
	}

	query := `INSERT INTO webhook_subscriptions (id, user_id, company_id, target_url, event_types, filters,
			  secret, headers, retry_count, retry_delay_seconds, timeout_seconds, active, description,
			  created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err = querier.ExecContext(
		ctx,
		query,
		sub.ID,
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
func (p *PostgreSQLSubscriptionRepository) Get(
	ctx context.Context,
	subscriptionID uuid.UUID,
) (*subscriptionDomain.Subscription, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + subscriptionColumns + ` FROM webhook_subscriptions WHERE id = $1`

	sub, err := scanPostgreSQLSubscription(querier.QueryRowContext(ctx, query, subscriptionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, subscriptionDomain.ErrSubscriptionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get subscription")
	}
	return sub, nil
}

// List retrieves the subscriptions visible in a scope ordered by ID descending. A non-nil
// companyID selects the company's subscriptions; otherwise the user's unscoped ones.
func (p *PostgreSQLSubscriptionRepository) List(
	ctx context.Context,
	companyID *string,
	userID string,
	offset, limit int,
) ([]*subscriptionDomain.Subscription, error) {
	querier := database.GetTx(ctx, p.db)

	var rows *sql.Rows
	var err error
	if companyID != nil {
		query := `SELECT ` + subscriptionColumns + ` FROM webhook_subscriptions
			  WHERE company_id = $1
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`
		rows, err = querier.QueryContext(ctx, query, *companyID, limit, offset)
	} else {
		query := `SELECT ` + subscriptionColumns + ` FROM webhook_subscriptions
			  WHERE company_id IS NULL AND user_id = $1
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`
		rows, err = querier.QueryContext(ctx, query, userID, limit, offset)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list subscriptions")
	}

	return collectPostgreSQLSubscriptions(rows)
}

// ListActiveByCompany retrieves every active subscription of a company.
func (p *PostgreSQLSubscriptionRepository) ListActiveByCompany(
	ctx context.Context,
	companyID string,
) ([]*subscriptionDomain.Subscription, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + subscriptionColumns + ` FROM webhook_subscriptions
			  WHERE company_id = $1 AND active = TRUE
			  ORDER BY id`

	rows, err := querier.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list active subscriptions")
	}

	return collectPostgreSQLSubscriptions(rows)
}

// Update replaces the mutable fields of a Subscription. Counters are left untouched.
func (p *PostgreSQLSubscriptionRepository) Update(
	ctx context.Context,
	sub *subscriptionDomain.Subscription,
) error {
	querier := database.GetTx(ctx, p.db)

	filters, headers, err := marshalJSONColumns(sub)
	if err != nil {
		return err
	}

	query := `UPDATE webhook_subscriptions
			  SET target_url = $1,
				  event_types = $2,
				  filters = $3,
				  secret = $4,
				  headers = $5,
				  retry_count = $6,
				  retry_delay_seconds = $7,
				  timeout_seconds = $8,
				  active = $9,
				  description = $10,
				  updated_at = $11
			  WHERE id = $12`

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
		sub.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update subscription")
	}
	return requireAffected(result, "failed to update subscription")
}

// Delete removes a Subscription and, through the foreign key, its delivery logs.
func (p *PostgreSQLSubscriptionRepository) Delete(ctx context.Context, subscriptionID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM webhook_subscriptions WHERE id = $1`, subscriptionID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete subscription")
	}
	return requireAffected(result, "failed to delete subscription")
}

// RecordOutcome applies one attempt's terminal outcome to the counters in a single
// atomic statement.
func (p *PostgreSQLSubscriptionRepository) RecordOutcome(
	ctx context.Context,
	subscriptionID uuid.UUID,
	outcome subscriptionDomain.Outcome,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE webhook_subscriptions
			  SET total_events_sent = total_events_sent + 1,
				  failed_deliveries = failed_deliveries + 1,
				  consecutive_failures = consecutive_failures + 1,
				  last_delivery_at = $1
			  WHERE id = $2`
	if outcome.Success {
		query = `UPDATE webhook_subscriptions
			  SET total_events_sent = total_events_sent + 1,
				  successful_deliveries = successful_deliveries + 1,
				  consecutive_failures = 0,
				  last_delivery_at = $1
			  WHERE id = $2`
	}

	if _, err := querier.ExecContext(ctx, query, outcome.DeliveredAt, subscriptionID); err != nil {
		return apperrors.Wrap(err, "failed to record subscription delivery outcome")
	}
	return nil
}

func scanPostgreSQLSubscription(row rowScanner) (*subscriptionDomain.Subscription, error) {
	var sub subscriptionDomain.Subscription
	var filters []byte
	var headers []byte

	err := row.Scan(
		&sub.ID,
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

	if err := unmarshalJSONColumns(&sub, filters, headers); err != nil {
		return nil, err
	}
	return &sub, nil
}

func collectPostgreSQLSubscriptions(rows *sql.Rows) ([]*subscriptionDomain.Subscription, error) {
	defer func() {
		_ = rows.Close()
	}()

	subs := make([]*subscriptionDomain.Subscription, 0)
	for rows.Next() {
		sub, err := scanPostgreSQLSubscription(rows)
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

// NewPostgreSQLSubscriptionRepository creates a new PostgreSQL Subscription repository.
func NewPostgreSQLSubscriptionRepository(db *sql.DB) *PostgreSQLSubscriptionRepository {
	return &PostgreSQLSubscriptionRepository{db: db}
}

func marshalJSONColumns(sub *subscriptionDomain.Subscription) (string, string, error) {
	var filters, headers string
	if !sub.Filters.IsEmpty() {
		encoded, err := json.Marshal(sub.Filters)
		if err != nil {
			return "", "", apperrors.Wrap(err, "failed to marshal subscription filters")
		}
		filters = string(encoded)
	}
	if len(sub.Headers) > 0 {
		encoded, err := json.Marshal(sub.Headers)
		if err != nil {
			return "", "", apperrors.Wrap(err, "failed to marshal subscription headers")
		}
		headers = string(encoded)
	}
	return filters, headers, nil
}

func unmarshalJSONColumns(sub *subscriptionDomain.Subscription, filters, headers []byte) error {
	if len(filters) > 0 {
		var f subscriptionDomain.Filters
		if err := json.Unmarshal(filters, &f); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal subscription filters")
		}
		if !f.IsEmpty() {
			sub.Filters = &f
		}
	}
	if len(headers) > 0 {
		if err := json.Unmarshal(headers, &sub.Headers); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal subscription headers")
		}
	}
	return nil
}

// nullableString maps the empty string to SQL NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func requireAffected(result sql.Result, message string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, message)
	}
	if affected == 0 {
		return subscriptionDomain.ErrSubscriptionNotFound
	}
	return nil
}
