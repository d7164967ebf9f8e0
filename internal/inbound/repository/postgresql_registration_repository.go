// Package repository implements inbound webhook registration persistence.
//
// Provides PostgreSQL and MySQL implementations with transaction support via database.GetTx().
// PostgreSQL uses native UUID types, MySQL uses BINARY(16).
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/webhooks/internal/database"
	apperrors "github.com/allisson/webhooks/internal/errors"
	inboundDomain "github.com/allisson/webhooks/internal/inbound/domain"
)

const registrationColumns = `id, user_id, company_id, capability, api_key_hash, active, description,
			  created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// PostgreSQLRegistrationRepository implements Registration persistence for PostgreSQL.
type PostgreSQLRegistrationRepository struct {
	db *sql.DB
}

// Create inserts a new Registration.
func (p *PostgreSQLRegistrationRepository) Create(
	ctx context.Context,
	registration *inboundDomain.Registration,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO inbound_webhooks (id, user_id, company_id, capability, api_key_hash, active,
			  description, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querier.ExecContext(
		ctx,
		query,
		registration.ID,
		registration.UserID,
		registration.CompanyID,
		registration.Capability,
		registration.APIKeyHash,
		registration.Active,
		registration.Description,
		registration.CreatedAt,
		registration.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create inbound webhook")
	}
	return nil
}

// Get retrieves a Registration by ID. Returns ErrRegistrationNotFound if it doesn't exist.
func (p *PostgreSQLRegistrationRepository) Get(
	ctx context.Context,
	registrationID uuid.UUID,
) (*inboundDomain.Registration, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + registrationColumns + ` FROM inbound_webhooks WHERE id = $1`

	registration, err := scanPostgreSQLRegistration(querier.QueryRowContext(ctx, query, registrationID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inboundDomain.ErrRegistrationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get inbound webhook")
	}
	return registration, nil
}

// GetByIDAndKeyHash matches id and key hash in one statement. Returns
// ErrInvalidCredentials when either half is wrong.
func (p *PostgreSQLRegistrationRepository) GetByIDAndKeyHash(
	ctx context.Context,
	registrationID uuid.UUID,
	keyHash string,
) (*inboundDomain.Registration, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + registrationColumns + ` FROM inbound_webhooks WHERE id = $1 AND api_key_hash = $2`

	registration, err := scanPostgreSQLRegistration(querier.QueryRowContext(ctx, query, registrationID, keyHash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inboundDomain.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(err, "failed to authenticate inbound webhook")
	}
	return registration, nil
}

// List retrieves the registrations visible in a scope ordered by ID descending. A non-nil
// companyID selects the company's registrations; otherwise the user's unscoped ones.
func (p *PostgreSQLRegistrationRepository) List(
	ctx context.Context,
	companyID *string,
	userID string,
	offset, limit int,
) ([]*inboundDomain.Registration, error) {
	querier := database.GetTx(ctx, p.db)

	var rows *sql.Rows
	var err error
	if companyID != nil {
		query := `SELECT ` + registrationColumns + ` FROM inbound_webhooks
			  WHERE company_id = $1
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`
		rows, err = querier.QueryContext(ctx, query, *companyID, limit, offset)
	} else {
		query := `SELECT ` + registrationColumns + ` FROM inbound_webhooks
			  WHERE company_id IS NULL AND user_id = $1
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`
		rows, err = querier.QueryContext(ctx, query, userID, limit, offset)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list inbound webhooks")
	}

	return collectPostgreSQLRegistrations(rows)
}

// Update replaces the mutable fields of a Registration. The key hash never changes.
func (p *PostgreSQLRegistrationRepository) Update(
	ctx context.Context,
	registration *inboundDomain.Registration,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE inbound_webhooks
			  SET capability = $1,
				  active = $2,
				  description = $3,
				  updated_at = $4
			  WHERE id = $5`

	result, err := querier.ExecContext(
		ctx,
		query,
		registration.Capability,
		registration.Active,
		registration.Description,
		registration.UpdatedAt,
		registration.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update inbound webhook")
	}
	return requireAffected(result, "failed to update inbound webhook")
}

// Delete removes a Registration. Its delivery logs are removed through the foreign key.
func (p *PostgreSQLRegistrationRepository) Delete(ctx context.Context, registrationID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM inbound_webhooks WHERE id = $1`, registrationID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete inbound webhook")
	}
	return requireAffected(result, "failed to delete inbound webhook")
}

func scanPostgreSQLRegistration(row rowScanner) (*inboundDomain.Registration, error) {
	var registration inboundDomain.Registration

	err := row.Scan(
		&registration.ID,
		&registration.UserID,
		&registration.CompanyID,
		&registration.Capability,
		&registration.APIKeyHash,
		&registration.Active,
		&registration.Description,
		&registration.CreatedAt,
		&registration.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

func collectPostgreSQLRegistrations(rows *sql.Rows) ([]*inboundDomain.Registration, error) {
	defer func() {
		_ = rows.Close()
	}()

	registrations := make([]*inboundDomain.Registration, 0)
	for rows.Next() {
		registration, err := scanPostgreSQLRegistration(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan inbound webhook row")
		}
		registrations = append(registrations, registration)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating inbound webhook rows")
	}
	return registrations, nil
}

func requireAffected(result sql.Result, message string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, message)
	}
	if affected == 0 {
		return inboundDomain.ErrRegistrationNotFound
	}
	return nil
}

// NewPostgreSQLRegistrationRepository creates a new PostgreSQL Registration repository.
func NewPostgreSQLRegistrationRepository(db *sql.DB) *PostgreSQLRegistrationRepository {
	return &PostgreSQLRegistrationRepository{db: db}
}
