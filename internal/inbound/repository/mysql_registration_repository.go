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

// MySQLRegistrationRepository implements Registration persistence for MySQL.
type MySQLRegistrationRepository struct {
	db *sql.DB
}

// Create inserts a new Registration.
func (m *MySQLRegistrationRepository) Create(
	ctx context.Context,
	registration *inboundDomain.Registration,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := registration.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal inbound webhook id")
	}

	query := `INSERT INTO inbound_webhooks (id, user_id, company_id, capability, api_key_hash, active,
			  description, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLRegistrationRepository) Get(
	ctx context.Context,
	registrationID uuid.UUID,
) (*inboundDomain.Registration, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := registrationID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal inbound webhook id")
	}

	query := `SELECT ` + registrationColumns + ` FROM inbound_webhooks WHERE id = ?`

	registration, err := scanMySQLRegistration(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inboundDomain.ErrRegistrationNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get inbound webhook")
	}
	return registration, nil
}

// GetByIDAndKeyHash matches id and key hash in one statement.
func (m *MySQLRegistrationRepository) GetByIDAndKeyHash(
	ctx context.Context,
	registrationID uuid.UUID,
	keyHash string,
) (*inboundDomain.Registration, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := registrationID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal inbound webhook id")
	}

	query := `SELECT ` + registrationColumns + ` FROM inbound_webhooks WHERE id = ? AND api_key_hash = ?`

	registration, err := scanMySQLRegistration(querier.QueryRowContext(ctx, query, id, keyHash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, inboundDomain.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(err, "failed to authenticate inbound webhook")
	}
	return registration, nil
}

// List retrieves the registrations visible in a scope ordered by ID descending.
func (m *MySQLRegistrationRepository) List(
	ctx context.Context,
	companyID *string,
	userID string,
	offset, limit int,
) ([]*inboundDomain.Registration, error) {
	querier := database.GetTx(ctx, m.db)

	var rows *sql.Rows
	var err error
	if companyID != nil {
		query := `SELECT ` + registrationColumns + ` FROM inbound_webhooks
			  WHERE company_id = ?
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`
		rows, err = querier.QueryContext(ctx, query, *companyID, limit, offset)
	} else {
		query := `SELECT ` + registrationColumns + ` FROM inbound_webhooks
			  WHERE company_id IS NULL AND user_id = ?
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`
		rows, err = querier.QueryContext(ctx, query, userID, limit, offset)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list inbound webhooks")
	}

	return collectMySQLRegistrations(rows)
}

// Update replaces the mutable fields of a Registration.
func (m *MySQLRegistrationRepository) Update(
	ctx context.Context,
	registration *inboundDomain.Registration,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := registration.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal inbound webhook id")
	}

	query := `UPDATE inbound_webhooks
			  SET capability = ?,
				  active = ?,
				  description = ?,
				  updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		registration.Capability,
		registration.Active,
		registration.Description,
		registration.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update inbound webhook")
	}
	return requireAffected(result, "failed to update inbound webhook")
}

// Delete removes a Registration.
func (m *MySQLRegistrationRepository) Delete(ctx context.Context, registrationID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := registrationID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal inbound webhook id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM inbound_webhooks WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete inbound webhook")
	}
	return requireAffected(result, "failed to delete inbound webhook")
}

func scanMySQLRegistration(row rowScanner) (*inboundDomain.Registration, error) {
	var registration inboundDomain.Registration
	var idBytes []byte

	err := row.Scan(
		&idBytes,
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

	if err := registration.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal inbound webhook id")
	}
	return &registration, nil
}

func collectMySQLRegistrations(rows *sql.Rows) ([]*inboundDomain.Registration, error) {
	defer func() {
		_ = rows.Close()
	}()

	registrations := make([]*inboundDomain.Registration, 0)
	for rows.Next() {
		registration, err := scanMySQLRegistration(rows)
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

// NewMySQLRegistrationRepository creates a new MySQL Registration repository.
func NewMySQLRegistrationRepository(db *sql.DB) *MySQLRegistrationRepository {
	return &MySQLRegistrationRepository{db: db}
}
