// Package repository implements company membership persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/allisson/webhooks/internal/database"
	apperrors "github.com/allisson/webhooks/internal/errors"
	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
)

// pgUniqueViolation is the SQLSTATE raised for duplicate keys.
const pgUniqueViolation = "23505"

// PostgreSQLMembershipRepository implements Membership persistence for PostgreSQL.
type PostgreSQLMembershipRepository struct {
	db *sql.DB
}

// Create inserts a membership. Returns ErrMembershipAlreadyExists for a duplicate pair.
func (p *PostgreSQLMembershipRepository) Create(ctx context.Context, membership *tenantDomain.Membership) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO company_members (user_id, company_id, created_at) VALUES ($1, $2, $3)`

	_, err := querier.ExecContext(ctx, query, membership.UserID, membership.CompanyID, membership.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return tenantDomain.ErrMembershipAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create company membership")
	}
	return nil
}

// GetCompanyIDByUserID returns the company of the user's oldest membership.
// Returns ErrMembershipNotFound when the user belongs to no company.
func (p *PostgreSQLMembershipRepository) GetCompanyIDByUserID(ctx context.Context, userID string) (string, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT company_id FROM company_members WHERE user_id = $1 ORDER BY created_at ASC LIMIT 1`

	var companyID string
	if err := querier.QueryRowContext(ctx, query, userID).Scan(&companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", tenantDomain.ErrMembershipNotFound
		}
		return "", apperrors.Wrap(err, "failed to get company membership")
	}
	return companyID, nil
}

// NewPostgreSQLMembershipRepository creates a new PostgreSQL Membership repository.
func NewPostgreSQLMembershipRepository(db *sql.DB) *PostgreSQLMembershipRepository {
	return &PostgreSQLMembershipRepository{db: db}
}
