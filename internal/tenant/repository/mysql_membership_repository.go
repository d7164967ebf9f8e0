package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/allisson/webhooks/internal/database"
	apperrors "github.com/allisson/webhooks/internal/errors"
	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
)

// mysqlDuplicateEntry is the MySQL error number for duplicate keys.
const mysqlDuplicateEntry = 1062

// MySQLMembershipRepository implements Membership persistence for MySQL.
type MySQLMembershipRepository struct {
	db *sql.DB
}

// Create inserts a membership. Returns ErrMembershipAlreadyExists for a duplicate pair.
func (m *MySQLMembershipRepository) Create(ctx context.Context, membership *tenantDomain.Membership) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO company_members (user_id, company_id, created_at) VALUES (?, ?, ?)`

	_, err := querier.ExecContext(ctx, query, membership.UserID, membership.CompanyID, membership.CreatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return tenantDomain.ErrMembershipAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create company membership")
	}
	return nil
}

// GetCompanyIDByUserID returns the company of the user's oldest membership.
func (m *MySQLMembershipRepository) GetCompanyIDByUserID(ctx context.Context, userID string) (string, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT company_id FROM company_members WHERE user_id = ? ORDER BY created_at ASC LIMIT 1`

	var companyID string
	if err := querier.QueryRowContext(ctx, query, userID).Scan(&companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", tenantDomain.ErrMembershipNotFound
		}
		return "", apperrors.Wrap(err, "failed to get company membership")
	}
	return companyID, nil
}

// NewMySQLMembershipRepository creates a new MySQL Membership repository.
func NewMySQLMembershipRepository(db *sql.DB) *MySQLMembershipRepository {
	return &MySQLMembershipRepository{db: db}
}
