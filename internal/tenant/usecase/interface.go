// Package usecase defines business logic for company memberships.
package usecase

import (
	"context"

	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
)

// MembershipRepository defines persistence operations for company memberships.
type MembershipRepository interface {
	// Create stores a membership. Returns ErrMembershipAlreadyExists for a duplicate pair.
	Create(ctx context.Context, membership *tenantDomain.Membership) error

	// GetCompanyIDByUserID returns ErrMembershipNotFound when the user has no company.
	GetCompanyIDByUserID(ctx context.Context, userID string) (string, error)
}

// CompanyCache holds resolved companies that must be dropped when a membership changes.
type CompanyCache interface {
	Forget(userID string)
}

// MembershipUseCase manages which company an actor belongs to.
type MembershipUseCase interface {
	AddMember(ctx context.Context, userID, companyID string) (*tenantDomain.Membership, error)
}
