// Package domain defines tenant scoping entities: company memberships and the
// caller identity forwarded by the upstream gateway.
package domain

import (
	"time"

	"github.com/allisson/webhooks/internal/errors"
)

// Membership links a user identity of the host application to the company (tenant)
// that owns its events and subscriptions.
type Membership struct {
	UserID    string
	CompanyID string
	CreatedAt time.Time
}

// Principal is the caller identity attached to an API request. Authentication happens
// upstream; CompanyID may be empty for callers operating in global scope.
type Principal struct {
	UserID    string
	CompanyID string
}

// HasCompany reports whether the principal is scoped to a company.
func (p Principal) HasCompany() bool {
	return p.CompanyID != ""
}

// CompanyPtr returns the company id as a nullable column value.
func (p Principal) CompanyPtr() *string {
	if p.CompanyID == "" {
		return nil
	}
	companyID := p.CompanyID
	return &companyID
}

// Domain-specific errors for tenant operations.
var (
	// ErrMembershipNotFound indicates the user belongs to no company.
	ErrMembershipNotFound = errors.Wrap(errors.ErrNotFound, "company membership not found")

	// ErrMembershipAlreadyExists indicates the user is already a member of the company.
	ErrMembershipAlreadyExists = errors.Wrap(errors.ErrConflict, "company membership already exists")

	// ErrUserIDRequired indicates a missing user identity.
	ErrUserIDRequired = errors.Wrap(errors.ErrInvalidInput, "user id is required")

	// ErrCompanyIDRequired indicates a missing company identity.
	ErrCompanyIDRequired = errors.Wrap(errors.ErrInvalidInput, "company id is required")
)
