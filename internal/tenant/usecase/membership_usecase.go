package usecase

import (
	"context"
	"strings"
	"time"

	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
)

type membershipUseCase struct {
	repo  MembershipRepository
	cache CompanyCache
}

// AddMember links userID to companyID.
func (m *membershipUseCase) AddMember(
	ctx context.Context,
	userID, companyID string,
) (*tenantDomain.Membership, error) {
	userID = strings.TrimSpace(userID)
	companyID = strings.TrimSpace(companyID)
	if userID == "" {
		return nil, tenantDomain.ErrUserIDRequired
	}
	if companyID == "" {
		return nil, tenantDomain.ErrCompanyIDRequired
	}

	membership := &tenantDomain.Membership{
		UserID:    userID,
		CompanyID: companyID,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.repo.Create(ctx, membership); err != nil {
		return nil, err
	}
	m.cache.Forget(userID)
	return membership, nil
}

// NewMembershipUseCase creates a new MembershipUseCase. The cached company of a user is
// forgotten whenever a membership is added for it.
func NewMembershipUseCase(repo MembershipRepository, cache CompanyCache) MembershipUseCase {
	return &membershipUseCase{repo: repo, cache: cache}
}
