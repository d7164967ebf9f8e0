// Package service provides tenant resolution for event emission.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
)

// DefaultCacheTTL is used when the configured TTL is not positive.
const DefaultCacheTTL = 5 * time.Minute

// MembershipLookup finds the company an actor belongs to.
type MembershipLookup interface {
	GetCompanyIDByUserID(ctx context.Context, userID string) (string, error)
}

// CachedResolver resolves an actor's company through the membership store and keeps
// successful lookups for the configured TTL. Misses are never cached so a membership
// added later is picked up on the next emission.
type CachedResolver struct {
	lookup MembershipLookup
	cache  *cache.Cache
}

// ResolveCompany returns the company id of userID.
func (r *CachedResolver) ResolveCompany(ctx context.Context, userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", tenantDomain.ErrUserIDRequired
	}

	if cached, found := r.cache.Get(userID); found {
		return cached.(string), nil
	}

	companyID, err := r.lookup.GetCompanyIDByUserID(ctx, userID)
	if err != nil {
		return "", err
	}

	r.cache.Set(userID, companyID, cache.DefaultExpiration)
	return companyID, nil
}

// Forget drops the cached company of userID.
func (r *CachedResolver) Forget(userID string) {
	r.cache.Delete(strings.TrimSpace(userID))
}

// NewCachedResolver creates a resolver whose entries expire after ttl. Expired entries
// are purged every 2*ttl. A non-positive ttl falls back to DefaultCacheTTL so entries
// always expire.
func NewCachedResolver(lookup MembershipLookup, ttl time.Duration) *CachedResolver {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedResolver{
		lookup: lookup,
		cache:  cache.New(ttl, 2*ttl),
	}
}
