package httputil

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/webhooks/internal/errors"
	tenantDomain "github.com/allisson/webhooks/internal/tenant/domain"
)

// Identity headers set by the upstream gateway after authenticating the caller.
const (
	UserIDHeader    = "X-User-Id"
	CompanyIDHeader = "X-Company-Id"
)

// principalKey is a context key type for storing the caller identity.
type principalKey struct{}

// WithPrincipal stores the caller identity in the context.
func WithPrincipal(ctx context.Context, principal tenantDomain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipal retrieves the caller identity from the context.
func GetPrincipal(ctx context.Context) (tenantDomain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(tenantDomain.Principal)
	return principal, ok
}

// PrincipalMiddleware reads the gateway identity headers into the request context.
// Requests without a user id are rejected with 401.
func PrincipalMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID == "" {
			logger.Debug("missing caller identity header", slog.String("header", UserIDHeader))
			HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		principal := tenantDomain.Principal{
			UserID:    userID,
			CompanyID: strings.TrimSpace(c.GetHeader(CompanyIDHeader)),
		}
		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))

		c.Next()
	}
}

// MustPrincipal returns the caller identity or writes a 401 response and returns false.
func MustPrincipal(c *gin.Context, logger *slog.Logger) (tenantDomain.Principal, bool) {
	principal, ok := GetPrincipal(c.Request.Context())
	if !ok {
		HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
		return tenantDomain.Principal{}, false
	}
	return principal, true
}
