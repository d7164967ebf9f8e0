package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/allisson/webhooks/internal/testutil"
)

func newRateLimitedRouter(t *testing.T, rps float64, burst int) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := gin.New()
	router.Use(RateLimitMiddleware(ctx, rps, burst, testutil.DiscardLogger()))
	router.POST("/webhook/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func send(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/abc", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	router := newRateLimitedRouter(t, 10, 20)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, send(router, "192.0.2.1:1234").Code)
	}
}

func TestRateLimitMiddleware_BlocksRequestsExceedingLimit(t *testing.T) {
	router := newRateLimitedRouter(t, 1, 2)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, send(router, "192.0.2.1:1234").Code)
	}

	w := send(router, "192.0.2.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestRateLimitMiddleware_IndependentPerIP(t *testing.T) {
	router := newRateLimitedRouter(t, 1, 1)

	assert.Equal(t, http.StatusOK, send(router, "192.0.2.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, send(router, "192.0.2.1:1234").Code)
	assert.Equal(t, http.StatusOK, send(router, "192.0.2.2:1234").Code)
}

func TestRateLimiterStore_PurgeIdle(t *testing.T) {
	store := &rateLimiterStore{rps: 1, burst: 1}
	store.getLimiter("192.0.2.1")
	store.getLimiter("192.0.2.2")

	if val, ok := store.limiters.Load("192.0.2.1"); ok {
		entry := val.(*rateLimiterEntry)
		entry.lastAccess = time.Now().Add(-2 * time.Hour)
	}

	store.purgeIdle(time.Now().Add(-limiterIdleTimeout))

	_, stale := store.limiters.Load("192.0.2.1")
	_, fresh := store.limiters.Load("192.0.2.2")
	assert.False(t, stale)
	assert.True(t, fresh)
}
