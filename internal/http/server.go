// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/webhooks/internal/config"
	eventHTTP "github.com/allisson/webhooks/internal/event/http"
	"github.com/allisson/webhooks/internal/httputil"
	inboundHTTP "github.com/allisson/webhooks/internal/inbound/http"
	"github.com/allisson/webhooks/internal/metrics"
	subscriptionHTTP "github.com/allisson/webhooks/internal/subscription/http"
)

// readinessTimeout bounds the database ping of the readiness probe.
const readinessTimeout = 2 * time.Second

// Server represents the HTTP server
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a new HTTP server. Call SetupRouter before Start.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// RouterDeps groups the handlers and settings mounted by SetupRouter.
type RouterDeps struct {
	Config              *config.Config
	EventHandler        *eventHTTP.EventHandler
	SubscriptionHandler *subscriptionHTTP.SubscriptionHandler
	RegistrationHandler *inboundHTTP.RegistrationHandler
	InboundHandler      *inboundHTTP.InboundHandler
	MetricsProvider     *metrics.Provider
}

// SetupRouter configures the Gin router with all routes and middleware.
// ctx stops background work owned by middleware such as the inbound rate limiter.
func (s *Server) SetupRouter(ctx context.Context, deps RouterDeps) {
	cfg := deps.Config

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if cors := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); cors != nil {
		router.Use(cors)
	}

	if deps.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(deps.MetricsProvider.MeterProvider(), deps.MetricsProvider.Namespace()))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	// Public inbound endpoint, authenticated by the registration API key
	inbound := router.Group("/webhook")
	if cfg.RateLimitInboundEnabled {
		inbound.Use(inboundHTTP.RateLimitMiddleware(
			ctx,
			cfg.RateLimitInboundRequestsPerSec,
			cfg.RateLimitInboundBurst,
			s.logger,
		))
	}
	inbound.POST("/:id", deps.InboundHandler.ReceiveHandler)

	v1 := router.Group("/v1")
	v1.Use(httputil.PrincipalMiddleware(s.logger))
	{
		v1.GET("/event-types", deps.EventHandler.ListTypesHandler)
		v1.POST("/events", deps.EventHandler.EmitHandler)

		subscriptions := v1.Group("/subscriptions")
		{
			subscriptions.POST("", deps.SubscriptionHandler.CreateHandler)
			subscriptions.GET("", deps.SubscriptionHandler.ListHandler)
			subscriptions.GET("/:id", deps.SubscriptionHandler.GetHandler)
			subscriptions.PUT("/:id", deps.SubscriptionHandler.UpdateHandler)
			subscriptions.DELETE("/:id", deps.SubscriptionHandler.DeleteHandler)
			subscriptions.POST("/:id/test", deps.SubscriptionHandler.SendTestHandler)
			subscriptions.GET("/:id/stats", deps.SubscriptionHandler.StatsHandler)
			subscriptions.GET("/:id/logs", deps.SubscriptionHandler.LogsHandler)
		}

		registrations := v1.Group("/inbound-webhooks")
		{
			registrations.POST("", deps.RegistrationHandler.CreateHandler)
			registrations.GET("", deps.RegistrationHandler.ListHandler)
			registrations.GET("/:id", deps.RegistrationHandler.GetHandler)
			registrations.PUT("/:id", deps.RegistrationHandler.UpdateHandler)
			registrations.DELETE("/:id", deps.RegistrationHandler.DeleteHandler)
			registrations.GET("/:id/logs", deps.RegistrationHandler.LogsHandler)
		}
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports liveness only.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler pings the database.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
