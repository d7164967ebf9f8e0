// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/webhooks/internal/config"
	"github.com/allisson/webhooks/internal/database"
	deliveryUsecase "github.com/allisson/webhooks/internal/delivery/usecase"
	eventHTTP "github.com/allisson/webhooks/internal/event/http"
	eventService "github.com/allisson/webhooks/internal/event/service"
	"github.com/allisson/webhooks/internal/http"
	inboundHTTP "github.com/allisson/webhooks/internal/inbound/http"
	inboundService "github.com/allisson/webhooks/internal/inbound/service"
	inboundUsecase "github.com/allisson/webhooks/internal/inbound/usecase"
	"github.com/allisson/webhooks/internal/metrics"
	subscriptionHTTP "github.com/allisson/webhooks/internal/subscription/http"
	subscriptionUsecase "github.com/allisson/webhooks/internal/subscription/usecase"
	tenantService "github.com/allisson/webhooks/internal/tenant/service"
	tenantUsecase "github.com/allisson/webhooks/internal/tenant/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Background work owned by the container (rate limiter cleanup) stops when bgCancel runs.
	bgCtx    context.Context
	bgCancel context.CancelFunc

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	txManager       database.TxManager
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	deliveryMetrics metrics.DeliveryMetrics

	// Event catalog
	catalog      *eventService.Catalog
	eventHandler *eventHTTP.EventHandler

	// Tenant
	membershipRepository tenantUsecase.MembershipRepository
	membershipUseCase    tenantUsecase.MembershipUseCase
	companyResolver      *tenantService.CachedResolver

	// Subscriptions
	subscriptionRepository subscriptionUsecase.SubscriptionRepository
	subscriptionUseCase    subscriptionUsecase.SubscriptionUseCase
	subscriptionHandler    *subscriptionHTTP.SubscriptionHandler

	// Delivery
	deliveryLogRepository deliveryUsecase.DeliveryLogRepository
	deliveryLogUseCase    deliveryUsecase.DeliveryLogUseCase
	engine                *deliveryUsecase.Engine

	// Inbound
	registrationRepository inboundUsecase.RegistrationRepository
	eventForwardProcessor  *inboundService.EventForwardProcessor
	processorRegistry      *inboundService.ProcessorRegistry
	registrationUseCase    inboundUsecase.RegistrationUseCase
	processUseCase         inboundUsecase.ProcessUseCase
	registrationHandler    *inboundHTTP.RegistrationHandler
	inboundHandler         *inboundHTTP.InboundHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                         sync.Mutex
	loggerInit                 sync.Once
	dbInit                     sync.Once
	txManagerInit              sync.Once
	metricsProviderInit        sync.Once
	businessMetricsInit        sync.Once
	deliveryMetricsInit        sync.Once
	catalogInit                sync.Once
	eventHandlerInit           sync.Once
	membershipRepositoryInit   sync.Once
	membershipUseCaseInit      sync.Once
	companyResolverInit        sync.Once
	subscriptionRepositoryInit sync.Once
	subscriptionUseCaseInit    sync.Once
	subscriptionHandlerInit    sync.Once
	deliveryLogRepositoryInit  sync.Once
	deliveryLogUseCaseInit     sync.Once
	engineInit                 sync.Once
	registrationRepositoryInit sync.Once
	eventForwardProcessorInit  sync.Once
	processorRegistryInit      sync.Once
	registrationUseCaseInit    sync.Once
	processUseCaseInit         sync.Once
	registrationHandlerInit    sync.Once
	inboundHandlerInit         sync.Once
	httpServerInit             sync.Once
	metricsServerInit          sync.Once
	initErrors                 map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	bgCtx, bgCancel := context.WithCancel(context.Background())
	return &Container{
		config:     cfg,
		bgCtx:      bgCtx,
		bgCancel:   bgCancel,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the Prometheus-backed meter provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the use case operation metrics.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// DeliveryMetrics returns the delivery engine metrics. A no-op implementation is used
// when metrics are disabled.
func (c *Container) DeliveryMetrics() (metrics.DeliveryMetrics, error) {
	var err error
	c.deliveryMetricsInit.Do(func() {
		c.deliveryMetrics, err = c.initDeliveryMetrics()
		if err != nil {
			c.initErrors["deliveryMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deliveryMetrics"]; exists {
		return nil, storedErr
	}
	return c.deliveryMetrics, nil
}

// HTTPServer returns the HTTP server with every route mounted.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics HTTP server.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// Servers stop accepting work first, then the delivery engine drains, then the database closes.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.engine != nil {
		if err := c.engine.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("delivery engine shutdown: %w", err))
		}
	}

	c.bgCancel()

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	if !database.IsSupportedDriver(c.config.DBDriver) {
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}

	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}
	return metrics.NewBusinessMetrics(provider.MeterProvider(), provider.Namespace())
}

func (c *Container) initDeliveryMetrics() (metrics.DeliveryMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for delivery metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpDeliveryMetrics(), nil
	}
	return metrics.NewDeliveryMetrics(provider.MeterProvider(), provider.Namespace())
}

// initHTTPServer creates the HTTP server and mounts every handler.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	eventHandler, err := c.EventHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get event handler for http server: %w", err)
	}

	subscriptionHandler, err := c.SubscriptionHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription handler for http server: %w", err)
	}

	registrationHandler, err := c.RegistrationHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get registration handler for http server: %w", err)
	}

	inboundHandler, err := c.InboundHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get inbound handler for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(c.bgCtx, http.RouterDeps{
		Config:              c.config,
		EventHandler:        eventHandler,
		SubscriptionHandler: subscriptionHandler,
		RegistrationHandler: registrationHandler,
		InboundHandler:      inboundHandler,
		MetricsProvider:     metricsProvider,
	})

	return server, nil
}

// initMetricsServer creates the metrics server. It serves 404 for /metrics when metrics are disabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), metricsProvider), nil
}
