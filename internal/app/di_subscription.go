package app

import (
	"fmt"

	"github.com/allisson/webhooks/internal/database"
	subscriptionHTTP "github.com/allisson/webhooks/internal/subscription/http"
	subscriptionRepository "github.com/allisson/webhooks/internal/subscription/repository"
	subscriptionUsecase "github.com/allisson/webhooks/internal/subscription/usecase"
)

// SubscriptionRepository returns the subscription repository based on database driver.
func (c *Container) SubscriptionRepository() (subscriptionUsecase.SubscriptionRepository, error) {
	var err error
	c.subscriptionRepositoryInit.Do(func() {
		c.subscriptionRepository, err = c.initSubscriptionRepository()
		if err != nil {
			c.initErrors["subscriptionRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["subscriptionRepository"]; exists {
		return nil, storedErr
	}
	return c.subscriptionRepository, nil
}

// SubscriptionUseCase returns the subscription use case.
func (c *Container) SubscriptionUseCase() (subscriptionUsecase.SubscriptionUseCase, error) {
	var err error
	c.subscriptionUseCaseInit.Do(func() {
		c.subscriptionUseCase, err = c.initSubscriptionUseCase()
		if err != nil {
			c.initErrors["subscriptionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["subscriptionUseCase"]; exists {
		return nil, storedErr
	}
	return c.subscriptionUseCase, nil
}

// SubscriptionHandler returns the HTTP handler for subscription management.
func (c *Container) SubscriptionHandler() (*subscriptionHTTP.SubscriptionHandler, error) {
	var err error
	c.subscriptionHandlerInit.Do(func() {
		c.subscriptionHandler, err = c.initSubscriptionHandler()
		if err != nil {
			c.initErrors["subscriptionHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["subscriptionHandler"]; exists {
		return nil, storedErr
	}
	return c.subscriptionHandler, nil
}

func (c *Container) initSubscriptionRepository() (subscriptionUsecase.SubscriptionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for subscription repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return subscriptionRepository.NewMySQLSubscriptionRepository(db), nil
	case database.DriverPostgres:
		return subscriptionRepository.NewPostgreSQLSubscriptionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initSubscriptionUseCase() (subscriptionUsecase.SubscriptionUseCase, error) {
	subscriptionRepo, err := c.SubscriptionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription repository for subscription use case: %w", err)
	}

	catalog, err := c.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog for subscription use case: %w", err)
	}

	engine, err := c.DeliveryEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery engine for subscription use case: %w", err)
	}

	baseUseCase := subscriptionUsecase.NewSubscriptionUseCase(subscriptionRepo, catalog, engine)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for subscription use case: %w", err)
		}
		return subscriptionUsecase.NewSubscriptionUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initSubscriptionHandler() (*subscriptionHTTP.SubscriptionHandler, error) {
	subscriptionUseCase, err := c.SubscriptionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription use case for subscription handler: %w", err)
	}

	deliveryLogUseCase, err := c.DeliveryLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery log use case for subscription handler: %w", err)
	}

	engine, err := c.DeliveryEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery engine for subscription handler: %w", err)
	}

	return subscriptionHTTP.NewSubscriptionHandler(
		subscriptionUseCase,
		deliveryLogUseCase,
		engine,
		c.Logger(),
	), nil
}
