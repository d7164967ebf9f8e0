package app

import (
	"fmt"

	"github.com/allisson/webhooks/internal/database"
	deliveryRepository "github.com/allisson/webhooks/internal/delivery/repository"
	deliveryService "github.com/allisson/webhooks/internal/delivery/service"
	deliveryUsecase "github.com/allisson/webhooks/internal/delivery/usecase"
)

// DeliveryLogRepository returns the delivery log repository based on database driver.
func (c *Container) DeliveryLogRepository() (deliveryUsecase.DeliveryLogRepository, error) {
	var err error
	c.deliveryLogRepositoryInit.Do(func() {
		c.deliveryLogRepository, err = c.initDeliveryLogRepository()
		if err != nil {
			c.initErrors["deliveryLogRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deliveryLogRepository"]; exists {
		return nil, storedErr
	}
	return c.deliveryLogRepository, nil
}

// DeliveryLogUseCase returns the delivery log query and retention use case.
func (c *Container) DeliveryLogUseCase() (deliveryUsecase.DeliveryLogUseCase, error) {
	var err error
	c.deliveryLogUseCaseInit.Do(func() {
		c.deliveryLogUseCase, err = c.initDeliveryLogUseCase()
		if err != nil {
			c.initErrors["deliveryLogUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deliveryLogUseCase"]; exists {
		return nil, storedErr
	}
	return c.deliveryLogUseCase, nil
}

// DeliveryEngine returns the process-wide delivery engine. It is the emitter every
// producer of events uses.
func (c *Container) DeliveryEngine() (*deliveryUsecase.Engine, error) {
	var err error
	c.engineInit.Do(func() {
		c.engine, err = c.initDeliveryEngine()
		if err != nil {
			c.initErrors["engine"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["engine"]; exists {
		return nil, storedErr
	}
	return c.engine, nil
}

func (c *Container) initDeliveryLogRepository() (deliveryUsecase.DeliveryLogRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for delivery log repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return deliveryRepository.NewMySQLDeliveryLogRepository(db), nil
	case database.DriverPostgres:
		return deliveryRepository.NewPostgreSQLDeliveryLogRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initDeliveryLogUseCase() (deliveryUsecase.DeliveryLogUseCase, error) {
	deliveryLogRepository, err := c.DeliveryLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery log repository for delivery log use case: %w", err)
	}
	return deliveryUsecase.NewDeliveryLogUseCase(deliveryLogRepository), nil
}

func (c *Container) initDeliveryEngine() (*deliveryUsecase.Engine, error) {
	subscriptionRepo, err := c.SubscriptionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription repository for delivery engine: %w", err)
	}

	deliveryLogRepository, err := c.DeliveryLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery log repository for delivery engine: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for delivery engine: %w", err)
	}

	resolver, err := c.CompanyResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get company resolver for delivery engine: %w", err)
	}

	deliveryMetrics, err := c.DeliveryMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery metrics for delivery engine: %w", err)
	}

	breakers := deliveryService.NewCircuitBreakers(
		c.config.CircuitBreakerThreshold,
		c.config.CircuitBreakerCooldown,
		nil,
	)
	sender := deliveryService.NewHTTPSender(nil, c.config.DeliveryUserAgent, c.config.DeliveryResponseMaxLength)

	return deliveryUsecase.NewEngine(
		subscriptionRepo,
		deliveryLogRepository,
		txManager,
		resolver,
		breakers,
		deliveryService.NewDefaultTransformerRegistry(),
		sender,
		deliveryMetrics,
		c.Logger(),
		deliveryUsecase.EngineConfig{
			MaxConcurrency:       c.config.DeliveryMaxConcurrency,
			TreatNon2xxAsFailure: c.config.DeliveryTreatNon2xxAsFailure,
			ResponseMaxLength:    c.config.DeliveryResponseMaxLength,
		},
	), nil
}
