package app

import (
	"fmt"

	"github.com/allisson/webhooks/internal/database"
	inboundHTTP "github.com/allisson/webhooks/internal/inbound/http"
	inboundRepository "github.com/allisson/webhooks/internal/inbound/repository"
	inboundService "github.com/allisson/webhooks/internal/inbound/service"
	inboundUsecase "github.com/allisson/webhooks/internal/inbound/usecase"
)

// RegistrationRepository returns the inbound webhook repository based on database driver.
func (c *Container) RegistrationRepository() (inboundUsecase.RegistrationRepository, error) {
	var err error
	c.registrationRepositoryInit.Do(func() {
		c.registrationRepository, err = c.initRegistrationRepository()
		if err != nil {
			c.initErrors["registrationRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["registrationRepository"]; exists {
		return nil, storedErr
	}
	return c.registrationRepository, nil
}

// EventForwardProcessor returns the default inbound processor. It also contributes the
// webhook.received type to the catalog.
func (c *Container) EventForwardProcessor() (*inboundService.EventForwardProcessor, error) {
	var err error
	c.eventForwardProcessorInit.Do(func() {
		c.eventForwardProcessor, err = c.initEventForwardProcessor()
		if err != nil {
			c.initErrors["eventForwardProcessor"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventForwardProcessor"]; exists {
		return nil, storedErr
	}
	return c.eventForwardProcessor, nil
}

// ProcessorRegistry returns the capability to processor registry.
func (c *Container) ProcessorRegistry() (*inboundService.ProcessorRegistry, error) {
	var err error
	c.processorRegistryInit.Do(func() {
		c.processorRegistry, err = c.initProcessorRegistry()
		if err != nil {
			c.initErrors["processorRegistry"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["processorRegistry"]; exists {
		return nil, storedErr
	}
	return c.processorRegistry, nil
}

// RegistrationUseCase returns the inbound registration management use case.
func (c *Container) RegistrationUseCase() (inboundUsecase.RegistrationUseCase, error) {
	var err error
	c.registrationUseCaseInit.Do(func() {
		c.registrationUseCase, err = c.initRegistrationUseCase()
		if err != nil {
			c.initErrors["registrationUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["registrationUseCase"]; exists {
		return nil, storedErr
	}
	return c.registrationUseCase, nil
}

// ProcessUseCase returns the use case behind the public inbound endpoint.
func (c *Container) ProcessUseCase() (inboundUsecase.ProcessUseCase, error) {
	var err error
	c.processUseCaseInit.Do(func() {
		c.processUseCase, err = c.initProcessUseCase()
		if err != nil {
			c.initErrors["processUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["processUseCase"]; exists {
		return nil, storedErr
	}
	return c.processUseCase, nil
}

// RegistrationHandler returns the HTTP handler for inbound registration management.
func (c *Container) RegistrationHandler() (*inboundHTTP.RegistrationHandler, error) {
	var err error
	c.registrationHandlerInit.Do(func() {
		c.registrationHandler, err = c.initRegistrationHandler()
		if err != nil {
			c.initErrors["registrationHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["registrationHandler"]; exists {
		return nil, storedErr
	}
	return c.registrationHandler, nil
}

// InboundHandler returns the HTTP handler for the public inbound endpoint.
func (c *Container) InboundHandler() (*inboundHTTP.InboundHandler, error) {
	var err error
	c.inboundHandlerInit.Do(func() {
		c.inboundHandler, err = c.initInboundHandler()
		if err != nil {
			c.initErrors["inboundHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["inboundHandler"]; exists {
		return nil, storedErr
	}
	return c.inboundHandler, nil
}

func (c *Container) initRegistrationRepository() (inboundUsecase.RegistrationRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for registration repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return inboundRepository.NewMySQLRegistrationRepository(db), nil
	case database.DriverPostgres:
		return inboundRepository.NewPostgreSQLRegistrationRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initEventForwardProcessor() (*inboundService.EventForwardProcessor, error) {
	engine, err := c.DeliveryEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery engine for event forward processor: %w", err)
	}
	return inboundService.NewEventForwardProcessor(engine), nil
}

func (c *Container) initProcessorRegistry() (*inboundService.ProcessorRegistry, error) {
	forwardProcessor, err := c.EventForwardProcessor()
	if err != nil {
		return nil, fmt.Errorf("failed to get event forward processor for processor registry: %w", err)
	}
	return inboundService.NewProcessorRegistry(forwardProcessor), nil
}

func (c *Container) initRegistrationUseCase() (inboundUsecase.RegistrationUseCase, error) {
	registrationRepository, err := c.RegistrationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get registration repository for registration use case: %w", err)
	}

	baseUseCase := inboundUsecase.NewRegistrationUseCase(registrationRepository, inboundService.NewAPIKeyService())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for registration use case: %w", err)
		}
		return inboundUsecase.NewRegistrationUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initProcessUseCase() (inboundUsecase.ProcessUseCase, error) {
	registrationRepository, err := c.RegistrationRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get registration repository for process use case: %w", err)
	}

	deliveryLogRepository, err := c.DeliveryLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery log repository for process use case: %w", err)
	}

	processorRegistry, err := c.ProcessorRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to get processor registry for process use case: %w", err)
	}

	baseUseCase := inboundUsecase.NewProcessUseCase(
		registrationRepository,
		deliveryLogRepository,
		processorRegistry,
		c.Logger(),
		c.config.DeliveryResponseMaxLength,
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for process use case: %w", err)
		}
		return inboundUsecase.NewProcessUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

func (c *Container) initRegistrationHandler() (*inboundHTTP.RegistrationHandler, error) {
	registrationUseCase, err := c.RegistrationUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get registration use case for registration handler: %w", err)
	}

	deliveryLogUseCase, err := c.DeliveryLogUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery log use case for registration handler: %w", err)
	}

	return inboundHTTP.NewRegistrationHandler(registrationUseCase, deliveryLogUseCase, c.Logger()), nil
}

func (c *Container) initInboundHandler() (*inboundHTTP.InboundHandler, error) {
	processUseCase, err := c.ProcessUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get process use case for inbound handler: %w", err)
	}
	return inboundHTTP.NewInboundHandler(processUseCase, c.Logger()), nil
}
