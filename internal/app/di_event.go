package app

import (
	"fmt"

	eventHTTP "github.com/allisson/webhooks/internal/event/http"
	eventService "github.com/allisson/webhooks/internal/event/service"
)

// Catalog returns the event-type catalog with every capability contributor registered.
func (c *Container) Catalog() (*eventService.Catalog, error) {
	var err error
	c.catalogInit.Do(func() {
		c.catalog, err = c.initCatalog()
		if err != nil {
			c.initErrors["catalog"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["catalog"]; exists {
		return nil, storedErr
	}
	return c.catalog, nil
}

// EventHandler returns the HTTP handler for the catalog listing and event emission.
func (c *Container) EventHandler() (*eventHTTP.EventHandler, error) {
	var err error
	c.eventHandlerInit.Do(func() {
		c.eventHandler, err = c.initEventHandler()
		if err != nil {
			c.initErrors["eventHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventHandler"]; exists {
		return nil, storedErr
	}
	return c.eventHandler, nil
}

func (c *Container) initCatalog() (*eventService.Catalog, error) {
	forwardProcessor, err := c.EventForwardProcessor()
	if err != nil {
		return nil, fmt.Errorf("failed to get event forward processor for catalog: %w", err)
	}
	return eventService.NewCatalog(forwardProcessor), nil
}

func (c *Container) initEventHandler() (*eventHTTP.EventHandler, error) {
	catalog, err := c.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog for event handler: %w", err)
	}

	engine, err := c.DeliveryEngine()
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery engine for event handler: %w", err)
	}

	return eventHTTP.NewEventHandler(catalog, engine, c.Logger()), nil
}
