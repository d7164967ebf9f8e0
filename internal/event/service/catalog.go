package service

import (
	"sort"
	"strings"
	"sync"

	"github.com/allisson/webhooks/internal/errors"
	eventDomain "github.com/allisson/webhooks/internal/event/domain"
)

// Catalog merges the core event types with the types contributed by capability modules.
type Catalog struct {
	mu    sync.RWMutex
	types map[string]eventDomain.EventTypeInfo
}

// NewCatalog creates a catalog seeded with the core event types and the given contributors.
func NewCatalog(contributors ...Contributor) *Catalog {
	c := &Catalog{types: make(map[string]eventDomain.EventTypeInfo)}
	for _, info := range eventDomain.CoreEventTypes() {
		c.types[info.Type] = info
	}
	for _, contributor := range contributors {
		c.Register(contributor)
	}
	return c
}

// Register adds a contributor's event types. Core types are never overridden; a later
// contributor re-registering a type replaces the earlier contribution.
func (c *Catalog) Register(contributor Contributor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, info := range contributor.EventTypes() {
		if existing, ok := c.types[info.Type]; ok && existing.Source == eventDomain.CoreSource {
			continue
		}
		info.Source = contributor.Name()
		c.types[info.Type] = info
	}
}

// List returns every known event type ordered by type.
func (c *Catalog) List() []eventDomain.EventTypeInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	infos := make([]eventDomain.EventTypeInfo, 0, len(c.types))
	for _, info := range c.types {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Type < infos[j].Type
	})
	return infos
}

// IsKnown reports whether the event type is registered.
func (c *Catalog) IsKnown(eventType string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.types[eventType]
	return ok
}

// Validate accepts the wildcard and registered types, and returns ErrUnknownEventType
// naming every entry that is neither.
func (c *Catalog) Validate(eventTypes []string) error {
	unknown := make([]string, 0)
	for _, eventType := range eventTypes {
		if eventType == eventDomain.Wildcard || c.IsKnown(eventType) {
			continue
		}
		unknown = append(unknown, eventType)
	}
	if len(unknown) > 0 {
		return errors.Wrap(eventDomain.ErrUnknownEventType, strings.Join(unknown, ", "))
	}
	return nil
}
