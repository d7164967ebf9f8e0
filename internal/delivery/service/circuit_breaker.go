// Package service provides the building blocks of an outbound delivery: the per-destination
// circuit breaker, payload transformers, request signing and the HTTP sender.
package service

import (
	"sync"
	"time"
)

// Breaker states reported by CircuitBreakers.State.
const (
	BreakerClosed = "closed"
	BreakerOpen   = "open"
)

// Defaults used when the configured values are not positive.
const (
	DefaultBreakerThreshold = 5
	DefaultBreakerCooldown  = 5 * time.Minute
)

type breakerState struct {
	failures    int
	lastFailure time.Time
}

// CircuitBreakers tracks consecutive failures per destination key. A key whose failure
// count reaches the threshold is skipped until the cooldown has elapsed since its last
// failure, after which its state is discarded. State lives in memory only.
type CircuitBreakers struct {
	mu        sync.Mutex
	states    map[string]*breakerState
	threshold int
	cooldown  time.Duration
	now       func() time.Time
}

// Allow reports whether a delivery to key may be attempted.
func (c *CircuitBreakers) Allow(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.states[key]
	if !ok || state.failures < c.threshold {
		return true
	}

	if c.now().Sub(state.lastFailure) > c.cooldown {
		delete(c.states, key)
		return true
	}
	return false
}

// RecordFailure counts a failed attempt for key.
func (c *CircuitBreakers) RecordFailure(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.states[key]
	if !ok {
		state = &breakerState{}
		c.states[key] = state
	}
	state.failures++
	state.lastFailure = c.now()
}

// RecordSuccess clears the state of key.
func (c *CircuitBreakers) RecordSuccess(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.states, key)
}

// State reports BreakerOpen when key would currently be skipped. It never mutates state.
func (c *CircuitBreakers) State(key string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.states[key]
	if !ok || state.failures < c.threshold || c.now().Sub(state.lastFailure) > c.cooldown {
		return BreakerClosed
	}
	return BreakerOpen
}

// NewCircuitBreakers creates a breaker set. Non-positive threshold or cooldown fall back
// to the defaults. A nil now uses time.Now.
func NewCircuitBreakers(threshold int, cooldown time.Duration, now func() time.Time) *CircuitBreakers {
	if threshold <= 0 {
		threshold = DefaultBreakerThreshold
	}
	if cooldown <= 0 {
		cooldown = DefaultBreakerCooldown
	}
	if now == nil {
		now = time.Now
	}
	return &CircuitBreakers{
		states:    make(map[string]*breakerState),
		threshold: threshold,
		cooldown:  cooldown,
		now:       now,
	}
}
