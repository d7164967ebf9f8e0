package service

import (
	"fmt"
	"strings"
	"sync"

	eventDomain "github.com/allisson/webhooks/internal/event/domain"
)

// Transformer converts an envelope into the wire payload expected by a destination.
type Transformer interface {
	Transform(env *eventDomain.Envelope) (any, error)
}

// FallbackTransformer is implemented by transformers that can build a minimal payload
// when Transform fails.
type FallbackTransformer interface {
	Transformer
	Fallback(env *eventDomain.Envelope) any
}

type transformRule struct {
	pattern     string
	transformer Transformer
}

// TransformerRegistry selects a transformer by target URL substring. Rules are evaluated
// in registration order and the first match wins; unmatched URLs receive the envelope.
type TransformerRegistry struct {
	mu    sync.RWMutex
	rules []transformRule
}

// Register appends a rule matching target URLs that contain pattern.
func (r *TransformerRegistry) Register(pattern string, transformer Transformer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, transformRule{pattern: pattern, transformer: transformer})
}

// Transform builds the payload for targetURL. It never fails: a transformer error or panic
// is replaced by the transformer's fallback payload, or by the envelope itself.
func (r *TransformerRegistry) Transform(targetURL string, env *eventDomain.Envelope) (payload any, err error) {
	transformer := r.lookup(targetURL)
	if transformer == nil {
		return env, nil
	}

	defer func() {
		if p := recover(); p != nil {
			payload = fallbackPayload(transformer, env)
			err = fmt.Errorf("transformer panic: %v", p)
		}
	}()

	payload, err = transformer.Transform(env)
	if err != nil {
		return fallbackPayload(transformer, env), err
	}
	return payload, nil
}

func (r *TransformerRegistry) lookup(targetURL string) Transformer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rule := range r.rules {
		if strings.Contains(targetURL, rule.pattern) {
			return rule.transformer
		}
	}
	return nil
}

func fallbackPayload(transformer Transformer, env *eventDomain.Envelope) any {
	if fb, ok := transformer.(FallbackTransformer); ok {
		return fb.Fallback(env)
	}
	return env
}

// NewTransformerRegistry creates an empty registry.
func NewTransformerRegistry() *TransformerRegistry {
	return &TransformerRegistry{}
}

// NewDefaultTransformerRegistry creates a registry with the chat destinations registered.
func NewDefaultTransformerRegistry() *TransformerRegistry {
	registry := NewTransformerRegistry()
	discord := NewDiscordTransformer()
	registry.Register("discord.com/api/webhooks", discord)
	registry.Register("discordapp.com/api/webhooks", discord)
	registry.Register("hooks.slack.com", NewSlackTransformer())
	return registry
}
