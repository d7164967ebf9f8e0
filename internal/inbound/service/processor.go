package service

import (
	"context"
	"strings"
	"sync"

	eventDomain "github.com/allisson/webhooks/internal/event/domain"
	eventService "github.com/allisson/webhooks/internal/event/service"
	inboundDomain "github.com/allisson/webhooks/internal/inbound/domain"
)

// Processor handles the payload of an authenticated inbound call.
type Processor interface {
	Process(
		ctx context.Context,
		registration *inboundDomain.Registration,
		req *inboundDomain.InboundRequest,
	) (inboundDomain.ProcessResult, error)
}

// ProcessorRegistry binds capabilities to processors. Capabilities without a binding
// are handled by the fallback processor.
type ProcessorRegistry struct {
	mu         sync.RWMutex
	processors map[string]Processor
	fallback   Processor
}

// Register binds a capability to a processor, replacing any earlier binding.
func (r *ProcessorRegistry) Register(capability string, processor Processor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.processors[strings.TrimSpace(capability)] = processor
}

// Resolve returns the processor bound to capability.
func (r *ProcessorRegistry) Resolve(capability string) Processor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if processor, ok := r.processors[strings.TrimSpace(capability)]; ok {
		return processor
	}
	return r.fallback
}

// NewProcessorRegistry creates a registry that falls back to the given processor.
func NewProcessorRegistry(fallback Processor) *ProcessorRegistry {
	return &ProcessorRegistry{
		processors: make(map[string]Processor),
		fallback:   fallback,
	}
}

// EventForwardProcessor re-emits inbound payloads as webhook.received events on behalf
// of the registration owner, so they can fan out to outbound subscriptions.
type EventForwardProcessor struct {
	emitter eventService.Emitter
}

// Process emits the payload and returns the new event id.
func (p *EventForwardProcessor) Process(
	ctx context.Context,
	registration *inboundDomain.Registration,
	req *inboundDomain.InboundRequest,
) (inboundDomain.ProcessResult, error) {
	eventID, err := p.emitter.Emit(ctx, &eventDomain.EmitInput{
		EventType: eventDomain.WebhookReceived,
		UserID:    registration.UserID,
		CompanyID: registration.CompanyIDValue(),
		AgentID:   registration.Capability,
		Data:      req.Payload,
		Metadata: map[string]any{
			eventDomain.MetadataInboundWebhookID: registration.ID.String(),
			eventDomain.MetadataSourceIP:         req.SourceIP,
		},
	})
	if err != nil {
		return nil, err
	}
	return inboundDomain.ProcessResult{"event_id": eventID.String()}, nil
}

// Name implements eventService.Contributor.
func (p *EventForwardProcessor) Name() string {
	return "inbound"
}

// EventTypes implements eventService.Contributor.
func (p *EventForwardProcessor) EventTypes() []eventDomain.EventTypeInfo {
	return []eventDomain.EventTypeInfo{
		{Type: eventDomain.WebhookReceived, Description: "A payload was received on an inbound webhook"},
	}
}

// NewEventForwardProcessor creates the default inbound processor.
func NewEventForwardProcessor(emitter eventService.Emitter) *EventForwardProcessor {
	return &EventForwardProcessor{emitter: emitter}
}
