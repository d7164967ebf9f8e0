package domain

// Core event types produced by the host application.
const (
	ChatStarted       = "chat.started"
	ChatCompleted     = "chat.completed"
	MessageReceived   = "message.received"
	MessageSent       = "message.sent"
	TaskCreated       = "task.created"
	TaskCompleted     = "task.completed"
	TaskFailed        = "task.failed"
	AgentCreated      = "agent.created"
	AgentUpdated      = "agent.updated"
	AgentDeleted      = "agent.deleted"
	DocumentUploaded  = "document.uploaded"
	DocumentProcessed = "document.processed"
	UserCreated       = "user.created"
	WebhookTest       = "webhook.test"
	WebhookReceived   = "webhook.received"
)

// Wildcard subscribes to every event type.
const Wildcard = "*"

// CoreSource is the catalog source of the built-in event types.
const CoreSource = "core"

// EventTypeInfo describes one event type a subscription may reference.
type EventTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// CoreEventTypes returns the built-in event types.
func CoreEventTypes() []EventTypeInfo {
	return []EventTypeInfo{
		{Type: ChatStarted, Description: "A chat session was started", Source: CoreSource},
		{Type: ChatCompleted, Description: "A chat session was completed", Source: CoreSource},
		{Type: MessageReceived, Description: "A message was received from a user", Source: CoreSource},
		{Type: MessageSent, Description: "A message was sent by an agent", Source: CoreSource},
		{Type: TaskCreated, Description: "A task was created", Source: CoreSource},
		{Type: TaskCompleted, Description: "A task finished successfully", Source: CoreSource},
		{Type: TaskFailed, Description: "A task failed", Source: CoreSource},
		{Type: AgentCreated, Description: "An agent was created", Source: CoreSource},
		{Type: AgentUpdated, Description: "An agent was updated", Source: CoreSource},
		{Type: AgentDeleted, Description: "An agent was deleted", Source: CoreSource},
		{Type: DocumentUploaded, Description: "A document was uploaded", Source: CoreSource},
		{Type: DocumentProcessed, Description: "A document was processed", Source: CoreSource},
		{Type: UserCreated, Description: "A user was created", Source: CoreSource},
		{Type: WebhookTest, Description: "A test delivery requested for a subscription", Source: CoreSource},
	}
}
