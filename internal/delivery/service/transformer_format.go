package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	eventDomain "github.com/allisson/webhooks/internal/event/domain"
)

// Limits shared by the chat transformers.
const (
	maxDataFields   = 10
	maxTotalFields  = 25
	maxFieldNameLen = 256
	maxFieldLen     = 1024
)

const defaultEventEmoji = "🔔"

var eventEmojis = map[string]string{
	eventDomain.ChatStarted:       "💬",
	eventDomain.ChatCompleted:     "✅",
	eventDomain.MessageReceived:   "📨",
	eventDomain.MessageSent:       "📤",
	eventDomain.TaskCreated:       "📝",
	eventDomain.TaskCompleted:     "✅",
	eventDomain.TaskFailed:        "❌",
	eventDomain.AgentCreated:      "🤖",
	eventDomain.AgentUpdated:      "🔄",
	eventDomain.AgentDeleted:      "🗑️",
	eventDomain.DocumentUploaded:  "📄",
	eventDomain.DocumentProcessed: "📑",
	eventDomain.UserCreated:       "👤",
	eventDomain.WebhookTest:       "🧪",
	eventDomain.WebhookReceived:   "📥",
}

// eventEmoji returns the icon for eventType, or the default icon.
func eventEmoji(eventType string) string {
	if emoji, ok := eventEmojis[eventType]; ok {
		return emoji
	}
	return defaultEventEmoji
}

// humanizeEventType turns "task.completed" into "Task Completed".
func humanizeEventType(eventType string) string {
	words := strings.FieldsFunc(eventType, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// summaryLine is the one-line title shared by every chat destination.
func summaryLine(env *eventDomain.Envelope) string {
	return eventEmoji(env.EventType) + " " + humanizeEventType(env.EventType)
}

// fallbackLine is sent when a rich message cannot be built.
func fallbackLine(env *eventDomain.Envelope) string {
	eventType := ""
	if env != nil {
		eventType = env.EventType
	}
	return eventEmoji(eventType) + " Event: " + eventType
}

type displayField struct {
	Name  string
	Value string
}

// displayFields returns the agent and time fields followed by up to maxDataFields data
// entries in key order, bounded by the per-field and total limits.
func displayFields(env *eventDomain.Envelope) []displayField {
	fields := make([]displayField, 0, maxDataFields+2)
	if env.AgentName != "" {
		fields = append(fields, displayField{Name: "Agent", Value: truncateRunes(env.AgentName, maxFieldLen)})
	}
	fields = append(fields, displayField{Name: "Time", Value: env.Timestamp.Format("2006-01-02T15:04:05Z07:00")})

	keys := make([]string, 0, len(env.Data))
	for key := range env.Data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	added := 0
	for _, key := range keys {
		if added == maxDataFields || len(fields) == maxTotalFields {
			break
		}
		fields = append(fields, displayField{
			Name:  truncateRunes(humanizeFieldName(key), maxFieldNameLen),
			Value: truncateRunes(formatFieldValue(env.Data[key]), maxFieldLen),
		})
		added++
	}
	return fields
}

func humanizeFieldName(key string) string {
	name := humanizeEventType(key)
	if name == "" {
		return key
	}
	return name
}

func formatFieldValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "-"
	case string:
		if v == "" {
			return "-"
		}
		return v
	case fmt.Stringer:
		return v.String()
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}

func truncateRunes(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
