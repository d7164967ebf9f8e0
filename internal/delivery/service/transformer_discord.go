package service

import (
	"errors"
	"strings"
	"time"

	eventDomain "github.com/allisson/webhooks/internal/event/domain"
)

// Embed colors by outcome suffix.
const (
	colorFailed    = 0xE74C3C
	colorCompleted = 0x2ECC71
	colorDefault   = 0x3498DB
)

var errNilEnvelope = errors.New("nil envelope")

// DiscordMessage is the body accepted by a Discord incoming webhook.
type DiscordMessage struct {
	Content string         `json:"content,omitempty"`
	Embeds  []DiscordEmbed `json:"embeds,omitempty"`
}

// DiscordEmbed is a single rich embed.
type DiscordEmbed struct {
	Title     string              `json:"title"`
	Color     int                 `json:"color"`
	Timestamp string              `json:"timestamp,omitempty"`
	Fields    []DiscordEmbedField `json:"fields,omitempty"`
	Footer    *DiscordEmbedFooter `json:"footer,omitempty"`
}

// DiscordEmbedField is a name/value pair rendered inside an embed.
type DiscordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// DiscordEmbedFooter is the small text under an embed.
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

// DiscordTransformer renders events as a single Discord embed.
type DiscordTransformer struct{}

// Transform builds the embed message.
func (d *DiscordTransformer) Transform(env *eventDomain.Envelope) (any, error) {
	if env == nil {
		return nil, errNilEnvelope
	}

	fields := displayFields(env)
	embedFields := make([]DiscordEmbedField, 0, len(fields))
	for _, field := range fields {
		embedFields = append(embedFields, DiscordEmbedField{Name: field.Name, Value: field.Value, Inline: true})
	}

	return &DiscordMessage{
		Embeds: []DiscordEmbed{
			{
				Title:     summaryLine(env),
				Color:     outcomeColor(env.EventType),
				Timestamp: env.Timestamp.Format(time.RFC3339),
				Fields:    embedFields,
				Footer:    &DiscordEmbedFooter{Text: "Event ID: " + env.EventID.String()},
			},
		},
	}, nil
}

// Fallback returns a plain content message.
func (d *DiscordTransformer) Fallback(env *eventDomain.Envelope) any {
	return &DiscordMessage{Content: fallbackLine(env)}
}

func outcomeColor(eventType string) int {
	switch {
	case strings.HasSuffix(eventType, ".failed"):
		return colorFailed
	case strings.HasSuffix(eventType, ".completed"):
		return colorCompleted
	default:
		return colorDefault
	}
}

// NewDiscordTransformer creates a DiscordTransformer.
func NewDiscordTransformer() *DiscordTransformer {
	return &DiscordTransformer{}
}
