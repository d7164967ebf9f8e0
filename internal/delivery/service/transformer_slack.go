package service

import (
	"fmt"

	eventDomain "github.com/allisson/webhooks/internal/event/domain"
)

// SlackMessage is the body accepted by a Slack incoming webhook.
type SlackMessage struct {
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments,omitempty"`
}

// SlackAttachment is a legacy message attachment carrying the event fields.
type SlackAttachment struct {
	Color  string       `json:"color"`
	Fields []SlackField `json:"fields,omitempty"`
	Footer string       `json:"footer,omitempty"`
	Ts     int64        `json:"ts,omitempty"`
}

// SlackField is a title/value pair inside an attachment.
type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// SlackTransformer renders events as a Slack message with one attachment.
type SlackTransformer struct{}

// Transform builds the Slack message.
func (s *SlackTransformer) Transform(env *eventDomain.Envelope) (any, error) {
	if env == nil {
		return nil, errNilEnvelope
	}

	fields := displayFields(env)
	slackFields := make([]SlackField, 0, len(fields))
	for _, field := range fields {
		slackFields = append(slackFields, SlackField{Title: field.Name, Value: field.Value, Short: true})
	}

	return &SlackMessage{
		Text: summaryLine(env),
		Attachments: []SlackAttachment{
			{
				Color:  fmt.Sprintf("#%06X", outcomeColor(env.EventType)),
				Fields: slackFields,
				Footer: "Event ID: " + env.EventID.String(),
				Ts:     env.Timestamp.Unix(),
			},
		},
	}, nil
}

// Fallback returns a text-only message.
func (s *SlackTransformer) Fallback(env *eventDomain.Envelope) any {
	return &SlackMessage{Text: fallbackLine(env)}
}

// NewSlackTransformer creates a SlackTransformer.
func NewSlackTransformer() *SlackTransformer {
	return &SlackTransformer{}
}
