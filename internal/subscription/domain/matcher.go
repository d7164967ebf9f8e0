package domain

import (
	"encoding/json"
	"strings"
)

const wildcard = "*"

// Subscribes reports whether a free-text event-type expression covers eventType.
//
// A blank expression covers every type. Otherwise the expression is read, in order, as a
// JSON array of strings, as a comma separated list, or as a single token. The "*" token
// covers every type in all three encodings.
func Subscribes(expr, eventType string) bool {
	if strings.TrimSpace(expr) == "" {
		return true
	}
	for _, token := range ParseEventTypes(expr) {
		if token == wildcard || token == eventType {
			return true
		}
	}
	return false
}

// ParseEventTypes splits an event-type expression into tokens using the same ordered
// fallback as Subscribes. A blank expression yields nil.
func ParseEventTypes(expr string) []string {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		var items []any
		if err := json.Unmarshal([]byte(trimmed), &items); err == nil {
			tokens := make([]string, 0, len(items))
			for _, item := range items {
				// non-string members never match
				if s, ok := item.(string); ok {
					tokens = append(tokens, s)
				}
			}
			return tokens
		}
	}

	if strings.Contains(trimmed, ",") {
		parts := strings.Split(trimmed, ",")
		tokens := make([]string, 0, len(parts))
		for _, part := range parts {
			if token := trimToken(part); token != "" {
				tokens = append(tokens, token)
			}
		}
		return tokens
	}

	return []string{trimToken(trimmed)}
}

// FormatEventTypes encodes a list as the JSON array form. An empty list encodes to the
// blank expression, which covers every type.
func FormatEventTypes(eventTypes []string) string {
	if len(eventTypes) == 0 {
		return ""
	}
	encoded, err := json.Marshal(eventTypes)
	if err != nil {
		return strings.Join(eventTypes, ",")
	}
	return string(encoded)
}

func trimToken(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}
