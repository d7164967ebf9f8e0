// Package validation provides custom validation rules for the application.
package validation

import (
	"net/url"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/webhooks/internal/errors"
)

var (
	// eventTypeRegex matches dot-namespaced identifiers such as "chat.completed".
	eventTypeRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_\-]*(\.[a-z0-9][a-z0-9_\-]*)*$`)

	// headerNameRegex matches RFC 7230 header field names.
	headerNameRegex = regexp.MustCompile("^[!#$%&'*+\\-.^_`|~0-9A-Za-z]+$")
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// HTTPURL validates an absolute http or https URL with a host.
var HTTPURL = validation.NewStringRuleWithError(
	func(s string) bool {
		u, err := url.Parse(s)
		if err != nil {
			return false
		}
		return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
	},
	validation.NewError("validation_http_url", "must be a valid http or https URL"),
)

// EventTypeName validates a dot-namespaced event type identifier or the "*" wildcard.
var EventTypeName = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == "*" || eventTypeRegex.MatchString(s)
	},
	validation.NewError("validation_event_type", "must be a dot-namespaced event type or *"),
)

// HeaderNames validates that every key of a map[string]string is a valid header field name.
var HeaderNames = validation.By(func(value interface{}) error {
	headers, ok := value.(map[string]string)
	if !ok {
		return validation.NewError("validation_headers_type", "must be a map of strings")
	}
	for name := range headers {
		if !headerNameRegex.MatchString(name) {
			return validation.NewError("validation_header_name", "contains an invalid header name: "+name)
		}
	}
	return nil
})
