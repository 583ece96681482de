package submission

import (
	"encoding/json"
	"net/http"
	"strings"

	"portfolio-contact/internal/domain"
)

// Fallback texts used when the server gives no usable message.
const (
	DefaultSuccessMessage    = "Your message has been sent."
	DefaultRateLimitMessage  = "Too many requests. Please try again later."
	DefaultValidationMessage = "Please check your input and try again."
	DefaultGenericMessage    = "Failed to send message. Please try again."
)

// Outcome is the raw result of one POST: either a response (StatusCode > 0)
// or a transport error.
type Outcome struct {
	StatusCode int
	Body       []byte
	Err        error
}

// MessageRule pulls a human readable message out of a decoded body. It
// reports false when it found nothing usable.
type MessageRule func(body map[string]json.RawMessage) (string, bool)

// category pairs an error kind with its ordered extraction rules and the
// text used when every rule misses.
type category struct {
	kind     domain.ResultKind
	rules    []MessageRule
	fallback string
}

var (
	errorRules = []MessageRule{DetailMessage, DetailString}

	rateLimitCategory = category{
		kind:     domain.ResultRateLimitError,
		rules:    errorRules,
		fallback: DefaultRateLimitMessage,
	}
	validationCategory = category{
		kind:     domain.ResultValidationError,
		rules:    errorRules,
		fallback: DefaultValidationMessage,
	}
	genericCategory = category{
		kind:     domain.ResultGenericError,
		rules:    errorRules,
		fallback: DefaultGenericMessage,
	}
)

// Classify maps an Outcome onto exactly one SubmissionResult. It is pure:
// equal outcomes always give equal results.
func Classify(o Outcome) domain.SubmissionResult {
	if o.Err != nil || o.StatusCode == 0 {
		// No response at all, nothing to extract
		return domain.SubmissionResult{Kind: domain.ResultGenericError, Message: DefaultGenericMessage}
	}

	body := decodeObject(o.Body)

	switch {
	case o.StatusCode >= 200 && o.StatusCode < 300:
		if msg, ok := successMessage(body); ok {
			return domain.SubmissionResult{Kind: domain.ResultSuccess, Message: msg}
		}
		// 2xx without a success flag is a malformed reply
		return genericCategory.resolve(body)
	case o.StatusCode == http.StatusTooManyRequests:
		return rateLimitCategory.resolve(body)
	case o.StatusCode == http.StatusUnprocessableEntity:
		return validationCategory.resolve(body)
	default:
		return genericCategory.resolve(body)
	}
}

func (c category) resolve(body map[string]json.RawMessage) domain.SubmissionResult {
	for _, rule := range c.rules {
		if msg, ok := rule(body); ok {
			return domain.SubmissionResult{Kind: c.kind, Message: msg}
		}
	}
	return domain.SubmissionResult{Kind: c.kind, Message: c.fallback}
}

// DetailMessage reads {"detail": {"message": "..."}}.
func DetailMessage(body map[string]json.RawMessage) (string, bool) {
	raw, ok := body["detail"]
	if !ok {
		return "", false
	}
	var detail struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &detail); err != nil {
		return "", false
	}
	return nonBlank(detail.Message)
}

// DetailString reads {"detail": "..."}.
func DetailString(body map[string]json.RawMessage) (string, bool) {
	raw, ok := body["detail"]
	if !ok {
		return "", false
	}
	var detail string
	if err := json.Unmarshal(raw, &detail); err != nil {
		return "", false
	}
	return nonBlank(detail)
}

func successMessage(body map[string]json.RawMessage) (string, bool) {
	var success bool
	if err := json.Unmarshal(body["success"], &success); err != nil || !success {
		return "", false
	}
	var msg string
	_ = json.Unmarshal(body["message"], &msg)
	if msg, ok := nonBlank(msg); ok {
		return msg, true
	}
	return DefaultSuccessMessage, true
}

// decodeObject returns nil for anything that is not a JSON object.
func decodeObject(b []byte) map[string]json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil
	}
	return obj
}

func nonBlank(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}
