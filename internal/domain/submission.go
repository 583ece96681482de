package domain

import "context"

// ContactFormData is what the visitor types into the contact form.
type ContactFormData struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// SubmissionStatus is the lifecycle of one form instance.
type SubmissionStatus int

const (
	StatusIdle SubmissionStatus = iota
	StatusSubmitting
	StatusSucceeded
	StatusFailed
)

func (s SubmissionStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ResultKind tags a SubmissionResult.
type ResultKind int

const (
	ResultSuccess ResultKind = iota
	ResultValidationError
	ResultRateLimitError
	ResultGenericError
)

func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultValidationError:
		return "validation_error"
	case ResultRateLimitError:
		return "rate_limit_error"
	case ResultGenericError:
		return "generic_error"
	default:
		return "unknown"
	}
}

// SubmissionResult is the classified outcome of one network attempt. Message
// is always human readable and never empty.
type SubmissionResult struct {
	Kind    ResultKind
	Message string
}

func (r SubmissionResult) IsSuccess() bool {
	return r.Kind == ResultSuccess
}

// Severity of a NotificationEvent.
type Severity string

const (
	SeverityNormal      Severity = "normal"
	SeverityDestructive Severity = "destructive"
)

// NotificationEvent is what the notification sink renders (toast, banner, line of text).
type NotificationEvent struct {
	Title       string
	Description string
	Severity    Severity
}

// SubmissionClient sends one form to the contact endpoint. Implementations
// never fail: every outcome is folded into a SubmissionResult.
type SubmissionClient interface {
	Send(ctx context.Context, data ContactFormData) SubmissionResult
}

// Notifier renders notifications to the user.
type Notifier interface {
	Notify(ctx context.Context, event NotificationEvent)
}
