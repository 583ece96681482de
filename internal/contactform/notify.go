package contactform

import (
	"context"
	"fmt"
	"io"
	"sync"

	"portfolio-contact/internal/domain"
)

const (
	titleSent    = "Message Sent!"
	titleError   = "Error"
	titleMissing = "Missing Information"

	missingDescription = "Please fill in all required fields."
)

// NotificationFor maps a classified result onto the notification shown to the user.
func NotificationFor(r domain.SubmissionResult) domain.NotificationEvent {
	if r.IsSuccess() {
		return domain.NotificationEvent{
			Title:       titleSent,
			Description: r.Message,
			Severity:    domain.SeverityNormal,
		}
	}
	return domain.NotificationEvent{
		Title:       titleError,
		Description: r.Message,
		Severity:    domain.SeverityDestructive,
	}
}

// MissingInformation is the notification for a submit that failed local validation.
func MissingInformation() domain.NotificationEvent {
	return domain.NotificationEvent{
		Title:       titleMissing,
		Description: missingDescription,
		Severity:    domain.SeverityDestructive,
	}
}

// NotifierFunc adapts a plain function to domain.Notifier.
type NotifierFunc func(ctx context.Context, ev domain.NotificationEvent)

func (f NotifierFunc) Notify(ctx context.Context, ev domain.NotificationEvent) {
	f(ctx, ev)
}

// WriterNotifier prints "Title: description" lines, one per notification.
type WriterNotifier struct {
	mu sync.Mutex
	W  io.Writer
}

func (n *WriterNotifier) Notify(_ context.Context, ev domain.NotificationEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.W, "%s: %s\n", ev.Title, ev.Description)
}
