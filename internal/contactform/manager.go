package contactform

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"portfolio-contact/internal/domain"
	"portfolio-contact/pkg/logger"
)

// ErrSubmitInFlight is returned by Submit while a previous attempt is still
// waiting for the backend. No request is made and nothing is notified.
var ErrSubmitInFlight = errors.New("contactform: submission already in flight")

// DefaultSubmitTimeout bounds one network attempt.
const DefaultSubmitTimeout = 30 * time.Second

// Manager owns one form instance for the lifetime of a page visit.
type Manager struct {
	client   domain.SubmissionClient
	notifier domain.Notifier
	timeout  time.Duration
	log      *slog.Logger

	mu    sync.Mutex
	state State
}

type Option func(*Manager)

// WithTimeout bounds the network call of each attempt. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

func NewManager(client domain.SubmissionClient, notifier domain.Notifier, opts ...Option) *Manager {
	m := &Manager{
		client:   client,
		notifier: notifier,
		timeout:  DefaultSubmitTimeout,
		log:      logger.Log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns a snapshot of the form.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// UpdateField sets one field.
func (m *Manager) UpdateField(f Field, value string) {
	m.apply(FieldChanged{Field: f, Value: value})
}

// UpdateFieldByName is UpdateField keyed by the input's name attribute.
func (m *Manager) UpdateFieldByName(name, value string) error {
	f, err := ParseField(name)
	if err != nil {
		return err
	}
	m.UpdateField(f, value)
	return nil
}

// Submit runs one submission attempt and returns the notification it emitted.
//
// A submit while another is in flight returns ErrSubmitInFlight. Otherwise
// exactly one notification is emitted: the missing-information one when local
// validation fails (the backend is never contacted), or the one derived from
// the single network attempt.
func (m *Manager) Submit(ctx context.Context) (domain.NotificationEvent, error) {
	m.mu.Lock()
	if !m.state.CanSubmit() {
		m.mu.Unlock()
		return domain.NotificationEvent{}, ErrSubmitInFlight
	}
	data := m.state.Data
	if err := Validate(data); err != nil {
		m.state = Reduce(m.state, SubmitRejected{})
		m.mu.Unlock()

		m.log.Debug("contact form rejected locally", "error", err)
		ev := MissingInformation()
		m.notifier.Notify(ctx, ev)
		return ev, nil
	}
	m.state = Reduce(m.state, SubmitStarted{})
	m.mu.Unlock()

	result := m.send(ctx, data)

	m.apply(ResultReceived{Result: result})
	if !result.IsSuccess() {
		m.log.Info("contact form submission failed", "kind", result.Kind.String(), "message", result.Message)
	}

	ev := NotificationFor(result)
	m.notifier.Notify(ctx, ev)
	return ev, nil
}

func (m *Manager) send(ctx context.Context, data domain.ContactFormData) domain.SubmissionResult {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	return m.client.Send(ctx, data)
}

func (m *Manager) apply(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Reduce(m.state, e)
}
