// Package contactform owns the contact form: its fields, its submission
// status and the single notification each submit attempt produces.
//
// All transitions go through Reduce, a pure function over (State, Event), so
// the lifecycle can be tested without a network or a UI. Manager is the thin
// stateful shell that feeds events into Reduce and talks to the outside world.
package contactform

import (
	"errors"
	"fmt"
	"strings"

	"portfolio-contact/internal/domain"
)

// ErrUnknownField is returned when a field name does not belong to the form.
var ErrUnknownField = errors.New("contactform: unknown field")

// Field identifies one input of the form.
type Field int

const (
	FieldName Field = iota
	FieldEmail
	FieldMessage
)

func (f Field) String() string {
	switch f {
	case FieldName:
		return "name"
	case FieldEmail:
		return "email"
	case FieldMessage:
		return "message"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// ParseField maps an input name ("name", "email", "message") onto a Field.
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "name":
		return FieldName, nil
	case "email":
		return FieldEmail, nil
	case "message":
		return FieldMessage, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// State is everything the form remembers between events.
type State struct {
	Data   domain.ContactFormData
	Status domain.SubmissionStatus
}

// Event is a closed set of things that can happen to the form.
type Event interface {
	isEvent()
}

// FieldChanged records one keystroke's worth of input.
type FieldChanged struct {
	Field Field
	Value string
}

// SubmitStarted marks dispatch of a validated form.
type SubmitStarted struct{}

// SubmitRejected marks a submit that failed local validation.
type SubmitRejected struct{}

// ResultReceived carries the classified outcome of the network attempt.
type ResultReceived struct {
	Result domain.SubmissionResult
}

func (FieldChanged) isEvent()   {}
func (SubmitStarted) isEvent()  {}
func (SubmitRejected) isEvent() {}
func (ResultReceived) isEvent() {}

// Reduce returns the state that follows s after e.
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case FieldChanged:
		s.Data = setField(s.Data, ev.Field, ev.Value)
		if s.Status == domain.StatusSucceeded || s.Status == domain.StatusFailed {
			s.Status = domain.StatusIdle
		}

	case SubmitStarted:
		s.Status = domain.StatusSubmitting

	case SubmitRejected:
		if s.Status != domain.StatusSubmitting {
			s.Status = domain.StatusFailed
		}

	case ResultReceived:
		// Results only land on an in-flight submission
		if s.Status != domain.StatusSubmitting {
			return s
		}
		if ev.Result.IsSuccess() {
			s.Data = domain.ContactFormData{}
			s.Status = domain.StatusSucceeded
		} else {
			s.Status = domain.StatusFailed
		}
	}
	return s
}

// CanSubmit reports whether a new submit attempt may start from s.
func (s State) CanSubmit() bool {
	return s.Status != domain.StatusSubmitting
}

func setField(d domain.ContactFormData, f Field, v string) domain.ContactFormData {
	switch f {
	case FieldName:
		d.Name = v
	case FieldEmail:
		d.Email = v
	case FieldMessage:
		d.Message = v
	}
	return d
}

// MissingFieldsError is the local validation failure: required fields that
// are empty or whitespace only.
type MissingFieldsError struct {
	Fields []Field
}

func (e *MissingFieldsError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.String()
	}
	return "missing required fields: " + strings.Join(names, ", ")
}

// Validate checks that every field has content after trimming whitespace.
func Validate(d domain.ContactFormData) error {
	var missing []Field
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, FieldName)
	}
	if strings.TrimSpace(d.Email) == "" {
		missing = append(missing, FieldEmail)
	}
	if strings.TrimSpace(d.Message) == "" {
		missing = append(missing, FieldMessage)
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}
