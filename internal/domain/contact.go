package domain

import (
	"context"
	"time"
)

// MessageStatus tracks how far the owner got with a stored message.
type MessageStatus string

const (
	MessageStatusNew     MessageStatus = "new"
	MessageStatusRead    MessageStatus = "read"
	MessageStatusReplied MessageStatus = "replied"
)

// Valid reports whether s is one of the known statuses.
func (s MessageStatus) Valid() bool {
	switch s {
	case MessageStatusNew, MessageStatusRead, MessageStatusReplied:
		return true
	}
	return false
}

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" binding:"required,notblank,min=2,max=100,valid_name"`
	Email   string `json:"email" binding:"required,email,max=254"`
	Message string `json:"message" binding:"required,notblank,min=10,max=1000"`
}

// ContactMessage is a stored submission.
type ContactMessage struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Message   string        `json:"message"`
	Status    MessageStatus `json:"status"`
	IPAddress string        `json:"ip_address,omitempty"`
	UserAgent string        `json:"user_agent,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ClientMeta carries request facts the handler knows and the usecase stores.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// ContactListOptions filters the admin listing. Empty Statuses means all.
type ContactListOptions struct {
	Limit    int
	Skip     int
	Statuses []MessageStatus
}

// ContactRepository persists contact messages.
type ContactRepository interface {
	Create(ctx context.Context, msg *ContactMessage) error
	List(ctx context.Context, opts ContactListOptions) ([]ContactMessage, error)
	Count(ctx context.Context, opts ContactListOptions) (int, error)
	Ping(ctx context.Context) error
}

// ContactMailer delivers the owner notification and the sender confirmation.
type ContactMailer interface {
	IsConfigured() bool
	SendContactEmail(ctx context.Context, msg *ContactMessage) error
	SendConfirmationEmail(ctx context.Context, name, email string) error
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SubmitContact validates, stores and announces a contact form message
	SubmitContact(ctx context.Context, req *ContactRequest, meta ClientMeta) (*ContactMessage, error)
	// ListMessages returns one page of stored messages plus the total count
	ListMessages(ctx context.Context, opts ContactListOptions) ([]ContactMessage, int, error)
}

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

type HealthUsecase interface {
	Check(ctx context.Context) (*HealthStatus, error)
}
