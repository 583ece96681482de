package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"portfolio-contact/internal/domain"
	"portfolio-contact/pkg/apperror"
	"portfolio-contact/pkg/logger"
	"portfolio-contact/pkg/metrics"
	"portfolio-contact/pkg/security"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200

	successMessage = "Thank you for your message! I'll get back to you within 24 hours."
)

type contactUsecase struct {
	repo    domain.ContactRepository
	mailer  domain.ContactMailer
	metrics *metrics.Metrics
	log     *slog.Logger
	now     func() time.Time
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(repo domain.ContactRepository, mailer domain.ContactMailer, m *metrics.Metrics) domain.ContactUsecase {
	return &contactUsecase{
		repo:    repo,
		mailer:  mailer,
		metrics: m,
		log:     logger.Log,
		now:     time.Now,
	}
}

// SuccessMessage is the text returned to the visitor after a stored submission.
func SuccessMessage() string {
	return successMessage
}

// SubmitContact stores the message, then mails the owner and the sender.
// Mail failures are logged and never fail the submission.
func (uc *contactUsecase) SubmitContact(ctx context.Context, req *domain.ContactRequest, meta domain.ClientMeta) (*domain.ContactMessage, error) {
	// Binding already validated; these guard direct callers
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	message := strings.TrimSpace(req.Message)
	if name == "" || email == "" || message == "" {
		uc.metrics.Submission(metrics.OutcomeInvalid)
		return nil, apperror.Unprocessable("Please check your input and try again.", []string{"name, email and message are required"})
	}

	now := uc.now().UTC()
	msg := &domain.ContactMessage{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Message:   message,
		Status:    domain.MessageStatusNew,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.repo.Create(ctx, msg); err != nil {
		uc.metrics.Submission(metrics.OutcomeFailed)
		return nil, apperror.New(http.StatusInternalServerError, "Failed to save message. Please try again.", err)
	}

	uc.notify(ctx, msg)
	uc.metrics.Submission(metrics.OutcomeAccepted)
	return msg, nil
}

func (uc *contactUsecase) notify(ctx context.Context, msg *domain.ContactMessage) {
	if uc.mailer == nil || !uc.mailer.IsConfigured() {
		uc.log.Warn("email service not configured, skipping notifications", "contact_id", msg.ID)
		return
	}
	if err := uc.mailer.SendContactEmail(ctx, msg); err != nil {
		uc.metrics.EmailError("owner")
		uc.log.Warn("failed to send notification email", "contact_id", msg.ID, "error", err)
	}
	if err := uc.mailer.SendConfirmationEmail(ctx, msg.Name, msg.Email); err != nil {
		uc.metrics.EmailError("confirmation")
		uc.log.Warn("failed to send confirmation email",
			"contact_id", msg.ID, "to", security.MaskEmail(msg.Email), "error", err)
	}
}

// ListMessages returns one page of stored messages, newest first.
func (uc *contactUsecase) ListMessages(ctx context.Context, opts domain.ContactListOptions) ([]domain.ContactMessage, int, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultListLimit
	}
	if opts.Limit > MaxListLimit {
		opts.Limit = MaxListLimit
	}
	if opts.Skip < 0 {
		opts.Skip = 0
	}
	for _, s := range opts.Statuses {
		if !s.Valid() {
			return nil, 0, apperror.BadRequest("Unknown status: " + string(s))
		}
	}

	messages, err := uc.repo.List(ctx, opts)
	if err != nil {
		return nil, 0, apperror.New(http.StatusInternalServerError, "Failed to fetch messages", err)
	}
	total, err := uc.repo.Count(ctx, opts)
	if err != nil {
		return nil, 0, apperror.New(http.StatusInternalServerError, "Failed to fetch messages", err)
	}
	return messages, total, nil
}
