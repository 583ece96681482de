package email

import (
	"context"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"portfolio-contact/config"
	"portfolio-contact/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestService(c *captured) *EmailService {
	s := NewEmailService(&config.Config{
		SMTPHost:       "smtp.example.com",
		SMTPPort:       "587",
		SMTPUsername:   "mailer@example.com",
		SMTPPassword:   "secret",
		SMTPFromEmail:  "mailer@example.com",
		ContactEmailTo: "owner@example.com",
		OwnerName:      "Sam Owner",
	})
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		c.addr, c.from, c.to, c.msg = addr, from, to, string(msg)
		return nil
	}
	return s
}

func TestSendContactEmail(t *testing.T) {
	var c captured
	s := newTestService(&c)
	require.True(t, s.IsConfigured())

	err := s.SendContactEmail(context.Background(), &domain.ContactMessage{
		ID:        "b3c1",
		Name:      "Ana\r\nBcc: evil@example.com",
		Email:     "ana@example.com",
		Message:   "<script>alert(1)</script> hello",
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", c.addr)
	assert.Equal(t, []string{"owner@example.com"}, c.to)
	assert.Contains(t, c.msg, "Reply-To: ana@example.com\r\n")
	assert.Contains(t, c.msg, "Contact ID: b3c1")
	assert.Contains(t, c.msg, "&lt;script&gt;")
	assert.Contains(t, c.msg, "multipart/alternative")

	// The injected CRLF must not start a new header line
	headers := c.msg[:strings.Index(c.msg, "\r\n\r\n")]
	assert.NotContains(t, headers, "\r\nBcc:")
}

func TestSendConfirmationEmail(t *testing.T) {
	var c captured
	s := newTestService(&c)

	require.NoError(t, s.SendConfirmationEmail(context.Background(), "Ana", "ana@example.com"))
	assert.Equal(t, []string{"ana@example.com"}, c.to)
	assert.Contains(t, c.msg, "Subject: Thank you for contacting Sam Owner")
	assert.NotContains(t, c.msg, "Reply-To:")
}

func TestIsConfigured(t *testing.T) {
	s := NewEmailService(&config.Config{SMTPHost: "smtp.example.com"})
	assert.False(t, s.IsConfigured())
}
