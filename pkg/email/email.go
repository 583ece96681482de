package email

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
	texttemplate "text/template"
	"time"

	"portfolio-contact/config"
	"portfolio-contact/internal/domain"
)

// sendFunc matches smtp.SendMail so tests can capture outgoing mail.
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService handles sending emails via SMTP
type EmailService struct {
	host      string
	port      string
	username  string
	password  string
	fromEmail string
	toEmail   string
	ownerName string
	send      sendFunc
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUsername,
		password:  cfg.SMTPPassword,
		fromEmail: cfg.SMTPFromEmail,
		toEmail:   cfg.ContactEmailTo,
		ownerName: cfg.OwnerName,
		send:      smtp.SendMail,
	}
}

type contactEmailData struct {
	ContactID   string
	SenderName  string
	SenderEmail string
	Message     string
	ReceivedAt  string
}

type confirmationEmailData struct {
	Name      string
	OwnerName string
}

var (
	contactHTML = htmltemplate.Must(htmltemplate.New("contact").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <div style="background: linear-gradient(135deg, #00d4aa, #45b7d1); padding: 20px; border-radius: 10px 10px 0 0;">
        <h2 style="color: white; margin: 0;">New Contact Form Message</h2>
    </div>
    <div style="background: #f9f9f9; padding: 20px; border: 1px solid #e0e0e0;">
        <p><strong>Name:</strong> {{.SenderName}}</p>
        <p><strong>Email:</strong> {{.SenderEmail}}</p>
        <p><strong>Contact ID:</strong> {{.ContactID}}</p>
        <p><strong>Received:</strong> {{.ReceivedAt}}</p>
        <div style="background: white; padding: 15px; border-left: 4px solid #00d4aa; margin: 10px 0; white-space: pre-wrap;">{{.Message}}</div>
        <p style="color: #666; font-size: 12px;">This message was sent from your portfolio website contact form.</p>
    </div>
</body>
</html>`))

	contactText = texttemplate.Must(texttemplate.New("contact").Parse(`New Contact Form Message

Name: {{.SenderName}}
Email: {{.SenderEmail}}
Contact ID: {{.ContactID}}
Received: {{.ReceivedAt}}

Message:
{{.Message}}

---
This message was sent from your portfolio website contact form.
`))

	confirmationHTML = htmltemplate.Must(htmltemplate.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <div style="background: linear-gradient(135deg, #00d4aa, #45b7d1); padding: 20px; border-radius: 10px 10px 0 0;">
        <h2 style="color: white; margin: 0;">Thank You for Your Message!</h2>
    </div>
    <div style="background: #f9f9f9; padding: 20px; border: 1px solid #e0e0e0;">
        <p>Hi {{.Name}},</p>
        <p>Thank you for reaching out! I've received your message and will get back to you within 24 hours.</p>
        <p>Best regards,<br><strong>{{.OwnerName}}</strong></p>
        <p style="color: #666; font-size: 12px;">This is an automated response from {{.OwnerName}}'s portfolio website.</p>
    </div>
</body>
</html>`))

	confirmationText = texttemplate.Must(texttemplate.New("confirmation").Parse(`Hi {{.Name}},

Thank you for reaching out! I've received your message and will get back to you within 24 hours.

Best regards,
{{.OwnerName}}

---
This is an automated response from {{.OwnerName}}'s portfolio website.
`))
)

// SendContactEmail notifies the site owner about a new message.
func (s *EmailService) SendContactEmail(ctx context.Context, msg *domain.ContactMessage) error {
	data := contactEmailData{
		ContactID:   msg.ID,
		SenderName:  msg.Name,
		SenderEmail: msg.Email,
		Message:     msg.Message,
		ReceivedAt:  msg.CreatedAt.UTC().Format(time.RFC1123),
	}
	subject := fmt.Sprintf("New Contact Form Message from %s", msg.Name)
	return s.deliver(ctx, s.toEmail, msg.Email, subject, contactText, contactHTML, data)
}

// SendConfirmationEmail thanks the sender.
func (s *EmailService) SendConfirmationEmail(ctx context.Context, name, email string) error {
	data := confirmationEmailData{Name: name, OwnerName: s.ownerName}
	subject := fmt.Sprintf("Thank you for contacting %s", s.ownerName)
	return s.deliver(ctx, email, "", subject, confirmationText, confirmationHTML, data)
}

// IsConfigured checks if the email service has valid SMTP configuration
func (s *EmailService) IsConfigured() bool {
	return s.host != "" && s.username != "" && s.password != "" && s.toEmail != ""
}

func (s *EmailService) deliver(ctx context.Context, to, replyTo, subject string, text *texttemplate.Template, html *htmltemplate.Template, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := buildMessage(s.fromEmail, to, replyTo, subject, text, html, data)
	if err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.send(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildMessage renders a multipart/alternative mail with a plain text and an HTML part.
func buildMessage(from, to, replyTo, subject string, text *texttemplate.Template, html *htmltemplate.Template, data interface{}) ([]byte, error) {
	var textBody, htmlBody bytes.Buffer
	if err := text.Execute(&textBody, data); err != nil {
		return nil, fmt.Errorf("failed to execute text template: %w", err)
	}
	if err := html.Execute(&htmlBody, data); err != nil {
		return nil, fmt.Errorf("failed to execute html template: %w", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, part := range []struct {
		contentType string
		content     []byte
	}{
		{"text/plain; charset=UTF-8", textBody.Bytes()},
		{"text/html; charset=UTF-8", htmlBody.Bytes()},
	} {
		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {part.contentType}})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(part.content); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	if replyTo != "" {
		fmt.Fprintf(&msg, "Reply-To: %s\r\n", replyTo)
	}
	fmt.Fprintf(&msg, "Subject: %s\r\n", sanitizeHeader(subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%s\r\n", mw.Boundary())
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

// sanitizeHeader keeps user supplied names from injecting extra headers.
func sanitizeHeader(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
