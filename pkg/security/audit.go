// Package security records abuse related events (rate limit hits, rejected
// admin tokens) on a dedicated zap logger so they can be shipped and
// alerted on separately from request logs.
package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventForbiddenAccess    EventType = "forbidden_access"
)

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Timestamp    time.Time              `json:"timestamp"`
	Event        EventType              `json:"event"`
	SubjectType  string                 `json:"subject_type,omitempty"`  // "ip", "subject"
	SubjectValue string                 `json:"subject_value,omitempty"` // Masked or hashed for PII
	IP           string                 `json:"ip,omitempty"`
	UserAgent    string                 `json:"user_agent,omitempty"`
	RequestID    string                 `json:"request_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// AuditLogger writes SecurityEvents. A nil *AuditLogger drops everything.
type AuditLogger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

// NewAuditLogger wraps an existing zap logger, mostly for tests.
func NewAuditLogger(z *zap.Logger, serviceName, environment string) *AuditLogger {
	return &AuditLogger{zapLogger: z, serviceName: serviceName, environment: environment}
}

// NewProductionAuditLogger logs JSON to stdout the way container platforms expect.
func NewProductionAuditLogger(serviceName string) *AuditLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return NewAuditLogger(logger, serviceName, Environment())
}

// Log logs a security event
func (sl *AuditLogger) Log(_ context.Context, event SecurityEvent) {
	if sl == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	level := zapcore.WarnLevel
	if event.Event == EventForbiddenAccess {
		level = zapcore.ErrorLevel
	}

	fields := []zap.Field{
		zap.String("service", sl.serviceName),
		zap.String("env", sl.environment),
		zap.String("event", string(event.Event)),
		zap.Time("event_time", event.Timestamp),
	}
	if event.SubjectType != "" {
		fields = append(fields, zap.String("subject_type", event.SubjectType))
	}
	if event.SubjectValue != "" {
		fields = append(fields, zap.String("subject_value", event.SubjectValue))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		detailsJSON, _ := json.Marshal(event.Details)
		fields = append(fields, zap.String("details", string(detailsJSON)))
	}

	sl.zapLogger.Log(level, string(event.Event), fields...)
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (sl *AuditLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]interface{}{"endpoint": endpoint},
	})
}

// LogAdminRejected logs a refused admin request. forbidden distinguishes a
// valid token without the admin role from a missing or bad token.
func (sl *AuditLogger) LogAdminRejected(ctx context.Context, ip, requestID, subject, reason string, forbidden bool) {
	ev := SecurityEvent{
		Event:     EventUnauthorizedAccess,
		IP:        ip,
		RequestID: requestID,
		Details:   map[string]interface{}{"reason": reason},
	}
	if forbidden {
		ev.Event = EventForbiddenAccess
	}
	if subject != "" {
		ev.SubjectType = "subject"
		ev.SubjectValue = HashValue(subject)
	}
	sl.Log(ctx, ev)
}

// Sync flushes any buffered log entries
func (sl *AuditLogger) Sync() error {
	if sl == nil {
		return nil
	}
	return sl.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if len(email) < 3 || at < 0 {
		return "***"
	}
	if at <= 1 {
		return "***" + email[at:]
	}
	return email[:1] + "***" + email[at:]
}

// HashValue creates a SHA256 hash of a value (for logging without PII)
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8]) // First 16 chars of hex
}

// Environment maps GIN_MODE onto a deployment name.
func Environment() string {
	if os.Getenv("GIN_MODE") == "release" {
		return "production"
	}
	return "development"
}
