package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*AuditLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewAuditLogger(zap.New(core), "portfolio-contact", "test"), logs
}

func TestLogRateLimitTriggered(t *testing.T) {
	sl, logs := newObserved()

	sl.LogRateLimitTriggered(context.Background(), "198.51.100.4", "curl/8", "req-1", "/api/contact")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "rate_limit_triggered", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "198.51.100.4", fields["ip"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.JSONEq(t, `{"endpoint":"/api/contact"}`, fields["details"].(string))
}

func TestLogAdminRejected(t *testing.T) {
	sl, logs := newObserved()

	sl.LogAdminRejected(context.Background(), "192.0.2.1", "", "owner", "role_visitor", true)
	sl.LogAdminRejected(context.Background(), "192.0.2.1", "", "", "missing_token", false)

	require.Equal(t, 2, logs.Len())
	forbidden := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, forbidden.Level)
	assert.Equal(t, "forbidden_access", forbidden.Message)
	assert.Equal(t, HashValue("owner"), forbidden.ContextMap()["subject_value"])

	unauthorized := logs.All()[1]
	assert.Equal(t, "unauthorized_access", unauthorized.Message)
	assert.NotContains(t, unauthorized.ContextMap(), "subject_value")
}

func TestNilAuditLoggerIsSafe(t *testing.T) {
	var sl *AuditLogger
	assert.NotPanics(t, func() {
		sl.LogRateLimitTriggered(context.Background(), "ip", "", "", "/")
		_ = sl.Sync()
	})
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskEmail("jane@example.com"))
	assert.Equal(t, "***@example.com", MaskEmail("j@example.com"))
	assert.Equal(t, "***", MaskEmail("ab"))
	assert.Equal(t, "***", MaskEmail("no-at-sign"))
}
