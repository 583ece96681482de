package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClientConfig(t *testing.T) {
	t.Run("missing backend url is a startup error", func(t *testing.T) {
		t.Setenv("BACKEND_URL", "")
		t.Setenv("REACT_APP_BACKEND_URL", "")

		cfg, err := LoadClientConfig()
		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, ErrMissingBackendURL)
	})

	t.Run("relative url is rejected", func(t *testing.T) {
		t.Setenv("BACKEND_URL", "localhost:8000")

		_, err := LoadClientConfig()
		assert.Error(t, err)
	})

	t.Run("trailing slash trimmed and timeout parsed", func(t *testing.T) {
		t.Setenv("BACKEND_URL", "https://api.example.com/")
		t.Setenv("SUBMIT_TIMEOUT_SECONDS", "5")

		cfg, err := LoadClientConfig()
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com", cfg.BackendURL)
		assert.Equal(t, 5*time.Second, cfg.SubmitTimeout)
	})

	t.Run("legacy variable name is honoured", func(t *testing.T) {
		t.Setenv("BACKEND_URL", "")
		require.NoError(t, os.Unsetenv("BACKEND_URL"))
		t.Setenv("REACT_APP_BACKEND_URL", "http://localhost:8000")

		cfg, err := LoadClientConfig()
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example.com/ ,,https://b.example.com")
	t.Setenv("SMTP_USERNAME", "mailer@example.com")
	t.Setenv("SMTP_FROM_EMAIL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 3600, cfg.RateLimitWindowSeconds)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "mailer@example.com", cfg.SMTPFromEmail)
}
