package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"portfolio-contact/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSend_MissingBackendURL(t *testing.T) {
	t.Setenv("BACKEND_URL", "")
	t.Setenv("REACT_APP_BACKEND_URL", "")

	_, err := execute(t, "", "send", "--name", "Ana", "--email", "a@b.c", "--message", "hi")
	assert.ErrorIs(t, err, config.ErrMissingBackendURL)
}

func TestSend_Success(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/contact", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"Thanks!","id":"1"}`))
	}))
	defer srv.Close()
	t.Setenv("BACKEND_URL", srv.URL+"/")

	out, err := execute(t, "Hello from stdin\n",
		"send", "--name", "Ana", "--email", "ana@example.com", "--message", "-")

	require.NoError(t, err)
	assert.Equal(t, "Message Sent!: Thanks!\n", out)
	assert.Equal(t, "Hello from stdin", got["message"])
	assert.Equal(t, "Ana", got["name"])
}

func TestSend_RateLimitedExitsNonZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"detail":{"message":"Slow down"}}`))
	}))
	defer srv.Close()
	t.Setenv("BACKEND_URL", srv.URL)

	out, err := execute(t, "", "send", "--name", "Ana", "--email", "ana@example.com", "--message", "Hello there")

	assert.ErrorIs(t, err, errNotSent)
	assert.Equal(t, "Error: Slow down\n", out)
}

func TestSend_MissingFieldNeverCallsBackend(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()
	t.Setenv("BACKEND_URL", srv.URL)

	out, err := execute(t, "", "send", "--name", "Ana", "--email", "ana@example.com")

	assert.ErrorIs(t, err, errNotSent)
	assert.Equal(t, "Missing Information: Please fill in all required fields.\n", out)
	assert.Zero(t, calls.Load())
}
