// Package submission posts contact forms to the backend and folds every
// outcome into a domain.SubmissionResult.
package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"portfolio-contact/internal/domain"
	"portfolio-contact/pkg/logger"
)

// ContactPath is appended to the backend base URL.
const ContactPath = "/api/contact"

// maxBodyBytes caps how much of a reply is read; contact replies are tiny.
const maxBodyBytes = 64 << 10

// Client is stateless apart from its configuration and safe for concurrent use.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger
}

type Option func(*Client)

// WithHTTPClient swaps the transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New builds a client for the backend at baseURL (scheme and host required).
func New(baseURL string, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("submission: invalid backend url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("submission: backend url %q must be absolute http(s)", baseURL)
	}

	c := &Client{
		endpoint:   base + ContactPath,
		httpClient: &http.Client{Timeout: time.Minute},
		log:        logger.Log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint is the full URL submissions go to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Send performs exactly one POST and never returns an unclassified failure.
func (c *Client) Send(ctx context.Context, data domain.ContactFormData) domain.SubmissionResult {
	outcome := c.post(ctx, data)
	result := Classify(outcome)

	if outcome.Err != nil {
		c.log.Warn("contact submission transport failure", "endpoint", c.endpoint, "error", outcome.Err)
	} else if !result.IsSuccess() {
		c.log.Warn("contact submission rejected",
			"endpoint", c.endpoint,
			"status", outcome.StatusCode,
			"kind", result.Kind.String(),
			"body", truncate(outcome.Body, 512),
		)
	} else {
		c.log.Debug("contact submission accepted", "status", outcome.StatusCode)
	}
	return result
}

func (c *Client) post(ctx context.Context, data domain.ContactFormData) Outcome {
	payload, err := json.Marshal(data)
	if err != nil {
		return Outcome{Err: fmt.Errorf("encode payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Outcome{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Outcome{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		// Status is known, body is not; classify on status alone
		c.log.Debug("contact reply body unreadable", "error", err)
		body = nil
	}
	return Outcome{StatusCode: resp.StatusCode, Body: body}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n])
}
