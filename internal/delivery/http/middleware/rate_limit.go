package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"portfolio-contact/internal/delivery/http/response"
	"portfolio-contact/pkg/apperror"
	"portfolio-contact/pkg/logger"
	"portfolio-contact/pkg/ratelimit"
	"portfolio-contact/pkg/security"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limiter ratelimit.Limiter
	// Custom key extractor (default: ClientKey)
	KeyFunc func(*gin.Context) string
	// Whether to fail closed (reject) when the limiter errors
	FailClosed bool
	// Called for every rejected request, e.g. to count it
	OnLimited func(c *gin.Context)
	Audit     *security.AuditLogger
}

// ClientKey identifies the caller by the first X-Forwarded-For hop, falling
// back to the remote address. The API usually sits behind a proxy.
func ClientKey(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	return c.ClientIP()
}

// RateLimitMiddleware rejects callers over their budget with 429 and the
// number of remaining requests. Limiter failures fail open unless FailClosed.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	keyFunc := config.KeyFunc
	if keyFunc == nil {
		keyFunc = ClientKey
	}

	return func(c *gin.Context) {
		key := keyFunc(c)

		d, err := config.Limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Log.Error("rate limiter failed", "error", err, "path", c.FullPath())
			if config.FailClosed {
				response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		c.Header("X-RateLimit-Reset", d.ResetAt.UTC().Format(time.RFC3339))

		if !d.Allowed {
			retryAfter := int(time.Until(d.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			logger.Log.Warn("rate limit triggered",
				"client", key, "path", c.FullPath(), "request_id", c.GetString("RequestID"))
			config.Audit.LogRateLimitTriggered(c.Request.Context(), key, c.Request.UserAgent(), c.GetString("RequestID"), c.FullPath())
			if config.OnLimited != nil {
				config.OnLimited(c)
			}

			msg := fmt.Sprintf("Too many requests. Please try again later. Limit resets at %s UTC",
				d.ResetAt.UTC().Format("15:04"))
			_ = c.Error(apperror.TooManyRequests(msg, d.Remaining))
			c.Abort()
			return
		}

		c.Next()
	}
}
