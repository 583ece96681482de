// Package ratelimit counts requests per key inside a fixed window. The Redis
// limiter is shared across instances; the memory limiter is the single-node
// fallback used when Redis is absent or failing.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps backend failures so callers can decide to fail open.
var ErrUnavailable = errors.New("ratelimit: backend unavailable")

// Decision is the verdict for one request.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter decides whether one more request for key fits the budget.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Fallback tries primary first and switches to secondary on ErrUnavailable.
type Fallback struct {
	Primary   Limiter
	Secondary Limiter
	// OnFallback is called with the primary's error, e.g. to log it
	OnFallback func(err error)
}

func (f Fallback) Allow(ctx context.Context, key string) (Decision, error) {
	if f.Primary != nil {
		d, err := f.Primary.Allow(ctx, key)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, ErrUnavailable) {
			return d, err
		}
		if f.OnFallback != nil {
			f.OnFallback(err)
		}
	}
	return f.Secondary.Allow(ctx, key)
}
