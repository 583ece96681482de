package ratelimit

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// MemoryLimiter applies a token bucket per key and periodically evicts idle
// entries. The bucket holds limit tokens and refills one token every
// window/limit, so a burst of limit requests is followed by a steady trickle.
type MemoryLimiter struct {
	limit   int
	every   rate.Limit
	mu      sync.Mutex
	byKey   map[string]*entry
	hits    uint64
	idleTTL time.Duration
	now     func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit < 1 {
		limit = 1
	}
	if window <= 0 {
		window = time.Hour
	}
	return &MemoryLimiter{
		limit:   limit,
		every:   rate.Every(window / time.Duration(limit)),
		byKey:   make(map[string]*entry),
		idleTTL: 2 * window,
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	key = strings.TrimSpace(key)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.byKey[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.every, l.limit)}
		l.byKey[key] = e
	}
	e.lastSeen = now
	allowed := e.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%512 == 0 {
		cutoff := now.Add(-l.idleTTL)
		for k, v := range l.byKey {
			if v.lastSeen.Before(cutoff) {
				delete(l.byKey, k)
			}
		}
	}

	tokens := e.limiter.TokensAt(now)
	remaining := int(math.Floor(tokens))
	if remaining < 0 {
		remaining = 0
	}

	// Time until the bucket is full again
	missing := float64(l.limit) - tokens
	resetAt := now
	if missing > 0 {
		resetAt = now.Add(time.Duration(missing / float64(l.every) * float64(time.Second)))
	}

	return Decision{
		Allowed:   allowed,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
