package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_FixedBudget(t *testing.T) {
	l := NewMemoryLimiter(5, time.Hour)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	for i := 0; i < 5; i++ {
		d, err := l.Allow(context.Background(), "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d", i+1)
		assert.Equal(t, 4-i, d.Remaining)
	}

	d, err := l.Allow(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.True(t, d.ResetAt.After(base))

	// Other keys have their own budget
	d, _ = l.Allow(context.Background(), "10.0.0.2")
	assert.True(t, d.Allowed)
}

func TestMemoryLimiter_Refills(t *testing.T) {
	l := NewMemoryLimiter(2, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		d, _ := l.Allow(context.Background(), "k")
		require.True(t, d.Allowed)
	}
	d, _ := l.Allow(context.Background(), "k")
	require.False(t, d.Allowed)

	now = now.Add(31 * time.Second)
	d, _ = l.Allow(context.Background(), "k")
	assert.True(t, d.Allowed)
}

type stubLimiter struct {
	d   Decision
	err error
}

func (s stubLimiter) Allow(context.Context, string) (Decision, error) {
	return s.d, s.err
}

func TestFallback(t *testing.T) {
	var fellBack error
	f := Fallback{
		Primary:    stubLimiter{err: ErrUnavailable},
		Secondary:  stubLimiter{d: Decision{Allowed: true, Limit: 5, Remaining: 4}},
		OnFallback: func(err error) { fellBack = err },
	}

	d, err := f.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.ErrorIs(t, fellBack, ErrUnavailable)

	other := errors.New("bad key")
	f.Primary = stubLimiter{err: other}
	_, err = f.Allow(context.Background(), "k")
	assert.ErrorIs(t, err, other)
}
