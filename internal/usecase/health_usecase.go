package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio-contact/internal/domain"
)

// ErrDatabaseDown is reported by the health check when the store is unreachable.
var ErrDatabaseDown = errors.New("database unreachable")

// Pinger is anything with a cheap liveness probe (redis client, repository).
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthUsecase struct {
	repo   domain.ContactRepository
	cache  Pinger
	mailer domain.ContactMailer
	now    func() time.Time
}

// NewHealthUsecase checks the database (required), redis (optional, may be
// nil) and reports whether mail is configured.
func NewHealthUsecase(repo domain.ContactRepository, cache Pinger, mailer domain.ContactMailer) domain.HealthUsecase {
	return &healthUsecase{repo: repo, cache: cache, mailer: mailer, now: time.Now}
}

func (u *healthUsecase) Check(ctx context.Context) (*domain.HealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := &domain.HealthStatus{
		Status:    "healthy",
		Timestamp: u.now().UTC().Format(time.RFC3339),
		Services: map[string]string{
			"database": "connected",
			"cache":    "in_memory",
			"email":    "not_configured",
		},
	}

	if u.mailer != nil && u.mailer.IsConfigured() {
		status.Services["email"] = "configured"
	}

	if u.cache != nil {
		if err := u.cache.Ping(ctx); err != nil {
			// Rate limiting falls back to memory, so this only degrades
			status.Services["cache"] = "unreachable"
			status.Status = "degraded"
		} else {
			status.Services["cache"] = "connected"
		}
	}

	if err := u.repo.Ping(ctx); err != nil {
		status.Services["database"] = "disconnected"
		status.Status = "unhealthy"
		return status, fmt.Errorf("%w: %v", ErrDatabaseDown, err)
	}
	return status, nil
}
