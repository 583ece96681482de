package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-contact/config"
	_ "portfolio-contact/docs" // Important for Swagger
	v1 "portfolio-contact/internal/delivery/http/v1"
	"portfolio-contact/internal/repository/postgres"
	"portfolio-contact/internal/usecase"
	"portfolio-contact/pkg/auth"
	"portfolio-contact/pkg/database"
	"portfolio-contact/pkg/email"
	"portfolio-contact/pkg/logger"
	"portfolio-contact/pkg/metrics"
	"portfolio-contact/pkg/ratelimit"
	"portfolio-contact/pkg/redis"
	"portfolio-contact/pkg/security"
)

// @title           Portfolio Contact API
// @version         1.0
// @description     Contact form backend for the portfolio site.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting portfolio contact API", "port", cfg.Port)

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := database.EnsureSchema(ctx, dbPool); err != nil {
		logger.Log.Error("Failed to apply schema", "error", err)
		os.Exit(1)
	}

	// 4. Setup Metrics and the security audit log
	m := metrics.New()
	audit := security.NewProductionAuditLogger("portfolio-contact")
	defer func() { _ = audit.Sync() }()

	// 5. Setup Rate Limiting (Redis shared across instances, memory otherwise)
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	contactLimiter := ratelimit.Limiter(ratelimit.NewMemoryLimiter(cfg.RateLimitContactThreshold, window))
	globalLimiter := ratelimit.Limiter(ratelimit.NewMemoryLimiter(cfg.RateLimitGlobalThreshold, window))
	var cache usecase.Pinger

	redisClient, err := redis.NewClient(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
		logger.Log.Warn("Redis not configured - rate limiting is per instance")
	case err != nil:
		logger.Log.Warn("Redis unavailable - rate limiting is per instance", "error", err)
	default:
		defer redisClient.Close()
		cache = redis.HealthChecker{Client: redisClient}
		onFallback := func(err error) {
			m.LimiterFallback()
			logger.Log.Warn("Redis rate limiter failed, using memory", "error", err)
		}
		contactLimiter = ratelimit.Fallback{
			Primary:    ratelimit.NewRedisLimiter(redisClient, "rl:contact:", cfg.RateLimitContactThreshold, window),
			Secondary:  contactLimiter,
			OnFallback: onFallback,
		}
		globalLimiter = ratelimit.Fallback{
			Primary:    ratelimit.NewRedisLimiter(redisClient, "rl:ip:", cfg.RateLimitGlobalThreshold, window),
			Secondary:  globalLimiter,
			OnFallback: onFallback,
		}
	}

	// 6. Setup Repositories
	contactRepo := postgres.NewContactRepository(dbPool)

	// 7. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - messages are stored without notification")
	}

	// 8. Setup UseCases
	contactUC := usecase.NewContactUsecase(contactRepo, emailService, m)
	healthUC := usecase.NewHealthUsecase(contactRepo, cache, emailService)

	// 9. Setup Auth Provider (JWKS) for identity provider admin tokens
	var jwksProvider *auth.Provider
	if cfg.AdminJWKSURL != "" {
		jwksProvider = auth.NewProvider(cfg.AdminJWKSURL)
	}

	// 10. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:      contactUC,
		HealthUC:       healthUC,
		ContactLimiter: contactLimiter,
		GlobalLimiter:  globalLimiter,
		Metrics:        m,
		Audit:          audit,
		JWKSProvider:   jwksProvider,
		Config:         cfg,
	})

	// 11. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
