package config

import (
	"errors"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingBackendURL is returned by LoadClientConfig when no backend base URL
// is configured. It is a startup error, never a per-submission one.
var ErrMissingBackendURL = errors.New("config: BACKEND_URL is not configured")

type Config struct {
	Port     string
	DBUrl    string
	LogLevel string
	// Comma separated list; empty means any origin
	AllowedOrigins []string
	// SMTP Configuration
	SMTPHost       string
	SMTPPort       string
	SMTPUsername   string
	SMTPPassword   string
	SMTPFromEmail  string
	ContactEmailTo string
	OwnerName      string // Signs the confirmation mail
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds    int
	RateLimitContactThreshold int
	RateLimitGlobalThreshold  int
	// Admin endpoints (message listing)
	AdminJWTSecret string
	AdminJWKSURL   string // RS256 admin tokens from an identity provider
	// Security Configuration
	SecurityHeaders bool
}

// ClientConfig holds what the contact form front-end needs to reach the backend.
type ClientConfig struct {
	BackendURL    string
	SubmitTimeout time.Duration
	LogLevel      string
}

func LoadConfig() (*Config, error) {
	// Only effective locally, a missing .env is fine in production
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DBUrl:          getEnv("DATABASE_URL", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
		// SMTP Configuration
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUsername:   getEnv("SMTP_USERNAME", getEnv("SMTP_USER", "")),
		SMTPPassword:   getEnv("SMTP_PASSWORD", getEnv("SMTP_PASS", "")),
		SMTPFromEmail:  getEnv("SMTP_FROM_EMAIL", ""),
		ContactEmailTo: getEnv("CONTACT_EMAIL_TO", getEnv("CONTACT_EMAIL", "")),
		OwnerName:      getEnv("OWNER_NAME", "Portfolio Owner"),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate Limiting Configuration
		RateLimitWindowSeconds:    getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 3600), // 1 hour window
		RateLimitContactThreshold: getEnvInt("RATE_LIMIT_CONTACT_THRESHOLD", 5), // 5 messages per window
		RateLimitGlobalThreshold:  getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		AdminJWTSecret:            getEnv("ADMIN_JWT_SECRET", ""),
		AdminJWKSURL:              getEnv("ADMIN_JWKS_URL", ""),
		SecurityHeaders:           getEnvBool("SECURITY_HEADERS", true),
	}

	if cfg.SMTPFromEmail == "" {
		cfg.SMTPFromEmail = cfg.SMTPUsername
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Contact messages cannot be stored.")
	}
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}
	if cfg.AdminJWTSecret == "" && cfg.AdminJWKSURL == "" {
		log.Println("WARNING: ADMIN_JWT_SECRET/ADMIN_JWKS_URL not configured. Message listing is disabled.")
	}

	return cfg, nil
}

// LoadClientConfig reads the contact form settings. The backend base URL is
// mandatory and must be absolute.
func LoadClientConfig() (*ClientConfig, error) {
	_ = godotenv.Load()

	raw := strings.TrimSpace(getEnv("BACKEND_URL", getEnv("REACT_APP_BACKEND_URL", "")))
	if raw == "" {
		return nil, ErrMissingBackendURL
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New("config: BACKEND_URL must be an absolute http(s) URL")
	}

	return &ClientConfig{
		// Strip trailing slash so "{base}/api/contact" never doubles up
		BackendURL:    strings.TrimRight(raw, "/"),
		SubmitTimeout: time.Duration(getEnvInt("SUBMIT_TIMEOUT_SECONDS", 30)) * time.Second,
		LogLevel:      getEnv("LOG_LEVEL", "warn"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimRight(strings.TrimSpace(part), "/"); p != "" {
			out = append(out, p)
		}
	}
	return out
}
