package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseURL string

	// JWT
	JWTSecret          string
	JWTExpirationHours int

	// Storage
	StoragePath string

	// Background Workers
	WorkerCount int

	// CORS
	AllowedOrigins []string

	// Proxies whose forwarding headers gin honours; empty trusts none
	TrustedProxies []string

	// Sentry
	SentryDSN string

	// Logging
	LogFile string

	// Rate limiting (requests per minute per client IP)
	RateLimitPerMinute      int
	LoginRateLimitPerMinute int

	// Customer that inherits samples of deleted customers
	DefaultCustomerID uint

	// Audit log retention; 0 disables the scheduled purge
	AuditRetentionDays int
	AuditRetentionCron string

	// DDNS sync; empty URL disables the job
	DDNSUpdateURL       string
	DDNSIntervalMinutes int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Environment:             getEnv("ENVIRONMENT", "development"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		JWTExpirationHours:      getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		StoragePath:             getEnv("STORAGE_PATH", "./storage"),
		WorkerCount:             getEnvAsInt("WORKER_COUNT", 5),
		AllowedOrigins:          getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		TrustedProxies:          getEnvAsSlice("TRUSTED_PROXIES", nil),
		SentryDSN:               getEnv("SENTRY_DSN", ""),
		LogFile:                 getEnv("LOG_FILE", ""),
		RateLimitPerMinute:      getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
		LoginRateLimitPerMinute: getEnvAsInt("LOGIN_RATE_LIMIT_PER_MINUTE", 10),
		DefaultCustomerID:       uint(getEnvAsInt("DEFAULT_CUSTOMER_ID", 2)),
		AuditRetentionDays:      getEnvAsInt("AUDIT_RETENTION_DAYS", 0),
		AuditRetentionCron:      getEnv("AUDIT_RETENTION_CRON", "0 3 * * *"),
		DDNSUpdateURL:           getEnv("DDNS_UPDATE_URL", ""),
		DDNSIntervalMinutes:     getEnvAsInt("DDNS_INTERVAL_MINUTES", 60),
	}

	// Validate required configuration
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" && cfg.Environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	// Set default JWT secret for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret-change-in-production"
	}

	if cfg.DDNSIntervalMinutes <= 0 {
		return nil, fmt.Errorf("DDNS_INTERVAL_MINUTES must be positive")
	}

	return cfg, nil
}

// TokenTTL is the lifetime of an issued session token
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpirationHours) * time.Hour
}

// DDNSInterval is the period between DDNS sync runs
func (c *Config) DDNSInterval() time.Duration {
	return time.Duration(c.DDNSIntervalMinutes) * time.Minute
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
