package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort         = "8080"
	defaultDatabaseURL  = "tourbooking.db"
	defaultRedisURL     = "redis://localhost:6379/0"
	defaultJWTSecret    = "change-me-jwt-secret"
	defaultJWTAccessTTL = "15m"
)

type Config struct {
	AppEnv       string
	Port         string
	DatabaseURL  string
	RedisURL     string
	JWTSecret    string
	JWTAccessTTL time.Duration

	// Catalog and order services of the commerce platform.
	CatalogAPIURL   string
	CatalogAPIToken string
	OrderAPIURL     string
	OrderAPIToken   string
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = getEnv("PORT", defaultPort)
	cfg.DatabaseURL = getEnv("DATABASE_URL", defaultDatabaseURL)
	cfg.RedisURL = getEnv("REDIS_URL", defaultRedisURL)
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	cfg.CatalogAPIURL = strings.TrimRight(getEnv("CATALOG_API_URL", "http://localhost:9000"), "/")
	cfg.CatalogAPIToken = strings.TrimSpace(os.Getenv("CATALOG_API_TOKEN"))
	cfg.OrderAPIURL = strings.TrimRight(getEnv("ORDER_API_URL", cfg.CatalogAPIURL), "/")
	cfg.OrderAPIToken = strings.TrimSpace(getEnv("ORDER_API_TOKEN", cfg.CatalogAPIToken))

	var err error
	cfg.JWTAccessTTL, err = parseDurationEnv("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTAccessTTL <= 0 {
		return fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	if cfg.CatalogAPIURL == "" {
		return fmt.Errorf("CATALOG_API_URL must not be empty")
	}

	if isProdLike(cfg.AppEnv) {
		if isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
		if cfg.CatalogAPIToken == "" {
			return fmt.Errorf("in prod/release CATALOG_API_TOKEN must be set")
		}
	}

	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
