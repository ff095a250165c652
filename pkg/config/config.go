package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	Environment        string
	ServerPort         int
	LogLevel           string
	DatabaseURL        string // empty selects the in-memory store
	RedisURL           string // empty selects the in-process stats cache
	NATSURL            string // empty disables event publishing
	OTLPEndpoint       string
	JWTSecret          string
	TokenTTL           time.Duration
	RateLimitPerMinute int
	StatsCacheTTL      time.Duration
	SeedOnStart        bool
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	rateLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "120"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}
	if rateLimit <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: must be positive")
	}

	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "12h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}

	statsTTL, err := time.ParseDuration(getEnv("STATS_CACHE_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATS_CACHE_TTL: %w", err)
	}

	seed, err := strconv.ParseBool(getEnv("SEED_ON_START", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_ON_START: %w", err)
	}

	environment := getEnv("ENVIRONMENT", "development")
	secret := os.Getenv("JWT_SECRET")
	if secret == "" && environment == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}

	return &Config{
		Environment:        environment,
		ServerPort:         port,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		NATSURL:            os.Getenv("NATS_URL"),
		OTLPEndpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		JWTSecret:          secret,
		TokenTTL:           tokenTTL,
		RateLimitPerMinute: rateLimit,
		StatsCacheTTL:      statsTTL,
		SeedOnStart:        seed,
		CORSAllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
