package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	Store            string
	DatabaseURL      string
	JWTSecret        string
	TokenTTL         time.Duration
	GeoIPDBPath      string
	CORSOrigins      []string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	XPAwardClose     int64
	RatingT1         int64
	RatingT2         int64
	RatingT3         int64
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		Store:            getEnv("STORE", "postgres"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		TokenTTL:         time.Hour * time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24)),
		GeoIPDBPath:      os.Getenv("GEOIP_DB_PATH"),
		CORSOrigins:      splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		XPAwardClose:     int64(getEnvInt("XP_AWARD_ISSUE_CLOSE", 50)),
		RatingT1:         int64(getEnvInt("RATING_T1", 100)),
		RatingT2:         int64(getEnvInt("RATING_T2", 500)),
		RatingT3:         int64(getEnvInt("RATING_T3", 1500)),
	}

	switch cfg.Store {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE=postgres")
		}
	case "memory":
	default:
		return nil, fmt.Errorf("STORE must be postgres or memory, got %q", cfg.Store)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
