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
	DatabaseURL      string
	AdminToken       string
	ReportTimezone   string
	HouseAccounts    []string
	CORSOrigins      []string
	VIPRankThreshold int
	LeaderboardLimit int
	IngestMaxErrors  int
	RateLimitPerMin  int
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		AdminToken:       os.Getenv("ADMIN_TOKEN"),
		ReportTimezone:   getEnv("REPORT_TIMEZONE", "Asia/Seoul"),
		HouseAccounts:    getEnvList("HOUSE_ACCOUNT_PATTERNS", []string{"RG_family", "대표BJ"}),
		CORSOrigins:      getEnvList("CORS_ALLOWED_ORIGINS", nil),
		VIPRankThreshold: getEnvInt("VIP_RANK_THRESHOLD", 50),
		LeaderboardLimit: getEnvInt("LEADERBOARD_LIMIT", 50),
		IngestMaxErrors:  getEnvInt("INGEST_MAX_ERRORS", 100),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.VIPRankThreshold <= 0 {
		return nil, fmt.Errorf("VIP_RANK_THRESHOLD must be positive")
	}

	if cfg.LeaderboardLimit <= 0 {
		return nil, fmt.Errorf("LEADERBOARD_LIMIT must be positive")
	}

	return cfg, nil
}

// ReportLocation resolves the configured reporting timezone. Spreadsheet
// exports carry local timestamps without an offset, so every calendar-day
// comparison has to happen in this zone.
func (c *Config) ReportLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("load report timezone %q: %w", c.ReportTimezone, err)
	}
	return loc, nil
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

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
