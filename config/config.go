package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Price source names accepted in PRICE_SOURCES
const (
	SourceYahoo        = "yahoo"
	SourceChart        = "chart"
	SourceAlphaVantage = "alphavantage"
	SourceCSV          = "csv"
)

// MaxGapToleranceDays keeps a resolved trading day inside the month after the target
const MaxGapToleranceDays = 27

// Config holds application configuration loaded from environment variables.
// Every value is optional; the defaults reproduce the standard study.
type Config struct {
	OutputDir        string
	Sources          []string
	AVKey            string
	SeriesDir        string
	GapToleranceDays int
	LogLevel         log.Level
}

// Load reads configuration from a .env file (if present) and environment variables.
// Variables already set in the shell take precedence over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()

	tolerance, err := envInt("GAP_TOLERANCE_DAYS", 5)
	if err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(envStr("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		OutputDir:        envStr("OUTPUT_DIR", "."),
		Sources:          splitList(envStr("PRICE_SOURCES", SourceYahoo+","+SourceChart)),
		AVKey:            envStr("AV_KEY", ""),
		SeriesDir:        envStr("SERIES_DIR", "data"),
		GapToleranceDays: tolerance,
		LogLevel:         level,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the source chain and the tolerance range
func (c *Config) Validate() error {
	var errs []string

	if len(c.Sources) == 0 {
		errs = append(errs, "PRICE_SOURCES must name at least one source")
	}
	seen := make(map[string]bool)
	for _, s := range c.Sources {
		switch s {
		case SourceYahoo, SourceChart, SourceCSV:
		case SourceAlphaVantage:
			if c.AVKey == "" {
				errs = append(errs, "AV_KEY is required when alphavantage is a price source")
			}
		default:
			errs = append(errs, fmt.Sprintf("unknown price source %q", s))
		}
		if seen[s] {
			errs = append(errs, fmt.Sprintf("price source %q listed twice", s))
		}
		seen[s] = true
	}

	if c.GapToleranceDays < 0 || c.GapToleranceDays > MaxGapToleranceDays {
		errs = append(errs, fmt.Sprintf("GAP_TOLERANCE_DAYS must be between 0 and %d, got %d", MaxGapToleranceDays, c.GapToleranceDays))
	}
	if c.OutputDir == "" {
		errs = append(errs, "OUTPUT_DIR must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func envStr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := envStr(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
