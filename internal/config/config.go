package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/nikhilpurwar/weather-dashboard/internal/weather"
)

// AppConfig holds everything the dashboard reads from the environment.
type AppConfig struct {
	Port string

	// HTTPTimeout bounds each outbound provider call so live-fetch failures
	// transition to fallback instead of hanging.
	HTTPTimeout time.Duration

	// CacheTTL is the response cache validity window.
	CacheTTL time.Duration

	// RefreshInterval controls how often polygon colors are recomputed in
	// the background (also drives lazy cache eviction).
	RefreshInterval time.Duration

	// EmptyWindowPolicy picks the aggregator's fallback when a time window
	// holds no valid samples.
	EmptyWindowPolicy weather.FallbackPolicy

	// SyntheticHours is the length of generated mock series.
	SyntheticHours int

	// OpenMeteoBaseURL overrides the provider endpoint (tests).
	OpenMeteoBaseURL string

	// StateFile optionally points at a persisted dashboard snapshot,
	// consumed read-only at startup.
	StateFile string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	cfg.Port = getenvDefault("PORT", "8080")
	cfg.OpenMeteoBaseURL = os.Getenv("OPEN_METEO_BASE_URL")
	cfg.StateFile = os.Getenv("STATE_FILE")
	cfg.SyntheticHours = getenvInt("SYNTHETIC_HOURS", 24)

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}

	switch policy := getenvDefault("EMPTY_WINDOW_POLICY", string(weather.FallbackFirstValid)); policy {
	case string(weather.FallbackFirstValid):
		cfg.EmptyWindowPolicy = weather.FallbackFirstValid
	case string(weather.FallbackZero):
		cfg.EmptyWindowPolicy = weather.FallbackZero
	default:
		return nil, fmt.Errorf("invalid EMPTY_WINDOW_POLICY %q (want %q or %q)",
			policy, weather.FallbackFirstValid, weather.FallbackZero)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
