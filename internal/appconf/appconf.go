// Package appconf holds the application configuration: defaults, environment
// overrides (optionally from a .env file), and startup validation.
package appconf

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	Production  Environment = "production"
)

const (
	// DefaultUpstreamURL is the MAV OTP2 GraphQL endpoint of the reference
	// deployment.
	DefaultUpstreamURL = "https://emma.mav.hu/otp2-backend/otp/routers/default/index/graphql"

	DefaultRefreshInterval      = 60 * time.Second
	DefaultFetchTimeout         = 10 * time.Second
	DefaultCachePath            = "vehicle_positions.json"
	DefaultHeadingEpsilonMeters = 10.0
	DefaultPort                 = 4000
)

// Config holds all runtime settings. An invalid Config fails startup before
// the refresh scheduler is started.
type Config struct {
	Env  Environment `validate:"required,oneof=development test production"`
	Port int         `validate:"gt=0"`

	UpstreamURL     string        `validate:"required,url"`
	RefreshInterval time.Duration `validate:"min=1s"`
	FetchTimeout    time.Duration `validate:"min=1s"`

	// CachePath is the JSON mirror of the last successful raw response.
	CachePath string `validate:"required"`

	// HeadingEpsilonMeters is the minimum movement between two position
	// reports before the heading is recomputed; below it the previous
	// heading is carried forward to suppress noise-driven flips.
	HeadingEpsilonMeters float64 `validate:"gte=0"`
}

// Load builds a Config from defaults overridden by environment variables.
// A .env file in the working directory is honored when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:                  Environment(getenvDefault("ENV", string(Development))),
		Port:                 DefaultPort,
		UpstreamURL:          getenvDefault("UPSTREAM_URL", DefaultUpstreamURL),
		RefreshInterval:      DefaultRefreshInterval,
		FetchTimeout:         DefaultFetchTimeout,
		CachePath:            getenvDefault("CACHE_PATH", DefaultCachePath),
		HeadingEpsilonMeters: DefaultHeadingEpsilonMeters,
	}

	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PORT: %q", v)
		}
		cfg.Port = p
	}

	if v := os.Getenv("REFRESH_INTERVAL_SEC"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil || sec <= 0 {
			return Config{}, fmt.Errorf("invalid REFRESH_INTERVAL_SEC: %q", v)
		}
		cfg.RefreshInterval = time.Duration(sec) * time.Second
	}

	if v := os.Getenv("FETCH_TIMEOUT_SEC"); v != "" {
		sec, err := strconv.Atoi(v)
		if err != nil || sec <= 0 {
			return Config{}, fmt.Errorf("invalid FETCH_TIMEOUT_SEC: %q", v)
		}
		cfg.FetchTimeout = time.Duration(sec) * time.Second
	}

	if v := os.Getenv("HEADING_EPSILON_M"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return Config{}, fmt.Errorf("invalid HEADING_EPSILON_M: %q", v)
		}
		cfg.HeadingEpsilonMeters = f
	}

	return cfg, nil
}

// Validate checks the configuration, returning the first violation.
func (c Config) Validate() error {
	return validator.New().Struct(c)
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
