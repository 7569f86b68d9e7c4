package appconf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Env:                  Test,
		Port:                 4000,
		UpstreamURL:          DefaultUpstreamURL,
		RefreshInterval:      time.Minute,
		FetchTimeout:         10 * time.Second,
		CachePath:            "vehicle_positions.json",
		HeadingEpsilonMeters: 10,
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultUpstreamURL, cfg.UpstreamURL)
	assert.Equal(t, DefaultRefreshInterval, cfg.RefreshInterval)
	assert.Equal(t, DefaultFetchTimeout, cfg.FetchTimeout)
	assert.Equal(t, DefaultCachePath, cfg.CachePath)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("UPSTREAM_URL", "https://example.com/graphql")
	t.Setenv("REFRESH_INTERVAL_SEC", "30")
	t.Setenv("PORT", "8080")
	t.Setenv("HEADING_EPSILON_M", "25.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/graphql", cfg.UpstreamURL)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 25.5, cfg.HeadingEpsilonMeters)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non-numeric interval", key: "REFRESH_INTERVAL_SEC", value: "soon"},
		{name: "zero interval", key: "REFRESH_INTERVAL_SEC", value: "0"},
		{name: "negative epsilon", key: "HEADING_EPSILON_M", value: "-1"},
		{name: "bad port", key: "PORT", value: "eighty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidateRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "bad endpoint", mutate: func(c *Config) { c.UpstreamURL = "not a url" }},
		{name: "missing endpoint", mutate: func(c *Config) { c.UpstreamURL = "" }},
		{name: "sub-second interval", mutate: func(c *Config) { c.RefreshInterval = 100 * time.Millisecond }},
		{name: "zero port", mutate: func(c *Config) { c.Port = 0 }},
		{name: "unknown env", mutate: func(c *Config) { c.Env = "staging" }},
		{name: "no cache path", mutate: func(c *Config) { c.CachePath = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
