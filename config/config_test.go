package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 15*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 5, cfg.Fetch.MaxRedirects)
	assert.Equal(t, 10*time.Second, cfg.Probe.Timeout)
	assert.Equal(t, 5, cfg.Probe.MaxRedirects)
	assert.Equal(t, 10, cfg.Monitor.BatchSize)
	assert.Equal(t, 1, cfg.Monitor.Concurrency)
	assert.Equal(t, 24*time.Hour, cfg.Monitor.StaleAfter)
	assert.False(t, cfg.Browser.Enabled)
	assert.Equal(t, 45*time.Second, cfg.Webhook.DrainTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MEDIASCOUT_FETCH_TIMEOUT", "3s")
	t.Setenv("MEDIASCOUT_CHECK_CONCURRENCY", "4")
	t.Setenv("MEDIASCOUT_API_KEYS", "alpha, beta ,,gamma")
	t.Setenv("MEDIASCOUT_ESCALATION_DELAYS", "0s,1s,bogus,2s")
	t.Setenv("MEDIASCOUT_BROWSER_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, 3*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 4, cfg.Monitor.Concurrency)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, cfg.Auth.APIKeys)
	assert.Equal(t, []time.Duration{0, time.Second, 2 * time.Second}, cfg.Engine.EscalationDelays)
	assert.True(t, cfg.Browser.Enabled)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MEDIASCOUT_PORT", "eighty")
	t.Setenv("MEDIASCOUT_PROBE_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Probe.Timeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero fetch timeout", func(c *Config) { c.Fetch.Timeout = 0 }},
		{"negative redirects", func(c *Config) { c.Probe.MaxRedirects = -1 }},
		{"empty batch", func(c *Config) { c.Monitor.BatchSize = 0 }},
		{"zero concurrency", func(c *Config) { c.Monitor.Concurrency = 0 }},
		{"browser without pages", func(c *Config) {
			c.Browser.Enabled = true
			c.Browser.MaxPages = 0
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
