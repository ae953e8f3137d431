package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Fetch     FetchConfig
	Probe     ProbeConfig
	Engine    EngineConfig
	Browser   BrowserConfig
	Monitor   MonitorConfig
	Store     StoreConfig
	Cache     CacheConfig
	Webhook   WebhookConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// FetchConfig controls page fetches for previews and detail pages.
type FetchConfig struct {
	// Timeout bounds one page fetch.
	Timeout time.Duration // default: 15s

	// MaxRedirects is the redirect ceiling per fetch.
	MaxRedirects int // default: 5

	// MaxBodyBytes caps how much of a response body is read.
	MaxBodyBytes int64 // default: 10 MiB

	// Proxy is an optional http(s) proxy URL for outbound requests.
	Proxy string

	// UserAgent overrides the desktop Chrome user agent.
	UserAgent string
}

// ProbeConfig controls link health probes.
type ProbeConfig struct {
	Timeout      time.Duration // default: 10s
	MaxRedirects int           // default: 5
}

// EngineConfig controls the fetch dispatcher.
type EngineConfig struct {
	// EscalationDelays is the staged start delay for each engine tier
	// (http, rod, rod-stealth). Only used when the browser is enabled.
	EscalationDelays []time.Duration // default: [0s, 3s, 8s]

	// MemoryTTL is how long the winning engine is remembered per host.
	MemoryTTL time.Duration // default: 24h
}

// BrowserConfig controls the optional headless browser engine.
type BrowserConfig struct {
	// Enabled adds the rod engines to the dispatcher.
	Enabled bool // default: false

	Headless  bool   // default: true
	NoSandbox bool   // default: false
	Bin       string // overrides the Chromium binary path

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 4

	// BlockedResourceTypes lists resource types to block while rendering.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string

	// BlockAds drops requests to known ad and tracking hosts.
	BlockAds bool // default: true
}

// MonitorConfig controls bulk link checks over tracked sources.
type MonitorConfig struct {
	// BatchSize caps how many sources one run checks.
	BatchSize int // default: 10

	// Concurrency caps how many probes run at once.
	Concurrency int // default: 1

	// StaleAfter is the age after which a checked source is due again.
	StaleAfter time.Duration // default: 24h

	// Interval schedules periodic runs inside "serve". Zero disables.
	Interval time.Duration // default: 0
}

// StoreConfig controls the tracked source database.
type StoreConfig struct {
	Path string // default: "mediascout.db"
}

// CacheConfig controls the preview cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached previews.
	MaxEntries int // default: 500

	// TTL is the hard expiry applied by the background sweeper.
	TTL time.Duration // default: 1h
}

// WebhookConfig controls source health-change notifications.
type WebhookConfig struct {
	URL    string
	Secret string

	// DrainTimeout bounds how long a command waits for pending deliveries
	// and their retries before exiting.
	DrainTimeout time.Duration // default: 45s
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per API key.
	Burst int // default: 5
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"

	// File enables a rotating log file in addition to stderr.
	File       string
	MaxSizeMB  int  // default: 50
	MaxBackups int  // default: 5
	MaxAgeDays int  // default: 28
	Compress   bool // default: true
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("MEDIASCOUT_HOST", "0.0.0.0"),
			Port: envIntOr("MEDIASCOUT_PORT", 8080),
			Mode: envOr("MEDIASCOUT_MODE", "release"),
		},
		Fetch: FetchConfig{
			Timeout:      envDurationOr("MEDIASCOUT_FETCH_TIMEOUT", 15*time.Second),
			MaxRedirects: envIntOr("MEDIASCOUT_FETCH_MAX_REDIRECTS", 5),
			MaxBodyBytes: int64(envIntOr("MEDIASCOUT_FETCH_MAX_BODY", 10<<20)),
			Proxy:        os.Getenv("MEDIASCOUT_PROXY"),
			UserAgent:    os.Getenv("MEDIASCOUT_USER_AGENT"),
		},
		Probe: ProbeConfig{
			Timeout:      envDurationOr("MEDIASCOUT_PROBE_TIMEOUT", 10*time.Second),
			MaxRedirects: envIntOr("MEDIASCOUT_PROBE_MAX_REDIRECTS", 5),
		},
		Engine: EngineConfig{
			EscalationDelays: envDurationSliceOr("MEDIASCOUT_ESCALATION_DELAYS", []time.Duration{0, 3 * time.Second, 8 * time.Second}),
			MemoryTTL:        envDurationOr("MEDIASCOUT_ENGINE_MEMORY_TTL", 24*time.Hour),
		},
		Browser: BrowserConfig{
			Enabled:   envBoolOr("MEDIASCOUT_BROWSER_ENABLED", false),
			Headless:  envBoolOr("MEDIASCOUT_HEADLESS", true),
			NoSandbox: envBoolOr("MEDIASCOUT_NO_SANDBOX", false),
			Bin:       os.Getenv("MEDIASCOUT_BROWSER_BIN"),
			MaxPages:  envIntOr("MEDIASCOUT_MAX_PAGES", 4),
			BlockedResourceTypes: envSliceOr("MEDIASCOUT_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
			BlockAds: envBoolOr("MEDIASCOUT_BLOCK_ADS", true),
		},
		Monitor: MonitorConfig{
			BatchSize:   envIntOr("MEDIASCOUT_CHECK_BATCH", 10),
			Concurrency: envIntOr("MEDIASCOUT_CHECK_CONCURRENCY", 1),
			StaleAfter:  envDurationOr("MEDIASCOUT_CHECK_STALE_AFTER", 24*time.Hour),
			Interval:    envDurationOr("MEDIASCOUT_CHECK_INTERVAL", 0),
		},
		Store: StoreConfig{
			Path: envOr("MEDIASCOUT_DB", "mediascout.db"),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("MEDIASCOUT_CACHE_MAX_ENTRIES", 500),
			TTL:        envDurationOr("MEDIASCOUT_CACHE_TTL", time.Hour),
		},
		Webhook: WebhookConfig{
			URL:          os.Getenv("MEDIASCOUT_WEBHOOK_URL"),
			Secret:       os.Getenv("MEDIASCOUT_WEBHOOK_SECRET"),
			DrainTimeout: envDurationOr("MEDIASCOUT_WEBHOOK_DRAIN_TIMEOUT", 45*time.Second),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("MEDIASCOUT_AUTH_ENABLED", true),
			APIKeys: envSliceOr("MEDIASCOUT_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("MEDIASCOUT_RATE_RPS", 2.0),
			Burst:             envIntOr("MEDIASCOUT_RATE_BURST", 5),
		},
		Log: LogConfig{
			Level:      envOr("MEDIASCOUT_LOG_LEVEL", "info"),
			Format:     envOr("MEDIASCOUT_LOG_FORMAT", "json"),
			File:       os.Getenv("MEDIASCOUT_LOG_FILE"),
			MaxSizeMB:  envIntOr("MEDIASCOUT_LOG_MAX_SIZE_MB", 50),
			MaxBackups: envIntOr("MEDIASCOUT_LOG_MAX_BACKUPS", 5),
			MaxAgeDays: envIntOr("MEDIASCOUT_LOG_MAX_AGE_DAYS", 28),
			Compress:   envBoolOr("MEDIASCOUT_LOG_COMPRESS", true),
		},
	}
}

// Validate reports settings that would make an operation impossible.
func (c *Config) Validate() error {
	var errs []error
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch timeout must be positive, got %s", c.Fetch.Timeout))
	}
	if c.Probe.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("probe timeout must be positive, got %s", c.Probe.Timeout))
	}
	if c.Fetch.MaxRedirects < 0 || c.Probe.MaxRedirects < 0 {
		errs = append(errs, errors.New("redirect ceilings must not be negative"))
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("max body must be positive, got %d", c.Fetch.MaxBodyBytes))
	}
	if c.Monitor.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("check batch size must be at least 1, got %d", c.Monitor.BatchSize))
	}
	if c.Monitor.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("check concurrency must be at least 1, got %d", c.Monitor.Concurrency))
	}
	if c.Monitor.Interval < 0 {
		errs = append(errs, fmt.Errorf("check interval must not be negative, got %s", c.Monitor.Interval))
	}
	if c.Browser.Enabled && c.Browser.MaxPages < 1 {
		errs = append(errs, fmt.Errorf("browser max pages must be at least 1, got %d", c.Browser.MaxPages))
	}
	return errors.Join(errs...)
}

func envDurationSliceOr(key string, fallback []time.Duration) []time.Duration {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]time.Duration, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				if d, err := time.ParseDuration(trimmed); err == nil {
					result = append(result, d)
				}
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
