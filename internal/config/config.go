package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/careerwatch/internal/model"
)

// Config is the root configuration for the careerwatch aggregator.
type Config struct {
	PollingInterval time.Duration
	Relay           RelayConfig
	RateLimit       RateLimitConfig
	Aggregate       AggregateConfig
	Detect          DetectConfig
	Store           StoreConfig
	Notification    NotificationConfig
	Display         DisplayConfig
	Companies       []model.CompanyRow
}

// RelayConfig points at the external HTTP forwarding service.
type RelayConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RateLimitConfig paces outbound requests per vendor host.
type RateLimitConfig struct {
	RequestsPerSec float64
	Burst          int
}

// AggregateConfig controls the fetch loop and the recency window used for
// the "new" flag.
type AggregateConfig struct {
	Throttle time.Duration // delay between company fetches
	Window   time.Duration // recency window for IsNew
}

// DetectConfig tunes ATS detection. Empty slices select the package
// defaults.
type DetectConfig struct {
	Stopwords    []string `yaml:"stopwords"`
	WorkdayHosts []string `yaml:"workday_hosts"`
}

// StoreConfig controls seen-map persistence.
type StoreConfig struct {
	Path      string        // SQLite database path
	Retention time.Duration // prune entries older than this; 0 keeps forever
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// DisplayConfig filters what the fetch output shows. Display only: it never
// affects which companies are fetched.
type DisplayConfig struct {
	Keywords  []string `yaml:"keywords"`
	Sources   []string `yaml:"sources"`
	Companies []string `yaml:"companies"`
}

// rawConfig is used for YAML unmarshaling (snake_case fields and durations
// as strings).
type rawConfig struct {
	PollingInterval string             `yaml:"polling_interval"`
	Relay           rawRelayConfig     `yaml:"relay"`
	RateLimit       rawRateLimitConfig `yaml:"rate_limit"`
	Aggregate       rawAggregateConfig `yaml:"aggregate"`
	Detect          DetectConfig       `yaml:"detect"`
	Store           rawStoreConfig     `yaml:"store"`
	Notification    NotificationConfig `yaml:"notification"`
	Display         DisplayConfig      `yaml:"display"`
	Companies       []model.CompanyRow `yaml:"companies"`
}

type rawRelayConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

type rawRateLimitConfig struct {
	RequestsPerSec float64 `yaml:"requests_per_sec"`
	Burst          int     `yaml:"burst"`
}

type rawAggregateConfig struct {
	Throttle string `yaml:"throttle"`
	Window   string `yaml:"window"`
}

type rawStoreConfig struct {
	Path      string `yaml:"path"`
	Retention string `yaml:"retention"`
}

// Load reads and parses the YAML config file at path, validates it, and
// returns Config. Environment variables in the file are expanded first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := &Config{
		Relay: RelayConfig{
			BaseURL: raw.Relay.BaseURL,
			Timeout: 15 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSec: 4,
			Burst:          2,
		},
		Aggregate: AggregateConfig{
			Throttle: 150 * time.Millisecond,
			Window:   24 * time.Hour,
		},
		Detect: raw.Detect,
		Store: StoreConfig{
			Path: "careerwatch.db",
		},
		Notification:    raw.Notification,
		Display:         raw.Display,
		Companies:       raw.Companies,
		PollingInterval: 10 * time.Minute,
	}

	if raw.RateLimit.RequestsPerSec > 0 {
		cfg.RateLimit.RequestsPerSec = raw.RateLimit.RequestsPerSec
	}
	if raw.RateLimit.Burst > 0 {
		cfg.RateLimit.Burst = raw.RateLimit.Burst
	}
	if raw.Store.Path != "" {
		cfg.Store.Path = raw.Store.Path
	}

	durations := []struct {
		raw  string
		dst  *time.Duration
		name string
	}{
		{raw.PollingInterval, &cfg.PollingInterval, "polling_interval"},
		{raw.Relay.Timeout, &cfg.Relay.Timeout, "relay.timeout"},
		{raw.Aggregate.Throttle, &cfg.Aggregate.Throttle, "aggregate.throttle"},
		{raw.Aggregate.Window, &cfg.Aggregate.Window, "aggregate.window"},
		{raw.Store.Retention, &cfg.Store.Retention, "store.retention"},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return nil, fmt.Errorf("parse %s %q: %w", d.name, d.raw, err)
		}
		*d.dst = v
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Relay.BaseURL == "" {
		return fmt.Errorf("relay.base_url is required")
	}
	if cfg.PollingInterval <= 0 {
		return fmt.Errorf("polling_interval must be positive, got %v", cfg.PollingInterval)
	}
	if cfg.Aggregate.Window <= 0 {
		return fmt.Errorf("aggregate.window must be positive, got %v", cfg.Aggregate.Window)
	}
	if len(cfg.Companies) == 0 {
		return fmt.Errorf("at least one company must be configured")
	}
	for i, row := range cfg.Companies {
		if row.Company == "" {
			return fmt.Errorf("companies[%d]: company name is required", i)
		}
	}

	if cfg.Notification.Type == "slack" {
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
	}

	return nil
}

// Save writes the config back to path. Used by `detect --save` to persist
// resolved company identifiers. Comments in the original file are not
// preserved.
func (c *Config) Save(path string) error {
	raw := rawConfig{
		PollingInterval: c.PollingInterval.String(),
		Relay: rawRelayConfig{
			BaseURL: c.Relay.BaseURL,
			Timeout: c.Relay.Timeout.String(),
		},
		RateLimit: rawRateLimitConfig{
			RequestsPerSec: c.RateLimit.RequestsPerSec,
			Burst:          c.RateLimit.Burst,
		},
		Aggregate: rawAggregateConfig{
			Throttle: c.Aggregate.Throttle.String(),
			Window:   c.Aggregate.Window.String(),
		},
		Detect:       c.Detect,
		Notification: c.Notification,
		Display:      c.Display,
		Companies:    c.Companies,
	}
	raw.Store.Path = c.Store.Path
	if c.Store.Retention > 0 {
		raw.Store.Retention = c.Store.Retention.String()
	}

	data, err := yaml.Marshal(&raw)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
