// Package config defines the process configuration and its loading rules.
// Configuration is read once at startup and treated as immutable afterwards;
// pipeline components receive it by reference and never mutate it.
package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// WebhookURL is the Discord webhook endpoint. Required; startup aborts
	// without it.
	WebhookURL string `koanf:"webhook_url" yaml:"webhook_url"`

	// FeedURL is the weekly economic-calendar XML feed.
	FeedURL string `koanf:"feed_url" yaml:"feed_url"`

	// MaxUpcoming caps how many upcoming events are rendered before the
	// "+N more" marker.
	MaxUpcoming int `koanf:"max_upcoming" yaml:"max_upcoming"`

	// MinImpact filters events by impact label: "high", "medium", "low",
	// or "all" (no filtering). Values are not validated; an unknown level
	// simply matches nothing.
	MinImpact string `koanf:"min_impact" yaml:"min_impact"`

	// Currencies is a comma-separated allow-list (e.g. "USD,EUR"). Empty
	// means all currencies pass.
	Currencies string `koanf:"currencies" yaml:"currencies"`

	// Timezone is the IANA display timezone used for bucketing and
	// rendering (e.g. "Asia/Jakarta").
	Timezone string `koanf:"timezone" yaml:"timezone"`

	// Username is the bot display name on the webhook.
	Username string `koanf:"username" yaml:"username"`

	// EmbedTitle is the headline of the posted embed.
	EmbedTitle string `koanf:"embed_title" yaml:"embed_title"`

	// ServerName is the label shown in the embed footer.
	ServerName string `koanf:"server_name" yaml:"server_name"`

	// ScheduleHour / ScheduleMinute set the daily trigger wall-clock time
	// in the display timezone.
	ScheduleHour   int `koanf:"schedule_hour" yaml:"schedule_hour"`
	ScheduleMinute int `koanf:"schedule_minute" yaml:"schedule_minute"`

	// MaxRetries bounds fetch attempts for retryable failures.
	MaxRetries int `koanf:"max_retries" yaml:"max_retries"`

	// PrefetchDelaySeconds is an unconditional idle wait before each fetch.
	PrefetchDelaySeconds int `koanf:"prefetch_delay_seconds" yaml:"prefetch_delay_seconds"`

	// HTTPTimeoutSeconds bounds each outbound HTTP request.
	HTTPTimeoutSeconds int `koanf:"http_timeout_seconds" yaml:"http_timeout_seconds"`

	// EmbedColor is the embed accent color as hex without 0x (e.g. "FF4500").
	EmbedColor string `koanf:"embed_color" yaml:"embed_color"`

	// MaxTitleLength truncates event titles beyond this many characters.
	MaxTitleLength int `koanf:"max_title_length" yaml:"max_title_length"`

	// UserAgent is sent on feed requests; the upstream rejects default
	// library agents.
	UserAgent string `koanf:"user_agent" yaml:"user_agent"`

	// LogLevel controls verbosity: debug, info, error.
	LogLevel string `koanf:"log_level" yaml:"log_level"`

	// Listen, if non-empty, enables the status HTTP server
	// (/health, /metrics, /api/last-run) on this address.
	Listen string `koanf:"listen" yaml:"listen"`
}

const defaultFeedURL = "https://nfs.faireconomy.media/ff_calendar_thisweek.xml"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// DefaultConfig returns an in-memory default configuration. WebhookURL has
// no default; it must come from the environment or a config file.
func DefaultConfig() *Config {
	return &Config{
		FeedURL:              defaultFeedURL,
		MaxUpcoming:          5,
		MinImpact:            "all",
		Currencies:           "",
		Timezone:             "Asia/Jakarta",
		Username:             "Forex Notifier",
		EmbedTitle:           "Forex Alerts",
		ServerName:           "Forex News",
		ScheduleHour:         7,
		ScheduleMinute:       0,
		MaxRetries:           3,
		PrefetchDelaySeconds: 5,
		HTTPTimeoutSeconds:   10,
		EmbedColor:           "FF4500",
		MaxTitleLength:       30,
		UserAgent:            defaultUserAgent,
		LogLevel:             "info",
		Listen:               "",
	}
}

// Normalize fills in missing/zero values with defaults so that partially
// filled configs still behave correctly.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.FeedURL == "" {
		c.FeedURL = d.FeedURL
	}
	if c.MaxUpcoming <= 0 {
		c.MaxUpcoming = d.MaxUpcoming
	}
	if c.MinImpact == "" {
		c.MinImpact = d.MinImpact
	}
	c.MinImpact = strings.ToLower(c.MinImpact)
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
	if c.Username == "" {
		c.Username = d.Username
	}
	if c.EmbedTitle == "" {
		c.EmbedTitle = d.EmbedTitle
	}
	if c.ServerName == "" {
		c.ServerName = d.ServerName
	}
	if c.ScheduleHour < 0 || c.ScheduleHour > 23 {
		c.ScheduleHour = d.ScheduleHour
	}
	if c.ScheduleMinute < 0 || c.ScheduleMinute > 59 {
		c.ScheduleMinute = d.ScheduleMinute
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = d.MaxRetries
	}
	if c.PrefetchDelaySeconds < 0 {
		c.PrefetchDelaySeconds = d.PrefetchDelaySeconds
	}
	if c.HTTPTimeoutSeconds <= 0 {
		c.HTTPTimeoutSeconds = d.HTTPTimeoutSeconds
	}
	if c.EmbedColor == "" {
		c.EmbedColor = d.EmbedColor
	}
	if c.MaxTitleLength <= 0 {
		c.MaxTitleLength = d.MaxTitleLength
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

// Validate checks invariants that cannot be defaulted away.
func (c *Config) Validate() error {
	if c.WebhookURL == "" {
		return errors.New("webhook_url must be set (FXNOTIFY_WEBHOOK_URL)")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return err
	}
	return nil
}

// Location resolves the configured display timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// CurrencyList parses the comma-separated currency filter into an uppercase
// slice, dropping empty entries. Nil means no currency filtering.
func (c *Config) CurrencyList() []string {
	if strings.TrimSpace(c.Currencies) == "" {
		return nil
	}
	parts := strings.Split(c.Currencies, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ColorValue parses EmbedColor as hex (without 0x). Falls back to the
// default accent color on a malformed value.
func (c *Config) ColorValue() int {
	v, err := strconv.ParseInt(strings.TrimPrefix(c.EmbedColor, "0x"), 16, 32)
	if err != nil {
		v, _ = strconv.ParseInt(DefaultConfig().EmbedColor, 16, 32)
	}
	return int(v)
}

// HTTPTimeout returns the per-request timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// PrefetchDelay returns the pre-fetch idle wait as a duration.
func (c *Config) PrefetchDelay() time.Duration {
	return time.Duration(c.PrefetchDelaySeconds) * time.Second
}

// DumpYAML renders the effective configuration as YAML, for the
// -dump-config flag.
func (c *Config) DumpYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
