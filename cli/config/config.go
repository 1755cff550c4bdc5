package config

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pithecene-io/adbpush/bridge"
	"github.com/pithecene-io/adbpush/transfer"
)

// Built-in defaults.
const (
	DefaultDevicesTimeout = 10 * time.Second
	DefaultPushTimeout    = 10 * time.Minute
	DefaultNotifyTimeout  = 10 * time.Second
	DefaultNotifyRetries  = 3
	DefaultTheme          = "dark"
)

// Config represents an adbpush config.yaml file.
// Every value is optional; CLI flags override config values.
type Config struct {
	Bridge     BridgeConfig `yaml:"bridge"`
	RemoteRoot string       `yaml:"remote_root"`
	Target     string       `yaml:"target"`
	Theme      string       `yaml:"theme"`
	Log        LogConfig    `yaml:"log"`
	Notify     NotifyConfig `yaml:"notify"`
}

// BridgeConfig locates and bounds the device-bridge tool.
type BridgeConfig struct {
	Path           string   `yaml:"path"`
	DevicesTimeout Duration `yaml:"devices_timeout"`
	PushTimeout    Duration `yaml:"push_timeout"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `yaml:"level"`
	// File receives TUI logs. Empty discards them.
	File string `yaml:"file"`
}

// NotifyConfig selects a batch notification adapter.
type NotifyConfig struct {
	Type         string            `yaml:"type"` // "", webhook, redis
	URL          string            `yaml:"url"`
	Channel      string            `yaml:"channel,omitempty"`
	HistoryKey   string            `yaml:"history_key,omitempty"`
	HistoryLimit int               `yaml:"history_limit,omitempty"`
	Headers      map[string]string `yaml:"headers,omitempty"`
	Timeout      Duration          `yaml:"timeout,omitempty"`
	Retries      int               `yaml:"retries"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Bridge: BridgeConfig{
			Path:           bridge.DefaultPath,
			DevicesTimeout: Duration{DefaultDevicesTimeout},
			PushTimeout:    Duration{DefaultPushTimeout},
		},
		RemoteRoot: transfer.DefaultRemoteRoot,
		Theme:      DefaultTheme,
		Log:        LogConfig{Level: "info"},
		Notify: NotifyConfig{
			Timeout: Duration{DefaultNotifyTimeout},
			Retries: DefaultNotifyRetries,
		},
	}
}

// Validate checks enumerated and bounded fields.
func (c *Config) Validate() error {
	var errs []error
	switch c.Theme {
	case "dark", "light":
	default:
		errs = append(errs, fmt.Errorf("theme must be dark or light, got %q", c.Theme))
	}
	if c.Bridge.Path == "" {
		errs = append(errs, errors.New("bridge.path must not be empty"))
	}
	if c.Bridge.DevicesTimeout.Duration < 0 || c.Bridge.PushTimeout.Duration < 0 {
		errs = append(errs, errors.New("bridge timeouts must not be negative"))
	}
	switch c.Notify.Type {
	case "":
	case "webhook", "redis":
		if c.Notify.URL == "" {
			errs = append(errs, fmt.Errorf("notify.url is required for %s", c.Notify.Type))
		}
	default:
		errs = append(errs, fmt.Errorf("notify.type must be webhook or redis, got %q", c.Notify.Type))
	}
	if c.Notify.Retries < 0 {
		errs = append(errs, fmt.Errorf("notify.retries must be >= 0, got %d", c.Notify.Retries))
	}
	return errors.Join(errs...)
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
// An empty string leaves the current value in place.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML renders the duration in time.Duration string form.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}
