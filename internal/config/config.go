package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Defaults applied by the getters when a value is missing or invalid.
const (
	DefaultPollInterval    = time.Second
	DefaultSkipInterval    = 10 * time.Second
	DefaultControlsTimeout = 5 * time.Second
	DefaultScrubRate       = 8.0
	DefaultLogLevel        = "info"
	DefaultIconStyle       = "unicode"
)

type Config struct {
	Icons    string         `koanf:"icons"` // "nerd", "unicode", or "none"
	Playback PlaybackConfig `koanf:"playback"`
	Log      LogConfig      `koanf:"log"`
	State    StateConfig    `koanf:"state"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	MPRIS    MPRISConfig    `koanf:"mpris"`
	Notify   NotifyConfig   `koanf:"notify"`
}

// PlaybackConfig holds player behavior settings.
type PlaybackConfig struct {
	AudioLanguage    string  `koanf:"audio_language"`    // preferred audio language, e.g. "en"
	SubtitleLanguage string  `koanf:"subtitle_language"` // empty keeps subtitles off
	PollInterval     string  `koanf:"poll_interval"`     // progress poll period (default: "1s")
	SkipInterval     string  `koanf:"skip_interval"`     // left/right skip amount (default: "10s")
	Suspended        bool    `koanf:"suspended"`         // start with playback suspended by policy
	DismissOnEnd     bool    `koanf:"dismiss_on_end"`    // quit when the stream ends
	ControlsTimeout  string  `koanf:"controls_timeout"`  // hide controls after inactivity (default: "5s")
	ScrubRate        float64 `koanf:"scrub_rate"`        // continuous seeks per second (default: 8)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `koanf:"level"` // "debug", "info", "warn" or "error"
	File  string `koanf:"file"`  // empty means the XDG state directory
}

// StateConfig holds persistence configuration.
type StateConfig struct {
	DBPath string `koanf:"db_path"` // empty means the XDG data directory
}

// MetricsConfig holds the Prometheus endpoint configuration.
type MetricsConfig struct {
	Addr string `koanf:"addr"` // e.g. "localhost:9464", empty disables the endpoint
}

// MPRISConfig holds desktop media control configuration.
type MPRISConfig struct {
	Enabled *bool `koanf:"enabled"` // default: true
}

// NotifyConfig holds desktop notification configuration.
type NotifyConfig struct {
	Enabled bool `koanf:"enabled"` // notify on failures and finished streams
}

// Load reads the default config files. Missing files are skipped.
func Load() (*Config, error) {
	return load(getConfigPaths(), false)
}

// LoadFile reads a single explicit config file, which must exist.
func LoadFile(path string) (*Config, error) {
	return load([]string{expandPath(path)}, true)
}

func load(paths []string, required bool) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if required {
				return nil, fmt.Errorf("config file %s: %w", path, err)
			}
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Playback.AudioLanguage = strings.TrimSpace(cfg.Playback.AudioLanguage)
	cfg.Playback.SubtitleLanguage = strings.TrimSpace(cfg.Playback.SubtitleLanguage)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))

	// Expand ~ in file paths
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}
	if cfg.State.DBPath != "" {
		cfg.State.DBPath = expandPath(cfg.State.DBPath)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/demoplayer/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "demoplayer", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// PollInterval returns the progress poll period.
func (c *Config) PollInterval() time.Duration {
	return parseDuration(c.Playback.PollInterval, DefaultPollInterval)
}

// SkipInterval returns how far left/right skips move.
func (c *Config) SkipInterval() time.Duration {
	return parseDuration(c.Playback.SkipInterval, DefaultSkipInterval)
}

// ControlsTimeout returns how long the controls stay visible without input.
func (c *Config) ControlsTimeout() time.Duration {
	return parseDuration(c.Playback.ControlsTimeout, DefaultControlsTimeout)
}

// ScrubRate returns the maximum number of continuous seeks per second.
func (c *Config) ScrubRate() float64 {
	if c.Playback.ScrubRate <= 0 {
		return DefaultScrubRate
	}
	return c.Playback.ScrubRate
}

// LogLevel returns the configured log level, or DefaultLogLevel if unset or unknown.
func (c *Config) LogLevel() string {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
		return c.Log.Level
	default:
		return DefaultLogLevel
	}
}

// IconStyle returns the configured icon set, or DefaultIconStyle.
func (c *Config) IconStyle() string {
	switch c.Icons {
	case "nerd", "unicode", "none":
		return c.Icons
	default:
		return DefaultIconStyle
	}
}

// MPRISEnabled returns true unless MPRIS was explicitly disabled.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS.Enabled == nil || *c.MPRIS.Enabled
}

// HasMetrics returns true if the metrics endpoint is configured.
func (c *Config) HasMetrics() bool {
	return c.Metrics.Addr != ""
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
