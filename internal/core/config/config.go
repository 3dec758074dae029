package config

import (
	"strings"
	"time"
)

// CheckSettings controls one check. A nil Enabled means the check
// keeps its default (on).
type CheckSettings struct {
	Enabled  *bool             `toml:"enabled"`
	Severity string            `toml:"severity"`
	Options  map[string]string `toml:"options"`
}

type WatchConfig struct {
	Debounce      time.Duration `toml:"debounce"`
	MaxReanalyses float64       `toml:"max_reanalyses_per_second"`
	Burst         int           `toml:"burst"`
}

type ExcludeConfig struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Config struct {
	Version    int                      `toml:"version"`
	Extensions []string                 `toml:"extensions"`
	Checks     map[string]CheckSettings `toml:"checks"`
	Watch      WatchConfig              `toml:"watch"`
	Exclude    ExcludeConfig            `toml:"exclude"`
}

func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".elm"}
	}
	if cfg.Checks == nil {
		cfg.Checks = make(map[string]CheckSettings)
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxReanalyses <= 0 {
		cfg.Watch.MaxReanalyses = 4
	}
	if cfg.Watch.Burst <= 0 {
		cfg.Watch.Burst = 8
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{"elm-stuff", "node_modules", ".git"}
	}
}

// CheckEnabled reports whether a check should run. Checks are on
// unless the configuration disables them explicitly.
func (c *Config) CheckEnabled(key string) bool {
	if c == nil {
		return true
	}
	settings, ok := c.Checks[normalizeKey(key)]
	if !ok || settings.Enabled == nil {
		return true
	}
	return *settings.Enabled
}

// CheckSeverity resolves the severity for a check, defaulting to
// "warning" when unset.
func (c *Config) CheckSeverity(key string) string {
	if c != nil {
		if settings, ok := c.Checks[normalizeKey(key)]; ok {
			if severity := strings.TrimSpace(settings.Severity); severity != "" {
				return strings.ToLower(severity)
			}
		}
	}
	return "warning"
}

// CheckOption returns a per-check option value, or "" when unset.
func (c *Config) CheckOption(key, option string) string {
	if c == nil {
		return ""
	}
	settings, ok := c.Checks[normalizeKey(key)]
	if !ok {
		return ""
	}
	return strings.TrimSpace(settings.Options[option])
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
