package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Parse decodes the session's raw configuration string. It never
// fails hard: a malformed document degrades to the default
// configuration (all checks enabled) and the problems come back as
// advisory log messages for the host.
func Parse(raw string) (*Config, []string) {
	advisories := make([]string, 0)

	if strings.TrimSpace(raw) == "" {
		return Default(), advisories
	}

	var cfg Config
	meta, err := toml.Decode(raw, &cfg)
	if err != nil {
		advisories = append(advisories, fmt.Sprintf("configuration ignored, falling back to defaults: %v", err))
		return Default(), advisories
	}

	for _, key := range meta.Undecoded() {
		advisories = append(advisories, fmt.Sprintf("unknown configuration key %q", key.String()))
	}

	normalized := make(map[string]CheckSettings, len(cfg.Checks))
	for key, settings := range cfg.Checks {
		normalized[normalizeKey(key)] = settings
	}
	cfg.Checks = normalized

	applyDefaults(&cfg)
	return &cfg, advisories
}
