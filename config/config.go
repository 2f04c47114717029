// Package config loads the run configuration from a YAML or JSON file
// with K_ prefixed environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/battsim/core/battery"
	"github.com/kilianp07/battsim/core/dispatch"
	"github.com/kilianp07/battsim/core/metrics"
	"github.com/kilianp07/battsim/core/simulation"
	"github.com/kilianp07/battsim/infra/monitoring"
)

type Config struct {
	Battery    battery.Config          `json:"battery"`
	Dispatch   dispatch.Config         `json:"dispatch"`
	Simulation simulation.Config       `json:"simulation"`
	Metrics    metrics.Config          `json:"metrics"`
	Logging    LoggingConfig           `json:"logging"`
	Sentry     monitoring.SentryConfig `json:"sentry"`
}

// Load reads path, applies environment overrides such as
// K_BATTERY__SERIES=4, fills defaults and validates every section.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Battery.SetDefaults()
	c.Dispatch.SetDefaults()
	c.Simulation.SetDefaults()
	c.Logging.SetDefaults()
}

// Validate checks every section and returns the first failure.
func (c Config) Validate() error {
	if err := c.Battery.Validate(); err != nil {
		return err
	}
	if err := c.Dispatch.Validate(); err != nil {
		return err
	}
	if err := c.Simulation.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}
