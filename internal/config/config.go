package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/csheth/nutriscout/internal/classifier"
	"github.com/csheth/nutriscout/internal/flow"
	"github.com/csheth/nutriscout/internal/health"
)

// Config holds the complete application configuration.
type Config struct {
	Endpoint    string             `yaml:"endpoint" json:"endpoint"`
	Timeout     time.Duration      `yaml:"timeout" json:"timeout"` // 0 leaves requests unbounded
	GaugePolicy health.GaugePolicy `yaml:"gauge_policy" json:"gauge_policy"`
	Overlap     flow.OverlapPolicy `yaml:"overlap" json:"overlap"`
	Presets     []flow.Preset      `yaml:"presets" json:"presets"`
	UI          UIConfig           `yaml:"ui" json:"ui"`
	Log         LogConfig          `yaml:"log" json:"log"`
}

// UIConfig configures the terminal program.
type UIConfig struct {
	AltScreen bool `yaml:"alt_screen" json:"alt_screen"`
}

// LogConfig configures diagnostics output.
type LogConfig struct {
	File    string `yaml:"file" json:"file"` // empty discards TUI logs
	Verbose bool   `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:    classifier.DefaultEndpoint,
		Timeout:     0,
		GaugePolicy: health.GaugePreserve,
		Overlap:     flow.OverlapReject,
		Presets:     flow.DefaultPresets(),
		UI: UIConfig{
			AltScreen: true,
		},
	}
}

// Validate normalises the policies and reports every invalid field.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Endpoint) == "" {
		errs = append(errs, errors.New("endpoint must not be empty"))
	} else if !strings.HasPrefix(c.Endpoint, "http://") && !strings.HasPrefix(c.Endpoint, "https://") {
		errs = append(errs, fmt.Errorf("endpoint %q must start with http:// or https://", c.Endpoint))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %s", c.Timeout))
	}
	gauge, err := health.ParseGaugePolicy(string(c.GaugePolicy))
	if err != nil {
		errs = append(errs, err)
	} else {
		c.GaugePolicy = gauge
	}
	overlap, err := flow.ParseOverlapPolicy(string(c.Overlap))
	if err != nil {
		errs = append(errs, err)
	} else {
		c.Overlap = overlap
	}
	for i, preset := range c.Presets {
		if strings.TrimSpace(preset.Ingredients) == "" {
			errs = append(errs, fmt.Errorf("preset %d (%q) has no ingredients", i+1, preset.Label))
		}
	}
	return errors.Join(errs...)
}

// ClassifierConfig builds the client configuration.
func (c *Config) ClassifierConfig() classifier.Config {
	return classifier.Config{Endpoint: c.Endpoint, Timeout: c.Timeout}
}

// Policy builds the orchestrator policy.
func (c *Config) Policy() flow.Policy {
	return flow.Policy{Gauge: c.GaugePolicy, Overlap: c.Overlap}
}
