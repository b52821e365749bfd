package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/csheth/nutriscout/internal/flow"
	"github.com/csheth/nutriscout/internal/health"
	"gopkg.in/yaml.v3"
)

// ConfigPaths lists the config file search paths in priority order.
var ConfigPaths = []string{
	"./.nutriscout.yaml",
	"~/.config/nutriscout/config.yaml",
}

// Loader loads configuration with priority merging.
type Loader struct {
	configPaths []string
	lookupEnv   func(string) (string, bool)
}

// NewLoader creates a loader over ConfigPaths and the process environment.
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		lookupEnv:   os.LookupEnv,
	}
}

// Load builds the configuration. Sources, lowest priority first: built-in
// defaults, the search paths (or only customPath when set), then
// NUTRISCOUT_* environment variables. Command-line flags are applied by the
// caller, which must call Validate afterwards.
func (l *Loader) Load(customPath string) (*Config, error) {
	cfg := DefaultConfig()

	if customPath != "" {
		if err := l.loadFromFile(cfg, ExpandPath(customPath)); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			path := ExpandPath(l.configPaths[i])
			if !fileExists(path) {
				continue
			}
			if err := l.loadFromFile(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		}
	}

	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return cfg, nil
}

// loadFromFile overlays the YAML document onto cfg; keys absent from the
// file keep their current values.
func (l *Loader) loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

func (l *Loader) applyEnvOverrides(cfg *Config) error {
	envMappings := map[string]func(string) error{
		"NUTRISCOUT_ENDPOINT":     func(v string) error { cfg.Endpoint = v; return nil },
		"NUTRISCOUT_TIMEOUT":      func(v string) error { return parseDuration(v, &cfg.Timeout) },
		"NUTRISCOUT_GAUGE_POLICY": func(v string) error { cfg.GaugePolicy = health.GaugePolicy(v); return nil },
		"NUTRISCOUT_OVERLAP":      func(v string) error { cfg.Overlap = flow.OverlapPolicy(v); return nil },
		"NUTRISCOUT_LOG_FILE":     func(v string) error { cfg.Log.File = v; return nil },
		"NUTRISCOUT_VERBOSE":      func(v string) error { return parseBool(v, &cfg.Log.Verbose) },
		"NUTRISCOUT_ALT_SCREEN":   func(v string) error { return parseBool(v, &cfg.UI.AltScreen) },
	}

	for name, apply := range envMappings {
		value, ok := l.lookupEnv(name)
		if !ok || value == "" {
			continue
		}
		if err := apply(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// WriteDefault writes the default configuration to path, creating parent
// directories. It refuses to overwrite unless force is set.
func WriteDefault(path string, force bool) error {
	path = ExpandPath(path)
	if !force && fileExists(path) {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}
	data, err := Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ExpandPath resolves a leading ~ to the home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func parseDuration(value string, target *time.Duration) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value, err)
	}
	*target = d
	return nil
}

func parseBool(value string, target *bool) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean %q: %w", value, err)
	}
	*target = b
	return nil
}
