// Package config loads lightgui's optional YAML configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tinyrange/lightgui/internal/toolkit"
)

// Backend names accepted by window.New.
const (
	BackendAuto     = "auto"
	BackendX11      = "x11"
	BackendWin32    = "win32"
	BackendHeadless = "headless"
)

type Config struct {
	Backend      string `yaml:"backend"`
	IdleInterval string `yaml:"idle_interval"` // Go duration, e.g. "10ms"
	LogLevel     string `yaml:"log_level"`     // debug, info, warn, error
	Font         string `yaml:"font"`          // X11 core font name
	Background   string `yaml:"background"`    // #rrggbb
}

func Default() *Config {
	return &Config{
		Backend:      BackendAuto,
		IdleInterval: "10ms",
		LogLevel:     "info",
		Font:         "fixed",
		Background:   "#ffffff",
	}
}

func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "lightgui", "config.yaml"), nil
}

// LoadFromPath reads path on top of the defaults. A missing file yields the
// defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAuto, BackendX11, BackendWin32, BackendHeadless:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if _, err := c.Idle(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.BackgroundColor(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Font) == "" {
		return errors.New("font must not be empty")
	}
	return nil
}

func (c *Config) Idle() (time.Duration, error) {
	d, err := time.ParseDuration(c.IdleInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid idle_interval %q: %w", c.IdleInterval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("idle_interval must be positive, got %s", d)
	}
	return d, nil
}

func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func (c *Config) BackgroundColor() (toolkit.Color, error) {
	return toolkit.ParseColor(c.Background)
}
