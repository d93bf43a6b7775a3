package config

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Record defaults applied by `qrx import`
	DefaultOwner      string  `yaml:"default_owner"`
	DefaultTolerance  float64 `yaml:"default_tolerance"`
	DefaultLastUpdate string  `yaml:"default_last_update"`

	// Listing
	DefaultSort string `yaml:"default_sort"`
	ReverseSort bool   `yaml:"reverse_sort"`

	// UI Settings
	ColorTheme string `yaml:"color_theme"`
	Editor     string `yaml:"editor"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Watch
	WatchDebounceMS int `yaml:"watch_debounce_ms"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		DefaultOwner:      "Default Owner",
		DefaultTolerance:  0.0,
		DefaultLastUpdate: "00/00/0000",
		DefaultSort:       "name",
		ReverseSort:       false,
		ColorTheme:        "auto",
		Editor:            "",
		LogLevel:          "warn",
		LogFormat:         "text",
		WatchDebounceMS:   500,
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for essential values if missing
	defaults := DefaultConfig()
	if cfg.DefaultOwner == "" {
		cfg.DefaultOwner = defaults.DefaultOwner
	}
	if cfg.DefaultLastUpdate == "" {
		cfg.DefaultLastUpdate = defaults.DefaultLastUpdate
	}
	if cfg.DefaultTolerance < 0 || math.IsNaN(cfg.DefaultTolerance) {
		cfg.DefaultTolerance = defaults.DefaultTolerance
	}
	if !isValidSort(cfg.DefaultSort) {
		cfg.DefaultSort = defaults.DefaultSort
	}
	if cfg.ColorTheme == "" {
		cfg.ColorTheme = defaults.ColorTheme
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		cfg.LogLevel = defaults.LogLevel
	}
	if cfg.LogFormat != "json" {
		cfg.LogFormat = defaults.LogFormat
	}
	if cfg.WatchDebounceMS <= 0 {
		cfg.WatchDebounceMS = defaults.WatchDebounceMS
	}

	return cfg, nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ParseLevel maps a config log level name onto slog
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// SetupLogger builds the process logger from the config and installs it as the slog default
func SetupLogger(c *Config, w io.Writer) *slog.Logger {
	level, _ := ParseLevel(c.LogLevel)
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func isValidSort(sortBy string) bool {
	validSorts := []string{"name", "owner", "date", "size"}
	for _, valid := range validSorts {
		if sortBy == valid {
			return true
		}
	}
	return false
}
