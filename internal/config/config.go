// Package config loads the taxon project file.
//
// A project file is optional. When present it is YAML:
//
//	categories: site/categories.cue   # empty means the built-in table
//	chapters: content/chapters.yaml
//	database: .taxon/snapshots.db
//	overflow:
//	  slug: other
//	  title: Other
//	watch:
//	  debounce: 250ms
//
// Loading order: file, defaults, TAXON_* environment overrides, validation.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the project file looked up when --config is not given.
const DefaultPath = ".taxon.yaml"

// Config is the project configuration.
type Config struct {
	// Categories is the CUE category table; empty selects the built-in table.
	Categories string `yaml:"categories"`

	// Chapters is the default chapter manifest for commands given no argument.
	Chapters string `yaml:"chapters"`

	// Database is the SQLite snapshot store path.
	Database string `yaml:"database"`

	Overflow OverflowConfig `yaml:"overflow"`
	Watch    WatchConfig    `yaml:"watch"`
}

// OverflowConfig renames the overflow group. Empty fields keep the table's
// own overflow, or the built-in "More" group.
type OverflowConfig struct {
	Slug        string `yaml:"slug"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default values.
const (
	DefaultChapters = "chapters.yaml"
	DefaultDatabase = ".taxon/snapshots.db"
	DefaultDebounce = 250 * time.Millisecond
)

// ApplyDefaults fills zero fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Chapters == "" {
		cfg.Chapters = DefaultChapters
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
}

// Validate reports the first invalid setting.
func Validate(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", cfg.Watch.Debounce)
	}
	if cfg.Overflow.Slug != "" && strings.TrimSpace(cfg.Overflow.Slug) == "" {
		return fmt.Errorf("overflow.slug must not be blank")
	}
	return nil
}

// Default returns a configuration with only defaults applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load reads the project file at path. A missing file is not an error when
// optional is true; the defaults are returned instead.
func Load(path string, optional bool) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// applyEnvOverrides applies TAXON_* environment variables, which always win
// over the file.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("TAXON_CATEGORIES"); val != "" {
		cfg.Categories = val
	}
	if val := os.Getenv("TAXON_CHAPTERS"); val != "" {
		cfg.Chapters = val
	}
	if val := os.Getenv("TAXON_DB"); val != "" {
		cfg.Database = val
	}
	if val := os.Getenv("TAXON_OVERFLOW_SLUG"); val != "" {
		cfg.Overflow.Slug = val
	}
	if val := os.Getenv("TAXON_OVERFLOW_TITLE"); val != "" {
		cfg.Overflow.Title = val
	}
	if val := os.Getenv("TAXON_WATCH_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.Debounce = d
		}
	}
}
