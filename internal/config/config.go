// Package config handles configuration loading and validation. Values are
// layered: built-in defaults, then an optional YAML file, then FLASHDECK_*
// environment variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix namespaces the environment variables this app reads.
const envPrefix = "FLASHDECK_"

// Config holds all application configuration.
type Config struct {
	API   APIConfig   `koanf:"api" validate:"required"`
	Cache CacheConfig `koanf:"cache" validate:"required"`
	Log   LogConfig   `koanf:"log" validate:"required"`
	Study StudyConfig `koanf:"study" validate:"required"`
}

// APIConfig configures the backend client.
type APIConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// TimeoutSeconds bounds simple GET calls. Deck generation gets its
	// own, longer deadline.
	TimeoutSeconds int `koanf:"timeout_seconds" validate:"required,gt=0,lte=300"`

	// GenerateTimeoutSeconds bounds a full PDF upload and deck build.
	GenerateTimeoutSeconds int `koanf:"generate_timeout_seconds" validate:"required,gt=0,lte=1800"`
}

// CacheConfig configures the on-disk deck cache.
type CacheConfig struct {
	// Path is the SQLite database file. Empty means the platform default.
	Path string `koanf:"path"`

	// TTLHours is the default lifetime of fetched deck data.
	TTLHours int `koanf:"ttl_hours" validate:"required,gt=0,lte=720"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level string `koanf:"level" validate:"required,oneof=debug info warn error"`

	// File receives the JSON log stream. Empty means the platform
	// default; logs never go to the terminal the UI is drawing on.
	File string `koanf:"file"`
}

// StudyConfig configures drill behavior.
type StudyConfig struct {
	// HandSize is how many cards a drill fetches. 0 means the whole deck.
	HandSize int `koanf:"hand_size" validate:"gte=0,lte=500"`

	// CardsWanted is the default target card count for a new deck build.
	CardsWanted int `koanf:"cards_wanted" validate:"required,gt=0,lte=500"`
}

// defaults are the built-in bottom layer.
var defaults = map[string]any{
	"api.base_url":                 "http://127.0.0.1:8000",
	"api.timeout_seconds":          30,
	"api.generate_timeout_seconds": 600,
	"cache.path":                   "",
	"cache.ttl_hours":              6,
	"log.level":                    "info",
	"log.file":                     "",
	"study.hand_size":              0,
	"study.cards_wanted":           12,
}

// Load builds the effective configuration. path selects an explicit YAML
// file; when empty, the default config path is used if it exists. flags may
// be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	explicit := path != ""
	if path == "" {
		path = DefaultFilePath()
	}
	if path != "" {
		err := k.Load(file.Provider(path), yaml.Parser())
		if err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// FLASHDECK_API__BASE_URL maps to api.base_url: a double underscore
	// separates levels so leaf names keep their single underscores.
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// DefaultFilePath returns the conventional config file location, or empty
// when no home directory can be resolved.
func DefaultFilePath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "flashdeck", "config.yaml")
}
