package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

// clearEnv keeps ambient FLASHDECK_* variables out of a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, envPrefix) {
			key, _, _ := strings.Cut(kv, "=")
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.BaseURL != "http://127.0.0.1:8000" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.Cache.TTLHours != 6 {
		t.Errorf("ttl hours = %d", cfg.Cache.TTLHours)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	if cfg.Study.CardsWanted != 12 {
		t.Errorf("cards wanted = %d", cfg.Study.CardsWanted)
	}
}

func TestLoadYAMLFileOverridesDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "api:\n  base_url: https://decks.example.edu\ncache:\n  ttl_hours: 12\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.BaseURL != "https://decks.example.edu" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	if cfg.Cache.TTLHours != 12 {
		t.Errorf("ttl hours = %d", cfg.Cache.TTLHours)
	}
	// Untouched keys keep their defaults.
	if cfg.Study.CardsWanted != 12 {
		t.Errorf("cards wanted = %d", cfg.Study.CardsWanted)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FLASHDECK_LOG__LEVEL", "debug")

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want the env value", cfg.Log.Level)
	}
}

func TestLoadFlagsOverrideEverything(t *testing.T) {
	clearEnv(t)
	t.Setenv("FLASHDECK_API__BASE_URL", "https://env.example.edu")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("api.base_url", "", "")
	if err := flags.Parse([]string{"--api.base_url", "https://flag.example.edu"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.BaseURL != "https://flag.example.edu" {
		t.Errorf("base url = %q, want the flag value", cfg.API.BaseURL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)

	cases := []struct {
		name    string
		content string
	}{
		{"bad level", "log:\n  level: loud\n"},
		{"bad url", "api:\n  base_url: not-a-url\n"},
		{"zero ttl", "cache:\n  ttl_hours: 0\n"},
		{"huge hand", "study:\n  hand_size: 9999\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path, nil); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil); err == nil {
		t.Error("an explicitly named config file must exist")
	}
}
