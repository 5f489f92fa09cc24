package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if cfg.Model != "gemini-2.5-flash" || cfg.AITimeout != 30*time.Second {
		t.Fatalf("unexpected ai defaults: %+v", cfg)
	}
	if cfg.NapMinutes != 20 || cfg.NapDuration() != 20*time.Minute {
		t.Fatalf("unexpected nap default: %+v", cfg)
	}
	if cfg.StoreBackend != "sqlite" || cfg.StateKey != "life-system-state" {
		t.Fatalf("unexpected store defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("LIFESYS_DATA_DIR", "/tmp/lifesys-data")
	t.Setenv("LIFESYS_STORE", "FILE")
	t.Setenv("LIFESYS_DESKTOP_NOTIFICATIONS", "true")
	t.Setenv("LIFESYS_NAP_MINUTES", "15")
	t.Setenv("LIFESYS_AI_TIMEOUT", "5s")
	t.Setenv("LIFESYS_LOG_LEVEL", "DEBUG")
	t.Setenv("API_KEY", "base-key")
	t.Setenv("LIFESYS_API_KEY", "")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.DataDir != "/tmp/lifesys-data" || cfg.StoreBackend != "file" {
		t.Fatalf("unexpected store config: %+v", cfg)
	}
	if !cfg.DesktopNotifications || cfg.NapMinutes != 15 || cfg.AITimeout != 5*time.Second {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.APIKey != "base-key" {
		t.Fatalf("expected API_KEY to be used, got %q", cfg.APIKey)
	}
	if cfg.LogPath() != filepath.Join("/tmp/lifesys-data", "lifesys.log") {
		t.Fatalf("unexpected log path %q", cfg.LogPath())
	}

	t.Setenv("LIFESYS_API_KEY", "override")
	if got := RuntimeConfigFromEnv(DefaultRuntimeConfig()).APIKey; got != "override" {
		t.Fatalf("expected LIFESYS_API_KEY to win, got %q", got)
	}
}

func TestRuntimeConfigIgnoresBadNumbers(t *testing.T) {
	t.Setenv("LIFESYS_NAP_MINUTES", "soon")
	t.Setenv("LIFESYS_AI_TIMEOUT", "-3")
	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.NapMinutes != 20 || cfg.AITimeout != 30*time.Second {
		t.Fatalf("bad values should be ignored: %+v", cfg)
	}
}

func TestLoadFileOverlaysYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifesys.yaml")
	body := "store: memory\nnap_minutes: 10\nai_timeout: 2s\nlog_level: warn\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadFile(DefaultRuntimeConfig(), path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if cfg.StoreBackend != "memory" || cfg.NapMinutes != 10 || cfg.AITimeout != 2*time.Second || cfg.LogLevel != "warn" {
		t.Fatalf("unexpected file overlay: %+v", cfg)
	}
	if cfg.Model != "gemini-2.5-flash" {
		t.Fatalf("absent keys should keep defaults: %+v", cfg)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("LIFESYS_CONFIG", "")
	t.Setenv("API_KEY", "")
	t.Setenv("LIFESYS_API_KEY", "")
	// godotenv never overrides a variable that is already set, even to "".
	os.Unsetenv("LIFESYS_API_KEY")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("LIFESYS_API_KEY=from-dotenv\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIKey != "from-dotenv" {
		t.Fatalf("expected key from .env, got %q", cfg.APIKey)
	}
}

func TestValidateRejectsUnknownStore(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	cfg.StoreBackend = "postgres"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
