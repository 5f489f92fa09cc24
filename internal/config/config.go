// Package config resolves the runtime configuration: defaults, then an
// optional YAML file, then .env, then LIFESYS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid value")

type RuntimeConfig struct {
	DataDir              string        `yaml:"data_dir"`
	StoreBackend         string        `yaml:"store"`
	StateKey             string        `yaml:"state_key"`
	APIKey               string        `yaml:"-"`
	Model                string        `yaml:"model"`
	APIBaseURL           string        `yaml:"api_base_url"`
	AITimeout            time.Duration `yaml:"ai_timeout"`
	NapMinutes           int           `yaml:"nap_minutes"`
	DesktopNotifications bool          `yaml:"desktop_notifications"`
	SchedulerBuffer      int           `yaml:"scheduler_buffer"`
	LogFile              string        `yaml:"log_file"`
	LogLevel             string        `yaml:"log_level"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DataDir:         defaultDataDir(),
		StoreBackend:    "sqlite",
		StateKey:        "life-system-state",
		Model:           "gemini-2.5-flash",
		APIBaseURL:      "https://generativelanguage.googleapis.com",
		AITimeout:       30 * time.Second,
		NapMinutes:      20,
		SchedulerBuffer: 64,
		LogLevel:        "info",
	}
}

func defaultDataDir() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); dir != "" {
		return filepath.Join(dir, "lifesys")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lifesys"
	}
	return filepath.Join(home, ".lifesys")
}

// Load layers every source. path may be empty; LIFESYS_CONFIG is used then.
func Load(path string) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	if strings.TrimSpace(path) == "" {
		path = strings.TrimSpace(os.Getenv("LIFESYS_CONFIG"))
	}
	if path != "" {
		fileCfg, err := LoadFile(cfg, path)
		if err != nil {
			return cfg, err
		}
		cfg = fileCfg
	}
	if err := LoadDotEnv(); err != nil {
		return cfg, err
	}
	cfg = RuntimeConfigFromEnv(cfg)
	return cfg, cfg.Validate()
}

// LoadFile overlays the YAML file at path onto base. Absent keys keep the
// base value.
func LoadFile(base RuntimeConfig, path string) (RuntimeConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := base
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return base, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv reads .env from the working directory when present. Variables
// already set in the process win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	present := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := getEnvString("LIFESYS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := getEnvString("LIFESYS_STORE"); v != "" {
		cfg.StoreBackend = strings.ToLower(v)
	}
	if v := getEnvString("LIFESYS_STATE_KEY"); v != "" {
		cfg.StateKey = v
	}
	if v := getEnvString("API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := getEnvString("LIFESYS_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := getEnvString("LIFESYS_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := getEnvString("LIFESYS_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v, ok := getEnvDuration("LIFESYS_AI_TIMEOUT"); ok && v > 0 {
		cfg.AITimeout = v
	}
	if v, ok := getEnvInt("LIFESYS_NAP_MINUTES"); ok && v > 0 {
		cfg.NapMinutes = v
	}
	if v, ok := getEnvBool("LIFESYS_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("LIFESYS_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v := getEnvString("LIFESYS_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := getEnvString("LIFESYS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	return cfg
}

func (c RuntimeConfig) Validate() error {
	switch c.StoreBackend {
	case "sqlite", "file", "memory":
	default:
		return fmt.Errorf("%w: store %q", ErrInvalidConfig, c.StoreBackend)
	}
	if strings.TrimSpace(c.DataDir) == "" && c.StoreBackend != "memory" {
		return fmt.Errorf("%w: data dir is required", ErrInvalidConfig)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.NapMinutes <= 0 {
		return fmt.Errorf("%w: nap minutes must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c RuntimeConfig) NapDuration() time.Duration {
	return time.Duration(c.NapMinutes) * time.Minute
}

func (c RuntimeConfig) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "lifesys.log")
}

func (c RuntimeConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
}

func getEnvString(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

func getEnvInt(name string) (int, bool) {
	raw := getEnvString(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw := getEnvString(name)
	if raw == "" {
		return 0, false
	}
	if v, err := time.ParseDuration(raw); err == nil {
		return v, true
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, true
	}
	return 0, false
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.ToLower(getEnvString(name))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
