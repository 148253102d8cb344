// Package config holds mpvlens settings. Values come from Default, then an
// optional YAML file, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Mr-Dark-debug/mpvlens/internal/console"
	"github.com/Mr-Dark-debug/mpvlens/internal/recorder"
)

// Config is the full set of settings.
type Config struct {
	// Socket is the path mpv was started with via --input-ipc-server.
	Socket string `yaml:"socket"`

	// Timeout bounds each IPC request.
	Timeout time.Duration `yaml:"timeout"`

	// LogLevel is the mpv log subscription level (fatal ... trace, or "no").
	LogLevel string `yaml:"log_level"`

	// LogLines is the console log capacity.
	LogLines int `yaml:"log_lines"`

	// DBPath is the SQLite database holding history and the log archive.
	DBPath string `yaml:"db_path"`

	// PersistHistory loads and stores console history in DBPath.
	PersistHistory bool `yaml:"persist_history"`

	// HistoryLimit is the number of history lines loaded at startup.
	HistoryLimit int `yaml:"history_limit"`

	// AppLog is the diagnostics log file. Empty disables it.
	AppLog string `yaml:"app_log"`

	// AppLogLevel is the slog level name for AppLog.
	AppLogLevel string `yaml:"app_log_level"`

	// MetricsAddr is the HTTP address for Prometheus metrics.
	// Empty string disables the metrics server.
	MetricsAddr string `yaml:"metrics_addr"`

	Recorder recorder.Config `yaml:"recorder"`
}

// Dir returns the per-user state directory, ~/.mpvlens.
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".mpvlens"
	}
	return filepath.Join(homeDir, ".mpvlens")
}

// DefaultPath is the config file read when none is given.
func DefaultPath() string { return filepath.Join(Dir(), "config.yaml") }

// Default returns sensible defaults.
func Default() Config {
	dir := Dir()
	return Config{
		Socket:         "/tmp/mpvsocket",
		Timeout:        5 * time.Second,
		LogLevel:       console.LevelInfo.String(),
		LogLines:       console.DefaultCapacity,
		DBPath:         filepath.Join(dir, "mpvlens.db"),
		PersistHistory: true,
		HistoryLimit:   1000,
		AppLog:         filepath.Join(dir, "mpvlens.log"),
		AppLogLevel:    "info",
		Recorder:       recorder.DefaultConfig(),
	}
}

// Load returns Default overlaid with the YAML file at path. Keys absent
// from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing YAML %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// LoadOrDefault is Load, except that a missing file yields Default.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Socket == "" {
		return errors.New("socket must not be empty")
	}
	if _, ok := console.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.LogLines < 1 {
		return fmt.Errorf("log_lines must be at least 1, got %d", c.LogLines)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
