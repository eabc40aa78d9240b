package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"

	dataDirName = ".metis"
	fileName    = "config.yaml"
)

type SessionConfig struct {
	FocusMinutes     int `yaml:"focus_minutes" env:"METIS_FOCUS_MINUTES"`
	BrainDumpMinutes int `yaml:"brain_dump_minutes" env:"METIS_BRAIN_DUMP_MINUTES"`
}

type Config struct {
	VaultPath  string        `yaml:"-"`
	DataDir    string        `yaml:"-"`
	StatePath  string        `yaml:"-"`
	DBPath     string        `yaml:"-"`
	LogPath    string        `yaml:"-"`
	JournalDir string        `yaml:"journal_dir" env:"METIS_JOURNAL_DIR"`
	Storage    string        `yaml:"storage" env:"METIS_STORAGE"`
	LogLevel   string        `yaml:"log_level" env:"METIS_LOG_LEVEL"`
	Timezone   string        `yaml:"timezone" env:"METIS_TIMEZONE"`
	Session    SessionConfig `yaml:"session"`
}

// New resolves configuration for a vault: defaults, then
// <vault>/.metis/config.yaml, then METIS_* environment variables.
func New(vaultPath string) (Config, error) {
	if vaultPath == "" {
		return Config{}, fmt.Errorf("vault path is required")
	}
	dataDir := filepath.Join(vaultPath, dataDirName)
	cfg := Config{
		VaultPath:  vaultPath,
		DataDir:    dataDir,
		StatePath:  filepath.Join(dataDir, "state.json"),
		DBPath:     filepath.Join(dataDir, "metis.db"),
		LogPath:    filepath.Join(dataDir, "metis.log"),
		JournalDir: filepath.Join(vaultPath, "sessions"),
		Storage:    StorageJSON,
		LogLevel:   "info",
		Timezone:   "Local",
		Session: SessionConfig{
			FocusMinutes:     25,
			BrainDumpMinutes: 5,
		},
	}
	if err := cfg.loadFile(filepath.Join(dataDir, fileName)); err != nil {
		return Config{}, err
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Storage) {
	case StorageJSON, StorageSQLite:
	default:
		return fmt.Errorf("unsupported storage %q", c.Storage)
	}
	if c.Session.FocusMinutes <= 0 || c.Session.BrainDumpMinutes <= 0 {
		return fmt.Errorf("session durations must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c Config) FocusDuration() time.Duration {
	return time.Duration(c.Session.FocusMinutes) * time.Minute
}

func (c Config) BrainDumpDuration() time.Duration {
	return time.Duration(c.Session.BrainDumpMinutes) * time.Minute
}
