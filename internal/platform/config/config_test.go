package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"metis/internal/platform/config"
)

func TestNewDefaults(t *testing.T) {
	vault := t.TempDir()
	cfg, err := config.New(vault)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Storage != config.StorageJSON {
		t.Fatalf("expected json storage, got %s", cfg.Storage)
	}
	if cfg.FocusDuration() != 25*time.Minute || cfg.BrainDumpDuration() != 5*time.Minute {
		t.Fatalf("unexpected durations %s %s", cfg.FocusDuration(), cfg.BrainDumpDuration())
	}
	if cfg.StatePath != filepath.Join(vault, ".metis", "state.json") {
		t.Fatalf("unexpected state path %s", cfg.StatePath)
	}
	if _, err := config.New(""); err == nil {
		t.Fatalf("empty vault path should fail")
	}
}

func TestNewFileThenEnvPrecedence(t *testing.T) {
	vault := t.TempDir()
	dir := filepath.Join(vault, ".metis")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	yaml := "storage: sqlite\nlog_level: debug\ntimezone: UTC\nsession:\n  focus_minutes: 50\n  brain_dump_minutes: 10\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("METIS_FOCUS_MINUTES", "15")

	cfg, err := config.New(vault)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.Storage != config.StorageSQLite || cfg.LogLevel != "debug" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Session.FocusMinutes != 15 {
		t.Fatalf("env should override file focus minutes, got %d", cfg.Session.FocusMinutes)
	}
	if cfg.Session.BrainDumpMinutes != 10 {
		t.Fatalf("file brain dump minutes lost, got %d", cfg.Session.BrainDumpMinutes)
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Fatalf("expected UTC location, got %v %v", loc, err)
	}
}

func TestNewRejectsInvalidValues(t *testing.T) {
	vault := t.TempDir()
	t.Setenv("METIS_STORAGE", "redis")
	if _, err := config.New(vault); err == nil {
		t.Fatalf("unsupported storage should fail")
	}
}

func TestNewRejectsMalformedFile(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	dir := filepath.Join(vault, ".metis")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("session: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.New(vault); err == nil {
		t.Fatalf("malformed yaml should fail")
	}
}
