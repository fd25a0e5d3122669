package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/beetlebugorg/gsielev/pkg/gsielev"
)

// clearEnv blanks every variable Load reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{gsielev.EnvDataDir, EnvLogLevel, EnvLogFile, EnvCacheMB, EnvWorkers, EnvThreshold} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Data.Dir != "" {
		t.Errorf("expected empty data dir, got %s", cfg.Data.Dir)
	}
	if cfg.Data.NoDataThreshold != -9000 {
		t.Errorf("expected threshold -9000, got %v", cfg.Data.NoDataThreshold)
	}
	if cfg.Cache.MaxMemoryMB != 256 {
		t.Errorf("expected cache 256MB, got %d", cfg.Cache.MaxMemoryMB)
	}
	if cfg.Batch.Workers != 0 {
		t.Errorf("expected workers 0, got %d", cfg.Batch.Workers)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn', got %s", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
data:
  dir: "/srv/gsi/dem"
  no_data_threshold: -5000
  strict_tiles: true

cache:
  max_memory_mb: 64

batch:
  workers: 4

logging:
  level: "debug"
  log_file: "gsielev.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Data.Dir != "/srv/gsi/dem" {
		t.Errorf("expected data dir /srv/gsi/dem, got %s", cfg.Data.Dir)
	}
	if cfg.Data.NoDataThreshold != -5000 {
		t.Errorf("expected threshold -5000, got %v", cfg.Data.NoDataThreshold)
	}
	if !cfg.Data.StrictTiles {
		t.Error("expected strict tiles")
	}
	if cfg.Cache.MaxMemoryMB != 64 {
		t.Errorf("expected cache 64MB, got %d", cfg.Cache.MaxMemoryMB)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Batch.Workers)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "gsielev.log" {
		t.Errorf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadPartialFile(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("batch:\n  workers: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Batch.Workers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Batch.Workers)
	}
	// Unset keys keep their defaults.
	if cfg.Cache.MaxMemoryMB != 256 {
		t.Errorf("expected default cache, got %d", cfg.Cache.MaxMemoryMB)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("data: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("data:\n  dir: /from/file\ncache:\n  max_memory_mb: 64\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(gsielev.EnvDataDir, "/from/env")
	t.Setenv(EnvCacheMB, "8")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvThreshold, "-1")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data.Dir != "/from/env" {
		t.Errorf("data dir = %s, want /from/env", cfg.Data.Dir)
	}
	if cfg.Cache.MaxMemoryMB != 8 {
		t.Errorf("cache = %d, want 8", cfg.Cache.MaxMemoryMB)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %s, want debug", cfg.Logging.Level)
	}
	if cfg.Data.NoDataThreshold != -1 {
		t.Errorf("threshold = %v, want -1", cfg.Data.NoDataThreshold)
	}
}

func TestEnvironmentMalformed(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvWorkers, "many")

	cfg := Default()
	if err := applyEnv(cfg); err == nil {
		t.Error("expected error for non-numeric workers")
	}
}

func TestOptions(t *testing.T) {
	cfg := Default()
	cfg.Data.Dir = "/data"
	cfg.Cache.MaxMemoryMB = 2
	cfg.Batch.Workers = 3

	opts := cfg.Options()
	if opts.DataDir != "/data" {
		t.Errorf("DataDir = %s", opts.DataDir)
	}
	if opts.CacheMemory != 2*1024*1024 {
		t.Errorf("CacheMemory = %d", opts.CacheMemory)
	}
	if opts.NoDataThreshold == nil || *opts.NoDataThreshold != -9000 {
		t.Errorf("NoDataThreshold = %v, want -9000", opts.NoDataThreshold)
	}

	// Zero is a threshold like any other.
	cfg.Data.NoDataThreshold = 0
	if got := cfg.Options().NoDataThreshold; got == nil || *got != 0 {
		t.Errorf("NoDataThreshold = %v, want 0", got)
	}
	if got := cfg.BatchOptions().Workers; got != 3 {
		t.Errorf("Workers = %d, want 3", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Data.Dir = "/srv/dem"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Data.Dir != "/srv/dem" {
		t.Errorf("data dir = %s, want /srv/dem", loaded.Data.Dir)
	}
}
