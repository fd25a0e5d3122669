package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/beetlebugorg/gsielev/pkg/gsielev"
)

// Environment variables read by Load.
const (
	EnvLogLevel  = "GSIELEV_LOG_LEVEL"
	EnvLogFile   = "GSIELEV_LOG_FILE"
	EnvCacheMB   = "GSIELEV_CACHE_MB"
	EnvWorkers   = "GSIELEV_WORKERS"
	EnvThreshold = "GSIELEV_NODATA_THRESHOLD"
)

// Load loads configuration with priority: defaults < file < environment.
// A .env file in the working directory is merged into the environment first
// without overriding variables already set. Command-line flags are applied
// by the caller on top.
//
// An explicit path must exist; otherwise the standard locations are tried.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./gsielev.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "gsielev")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "gsielev")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "gsielev")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "gsielev")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnv overrides cfg from the environment. Malformed numbers are errors
// rather than silently ignored.
func applyEnv(cfg *Config) error {
	if v := os.Getenv(gsielev.EnvDataDir); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.Logging.LogFile = v
	}
	if v := os.Getenv(EnvCacheMB); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCacheMB, err)
		}
		cfg.Cache.MaxMemoryMB = n
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		cfg.Batch.Workers = n
	}
	if v := os.Getenv(EnvThreshold); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvThreshold, err)
		}
		cfg.Data.NoDataThreshold = f
	}
	return nil
}
