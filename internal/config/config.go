// Package config handles gsielev configuration loading and management.
package config

import (
	"github.com/beetlebugorg/gsielev/internal/parser"
	"github.com/beetlebugorg/gsielev/pkg/gsielev"
)

// Config holds all settings.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Cache   CacheConfig   `yaml:"cache"`
	Batch   BatchConfig   `yaml:"batch"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig locates and decodes the DEM archives.
type DataConfig struct {
	Dir             string  `yaml:"dir"`               // empty: GSIELEV_DATADIR
	NoDataThreshold float64 `yaml:"no_data_threshold"` // samples below are missing
	StrictTiles     bool    `yaml:"strict_tiles"`
}

// CacheConfig bounds the multi-tile cache.
type CacheConfig struct {
	MaxMemoryMB int `yaml:"max_memory_mb"` // 0 for unlimited
}

// BatchConfig controls batch sampling.
type BatchConfig struct {
	Workers int `yaml:"workers"` // 0 for one per CPU
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			NoDataThreshold: parser.DefaultNoDataThreshold,
		},
		Cache: CacheConfig{
			MaxMemoryMB: 256,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Options converts the configuration into library options.
func (c *Config) Options() gsielev.Options {
	threshold := c.Data.NoDataThreshold
	return gsielev.Options{
		DataDir:         c.Data.Dir,
		NoDataThreshold: &threshold,
		StrictTiles:     c.Data.StrictTiles,
		CacheMemory:     int64(c.Cache.MaxMemoryMB) * 1024 * 1024,
	}
}

// BatchOptions converts the batch settings into library options.
func (c *Config) BatchOptions() gsielev.BatchOptions {
	opts := gsielev.DefaultBatchOptions()
	if c.Batch.Workers > 0 {
		opts.Workers = c.Batch.Workers
	}
	return opts
}
