package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beetlebugorg/gsielev/internal/config"
	"github.com/beetlebugorg/gsielev/internal/logger"
	"github.com/beetlebugorg/gsielev/pkg/gsielev"
	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

// applyFlags overrides cfg with flags that were explicitly set.
// Flags take precedence over the environment and the config file.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("data-dir") {
		cfg.Data.Dir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("nodata-threshold") {
		cfg.Data.NoDataThreshold, _ = flags.GetFloat64("nodata-threshold")
	}
	if flags.Changed("strict") {
		cfg.Data.StrictTiles, _ = flags.GetBool("strict")
	}
	if flags.Changed("cache-mb") {
		cfg.Cache.MaxMemoryMB, _ = flags.GetInt("cache-mb")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		cfg.Logging.LogFile, _ = flags.GetString("log-file")
	}
	if flags.Lookup("workers") != nil && flags.Changed("workers") {
		cfg.Batch.Workers, _ = flags.GetInt("workers")
	}
}

// libraryOptions returns the resolved library options with the CLI logger.
func libraryOptions() gsielev.Options {
	opts := cfg.Options()
	opts.Logger = logger.Log.Named("gsielev")
	return opts
}

func openIndex() (*gsielev.Index, error) {
	return gsielev.NewIndex(libraryOptions())
}

func openStore() (*gsielev.Store, error) {
	return gsielev.NewStore(libraryOptions())
}

// parseLevel accepts 1-6, "2km" and "5km".
func parseLevel(s string) (mesh.Level, error) {
	switch strings.ToLower(s) {
	case "2km":
		return mesh.Integrated2km, nil
	case "5km":
		return mesh.Integrated5km, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 6 {
		return mesh.LevelUnknown, fmt.Errorf("invalid level %q (want 1-6, 2km or 5km)", s)
	}
	return mesh.Level1 + mesh.Level(n-1), nil
}

// parseBBox parses "minLon,minLat,maxLon,maxLat".
func parseBBox(s string) (mesh.Extent, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return mesh.Extent{}, fmt.Errorf("bbox %q: want minLon,minLat,maxLon,maxLat", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return mesh.Extent{}, fmt.Errorf("bbox %q: %w", s, err)
		}
		v[i] = f
	}
	ext := mesh.Extent{MinLon: v[0], MinLat: v[1], MaxLon: v[2], MaxLat: v[3]}
	if !ext.IsValid() {
		return mesh.Extent{}, fmt.Errorf("bbox %q is empty or inverted", s)
	}
	return ext, nil
}
