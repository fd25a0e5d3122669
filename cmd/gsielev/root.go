package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/beetlebugorg/gsielev/internal/config"
	"github.com/beetlebugorg/gsielev/internal/logger"
)

// cfg is resolved once per invocation by the root pre-run hook.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "gsielev",
	Short: "Elevation lookups from GSI DEM archives",
	Long: `gsielev answers elevation queries from the GSI fundamental geospatial
data DEM archives (FG-GML-*-DEM*.zip) and converts between coordinates and
Japanese standard mesh codes.

The data directory is taken from --data-dir, the GSIELEV_DATADIR environment
variable, or data.dir in the configuration file, in that order.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		applyFlags(cmd, loaded)
		cfg = loaded

		return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Directory holding FG-GML-*-DEM*.zip archives")
	rootCmd.PersistentFlags().Float64("nodata-threshold", 0, "Samples below this value are treated as missing")
	rootCmd.PersistentFlags().Bool("strict", false, "Reject tiles whose samples overrun their grid")
	rootCmd.PersistentFlags().Int("cache-mb", 0, "Tile cache size in MB (0 for unlimited)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "Also write logs to this file (rotated)")
}
