package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/beetlebugorg/gsielev/internal/logger"
	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

var heightCmd = &cobra.Command{
	Use:   "height",
	Short: "Get ground elevation at a location",
	Long: `Get ground elevation at a geographic coordinate.

Examples:
  gsielev height --lat 35.689568 --lon 139.691717
  gsielev height --lat 35.288180 --lon 139.573510 -d /srv/gsi/dem

Points over open water or outside the surveyed area print "no data".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, _ := cmd.Flags().GetFloat64("lat")
		lon, _ := cmd.Flags().GetFloat64("lon")

		idx, err := openIndex()
		if err != nil {
			return err
		}

		p := mesh.Point{Lon: lon, Lat: lat}
		sample, err := idx.Lookup(p)
		if err != nil {
			return err
		}
		code, _ := mesh.Encode(p, mesh.Level3)
		logger.Debug("height", zap.Stringer("point", p), zap.String("mesh", code))

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Location: %.6f, %.6f\n", lat, lon)
		fmt.Fprintf(out, "Mesh: %s\n", mesh.Format(code))
		if sample.Missing() {
			fmt.Fprintf(out, "Elevation: no data (%s)\n", sample.Type)
			return nil
		}
		fmt.Fprintf(out, "Elevation: %.2f meters\n", sample.Value)
		fmt.Fprintf(out, "Type: %s\n", sample.Type)
		if tile := idx.Tile(); tile != nil {
			fmt.Fprintf(out, "Source: %s!%s\n", tile.Archive, tile.Entry)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(heightCmd)

	heightCmd.Flags().Float64("lat", 0, "Latitude (required)")
	heightCmd.Flags().Float64("lon", 0, "Longitude (required)")
	heightCmd.MarkFlagRequired("lat")
	heightCmd.MarkFlagRequired("lon")
}
