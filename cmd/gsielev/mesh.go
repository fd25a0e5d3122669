package main

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

var allLevels = []mesh.Level{
	mesh.Level1, mesh.Level2, mesh.Level3, mesh.Level4, mesh.Level5, mesh.Level6,
	mesh.Integrated2km, mesh.Integrated5km,
}

var meshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Encode a coordinate as mesh codes",
	Long: `Encode a coordinate as Japanese standard mesh codes.

Examples:
  gsielev mesh --lat 35.689568 --lon 139.691717
  gsielev mesh --lat 35.689568 --lon 139.691717 --level 3
  gsielev mesh --lat 35.689568 --lon 139.691717 --geojson`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, _ := cmd.Flags().GetFloat64("lat")
		lon, _ := cmd.Flags().GetFloat64("lon")
		asGeoJSON, _ := cmd.Flags().GetBool("geojson")
		p := mesh.Point{Lon: lon, Lat: lat}

		levels := allLevels
		if cmd.Flags().Changed("level") {
			s, _ := cmd.Flags().GetString("level")
			level, err := parseLevel(s)
			if err != nil {
				return err
			}
			levels = []mesh.Level{level}
		}

		codes := make([]string, 0, len(levels))
		for _, level := range levels {
			code, err := mesh.Encode(p, level)
			if err != nil {
				return err
			}
			codes = append(codes, code)
		}

		out := cmd.OutOrStdout()
		if asGeoJSON {
			fc, err := mesh.Cells(codes...)
			if err != nil {
				return err
			}
			query := geojson.NewFeature(p.Orb())
			query.Properties["role"] = "query"
			fc.Append(query)
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(fc)
		}

		for i, code := range codes {
			if len(levels) == 1 {
				fmt.Fprintln(out, code)
				break
			}
			fmt.Fprintf(out, "%-14s %-12s %s\n", levels[i], code, mesh.Format(code))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(meshCmd)

	meshCmd.Flags().Float64("lat", 0, "Latitude (required)")
	meshCmd.Flags().Float64("lon", 0, "Longitude (required)")
	meshCmd.Flags().StringP("level", "l", "", "Only this level: 1-6, 2km or 5km")
	meshCmd.Flags().Bool("geojson", false, "Print cell polygons as a GeoJSON FeatureCollection")
	meshCmd.MarkFlagRequired("lat")
	meshCmd.MarkFlagRequired("lon")
}
