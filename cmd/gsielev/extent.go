package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

var extentCmd = &cobra.Command{
	Use:   "extent CODE...",
	Short: "Print the extent of mesh codes",
	Long: `Print the south-west and north-east corners of each mesh code.
Hyphenated codes such as 5339-45-36 are accepted.

Examples:
  gsielev extent 53394536
  gsielev extent 533945265 5339452 --geojson`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if asGeoJSON, _ := cmd.Flags().GetBool("geojson"); asGeoJSON {
			fc, err := mesh.Cells(args...)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(fc)
		}

		for _, arg := range args {
			code := mesh.Normalize(arg)
			ext, err := mesh.ExtentOf(code)
			if err != nil {
				return err
			}
			level, _ := mesh.LevelOf(code)
			fmt.Fprintf(out, "%s %s lon %.9f..%.9f lat %.9f..%.9f\n",
				mesh.Format(code), level, ext.MinLon, ext.MaxLon, ext.MinLat, ext.MaxLat)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extentCmd)
	extentCmd.Flags().Bool("geojson", false, "Print cell polygons as a GeoJSON FeatureCollection")
}
