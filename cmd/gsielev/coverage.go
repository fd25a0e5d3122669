package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"github.com/beetlebugorg/gsielev/pkg/gsielev"
	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "List provisioned archives and gaps",
	Long: `List the archives in the data directory and the Level2 regions they cover.

With --bbox, only archives intersecting the box are listed, followed by the
Level2 codes inside it that have no archive. --area does the same for the
bounds of the features in a GeoJSON file.

Examples:
  gsielev coverage
  gsielev coverage --bbox 139.5,35.5,140.0,36.0
  gsielev coverage --area route.geojson
  gsielev coverage --geojson > coverage.geojson`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := gsielev.ResolveDataDir(cfg.Data.Dir)
		if err != nil {
			return err
		}
		cat, err := gsielev.BuildCatalog(os.DirFS(dir))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asGeoJSON, _ := cmd.Flags().GetBool("geojson"); asGeoJSON {
			fc, err := cat.GeoJSON()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(fc)
		}

		entries := cat.Entries()
		var box *mesh.Extent
		if s, _ := cmd.Flags().GetString("bbox"); s != "" {
			ext, err := parseBBox(s)
			if err != nil {
				return err
			}
			box = &ext
			entries = cat.Query(ext)
		}
		if path, _ := cmd.Flags().GetString("area"); path != "" {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			ext, err := readArea(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			box = &ext
			entries = cat.Query(ext)
		}

		for _, e := range entries {
			fmt.Fprintf(out, "%-8s %-7s %s\n", mesh.Format(e.Code), e.Product, e.Archive)
		}
		fmt.Fprintf(out, "%d archives\n", len(entries))

		if box == nil {
			return nil
		}
		missing, err := cat.Missing(*box)
		if err != nil {
			return err
		}
		for _, code := range missing {
			fmt.Fprintf(out, "missing  %s  (FG-GML-%s-DEM*.zip)\n", mesh.Format(code), mesh.Format(code))
		}
		fmt.Fprintf(out, "%d regions missing\n", len(missing))
		return nil
	},
}

// areaPad widens a degenerate area (a single point or an axis-aligned line)
// so it has an extent.
const areaPad = 1e-7

// readArea returns the bounds of the features in a GeoJSON FeatureCollection.
func readArea(r io.Reader) (mesh.Extent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return mesh.Extent{}, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return mesh.Extent{}, fmt.Errorf("geojson: %w", err)
	}
	var geoms orb.Collection
	for _, f := range fc.Features {
		if f.Geometry != nil {
			geoms = append(geoms, f.Geometry)
		}
	}
	if len(geoms) == 0 {
		return mesh.Extent{}, fmt.Errorf("no geometries")
	}

	bound := geoms.Bound()
	if bound.Left() == bound.Right() || bound.Bottom() == bound.Top() {
		bound = bound.Pad(areaPad)
	}
	return mesh.ExtentFromBound(bound), nil
}

func init() {
	rootCmd.AddCommand(coverageCmd)
	coverageCmd.Flags().String("bbox", "", "Restrict to minLon,minLat,maxLon,maxLat")
	coverageCmd.Flags().String("area", "", "Restrict to the bounds of a GeoJSON file")
	coverageCmd.MarkFlagsMutuallyExclusive("bbox", "area")
	coverageCmd.Flags().Bool("geojson", false, "Print coverage as a GeoJSON FeatureCollection")
}
