package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/beetlebugorg/gsielev/internal/logger"
	"github.com/beetlebugorg/gsielev/pkg/gsielev"
	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

var batchCmd = &cobra.Command{
	Use:   "batch [FILE]",
	Short: "Sample elevations for many points",
	Long: `Read "lon,lat" CSV rows from FILE (or stdin) and write
"lon,lat,elevation,type" rows to stdout in the same order. Rows that cannot
be parsed are reported and skipped. Missing elevations are written empty.

With --geojson, or a FILE ending in .geojson, the input is a GeoJSON
FeatureCollection and every vertex of its geometries is sampled.

Examples:
  gsielev batch track.csv > track-elev.csv
  gsielev batch route.geojson > route-elev.csv
  gsielev batch --workers 8 --progress --metrics-out gsielev.prom track.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		asGeoJSON, _ := cmd.Flags().GetBool("geojson")
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
			if strings.EqualFold(filepath.Ext(args[0]), ".geojson") {
				asGeoJSON = true
			}
		}

		var points []mesh.Point
		var err error
		if asGeoJSON {
			points, err = readGeoJSONPoints(in)
		} else {
			points, err = readPoints(in, cmd.ErrOrStderr())
		}
		if err != nil {
			return err
		}

		store, err := openStore()
		if err != nil {
			return err
		}

		opts := cfg.BatchOptions()
		if progress, _ := cmd.Flags().GetBool("progress"); progress {
			stderr := cmd.ErrOrStderr()
			opts.Progress = func(done, total int) {
				if done%1000 == 0 || done == total {
					fmt.Fprintf(stderr, "\rSampling: %d/%d (%.0f%%)", done, total, float64(done)/float64(total)*100)
				}
				if done == total {
					fmt.Fprintln(stderr)
				}
			}
		}

		start := time.Now()
		samples, errs := store.SampleBatch(points, opts)
		for _, err := range errs {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
		if samples == nil {
			return fmt.Errorf("batch aborted")
		}

		logger.Info("batch done",
			zap.Int("points", len(points)),
			zap.Int("errors", len(errs)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Int64("tile_loads", store.Stats().Loads))

		if err := writeSamples(cmd.OutOrStdout(), points, samples); err != nil {
			return err
		}

		if path, _ := cmd.Flags().GetString("metrics-out"); path != "" {
			reg := prometheus.NewRegistry()
			reg.MustRegister(gsielev.NewCollector(store))
			if err := prometheus.WriteToTextfile(path, reg); err != nil {
				return fmt.Errorf("write metrics: %w", err)
			}
		}
		return nil
	},
}

// readPoints parses lon,lat rows. A header row and rows with extra columns
// are accepted; unparsable rows are reported to warn and skipped.
func readPoints(r io.Reader, warn io.Writer) ([]mesh.Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var points []mesh.Point
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < 2 {
			fmt.Fprintf(warn, "line %d: want lon,lat\n", line)
			continue
		}
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if errLon != nil || errLat != nil {
			if line > 1 {
				fmt.Fprintf(warn, "line %d: not a coordinate: %q\n", line, strings.Join(rec, ","))
			}
			continue
		}
		points = append(points, mesh.Point{Lon: lon, Lat: lat})
	}
	return points, nil
}

// readGeoJSONPoints returns every vertex of the features in a GeoJSON
// FeatureCollection, in document order.
func readGeoJSONPoints(r io.Reader) ([]mesh.Point, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("geojson: %w", err)
	}

	var points []mesh.Point
	var walk func(g orb.Geometry)
	walk = func(g orb.Geometry) {
		switch g := g.(type) {
		case orb.Point:
			points = append(points, mesh.PointFromOrb(g))
		case orb.MultiPoint:
			for _, p := range g {
				walk(p)
			}
		case orb.LineString:
			walk(orb.MultiPoint(g))
		case orb.MultiLineString:
			for _, ls := range g {
				walk(ls)
			}
		case orb.Ring:
			walk(orb.MultiPoint(g))
		case orb.Polygon:
			for _, ring := range g {
				walk(ring)
			}
		case orb.MultiPolygon:
			for _, poly := range g {
				walk(poly)
			}
		case orb.Collection:
			for _, c := range g {
				walk(c)
			}
		}
	}
	for _, f := range fc.Features {
		walk(f.Geometry)
	}
	return points, nil
}

func writeSamples(w io.Writer, points []mesh.Point, samples []gsielev.Sample) error {
	cw := csv.NewWriter(w)
	for i, p := range points {
		value := ""
		if !samples[i].Missing() {
			value = strconv.FormatFloat(samples[i].Value, 'f', 2, 64)
		}
		rec := []string{
			strconv.FormatFloat(p.Lon, 'f', -1, 64),
			strconv.FormatFloat(p.Lat, 'f', -1, 64),
			value,
			samples[i].Type,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntP("workers", "w", 0, "Sampling goroutines (default one per CPU)")
	batchCmd.Flags().Bool("progress", false, "Report progress on stderr")
	batchCmd.Flags().Bool("geojson", false, "Read a GeoJSON FeatureCollection instead of CSV")
	batchCmd.Flags().String("metrics-out", "", "Write Prometheus metrics to this file after the run")
}
