package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beetlebugorg/gsielev/pkg/gsielev"
	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    mesh.Level
		wantErr bool
	}{
		{"1", mesh.Level1, false},
		{"3", mesh.Level3, false},
		{"6", mesh.Level6, false},
		{"2km", mesh.Integrated2km, false},
		{"5KM", mesh.Integrated5km, false},
		{"0", mesh.LevelUnknown, true},
		{"7", mesh.LevelUnknown, true},
		{"three", mesh.LevelUnknown, true},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseBBox(t *testing.T) {
	ext, err := parseBBox("139.5, 35.5, 140, 36")
	if err != nil {
		t.Fatalf("parseBBox: %v", err)
	}
	want := mesh.Extent{MinLon: 139.5, MinLat: 35.5, MaxLon: 140, MaxLat: 36}
	if ext != want {
		t.Errorf("parseBBox = %v, want %v", ext, want)
	}

	for _, bad := range []string{"", "1,2,3", "a,b,c,d", "140,36,139,35"} {
		if _, err := parseBBox(bad); err == nil {
			t.Errorf("parseBBox(%q) should fail", bad)
		}
	}
}

func TestReadPoints(t *testing.T) {
	in := "lon,lat\n139.7,35.69\n# comment\n139.8, 35.7, extra\nbad,row\n140\n"
	var warn bytes.Buffer

	points, err := readPoints(strings.NewReader(in), &warn)
	if err != nil {
		t.Fatalf("readPoints: %v", err)
	}
	want := []mesh.Point{{Lon: 139.7, Lat: 35.69}, {Lon: 139.8, Lat: 35.7}}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d", len(points), len(want))
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, points[i], want[i])
		}
	}
	if strings.Contains(warn.String(), "lon,lat") {
		t.Errorf("header row should be skipped silently: %q", warn.String())
	}
	if strings.Count(warn.String(), "\n") != 2 {
		t.Errorf("expected two warnings, got %q", warn.String())
	}
}

func TestWriteSamples(t *testing.T) {
	points := []mesh.Point{{Lon: 139.7, Lat: 35.69}, {Lon: 139.8, Lat: 35.7}}
	samples := []gsielev.Sample{
		{Value: 35.014, Type: "地表面"},
		{Value: math.NaN(), Type: gsielev.NoDataLabel},
	}

	var out bytes.Buffer
	if err := writeSamples(&out, points, samples); err != nil {
		t.Fatalf("writeSamples: %v", err)
	}
	want := "139.7,35.69,35.01,地表面\n139.8,35.7,,データなし\n"
	if out.String() != want {
		t.Errorf("writeSamples = %q, want %q", out.String(), want)
	}
}

func TestReadGeoJSONPoints(t *testing.T) {
	in := `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[139.7,35.69]}},
		{"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[139.71,35.7],[139.72,35.71]]}}
	]}`

	points, err := readGeoJSONPoints(strings.NewReader(in))
	if err != nil {
		t.Fatalf("readGeoJSONPoints: %v", err)
	}
	want := []mesh.Point{{Lon: 139.7, Lat: 35.69}, {Lon: 139.71, Lat: 35.7}, {Lon: 139.72, Lat: 35.71}}
	if len(points) != len(want) {
		t.Fatalf("got %d points, want %d", len(points), len(want))
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, points[i], want[i])
		}
	}

	if _, err := readGeoJSONPoints(strings.NewReader("lon,lat\n")); err == nil {
		t.Error("expected error for non-GeoJSON input")
	}
}

func TestWriteGridFile(t *testing.T) {
	tile := &gsielev.Tile{Cols: 1, Rows: 1, Samples: []gsielev.Sample{{Value: 1}}}

	path := filepath.Join(t.TempDir(), "grid.txt")
	if err := writeGridFile(path, tile); err != nil {
		t.Fatalf("writeGridFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "1.0") {
		t.Errorf("grid file = %q", data)
	}

	if err := writeGridFile(t.TempDir(), tile); err == nil {
		t.Error("expected error writing to a directory")
	}
}

func TestReadArea(t *testing.T) {
	in := `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[139.6,35.6],[139.8,35.7]]}},
		{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[139.9,35.65]}}
	]}`
	ext, err := readArea(strings.NewReader(in))
	if err != nil {
		t.Fatalf("readArea: %v", err)
	}
	want := mesh.Extent{MinLon: 139.6, MinLat: 35.6, MaxLon: 139.9, MaxLat: 35.7}
	if ext != want {
		t.Errorf("readArea = %v, want %v", ext, want)
	}

	// A single point still yields an extent holding it.
	single := `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[139.7,35.69]}}
	]}`
	ext, err = readArea(strings.NewReader(single))
	if err != nil {
		t.Fatalf("readArea: %v", err)
	}
	if !ext.IsValid() || !ext.Contains(mesh.Point{Lon: 139.7, Lat: 35.69}) {
		t.Errorf("single-point area = %v", ext)
	}

	if _, err := readArea(strings.NewReader(`{"type":"FeatureCollection","features":[]}`)); err == nil {
		t.Error("expected error for an empty collection")
	}
}
