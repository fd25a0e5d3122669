package gsielev

import (
	"testing"

	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

func testTile(t *testing.T, start int, values ...float64) *Tile {
	t.Helper()
	ext, err := mesh.ExtentOf(fullCell)
	if err != nil {
		t.Fatal(err)
	}
	samples := make([]Sample, len(values))
	for i, v := range values {
		samples[i] = Sample{Value: v, Type: "地表面"}
	}
	return &Tile{MeshCode: fullCell, Extent: ext, Cols: 4, Rows: 3, StartOffset: start, Samples: samples}
}

func TestTileFlatIndexAtStartPoint(t *testing.T) {
	tile := testTile(t, 6, 1, 2, 3)
	// Start point (2,1) in a 4-column grid.
	if got := tile.FlatIndex(2, 1); got != 0 {
		t.Errorf("FlatIndex at start point = %d, want 0", got)
	}
	if got := tile.FlatIndex(1, 1); got != -1 {
		t.Errorf("FlatIndex before start point = %d, want -1", got)
	}
}

func TestTileGridIndex(t *testing.T) {
	tile := testTile(t, 0)
	tests := []struct {
		col, row int
	}{
		{0, 0}, {3, 0}, {1, 1}, {0, 2}, {3, 2},
	}
	for _, tt := range tests {
		p := cellPoint(t, fullCell, 4, 3, tt.col, tt.row)
		col, row := tile.GridIndex(p)
		if col != tt.col || row != tt.row {
			t.Errorf("GridIndex(%v) = (%d,%d), want (%d,%d)", p, col, row, tt.col, tt.row)
		}
	}

	// The south-west corner belongs to the last row.
	col, row := tile.GridIndex(mesh.Point{Lon: tile.Extent.MinLon, Lat: tile.Extent.MinLat})
	if col != 0 || row != 2 {
		t.Errorf("GridIndex(south-west corner) = (%d,%d), want (0,2)", col, row)
	}
}

func TestTileLookup(t *testing.T) {
	tile := testTile(t, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12)

	s, ok := tile.Lookup(cellPoint(t, fullCell, 4, 3, 2, 1))
	if !ok || s.Value != 7 {
		t.Errorf("Lookup = (%v, %v), want (7, true)", s.Value, ok)
	}

	// The south edge belongs to the last row.
	s, ok = tile.Lookup(mesh.Point{Lon: tile.Extent.MinLon, Lat: tile.Extent.MinLat})
	if !ok || s.Value != 9 {
		t.Errorf("Lookup on south-west corner = (%v, %v), want (9, true)", s.Value, ok)
	}

	// The north edge belongs to the cell above.
	s, ok = tile.Lookup(mesh.Point{Lon: tile.Extent.Center().Lon, Lat: tile.Extent.MaxLat})
	if ok || !s.Missing() || s.Type != NoDataLabel {
		t.Errorf("Lookup on north edge = (%v, %v), want no data", s, ok)
	}
}

func TestTileLookupShortData(t *testing.T) {
	tile := testTile(t, 0, 1, 2)
	if _, ok := tile.Lookup(cellPoint(t, fullCell, 4, 3, 3, 2)); ok {
		t.Error("Lookup past the sampled data should report false")
	}
}

func TestEstimateTileMemory(t *testing.T) {
	small := estimateTileMemory(testTile(t, 0, 1))
	large := estimateTileMemory(testTile(t, 0, 1, 2, 3, 4, 5, 6, 7, 8))
	if large <= small {
		t.Errorf("estimate should grow with samples: %d <= %d", large, small)
	}
	if estimateTileMemory(nil) <= 0 {
		t.Error("empty entries still cost memory")
	}
}
