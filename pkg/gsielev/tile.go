package gsielev

import (
	"math"

	"github.com/beetlebugorg/gsielev/internal/parser"
	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

// NoDataLabel is the location label returned with the no-data sentinel.
const NoDataLabel = "データなし"

// Sample is an elevation in metres with the dataset's location type label
// (e.g. "地表面" ground surface, "海水面" sea surface).
//
// A missing elevation is NaN; use Missing to test for it.
type Sample struct {
	Value float64
	Type  string
}

// Missing reports whether the sample carries no elevation.
func (s Sample) Missing() bool { return math.IsNaN(s.Value) }

// NoData returns the sentinel sample for points without coverage.
func NoData() Sample { return Sample{Value: math.NaN(), Type: NoDataLabel} }

// Tile is one decoded elevation dataset for a Level3 mesh cell.
//
// Samples are row-major from the north-west corner: west to east within a
// row, north to south across rows. StartOffset is the flat index of
// Samples[0] within the full Cols x Rows grid; coastal tiles omit cells.
type Tile struct {
	MeshCode    string
	Extent      mesh.Extent
	Cols        int
	Rows        int
	StartOffset int
	Samples     []Sample

	// Archive and Entry record where the tile was read from.
	Archive string
	Entry   string
}

// Contains reports whether p lies in the tile's extent (half-open).
func (t *Tile) Contains(p mesh.Point) bool {
	return t.Extent.Contains(p)
}

// GridIndex returns the column and row of the grid cell holding p.
// Row 0 is the northern edge. A point on the south edge of Extent maps to
// the last row instead of one past it.
func (t *Tile) GridIndex(p mesh.Point) (col, row int) {
	e := t.Extent
	col = int(math.Floor(float64(t.Cols) * (p.Lon - e.MinLon) / (e.MaxLon - e.MinLon)))
	row = int(math.Floor(float64(t.Rows) * (1.0 - (p.Lat-e.MinLat)/(e.MaxLat-e.MinLat))))
	if row == t.Rows && p.Lat == e.MinLat {
		row = t.Rows - 1
	}
	return col, row
}

// FlatIndex maps a grid coordinate to an index into Samples.
// The tile's own start point maps to 0.
func (t *Tile) FlatIndex(col, row int) int {
	return row*t.Cols + col - t.StartOffset
}

// Lookup returns the sample at p. It reports false when p is outside the
// extent or falls before StartOffset or past the sampled data; both cases
// are the same no-data outcome.
func (t *Tile) Lookup(p mesh.Point) (Sample, bool) {
	if !t.Contains(p) {
		return NoData(), false
	}
	i := t.FlatIndex(t.GridIndex(p))
	if i < 0 || i >= len(t.Samples) {
		return NoData(), false
	}
	return t.Samples[i], true
}

// cornerTolerance is how far written corners may sit from the exact mesh
// extent. Corners are written with nine decimals.
const cornerTolerance = 1e-8

// tileExtent returns the exact extent of the tile's mesh cell when the
// written corners agree with it, and the written corners otherwise.
func tileExtent(in *parser.Tile) mesh.Extent {
	exact, err := mesh.ExtentOf(in.MeshCode)
	if err != nil {
		return in.Extent
	}
	for _, d := range []float64{
		exact.MinLon - in.Extent.MinLon, exact.MinLat - in.Extent.MinLat,
		exact.MaxLon - in.Extent.MaxLon, exact.MaxLat - in.Extent.MaxLat,
	} {
		if math.Abs(d) > cornerTolerance {
			return in.Extent
		}
	}
	return exact
}

// convertTile converts a parsed tile into the public type.
func convertTile(in *parser.Tile, archive, entry string) *Tile {
	samples := make([]Sample, len(in.Samples))
	for i, s := range in.Samples {
		samples[i] = Sample{Value: s.Value, Type: s.Type}
	}
	return &Tile{
		MeshCode:    in.MeshCode,
		Extent:      tileExtent(in),
		Cols:        in.Cols,
		Rows:        in.Rows,
		StartOffset: in.StartOffset,
		Samples:     samples,
		Archive:     archive,
		Entry:       entry,
	}
}

// estimateTileMemory approximates the resident size of a tile: a fixed
// overhead plus the sample slice. Type labels are short interned-looking
// strings but each header still costs 16 bytes.
func estimateTileMemory(t *Tile) int64 {
	if t == nil {
		return 64
	}
	size := int64(512)
	size += int64(len(t.Samples)) * 32 // float64 + string header + padding
	return size
}
