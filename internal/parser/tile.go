package parser

import (
	"math"

	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

// Sample is one grid point of a tile: an elevation in metres and the
// location type label the dataset assigns to it (e.g. "地表面", "表面", "海水面").
//
// A missing elevation is stored as NaN.
type Sample struct {
	Value float64
	Type  string
}

// Missing reports whether the sample carries no elevation.
func (s Sample) Missing() bool { return math.IsNaN(s.Value) }

// Tile is one decoded elevation dataset for a Level3 mesh cell.
//
// Samples are row-major with the origin at the north-west corner: west to
// east within a row, north to south across rows. StartOffset is the flat
// index within the full Cols x Rows grid of Samples[0], so partially covered
// tiles (coastlines) can omit leading cells.
type Tile struct {
	MeshCode    string
	Extent      mesh.Extent
	Cols        int
	Rows        int
	StartOffset int
	Samples     []Sample
}
