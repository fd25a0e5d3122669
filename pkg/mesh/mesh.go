// Package mesh converts between geographic points, Japanese standard regional
// mesh codes, and the bounding extents those codes identify.
//
// # Levels
//
// Six nested levels are supported, each a fixed subdivision of its parent:
//
//	Level1   4 digits   1°      x 2/3°     (e.g. 5339)
//	Level2   6 digits   1/8°    x 1/12°    (8x8 split of Level1)
//	Level3   8 digits   1/80°   x 1/120°   (10x10 split of Level2)
//	Level4   9 digits   1/160°  x 1/240°   (2x2 split, quadrant 1-4)
//	Level5  10 digits   1/320°  x 1/480°
//	Level6  11 digits   1/640°  x 1/960°
//
// plus two coarser integrated grids: Integrated2km (9 digits, trailing "5")
// and Integrated5km (7 digits, one quadrant digit over a Level2 cell).
//
// Quadrant digits at levels 4-6 follow 1 + 2*north + east: 1=SW, 2=SE,
// 3=NW, 4=NE of the parent cell.
//
// # Usage
//
//	code, err := mesh.Encode(mesh.Point{Lon: 139.70346069, Lat: 35.69388962}, mesh.Level3)
//	// code == "53394536"
//	ext, err := mesh.ExtentOf(code)
//	fmt.Println(ext.Contains(p)) // true
//
// The package is pure: no I/O and no shared mutable state.
package mesh

import (
	"fmt"
	"math"
)

// Level identifies a mesh resolution.
type Level int

const (
	LevelUnknown Level = iota
	Level1
	Level2
	Level3
	Level4 // half mesh
	Level5 // quarter mesh
	Level6 // eighth mesh
	Integrated2km
	Integrated5km
)

// String returns a human-readable level name.
func (l Level) String() string {
	switch l {
	case Level1:
		return "Level1"
	case Level2:
		return "Level2"
	case Level3:
		return "Level3"
	case Level4:
		return "Level4"
	case Level5:
		return "Level5"
	case Level6:
		return "Level6"
	case Integrated2km:
		return "Integrated2km"
	case Integrated5km:
		return "Integrated5km"
	default:
		return fmt.Sprintf("Unknown(%d)", int(l))
	}
}

// Digits returns the code length required by the level, or 0 if unknown.
func (l Level) Digits() int {
	switch l {
	case Level1:
		return 4
	case Level2:
		return 6
	case Level3:
		return 8
	case Level4:
		return 9
	case Level5:
		return 10
	case Level6:
		return 11
	case Integrated2km:
		return 9
	case Integrated5km:
		return 7
	default:
		return 0
	}
}

// CellSize returns the (lon, lat) size of one cell in degrees.
func (l Level) CellSize() (lon, lat float64) {
	switch l {
	case Level1:
		return 1.0, 2.0 / 3.0
	case Level2:
		return 1.0 / 8.0, 1.0 / 12.0
	case Level3:
		return 1.0 / 80.0, 1.0 / 120.0
	case Level4:
		return 1.0 / 160.0, 1.0 / 240.0
	case Level5:
		return 1.0 / 320.0, 1.0 / 480.0
	case Level6:
		return 1.0 / 640.0, 1.0 / 960.0
	case Integrated2km:
		return 1.0 / 40.0, 1.0 / 60.0
	case Integrated5km:
		return 1.0 / 16.0, 1.0 / 24.0
	default:
		return 0, 0
	}
}

// Point is a geographic position in decimal degrees.
//
// No datum transform or projection is applied anywhere in this package:
// longitude and latitude are treated as planar coordinates.
type Point struct {
	Lon float64
	Lat float64
}

// String formats the point as "lat,lon", the order map services use.
func (p Point) String() string {
	return fmt.Sprintf("%.8f,%.8f", p.Lat, p.Lon)
}

// Extent is a half-open rectangle [MinLon, MaxLon) x [MinLat, MaxLat).
type Extent struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// Contains reports whether p lies inside e.
// The west and south edges belong to the cell; the east and north edges do not.
func (e Extent) Contains(p Point) bool {
	return e.MinLon <= p.Lon && p.Lon < e.MaxLon &&
		e.MinLat <= p.Lat && p.Lat < e.MaxLat
}

// ContainsExtent reports whether o lies entirely inside e (edges inclusive).
func (e Extent) ContainsExtent(o Extent) bool {
	return e.MinLon <= o.MinLon && o.MaxLon <= e.MaxLon &&
		e.MinLat <= o.MinLat && o.MaxLat <= e.MaxLat
}

// Intersects reports whether the two extents share any area.
func (e Extent) Intersects(o Extent) bool {
	return e.MinLon < o.MaxLon && o.MinLon < e.MaxLon &&
		e.MinLat < o.MaxLat && o.MinLat < e.MaxLat
}

// Width returns the longitude span in degrees.
func (e Extent) Width() float64 { return e.MaxLon - e.MinLon }

// Height returns the latitude span in degrees.
func (e Extent) Height() float64 { return e.MaxLat - e.MinLat }

// Center returns the midpoint of the extent.
func (e Extent) Center() Point {
	return Point{Lon: (e.MinLon + e.MaxLon) / 2, Lat: (e.MinLat + e.MaxLat) / 2}
}

// IsValid reports whether the extent has positive, finite width and height.
func (e Extent) IsValid() bool {
	for _, v := range []float64{e.MinLon, e.MinLat, e.MaxLon, e.MaxLat} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return e.MaxLon > e.MinLon && e.MaxLat > e.MinLat
}

func (e Extent) String() string {
	return fmt.Sprintf("[%.9f,%.9f]-[%.9f,%.9f]", e.MinLon, e.MinLat, e.MaxLon, e.MaxLat)
}
