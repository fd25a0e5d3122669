package mesh

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Orb returns the point as an orb.Point (lon, lat order).
func (p Point) Orb() orb.Point { return orb.Point{p.Lon, p.Lat} }

// PointFromOrb converts an orb.Point to a Point.
func PointFromOrb(p orb.Point) Point { return Point{Lon: p.Lon(), Lat: p.Lat()} }

// Bound returns the extent as an orb.Bound.
//
// orb bounds are closed on every edge; use Extent.Contains for the
// half-open membership test that mesh cells follow.
func (e Extent) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{e.MinLon, e.MinLat},
		Max: orb.Point{e.MaxLon, e.MaxLat},
	}
}

// ExtentFromBound converts an orb.Bound to an Extent.
func ExtentFromBound(b orb.Bound) Extent {
	return Extent{MinLon: b.Min.Lon(), MinLat: b.Min.Lat(), MaxLon: b.Max.Lon(), MaxLat: b.Max.Lat()}
}

// Cells renders each code as a polygon feature carrying "code", "display"
// and "level" properties. Invalid codes are reported with the first error.
func Cells(codes ...string) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for _, code := range codes {
		code = Normalize(code)
		ext, err := ExtentOf(code)
		if err != nil {
			return nil, err
		}
		level, _ := LevelOf(code)

		f := geojson.NewFeature(ext.Bound().ToPolygon())
		f.Properties["code"] = code
		f.Properties["display"] = Format(code)
		f.Properties["level"] = level.String()
		fc.Append(f)
	}
	return fc, nil
}
