package gsielev

import (
	"fmt"
	"io/fs"
	"math"
	"regexp"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb/geojson"

	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

// maxMissingCells caps the Level2 cells Missing will enumerate
// (about 30 x 60 degrees of Level2 cells).
const maxMissingCells = 100000

var archiveName = regexp.MustCompile(`^FG-GML-(\d{4})-(\d{2})-(DEM[0-9A-Z]+)`)

// CatalogEntry describes one provisioned archive.
type CatalogEntry struct {
	Archive string      // file name in the data filesystem
	Code    string      // Level2 code, e.g. "533945"
	Product string      // dataset product, e.g. "DEM5A" or "DEM10B"
	Extent  mesh.Extent // extent of the Level2 cell
}

// Bounds implements rtreego.Spatial.
func (e CatalogEntry) Bounds() rtreego.Rect {
	point := rtreego.Point{e.Extent.MinLon, e.Extent.MinLat}
	lengths := []float64{e.Extent.Width(), e.Extent.Height()}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// Catalog indexes the archives of a data directory by coverage.
//
// Each archive covers one Level2 cell. Several products may cover the same
// cell; all of them are listed.
type Catalog struct {
	entries []CatalogEntry
	rtree   *rtreego.Rtree
	codes   map[string]bool
}

// BuildCatalog scans the root of fsys for elevation archives. Files whose
// names do not follow the FG-GML-{aaaa}-{bb}-DEM{product} convention are
// ignored.
func BuildCatalog(fsys fs.FS) (*Catalog, error) {
	names, err := fs.Glob(fsys, "FG-GML-*-DEM*.zip")
	if err != nil {
		return nil, fmt.Errorf("scan archives: %w", err)
	}
	sort.Strings(names)

	c := &Catalog{
		entries: make([]CatalogEntry, 0, len(names)),
		rtree:   rtreego.NewTree(2, 25, 50),
		codes:   make(map[string]bool),
	}
	for _, name := range names {
		m := archiveName.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		code := m[1] + m[2]
		ext, err := mesh.ExtentOf(code)
		if err != nil {
			// Level2 digits out of range, e.g. FG-GML-5339-48.
			continue
		}
		entry := CatalogEntry{Archive: name, Code: code, Product: m[3], Extent: ext}
		c.entries = append(c.entries, entry)
		c.rtree.Insert(entry)
		c.codes[code] = true
	}
	return c, nil
}

// Count returns the number of cataloged archives.
func (c *Catalog) Count() int { return len(c.entries) }

// Entries returns all archives in name order.
func (c *Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Query returns the archives whose cells share area with ext, in name order.
func (c *Catalog) Query(ext mesh.Extent) []CatalogEntry {
	if !ext.IsValid() {
		return nil
	}
	point := rtreego.Point{ext.MinLon, ext.MinLat}
	rect, err := rtreego.NewRect(point, []float64{ext.Width(), ext.Height()})
	if err != nil {
		return nil
	}

	// R-tree rectangles are closed, so neighbours that only touch an edge
	// come back too.
	var out []CatalogEntry
	for _, s := range c.rtree.SearchIntersect(rect) {
		entry := s.(CatalogEntry)
		if entry.Extent.Intersects(ext) {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Archive < out[j].Archive })
	return out
}

// Covers reports whether an archive is provisioned for the Level2 cell
// containing p.
func (c *Catalog) Covers(p mesh.Point) bool {
	code, err := mesh.Encode(p, mesh.Level2)
	if err != nil {
		return false
	}
	return c.codes[code]
}

// Missing lists the Level2 codes intersecting ext that have no archive.
func (c *Catalog) Missing(ext mesh.Extent) ([]string, error) {
	if !ext.IsValid() {
		return nil, fmt.Errorf("invalid extent %s", ext)
	}
	lonStep, latStep := mesh.Level2.CellSize()

	// Extents built from cell corners land on grid lines up to rounding.
	const eps = 1e-9
	row0 := math.Floor(ext.MinLat/latStep + eps)
	col0 := math.Floor(ext.MinLon/lonStep + eps)
	rows := int(math.Ceil(ext.MaxLat/latStep-eps) - row0)
	cols := int(math.Ceil(ext.MaxLon/lonStep-eps) - col0)
	if rows*cols > maxMissingCells {
		return nil, fmt.Errorf("extent %s spans %d cells, more than %d", ext, rows*cols, maxMissingCells)
	}

	var missing []string
	for r := 0; r < rows; r++ {
		for k := 0; k < cols; k++ {
			center := mesh.Point{
				Lon: (col0 + float64(k) + 0.5) * lonStep,
				Lat: (row0 + float64(r) + 0.5) * latStep,
			}
			code, err := mesh.Encode(center, mesh.Level2)
			if err != nil {
				return nil, err
			}
			if !c.codes[code] {
				missing = append(missing, code)
			}
		}
	}
	sort.Strings(missing)
	return missing, nil
}

// GeoJSON renders the coverage as Level2 cell polygons with "archive" and
// "product" properties added.
func (c *Catalog) GeoJSON() (*geojson.FeatureCollection, error) {
	codes := make([]string, len(c.entries))
	for i, e := range c.entries {
		codes[i] = e.Code
	}
	fc, err := mesh.Cells(codes...)
	if err != nil {
		return nil, err
	}
	for i, f := range fc.Features {
		f.Properties["archive"] = c.entries[i].Archive
		f.Properties["product"] = c.entries[i].Product
	}
	return fc, nil
}
