package gsielev

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/beetlebugorg/gsielev/internal/parser"
	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

// Index answers elevation queries while holding at most one decoded tile.
//
// Consecutive queries that fall in the same Level3 cell reuse the held tile;
// a query elsewhere replaces it. This suits sequential walks along a track.
// For scattered or concurrent workloads use a Store.
//
// An Index is safe for concurrent use, but concurrent callers in different
// cells will thrash the slot.
type Index struct {
	locator *Locator
	parser  *parser.Parser
	log     *zap.Logger

	mu   sync.Mutex
	slot *slot

	stats counters
}

// slot is the held tile.
type slot struct {
	code string
	tile *Tile
}

// counters are shared by Index and Store.
type counters struct {
	lookups    atomic.Int64
	hits       atomic.Int64
	loads      atomic.Int64
	noCoverage atomic.Int64
	failures   atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Lookups:    c.lookups.Load(),
		Hits:       c.hits.Load(),
		Loads:      c.loads.Load(),
		NoCoverage: c.noCoverage.Load(),
		Failures:   c.failures.Load(),
	}
}

// Stats counts query outcomes since construction.
type Stats struct {
	Lookups    int64 // queries answered or failed
	Hits       int64 // queries served from a held tile
	Loads      int64 // tiles decoded from archives
	NoCoverage int64 // queries answered with the no-data sample for lack of a tile
	Failures   int64 // queries that returned an error
}

// NewIndex creates an index over the archives selected by opts.
// An unresolvable data directory is reported here as a *ConfigurationError.
func NewIndex(opts Options) (*Index, error) {
	fsys, err := opts.filesystem()
	if err != nil {
		return nil, err
	}
	return &Index{
		locator: NewLocator(fsys),
		parser:  opts.parser(),
		log:     opts.logger(),
	}, nil
}

// Elevation returns the elevation in metres and the location type label at
// (lon, lat). Points outside any decoded tile return NaN and NoDataLabel with
// a nil error; a missing value inside a tile keeps the tile's own label.
func (x *Index) Elevation(lon, lat float64) (float64, string, error) {
	s, err := x.Lookup(mesh.Point{Lon: lon, Lat: lat})
	if err != nil {
		return math.NaN(), NoDataLabel, err
	}
	return s.Value, s.Type, nil
}

// Lookup returns the sample at p.
func (x *Index) Lookup(p mesh.Point) (Sample, error) {
	x.stats.lookups.Add(1)

	code, err := mesh.Encode(p, mesh.Level3)
	if err != nil {
		x.stats.failures.Add(1)
		return NoData(), err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.slot != nil && x.slot.code == code {
		x.stats.hits.Add(1)
		return x.sample(x.slot.tile, p), nil
	}

	start := time.Now()
	tile, err := loadTile(x.locator, x.parser, code)
	if err != nil {
		x.slot = nil
		x.stats.failures.Add(1)
		x.log.Warn("tile load failed", zap.String("mesh", code), zap.Error(err))
		return NoData(), err
	}
	x.stats.loads.Add(1)
	// A cell without a dataset is not held, so the next query locates again.
	x.slot = nil
	if tile != nil {
		x.slot = &slot{code: code, tile: tile}
	}
	x.log.Debug("tile loaded",
		zap.String("mesh", code),
		zap.Bool("covered", tile != nil),
		zap.Duration("elapsed", time.Since(start)))
	return x.sample(tile, p), nil
}

func (x *Index) sample(tile *Tile, p mesh.Point) Sample {
	if tile == nil {
		x.stats.noCoverage.Add(1)
		return NoData()
	}
	s, ok := tile.Lookup(p)
	if !ok {
		x.stats.noCoverage.Add(1)
		return NoData()
	}
	return s
}

// Tile returns the held tile, or nil when none is held.
func (x *Index) Tile() *Tile {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.slot == nil {
		return nil
	}
	return x.slot.tile
}

// Clear drops the held tile.
func (x *Index) Clear() {
	x.mu.Lock()
	x.slot = nil
	x.mu.Unlock()
}

// Stats returns a snapshot of the query counters.
func (x *Index) Stats() Stats { return x.stats.snapshot() }

// LoadTile locates and decodes the tile for the Level3 cell containing code.
// It returns (nil, nil) when the region's archive has no dataset for the cell.
func (x *Index) LoadTile(code string) (*Tile, error) {
	return loadTile(x.locator, x.parser, code)
}

// loadTile locates and decodes one tile. The decoded tile is checked against
// the cell it was requested for.
func loadTile(loc *Locator, p *parser.Parser, code string) (*Tile, error) {
	where, err := loc.Locate(code)
	if err != nil {
		return nil, err
	}
	if !where.Found() {
		return nil, nil
	}

	rc, err := loc.Open(where)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	parsed, err := p.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("%s!%s: %w", where.Archive, where.Entry, err)
	}
	if parsed.MeshCode != "" && parsed.MeshCode != where.Code {
		return nil, fmt.Errorf("%s!%s: %w", where.Archive, where.Entry,
			&parser.ErrInvalidTile{MeshCode: parsed.MeshCode, Reason: "entry does not belong to cell " + where.Code})
	}
	return convertTile(parsed, where.Archive, where.Entry), nil
}
