package gsielev

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/beetlebugorg/gsielev/internal/parser"
	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

// Store answers elevation queries from many goroutines, keeping decoded
// tiles in a TileCache. Concurrent misses on one cell share a single load.
type Store struct {
	locator *Locator
	parser  *parser.Parser
	log     *zap.Logger
	cache   *TileCache
	group   singleflight.Group

	stats counters
}

// NewStore creates a store over the archives selected by opts, with a cache
// bounded by opts.CacheMemory.
func NewStore(opts Options) (*Store, error) {
	fsys, err := opts.filesystem()
	if err != nil {
		return nil, err
	}
	return &Store{
		locator: NewLocator(fsys),
		parser:  opts.parser(),
		log:     opts.logger(),
		cache:   NewTileCache(opts.CacheMemory),
	}, nil
}

// Elevation returns the elevation and location type label at (lon, lat).
// Points outside any decoded tile return NaN and NoDataLabel with a nil error.
func (s *Store) Elevation(lon, lat float64) (float64, string, error) {
	sample, err := s.Lookup(mesh.Point{Lon: lon, Lat: lat})
	if err != nil {
		return math.NaN(), NoDataLabel, err
	}
	return sample.Value, sample.Type, nil
}

// Lookup returns the sample at p.
func (s *Store) Lookup(p mesh.Point) (Sample, error) {
	s.stats.lookups.Add(1)

	code, err := mesh.Encode(p, mesh.Level3)
	if err != nil {
		s.stats.failures.Add(1)
		return NoData(), err
	}

	tile, err := s.Tile(code)
	if err != nil {
		s.stats.failures.Add(1)
		return NoData(), err
	}
	if tile == nil {
		s.stats.noCoverage.Add(1)
		return NoData(), nil
	}
	sample, ok := tile.Lookup(p)
	if !ok {
		s.stats.noCoverage.Add(1)
		return NoData(), nil
	}
	return sample, nil
}

// Tile returns the tile for the Level3 cell containing code, loading it on
// a cache miss. A nil tile with a nil error means the cell has no data.
func (s *Store) Tile(code string) (*Tile, error) {
	l3, err := mesh.Truncate(code, mesh.Level3)
	if err != nil {
		return nil, err
	}
	if tile, ok := s.cache.Peek(l3); ok {
		s.stats.hits.Add(1)
		return tile, nil
	}

	v, err, _ := s.group.Do(l3, func() (interface{}, error) {
		// A concurrent flight may have filled the cache since the Peek.
		return s.cache.Get(l3, func() (*Tile, error) {
			start := time.Now()
			tile, err := loadTile(s.locator, s.parser, l3)
			if err != nil {
				s.log.Warn("tile load failed", zap.String("mesh", l3), zap.Error(err))
				return nil, err
			}
			s.stats.loads.Add(1)
			s.log.Debug("tile loaded",
				zap.String("mesh", l3),
				zap.Bool("covered", tile != nil),
				zap.Duration("elapsed", time.Since(start)))
			return tile, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return v.(*Tile), nil
}

// Evict drops the cached entry for the Level3 cell containing code, so the
// next query in that cell reads the archive again. Use it after replacing
// or adding an archive for a cell already queried.
func (s *Store) Evict(code string) error {
	l3, err := mesh.Truncate(code, mesh.Level3)
	if err != nil {
		return err
	}
	s.cache.Remove(l3)
	return nil
}

// Stats returns a snapshot of the query counters.
func (s *Store) Stats() Stats { return s.stats.snapshot() }

// CacheStats returns the tile cache occupancy.
func (s *Store) CacheStats() CacheStats { return s.cache.Stats() }

// Purge empties the tile cache.
func (s *Store) Purge() { s.cache.Clear() }

// SampleBatch looks up every point using a pool of workers. Results keep the
// order of points.
//
// With SkipErrors, failed points hold the no-data sample and their errors are
// returned alongside. Without it, the first error aborts the batch and the
// returned samples are nil.
//
// Example:
//
//	samples, errs := store.SampleBatch(track, gsielev.BatchOptions{
//	    Workers:    8,
//	    SkipErrors: true,
//	    Progress: func(done, total int) {
//	        fmt.Printf("\rSampling: %d/%d", done, total)
//	    },
//	})
func (s *Store) SampleBatch(points []mesh.Point, opts BatchOptions) ([]Sample, []error) {
	if len(points) == 0 {
		return []Sample{}, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(points) {
		workers = len(points)
	}

	type result struct {
		index  int
		sample Sample
		err    error
	}

	jobs := make(chan int, len(points))
	results := make(chan result, len(points))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				sample, err := s.Lookup(points[index])
				results <- result{index: index, sample: sample, err: err}
			}
		}()
	}

	for i := range points {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	samples := make([]Sample, len(points))
	var errs []error
	done := 0

	for r := range results {
		done++
		if opts.Progress != nil {
			opts.Progress(done, len(points))
		}

		if r.err != nil {
			err := fmt.Errorf("point %d (%s): %w", r.index, points[r.index], r.err)
			if !opts.SkipErrors {
				return nil, []error{err}
			}
			errs = append(errs, err)
		}
		samples[r.index] = r.sample
	}

	return samples, errs
}
