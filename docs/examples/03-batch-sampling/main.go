package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/gsielev/pkg/gsielev"
	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

func main() {
	opts := gsielev.DefaultOptions()
	opts.CacheMemory = 512 * 1024 * 1024

	store, err := gsielev.NewStore(opts)
	if err != nil {
		log.Fatal(err)
	}

	// A straight line from Shinjuku to Tokyo station
	from := mesh.Point{Lon: 139.7003, Lat: 35.6896}
	to := mesh.Point{Lon: 139.7671, Lat: 35.6812}
	const n = 2000
	points := make([]mesh.Point, n)
	for i := range points {
		f := float64(i) / (n - 1)
		points[i] = mesh.Point{
			Lon: from.Lon + f*(to.Lon-from.Lon),
			Lat: from.Lat + f*(to.Lat-from.Lat),
		}
	}

	batch := gsielev.DefaultBatchOptions()
	batch.Progress = func(done, total int) {
		if done%500 == 0 {
			fmt.Printf("\rSampling: %d/%d", done, total)
		}
	}

	samples, errs := store.SampleBatch(points, batch)
	fmt.Println()
	if len(errs) > 0 {
		fmt.Printf("Skipped %d points\n", len(errs))
	}

	lo, hi := 1e9, -1e9
	for _, s := range samples {
		if s.Missing() {
			continue
		}
		lo = min(lo, s.Value)
		hi = max(hi, s.Value)
	}
	fmt.Printf("Elevation range: %.1f - %.1f m\n", lo, hi)

	stats := store.Stats()
	fmt.Printf("Tiles loaded: %d, cache hits: %d\n", stats.Loads, stats.Hits)
}
