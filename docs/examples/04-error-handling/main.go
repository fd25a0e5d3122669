package main

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/beetlebugorg/gsielev/pkg/gsielev"
)

func elevation(idx *gsielev.Index, lon, lat float64) {
	h, kind, err := idx.Elevation(lon, lat)

	var dna *gsielev.DataNotAvailableError
	switch {
	case errors.As(err, &dna):
		// Not retried: the archive has to be downloaded first
		log.Printf("download %s into the data directory", dna.Pattern)
	case errors.Is(err, gsielev.ErrOutOfRange):
		log.Printf("(%v, %v) is outside the mesh system", lon, lat)
	case errors.Is(err, gsielev.ErrMalformedTile):
		log.Printf("corrupt dataset: %v", err)
	case err != nil:
		log.Printf("lookup failed: %v", err)
	case math.IsNaN(h):
		fmt.Printf("(%v, %v): %s\n", lon, lat, kind)
	default:
		fmt.Printf("(%v, %v): %.1f m\n", lon, lat, h)
	}
}

func main() {
	idx, err := gsielev.NewIndex(gsielev.Options{})
	if errors.Is(err, gsielev.ErrConfiguration) {
		log.Fatalf("set %s: %v", gsielev.EnvDataDir, err)
	}
	if err != nil {
		log.Fatal(err)
	}

	elevation(idx, 139.691717, 35.689568) // land
	elevation(idx, 139.80, 35.55)         // Tokyo Bay
	elevation(idx, 10.0, 50.0)            // Europe
}
