package main

import (
	"fmt"
	"log"

	"github.com/beetlebugorg/gsielev/pkg/gsielev"
	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

func main() {
	// Data directory from GSIELEV_DATADIR
	idx, err := gsielev.NewIndex(gsielev.Options{})
	if err != nil {
		log.Fatal(err)
	}

	// Tokyo Metropolitan Government Building
	lon, lat := 139.691717, 35.689568

	h, kind, err := idx.Elevation(lon, lat)
	if err != nil {
		log.Fatal(err)
	}

	code, _ := mesh.Encode(mesh.Point{Lon: lon, Lat: lat}, mesh.Level3)
	fmt.Printf("Mesh: %s\n", mesh.Format(code))
	fmt.Printf("Elevation: %.1f m (%s)\n", h, kind)
}
