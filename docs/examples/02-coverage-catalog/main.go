package main

import (
	"fmt"
	"log"
	"os"

	"github.com/beetlebugorg/gsielev/pkg/gsielev"
	"github.com/beetlebugorg/gsielev/pkg/mesh"
)

func main() {
	dir, err := gsielev.ResolveDataDir("")
	if err != nil {
		log.Fatal(err)
	}

	cat, err := gsielev.BuildCatalog(os.DirFS(dir))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Archives: %d\n", cat.Count())

	// Greater Tokyo
	box := mesh.Extent{MinLon: 139.0, MinLat: 35.0, MaxLon: 140.5, MaxLat: 36.2}

	for _, e := range cat.Query(box) {
		fmt.Printf("  %s %s\n", mesh.Format(e.Code), e.Product)
	}

	missing, err := cat.Missing(box)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Regions to download: %d\n", len(missing))
	for _, code := range missing {
		fmt.Printf("  FG-GML-%s-DEM*.zip\n", mesh.Format(code))
	}
}
