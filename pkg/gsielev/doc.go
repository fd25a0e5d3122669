// Package gsielev looks up ground elevations from the Geospatial Information
// Authority of Japan (GSI) fundamental geospatial data DEM archives.
//
// The data directory holds archives as downloaded from GSI, one per Level2
// mesh cell, named FG-GML-{aaaa}-{bb}-DEM{product}*.zip. Each archive holds
// one GML dataset per Level3 cell. Archives are read in place; nothing is
// extracted to disk.
//
// # Basic Usage
//
//	idx, err := gsielev.NewIndex(gsielev.Options{DataDir: "/data/gsi"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	h, kind, err := idx.Elevation(139.691717, 35.689568)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%.1fm (%s)\n", h, kind)
//
// When DataDir is empty the GSIELEV_DATADIR environment variable is used.
//
// # No Data
//
// Points over open water or outside the surveyed area return NaN with the
// label NoDataLabel and a nil error. Samples the tile marks as missing return
// NaN with the tile's own label, such as 海水面 for sea cells. A Level2
// region whose archive is not in the data directory is different: it returns
// an error matching ErrDataNotAvailable, since the fix is to download it.
//
// # Index and Store
//
// Index keeps exactly one decoded tile and suits sequential walks, where
// consecutive points share a cell. Store keeps an LRU cache of tiles, is
// safe for heavy concurrent use and offers SampleBatch for parallel lookups:
//
//	store, _ := gsielev.NewStore(gsielev.DefaultOptions())
//	samples, errs := store.SampleBatch(points, gsielev.DefaultBatchOptions())
//
// # Coverage
//
// BuildCatalog indexes which Level2 regions are provisioned, answering
// coverage queries without opening archives:
//
//	cat, _ := gsielev.BuildCatalog(os.DirFS("/data/gsi"))
//	missing, _ := cat.Missing(mesh.Extent{MinLon: 139, MinLat: 35, MaxLon: 140, MaxLat: 36})
package gsielev
