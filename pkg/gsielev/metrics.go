package gsielev

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StatsSource is implemented by Index and Store.
type StatsSource interface {
	Stats() Stats
}

// Collector exports query counters of a StatsSource, and cache occupancy
// when the source is a Store, as Prometheus metrics.
//
//	prometheus.MustRegister(gsielev.NewCollector(store))
type Collector struct {
	source StatsSource

	lookups    *prometheus.Desc
	hits       *prometheus.Desc
	loads      *prometheus.Desc
	noCoverage *prometheus.Desc
	failures   *prometheus.Desc
	cacheTiles *prometheus.Desc
	cacheBytes *prometheus.Desc
}

// NewCollector returns a collector reading from source on every scrape.
func NewCollector(source StatsSource) *Collector {
	return &Collector{
		source: source,
		lookups: prometheus.NewDesc("gsielev_lookups_total",
			"Total elevation lookups", nil, nil),
		hits: prometheus.NewDesc("gsielev_tile_hits_total",
			"Total lookups served from a held or cached tile", nil, nil),
		loads: prometheus.NewDesc("gsielev_tile_loads_total",
			"Total tiles decoded from archives", nil, nil),
		noCoverage: prometheus.NewDesc("gsielev_no_data_total",
			"Total lookups answered with no data", nil, nil),
		failures: prometheus.NewDesc("gsielev_lookup_failures_total",
			"Total lookups that returned an error", nil, nil),
		cacheTiles: prometheus.NewDesc("gsielev_cache_entries",
			"Cached cells by kind", []string{"kind"}, nil),
		cacheBytes: prometheus.NewDesc("gsielev_cache_bytes",
			"Estimated memory held by the tile cache", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.lookups
	ch <- c.hits
	ch <- c.loads
	ch <- c.noCoverage
	ch <- c.failures
	ch <- c.cacheTiles
	ch <- c.cacheBytes
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.lookups, prometheus.CounterValue, float64(s.Lookups))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(c.loads, prometheus.CounterValue, float64(s.Loads))
	ch <- prometheus.MustNewConstMetric(c.noCoverage, prometheus.CounterValue, float64(s.NoCoverage))
	ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue, float64(s.Failures))

	store, ok := c.source.(*Store)
	if !ok {
		return
	}
	cs := store.CacheStats()
	ch <- prometheus.MustNewConstMetric(c.cacheTiles, prometheus.GaugeValue, float64(cs.TileCount), "tile")
	ch <- prometheus.MustNewConstMetric(c.cacheTiles, prometheus.GaugeValue, float64(cs.EmptyCount), "empty")
	ch <- prometheus.MustNewConstMetric(c.cacheBytes, prometheus.GaugeValue, float64(cs.UsedMemory))
}
