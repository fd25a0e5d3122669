package gsielev

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, c prometheus.Collector) map[string][]*dto.Metric {
	t.Helper()
	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	out := make(map[string][]*dto.Metric)
	for _, mf := range families {
		out[mf.GetName()] = mf.GetMetric()
	}
	return out
}

func TestCollectorIndex(t *testing.T) {
	idx := newFixtureIndex(t)
	p := cellPoint(t, fullCell, 4, 3, 0, 0)
	idx.Lookup(p)
	idx.Lookup(p)
	idx.Elevation(10, 10)

	metrics := gather(t, NewCollector(idx))

	counters := map[string]float64{
		"gsielev_lookups_total":         3,
		"gsielev_tile_hits_total":       1,
		"gsielev_tile_loads_total":      1,
		"gsielev_no_data_total":         0,
		"gsielev_lookup_failures_total": 1,
	}
	for name, want := range counters {
		m, ok := metrics[name]
		if !ok || len(m) != 1 {
			t.Errorf("metric %s missing", name)
			continue
		}
		if got := m[0].GetCounter().GetValue(); got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
	if _, ok := metrics["gsielev_cache_bytes"]; ok {
		t.Error("an Index has no cache metrics")
	}
}

func TestCollectorStore(t *testing.T) {
	store := newFixtureStore(t)
	store.Lookup(cellPoint(t, fullCell, 4, 3, 0, 0))
	store.Lookup(cellPoint(t, waterCell, 4, 3, 0, 0))

	metrics := gather(t, NewCollector(store))

	entries := metrics["gsielev_cache_entries"]
	if len(entries) != 2 {
		t.Fatalf("cache entry series = %d, want 2", len(entries))
	}
	for _, m := range entries {
		if got := m.GetGauge().GetValue(); got != 1 {
			t.Errorf("%v = %v, want 1", m.GetLabel(), got)
		}
	}
	bytes := metrics["gsielev_cache_bytes"]
	if len(bytes) != 1 || bytes[0].GetGauge().GetValue() <= 0 {
		t.Errorf("cache bytes = %v", bytes)
	}
}
