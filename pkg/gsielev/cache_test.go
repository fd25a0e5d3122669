package gsielev

import (
	"errors"
	"fmt"
	"testing"
)

func TestCacheBasic(t *testing.T) {
	cache := NewTileCache(1024 * 1024) // 1MB

	stats := cache.Stats()
	if stats.TileCount != 0 {
		t.Errorf("Expected empty cache, got %d tiles", stats.TileCount)
	}

	loadCount := 0
	tile, err := cache.Get("53394536", func() (*Tile, error) {
		loadCount++
		return &Tile{MeshCode: "53394536"}, nil
	})
	if err != nil {
		t.Fatalf("Failed to load tile: %v", err)
	}
	if tile.MeshCode != "53394536" {
		t.Errorf("Expected mesh code 53394536, got %s", tile.MeshCode)
	}
	if loadCount != 1 {
		t.Errorf("Expected loader called once, got %d times", loadCount)
	}

	tile2, err := cache.Get("53394536", func() (*Tile, error) {
		loadCount++
		return &Tile{MeshCode: "other"}, nil
	})
	if err != nil {
		t.Fatalf("Failed to get cached tile: %v", err)
	}
	if tile2.MeshCode != "53394536" {
		t.Errorf("Expected cached tile, got %s", tile2.MeshCode)
	}
	if loadCount != 1 {
		t.Errorf("Expected loader not called for cache hit, called %d times", loadCount)
	}
}

func TestCacheEmptyEntries(t *testing.T) {
	cache := NewTileCache(0)

	loadCount := 0
	load := func() (*Tile, error) {
		loadCount++
		return nil, nil
	}
	for i := 0; i < 3; i++ {
		tile, err := cache.Get("53394535", load)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if tile != nil {
			t.Fatalf("expected nil tile for empty cell, got %v", tile)
		}
	}
	if loadCount != 1 {
		t.Errorf("empty cells should be cached, loader called %d times", loadCount)
	}
	if s := cache.Stats(); s.EmptyCount != 1 || s.TileCount != 0 {
		t.Errorf("stats = %+v, want one empty entry", s)
	}
}

func TestCacheErrorsNotCached(t *testing.T) {
	cache := NewTileCache(0)
	boom := errors.New("boom")

	if _, err := cache.Get("a", func() (*Tile, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if _, ok := cache.Peek("a"); ok {
		t.Error("failed loads must not be cached")
	}
}

func TestCacheEviction(t *testing.T) {
	// Room for roughly three 100-sample tiles.
	one := estimateTileMemory(&Tile{Samples: make([]Sample, 100)})
	cache := NewTileCache(3*one + one/2)

	for i := 0; i < 10; i++ {
		code := fmt.Sprintf("533945%02d", i)
		_, err := cache.Get(code, func() (*Tile, error) {
			return &Tile{MeshCode: code, Samples: make([]Sample, 100)}, nil
		})
		if err != nil {
			t.Fatalf("Failed to load tile %s: %v", code, err)
		}
	}

	stats := cache.Stats()
	if stats.TileCount != 3 {
		t.Errorf("Expected 3 tiles after eviction, got %d", stats.TileCount)
	}
	if stats.UsedMemory > stats.MaxMemory {
		t.Errorf("Used memory %d exceeds max %d", stats.UsedMemory, stats.MaxMemory)
	}

	// Oldest entries are gone, newest remain.
	if _, ok := cache.Peek("53394500"); ok {
		t.Error("Expected oldest tile to be evicted")
	}
	if _, ok := cache.Peek("53394509"); !ok {
		t.Error("Expected newest tile to be cached")
	}
}

func TestCacheLRUOrder(t *testing.T) {
	one := estimateTileMemory(&Tile{})
	cache := NewTileCache(2 * one)

	cache.Add("a", &Tile{MeshCode: "a"})
	cache.Add("b", &Tile{MeshCode: "b"})
	cache.Peek("a") // a becomes most recent
	cache.Add("c", &Tile{MeshCode: "c"})

	if _, ok := cache.Peek("b"); ok {
		t.Error("b was least recently used and should be evicted")
	}
	if _, ok := cache.Peek("a"); !ok {
		t.Error("a was touched and should survive")
	}
}

func TestCacheTooLarge(t *testing.T) {
	cache := NewTileCache(1024)
	big := &Tile{Samples: make([]Sample, 1000)}

	if err := cache.Add("big", big); err == nil {
		t.Error("Expected error adding tile larger than the cache")
	}

	// Get still hands the tile back.
	got, err := cache.Get("big", func() (*Tile, error) { return big, nil })
	if err != nil || got != big {
		t.Errorf("Get = (%v, %v), want the loaded tile", got, err)
	}
}

func TestCacheRemoveAndClear(t *testing.T) {
	cache := NewTileCache(0)
	cache.Add("a", &Tile{})
	cache.Add("b", &Tile{})

	cache.Remove("a")
	if _, ok := cache.Peek("a"); ok {
		t.Error("a should be removed")
	}
	if s := cache.Stats(); s.TileCount != 1 {
		t.Errorf("tile count = %d, want 1", s.TileCount)
	}

	cache.Clear()
	if s := cache.Stats(); s.TileCount != 0 || s.UsedMemory != 0 {
		t.Errorf("stats after Clear = %+v", s)
	}
}
