package gsielev

import (
	"container/list"
	"fmt"
	"sync"
)

// TileCache holds decoded tiles with LRU eviction.
//
// Entries are keyed by Level3 code. A nil tile is a valid entry and records a
// cell whose archive carries no dataset, so repeated queries over open water
// do not reopen the archive.
//
// Memory accounting is approximate; see estimateTileMemory.
type TileCache struct {
	maxMemory  int64 // bytes, 0 for unlimited
	usedMemory int64
	tiles      map[string]*cacheEntry
	lru        *list.List // most recent at front
	mu         sync.RWMutex
}

type cacheEntry struct {
	code        string
	tile        *Tile
	memorySize  int64
	element     *list.Element
	accessCount int
}

// NewTileCache creates a cache with the given memory limit in bytes.
// Set to 0 for an unbounded cache.
func NewTileCache(maxMemoryBytes int64) *TileCache {
	return &TileCache{
		maxMemory: maxMemoryBytes,
		tiles:     make(map[string]*cacheEntry),
		lru:       list.New(),
	}
}

// Peek returns the cached entry for code without loading. The second result
// reports whether an entry exists; the tile itself may be nil.
func (c *TileCache) Peek(code string) (*Tile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.tiles[code]
	if !ok {
		return nil, false
	}
	entry.accessCount++
	c.lru.MoveToFront(entry.element)
	return entry.tile, true
}

// Get returns the tile for code, calling loader on a miss and caching its
// result. Loader errors are returned and not cached.
func (c *TileCache) Get(code string, loader func() (*Tile, error)) (*Tile, error) {
	if tile, ok := c.Peek(code); ok {
		return tile, nil
	}

	tile, err := loader()
	if err != nil {
		return nil, err
	}

	// A tile too large for the cache is still returned to the caller.
	_ = c.Add(code, tile)
	return tile, nil
}

// Add caches tile under code, evicting least recently used entries to make
// room. It fails only when the tile alone exceeds the memory limit.
func (c *TileCache) Add(code string, tile *Tile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	memSize := estimateTileMemory(tile)

	if entry, ok := c.tiles[code]; ok {
		c.usedMemory += memSize - entry.memorySize
		entry.tile = tile
		entry.memorySize = memSize
		entry.accessCount++
		c.lru.MoveToFront(entry.element)
		return nil
	}

	if c.maxMemory > 0 && memSize > c.maxMemory {
		return fmt.Errorf("tile %s too large for cache (%d bytes > %d bytes max)",
			code, memSize, c.maxMemory)
	}

	if c.maxMemory > 0 {
		for c.usedMemory+memSize > c.maxMemory && c.lru.Len() > 0 {
			c.evictLRU()
		}
	}

	entry := &cacheEntry{
		code:        code,
		tile:        tile,
		memorySize:  memSize,
		accessCount: 1,
	}
	entry.element = c.lru.PushFront(entry)
	c.tiles[code] = entry
	c.usedMemory += memSize

	return nil
}

// evictLRU removes the least recently used entry.
// Must be called with c.mu locked.
func (c *TileCache) evictLRU() {
	elem := c.lru.Back()
	if elem == nil {
		return
	}
	entry := elem.Value.(*cacheEntry)
	c.lru.Remove(elem)
	delete(c.tiles, entry.code)
	c.usedMemory -= entry.memorySize
}

// Remove drops code from the cache.
func (c *TileCache) Remove(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.tiles[code]; ok {
		c.lru.Remove(entry.element)
		delete(c.tiles, code)
		c.usedMemory -= entry.memorySize
	}
}

// Clear removes all entries.
func (c *TileCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tiles = make(map[string]*cacheEntry)
	c.lru.Init()
	c.usedMemory = 0
}

// Stats returns cache occupancy.
func (c *TileCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := CacheStats{
		UsedMemory: c.usedMemory,
		MaxMemory:  c.maxMemory,
	}
	for _, entry := range c.tiles {
		stats.TotalAccess += entry.accessCount
		if entry.tile == nil {
			stats.EmptyCount++
		} else {
			stats.TileCount++
		}
	}
	return stats
}

// CacheStats holds cache occupancy figures.
type CacheStats struct {
	TileCount   int   // cached tiles with data
	EmptyCount  int   // cached cells without data
	UsedMemory  int64 // estimated bytes
	MaxMemory   int64 // limit in bytes, 0 for unlimited
	TotalAccess int   // accesses across cached entries
}
