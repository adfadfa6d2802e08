package glyphmesh

import (
	"github.com/gogpu/glyphmesh/internal/cache"
)

// Unbounded is the capacity of a GlyphCache that never evicts.
const Unbounded = cache.Unbounded

// CacheStats holds cache statistics.
type CacheStats = cache.Stats

// GlyphCache maps keys to composed glyphs with least-recently-used eviction.
//
// Every operation takes one exclusive lock, so lookups that refresh recency
// and inserts that evict appear atomic to concurrent callers.
// GlyphCache is safe for concurrent use.
type GlyphCache struct {
	lru *cache.LRU[GlyphKey, *Glyph]
}

// NewGlyphCache creates a cache holding at most capacity glyphs. Pass
// Unbounded for no limit; a capacity of zero caches nothing.
func NewGlyphCache(capacity int) *GlyphCache {
	c := &GlyphCache{lru: cache.New[GlyphKey, *Glyph](capacity)}
	c.lru.OnEvict(func(key GlyphKey, _ *Glyph) {
		Logger().Debug("glyph evicted", "key", key.String())
	})
	return c
}

// Get returns the glyph for key and marks it most recently used.
// It returns ErrCacheMiss when key is absent.
func (c *GlyphCache) Get(key GlyphKey) (*Glyph, error) {
	g, ok := c.lru.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	return g, nil
}

// Set stores g under key. With capacity zero it does nothing. A key already
// present keeps its glyph and only becomes most recently used. At capacity
// the least recently used glyph is evicted first.
func (c *GlyphCache) Set(key GlyphKey, g *Glyph) {
	c.lru.Set(key, g)
}

// Exists reports whether key is cached. It does not change recency.
func (c *GlyphCache) Exists(key GlyphKey) bool {
	return c.lru.Exists(key)
}

// Clear removes key.
func (c *GlyphCache) Clear(key GlyphKey) {
	c.lru.Delete(key)
}

// ClearAll removes every glyph.
func (c *GlyphCache) ClearAll() {
	c.lru.Clear()
}

// SetCapacity changes the limit, evicting least recently used glyphs until
// the cache fits.
func (c *GlyphCache) SetCapacity(capacity int) {
	c.lru.SetCapacity(capacity)
}

// Len returns the number of cached glyphs.
func (c *GlyphCache) Len() int {
	return c.lru.Len()
}

// Capacity returns the limit, or Unbounded.
func (c *GlyphCache) Capacity() int {
	return c.lru.Capacity()
}

// Stats returns hit, miss and eviction counters.
func (c *GlyphCache) Stats() CacheStats {
	return c.lru.Stats()
}
