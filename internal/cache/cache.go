package cache

import "sync"

// Unbounded is the capacity of an LRU that never evicts.
const Unbounded = -1

// LRU is a generic map with a maximum entry count and strict
// least-recently-used eviction.
//
// Every operation that reads or updates recency takes one exclusive lock, so
// the map and the recency list always change together.
// LRU is safe for concurrent use and must not be copied after creation.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*entry[K, V]
	order    *lruList[K]
	capacity int
	onEvict  func(K, V)

	hits      uint64
	misses    uint64
	evictions uint64
}

type entry[K comparable, V any] struct {
	value V
	node  *lruNode[K]
}

type evicted[K comparable, V any] struct {
	key   K
	value V
}

// New creates an LRU holding at most capacity entries.
// A negative capacity (Unbounded) never evicts; zero stores nothing.
func New[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity < 0 {
		capacity = Unbounded
	}
	return &LRU[K, V]{
		entries:  make(map[K]*entry[K, V]),
		order:    newLRUList[K](),
		capacity: capacity,
	}
}

// OnEvict registers fn to be called for every entry dropped to make room or
// to honor a smaller capacity. Explicit deletes do not trigger it.
// fn runs after the lock is released and may use the cache.
func (c *LRU[K, V]) OnEvict(fn func(key K, value V)) {
	c.mu.Lock()
	c.onEvict = fn
	c.mu.Unlock()
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.MoveToFront(e.node)
	return e.value, true
}

// Set inserts value under key.
//
// A zero-capacity cache ignores the call. An existing key keeps its value and
// only becomes most recently used. Otherwise, when the cache is full, the
// least recently used entry is evicted first.
func (c *LRU[K, V]) Set(key K, value V) {
	c.mu.Lock()
	if c.capacity == 0 {
		c.mu.Unlock()
		return
	}
	if e, ok := c.entries[key]; ok {
		c.order.MoveToFront(e.node)
		c.mu.Unlock()
		return
	}
	var gone []evicted[K, V]
	if c.capacity > 0 && len(c.entries) >= c.capacity {
		gone = c.evictTo(c.capacity - 1)
	}
	c.entries[key] = &entry[K, V]{value: value, node: c.order.PushFront(key)}
	fn := c.onEvict
	c.mu.Unlock()

	notify(fn, gone)
}

// Exists reports whether key is cached without touching its recency.
func (c *LRU[K, V]) Exists(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key]
	return ok
}

// Delete removes key. It reports whether the key was present.
func (c *LRU[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.Remove(e.node)
	delete(c.entries, key)
	return true
}

// Clear removes every entry. Statistics are kept.
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*entry[K, V])
	c.order.Clear()
}

// SetCapacity changes the maximum entry count, evicting least recently used
// entries until the cache fits.
func (c *LRU[K, V]) SetCapacity(capacity int) {
	c.mu.Lock()
	if capacity < 0 {
		capacity = Unbounded
	}
	c.capacity = capacity
	var gone []evicted[K, V]
	if capacity >= 0 {
		gone = c.evictTo(capacity)
	}
	fn := c.onEvict
	c.mu.Unlock()

	notify(fn, gone)
}

// Len returns the number of entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Capacity returns the maximum entry count, or Unbounded.
func (c *LRU[K, V]) Capacity() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.capacity
}

// Stats returns a snapshot of the cache counters.
func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:       len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// ResetStats zeroes the hit, miss and eviction counters.
func (c *LRU[K, V]) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hits, c.misses, c.evictions = 0, 0, 0
}

// evictTo drops least recently used entries until at most n remain.
// Caller must hold c.mu.
func (c *LRU[K, V]) evictTo(n int) []evicted[K, V] {
	var gone []evicted[K, V]
	for len(c.entries) > n {
		back := c.order.Back()
		e := c.entries[back.key]
		c.order.Remove(back)
		delete(c.entries, back.key)
		c.evictions++
		gone = append(gone, evicted[K, V]{key: back.key, value: e.value})
	}
	return gone
}

func notify[K comparable, V any](fn func(K, V), gone []evicted[K, V]) {
	if fn == nil {
		return
	}
	for _, g := range gone {
		fn(g.key, g.value)
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the maximum entry count, or Unbounded.
	Capacity int
	// Hits is the number of successful Get calls.
	Hits uint64
	// Misses is the number of Get calls for absent keys.
	Misses uint64
	// HitRate is Hits / (Hits + Misses), 0 when nothing was looked up.
	HitRate float64
	// Evictions is the number of entries dropped to honor the capacity.
	Evictions uint64
}
