// Package cache provides a generic map with strict least-recently-used
// eviction.
//
//	c := cache.New[string, int](2)
//	c.Set("a", 1)
//	c.Set("b", 2)
//	c.Get("a")    // "a" is now most recently used
//	c.Set("c", 3) // evicts "b"
//
// A capacity of Unbounded never evicts and a capacity of zero stores nothing.
// Setting a key that is already present only refreshes its recency.
//
// # Thread Safety
//
// LRU is safe for concurrent use. Every operation holds one mutex for its
// whole duration, including the recency update done by Get.
package cache
