// Package cache provides a thread-safe FIFO cache with atomic statistics.
//
// Unlike an LRU cache, entries are evicted strictly in insertion order.
// Reading an entry does not refresh its position, so a hot entry that was
// inserted early is still the first to go once the cache fills. This keeps
// eviction deterministic, which matters when cached values hold large
// pixel buffers and callers reason about exactly which results survive.
package cache

import (
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the maximum number of entries when no capacity is given.
const DefaultCapacity = 50

// Stats holds cache statistics for monitoring.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	HitRate   float64
	Evictions uint64
}

// FIFO is a thread-safe cache that evicts the oldest inserted entry
// when full. Overwriting an existing key keeps its original queue
// position.
type FIFO[K comparable, V any] struct {
	mu       sync.RWMutex
	entries  map[K]V
	order    []K
	capacity int

	// Statistics (atomic for zero-allocation reads)
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewFIFO creates a FIFO cache holding at most capacity entries.
// If capacity <= 0, DefaultCapacity (50) is used.
func NewFIFO[K comparable, V any](capacity int) *FIFO[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &FIFO[K, V]{
		entries:  make(map[K]V, capacity),
		order:    make([]K, 0, capacity),
		capacity: capacity,
	}
}

// Get retrieves a cached value by key.
// Returns (value, true) if found, (zero, false) otherwise.
// The entry's eviction position is not affected.
func (c *FIFO[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	value, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	return value, true
}

// Set stores a value in the cache. If the key is new and the cache is
// full, the oldest entry is evicted first. If the key already exists,
// its value is replaced in place.
//
// The value is stored as-is (not copied). Callers should not modify it
// after caching.
func (c *FIFO[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = value
		return
	}

	for len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		c.evictions.Add(1)
	}

	c.entries[key] = value
	c.order = append(c.order, key)
}

// Delete removes an entry from the cache.
// Returns true if the entry was found and removed.
func (c *FIFO[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	c.removeFromOrder(key)
	return true
}

// DeleteFunc removes every entry whose key satisfies match.
// Returns the number of entries removed.
func (c *FIFO[K, V]) DeleteFunc(match func(K) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	kept := c.order[:0]
	for _, key := range c.order {
		if match(key) {
			delete(c.entries, key)
			removed++
			continue
		}
		kept = append(kept, key)
	}
	c.order = kept
	return removed
}

// Clear removes all entries from the cache.
func (c *FIFO[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]V, c.capacity)
	c.order = c.order[:0]
}

// Len returns the number of entries in the cache.
func (c *FIFO[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Capacity returns the maximum number of entries.
func (c *FIFO[K, V]) Capacity() int {
	return c.capacity
}

// Stats returns current cache statistics.
// This operation is mostly lock-free (atomic counters).
func (c *FIFO[K, V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	evictions := c.evictions.Load()

	var hitRate float64
	total := hits + misses
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Len:       c.Len(),
		Capacity:  c.capacity,
		Hits:      hits,
		Misses:    misses,
		HitRate:   hitRate,
		Evictions: evictions,
	}
}

// ResetStats resets all statistics counters to zero.
func (c *FIFO[K, V]) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// removeFromOrder drops key from the insertion order slice.
// Caller must hold c.mu.
func (c *FIFO[K, V]) removeFromOrder(key K) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
