package canvas

import "github.com/youngbloodcyb/shader-canvas/cache"

// ResultCacheSize is the default bound on memoized composite results.
const ResultCacheSize = 50

// ResultCache memoizes fully composited outputs keyed by fingerprint.
// Eviction is FIFO by insertion order: reading an entry does not
// refresh it, so the cache's contents are a deterministic function of
// the insertion sequence.
type ResultCache struct {
	entries *cache.FIFO[string, *Pixmap]
}

// NewResultCache creates a result cache bounded at capacity entries.
// If capacity <= 0, ResultCacheSize (50) is used.
func NewResultCache(capacity int) *ResultCache {
	if capacity <= 0 {
		capacity = ResultCacheSize
	}
	return &ResultCache{entries: cache.NewFIFO[string, *Pixmap](capacity)}
}

// Get returns the cached composite for a fingerprint, if present.
// Callers must not mutate the returned pixmap.
func (rc *ResultCache) Get(fp string) (*Pixmap, bool) {
	return rc.entries.Get(fp)
}

// Put stores a composite under its fingerprint, evicting the oldest
// entry when the cache is full.
func (rc *ResultCache) Put(fp string, pm *Pixmap) {
	rc.entries.Set(fp, pm)
}

// InvalidateBySource removes every entry derived from the given source
// identity. Call when a source image is replaced or removed. Returns
// the number of entries removed.
func (rc *ResultCache) InvalidateBySource(sourceID string) int {
	return rc.entries.DeleteFunc(func(fp string) bool {
		return fingerprintMatchesSource(fp, sourceID)
	})
}

// Clear empties the cache.
func (rc *ResultCache) Clear() {
	rc.entries.Clear()
}

// Len returns the number of cached results.
func (rc *ResultCache) Len() int {
	return rc.entries.Len()
}

// Stats returns hit, miss, and eviction counters.
func (rc *ResultCache) Stats() cache.Stats {
	return rc.entries.Stats()
}
