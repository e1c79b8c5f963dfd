package cache

import (
	"strconv"
	"strings"
	"sync"
	"testing"
)

func TestNewFIFO(t *testing.T) {
	c := NewFIFO[string, int](100)
	if c == nil {
		t.Fatal("NewFIFO returned nil")
	}
	if c.Capacity() != 100 {
		t.Errorf("expected capacity 100, got %d", c.Capacity())
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}

func TestNewFIFODefaultCapacity(t *testing.T) {
	c := NewFIFO[string, int](0)
	if c.Capacity() != DefaultCapacity {
		t.Errorf("expected default capacity %d, got %d", DefaultCapacity, c.Capacity())
	}
}

func TestFIFOGetSet(t *testing.T) {
	c := NewFIFO[string, int](10)

	c.Set("key1", 42)

	val, ok := c.Get("key1")
	if !ok {
		t.Error("expected key1 to exist")
	}
	if val != 42 {
		t.Errorf("expected 42, got %d", val)
	}

	_, ok = c.Get("nonexistent")
	if ok {
		t.Error("expected nonexistent key to not exist")
	}
}

func TestFIFOEvictionOrder(t *testing.T) {
	c := NewFIFO[string, int](3)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Insert a fourth entry. "a" is oldest and must go.
	c.Set("d", 4)

	if _, ok := c.Get("a"); ok {
		t.Error("expected oldest entry 'a' to be evicted")
	}
	for _, key := range []string{"b", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("expected %q to survive eviction", key)
		}
	}
	if c.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", c.Len())
	}
}

func TestFIFONoPromotionOnRead(t *testing.T) {
	c := NewFIFO[string, int](2)

	c.Set("a", 1)
	c.Set("b", 2)

	// Repeated reads must not refresh "a"'s position.
	for i := 0; i < 10; i++ {
		c.Get("a")
	}

	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Error("expected 'a' to be evicted despite recent reads")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected 'b' to survive")
	}
}

func TestFIFOOverwriteKeepsPosition(t *testing.T) {
	c := NewFIFO[string, int](2)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10) // overwrite, "a" stays oldest

	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Error("expected 'a' to be evicted after overwrite")
	}
	if val, ok := c.Get("b"); !ok || val != 2 {
		t.Error("expected 'b' to survive")
	}
}

func TestFIFODelete(t *testing.T) {
	c := NewFIFO[string, int](10)

	c.Set("key1", 42)

	if !c.Delete("key1") {
		t.Error("expected Delete to return true for existing key")
	}
	if _, ok := c.Get("key1"); ok {
		t.Error("expected key1 to be deleted")
	}
	if c.Delete("nonexistent") {
		t.Error("expected Delete to return false for non-existing key")
	}
}

func TestFIFODeleteFunc(t *testing.T) {
	c := NewFIFO[string, int](10)

	c.Set("img1:a", 1)
	c.Set("img1:b", 2)
	c.Set("img2:a", 3)

	removed := c.DeleteFunc(func(key string) bool {
		return strings.HasPrefix(key, "img1:")
	})
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry left, got %d", c.Len())
	}
	if _, ok := c.Get("img2:a"); !ok {
		t.Error("expected img2:a to survive")
	}
}

func TestFIFODeleteFuncPreservesOrder(t *testing.T) {
	c := NewFIFO[string, int](3)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	c.DeleteFunc(func(key string) bool { return key == "b" })

	// "a" is still oldest. Filling back to capacity evicts it first.
	c.Set("d", 4)
	c.Set("e", 5)

	if _, ok := c.Get("a"); ok {
		t.Error("expected 'a' to be evicted first after DeleteFunc")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected 'c' to survive")
	}
}

func TestFIFOClear(t *testing.T) {
	c := NewFIFO[string, int](10)

	c.Set("key1", 1)
	c.Set("key2", 2)
	c.Set("key3", 3)

	if c.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", c.Len())
	}

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("expected 0 entries after clear, got %d", c.Len())
	}
}

func TestFIFOStats(t *testing.T) {
	c := NewFIFO[string, int](2)

	c.Set("key1", 1)
	c.Set("key2", 2)

	c.Get("key1")        // hit
	c.Get("key1")        // hit
	c.Get("nonexistent") // miss
	c.Set("key3", 3)     // eviction

	stats := c.Stats()
	if stats.Len != 2 {
		t.Errorf("expected Len=2, got %d", stats.Len)
	}
	if stats.Capacity != 2 {
		t.Errorf("expected Capacity=2, got %d", stats.Capacity)
	}
	if stats.Hits != 2 {
		t.Errorf("expected Hits=2, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("expected Misses=1, got %d", stats.Misses)
	}
	if stats.Evictions != 1 {
		t.Errorf("expected Evictions=1, got %d", stats.Evictions)
	}
}

func TestFIFOResetStats(t *testing.T) {
	c := NewFIFO[string, int](10)

	c.Set("key1", 1)
	c.Get("key1")
	c.Get("nonexistent")

	c.ResetStats()

	stats := c.Stats()
	if stats.Hits != 0 || stats.Misses != 0 || stats.Evictions != 0 {
		t.Errorf("expected all stats to be 0 after reset, got hits=%d misses=%d evictions=%d",
			stats.Hits, stats.Misses, stats.Evictions)
	}
}

func TestFIFOConcurrent(t *testing.T) {
	c := NewFIFO[int, int](1000)
	var wg sync.WaitGroup

	// Concurrent writes
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(n*100+j, n*100+j)
			}
		}(i)
	}
	wg.Wait()

	// Concurrent reads
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Get(n*100 + j)
			}
		}(i)
	}
	wg.Wait()

	if c.Len() == 0 {
		t.Error("expected non-empty cache after concurrent operations")
	}
	if c.Len() > c.Capacity() {
		t.Errorf("cache exceeded capacity: %d > %d", c.Len(), c.Capacity())
	}
}

func TestFIFOFiftyOneInserts(t *testing.T) {
	c := NewFIFO[string, int](DefaultCapacity)

	for i := 0; i <= DefaultCapacity; i++ {
		c.Set(strconv.Itoa(i), i)
	}

	if c.Len() != DefaultCapacity {
		t.Errorf("expected %d entries, got %d", DefaultCapacity, c.Len())
	}
	if _, ok := c.Get("0"); ok {
		t.Error("expected first-inserted entry to be evicted")
	}
	if _, ok := c.Get("1"); !ok {
		t.Error("expected second-inserted entry to survive")
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("expected exactly 1 eviction, got %d", c.Stats().Evictions)
	}
}
