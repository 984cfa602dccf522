package proputil

import "sync"

// SimilarityCache bounds memory for repeated similarity lookups (spec.md
// §5: "bounded (default 1000 entries), FIFO eviction of oldest 20% on
// overflow)"). It is main-context-only: the reconciler consults it before
// recomputing Similarity for a given old/new subtree-root pair; workers
// never see it (spec.md §5 "the similarity cache is main-context-only").
type SimilarityCache struct {
	mu       sync.Mutex
	capacity int
	order    []cacheKey
	values   map[cacheKey]float64
}

type cacheKey struct {
	oldRoot, newRoot int32
}

// NewSimilarityCache creates a cache with the given capacity. capacity <= 0
// falls back to spec.md's default of 1000.
func NewSimilarityCache(capacity int) *SimilarityCache {
	if capacity <= 0 {
		capacity = 1000
	}
	return &SimilarityCache{
		capacity: capacity,
		values:   make(map[cacheKey]float64, capacity),
	}
}

// Get returns a cached score for (oldRoot, newRoot), if present.
func (c *SimilarityCache) Get(oldRoot, newRoot int32) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[cacheKey{oldRoot, newRoot}]
	return v, ok
}

// Put stores a score, evicting the oldest 20% of entries if the cache is full.
func (c *SimilarityCache) Put(oldRoot, newRoot int32, score float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cacheKey{oldRoot, newRoot}
	if _, exists := c.values[key]; exists {
		c.values[key] = score
		return
	}
	if len(c.order) >= c.capacity {
		evict := c.capacity / 5
		if evict == 0 {
			evict = 1
		}
		for i := 0; i < evict && len(c.order) > 0; i++ {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.values, oldest)
		}
	}
	c.order = append(c.order, key)
	c.values[key] = score
}

// Len returns the current number of cached entries.
func (c *SimilarityCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}
