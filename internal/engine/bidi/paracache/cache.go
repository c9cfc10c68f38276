// Package paracache caches resolved bidi paragraphs keyed by content.
// Resolution is pure, so a cached Paragraph stays valid until its text
// changes; the cache is bounded and evicts the least recently used
// entries in batches.
package paracache

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/scribe-edit/scribe/internal/engine/bidi"
)

// Config configures cache behavior.
type Config struct {
	// MaxParagraphs is the maximum number of resolutions to retain.
	MaxParagraphs int

	// EvictionBatchSize is the number of entries dropped per eviction.
	EvictionBatchSize int
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		MaxParagraphs:     256,
		EvictionBatchSize: 16,
	}
}

type key struct {
	hash uint64
	base bidi.Direction
}

type entry struct {
	para   *bidi.Paragraph
	text   string // full text kept to rule out hash collisions
	access uint64
}

// Cache is a bounded, concurrency-safe paragraph resolution cache.
type Cache struct {
	mu      sync.Mutex
	config  Config
	entries map[key]*entry
	clock   uint64

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New creates a cache with the given configuration.
func New(config Config) *Cache {
	if config.MaxParagraphs <= 0 {
		config.MaxParagraphs = DefaultConfig().MaxParagraphs
	}
	if config.EvictionBatchSize <= 0 {
		config.EvictionBatchSize = DefaultConfig().EvictionBatchSize
	}
	return &Cache{
		config:  config,
		entries: make(map[key]*entry),
	}
}

// Get returns the resolved paragraph for text under the given base
// direction, computing and caching it on a miss.
func (c *Cache) Get(text string, base bidi.Direction) *bidi.Paragraph {
	k := key{hash: hashContent(text), base: base}

	c.mu.Lock()
	if e, ok := c.entries[k]; ok && e.text == text {
		c.clock++
		e.access = c.clock
		c.mu.Unlock()
		c.hits.Add(1)
		return e.para
	}
	c.mu.Unlock()
	c.misses.Add(1)

	var para *bidi.Paragraph
	if base == bidi.DirectionNeutral {
		para = bidi.NewParagraph(text)
	} else {
		para = bidi.NewParagraph(text, bidi.WithBaseDirection(base))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock++
	c.entries[k] = &entry{para: para, text: text, access: c.clock}
	c.evictIfNeeded()
	return para
}

// Invalidate drops the cached resolution for text, all base
// directions.
func (c *Cache) Invalidate(text string) {
	h := hashContent(text)
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.hash == h {
			delete(c.entries, k)
		}
	}
}

// InvalidateAll clears the cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[key]*entry)
}

// Len returns the number of cached resolutions.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictIfNeeded drops the least recently used entries once the cache
// exceeds its bound. Called with the lock held.
func (c *Cache) evictIfNeeded() {
	if len(c.entries) <= c.config.MaxParagraphs {
		return
	}

	type candidate struct {
		k      key
		access uint64
	}
	candidates := make([]candidate, 0, len(c.entries))
	for k, e := range c.entries {
		candidates = append(candidates, candidate{k, e.access})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].access < candidates[j].access
	})

	toEvict := len(c.entries) - c.config.MaxParagraphs + c.config.EvictionBatchSize
	if toEvict > len(candidates) {
		toEvict = len(candidates)
	}
	for i := 0; i < toEvict; i++ {
		delete(c.entries, candidates[i].k)
	}
	c.evictions.Add(uint64(toEvict))
}

// Stats holds cache statistics.
type Stats struct {
	Size      int
	MaxSize   int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// Stats returns a snapshot of cache statistics.
func (c *Cache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:      len(c.entries),
		MaxSize:   c.config.MaxParagraphs,
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   rate,
	}
}

// hashContent computes an FNV-1a hash of the content.
func hashContent(s string) uint64 {
	var hash uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		hash ^= uint64(s[i])
		hash *= 1099511628211
	}
	return hash
}
