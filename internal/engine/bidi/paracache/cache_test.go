package paracache

import (
	"fmt"
	"testing"

	"github.com/scribe-edit/scribe/internal/engine/bidi"
)

func TestGetCachesResolution(t *testing.T) {
	c := New(DefaultConfig())
	p1 := c.Get("abc עבר", bidi.DirectionNeutral)
	p2 := c.Get("abc עבר", bidi.DirectionNeutral)
	if p1 != p2 {
		t.Error("second Get should return the cached paragraph")
	}
	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 {
		t.Errorf("hits=%d misses=%d, want 1 and 1", s.Hits, s.Misses)
	}
}

func TestBaseDirectionKeysSeparately(t *testing.T) {
	c := New(DefaultConfig())
	ltr := c.Get("abc", bidi.DirectionLTR)
	rtl := c.Get("abc", bidi.DirectionRTL)
	if ltr == rtl {
		t.Error("different base directions must resolve separately")
	}
	if ltr.BaseDirection() != bidi.DirectionLTR {
		t.Errorf("ltr base = %v", ltr.BaseDirection())
	}
	if rtl.BaseDirection() != bidi.DirectionRTL {
		t.Errorf("rtl base = %v", rtl.BaseDirection())
	}
}

func TestInvalidate(t *testing.T) {
	c := New(DefaultConfig())
	p1 := c.Get("stale", bidi.DirectionNeutral)
	c.Invalidate("stale")
	p2 := c.Get("stale", bidi.DirectionNeutral)
	if p1 == p2 {
		t.Error("Get after Invalidate should recompute")
	}
}

func TestEviction(t *testing.T) {
	c := New(Config{MaxParagraphs: 8, EvictionBatchSize: 2})
	for i := 0; i < 20; i++ {
		c.Get(fmt.Sprintf("line %d", i), bidi.DirectionNeutral)
	}
	if n := c.Len(); n > 8 {
		t.Errorf("Len() = %d, want <= 8", n)
	}
	if c.Stats().Evictions == 0 {
		t.Error("expected evictions to be recorded")
	}
}

func TestEvictionKeepsRecent(t *testing.T) {
	c := New(Config{MaxParagraphs: 4, EvictionBatchSize: 1})
	hot := c.Get("hot", bidi.DirectionNeutral)
	for i := 0; i < 4; i++ {
		c.Get(fmt.Sprintf("cold %d", i), bidi.DirectionNeutral)
		// Re-touch the hot entry so it stays most recent.
		c.Get("hot", bidi.DirectionNeutral)
	}
	if got := c.Get("hot", bidi.DirectionNeutral); got != hot {
		t.Error("recently used entry should survive eviction")
	}
}

func TestInvalidateAll(t *testing.T) {
	c := New(DefaultConfig())
	c.Get("one", bidi.DirectionNeutral)
	c.Get("two", bidi.DirectionNeutral)
	c.InvalidateAll()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after InvalidateAll", c.Len())
	}
}
