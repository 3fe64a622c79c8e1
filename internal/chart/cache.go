package chart

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// LayoutKey is a structural hash of a LayoutInput.
func LayoutKey(in LayoutInput) uint64 {
	buf := make([]byte, 0, 40)
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(in.Width))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(in.Height))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(in.EventCount))
	if in.TimeProportional {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = append(buf, in.Mode...)
	return xxhash.Sum64(buf)
}

type cacheEntry struct {
	input  LayoutInput
	layout Layout
}

// LayoutCache memoizes ComputeLayout. Identical inputs return the identical
// Layout value; the oldest entry is evicted once capacity is reached.
type LayoutCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[uint64]cacheEntry
	order    []uint64

	hits   int
	misses int
}

// NewLayoutCache creates a cache holding at most capacity layouts.
func NewLayoutCache(capacity int) *LayoutCache {
	if capacity <= 0 {
		capacity = 64
	}
	return &LayoutCache{
		capacity: capacity,
		entries:  make(map[uint64]cacheEntry),
	}
}

// Layout returns the memoized layout for in, computing it on a miss.
func (c *LayoutCache) Layout(in LayoutInput) Layout {
	key := LayoutKey(in)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && e.input == in {
		c.hits++
		return e.layout
	}

	c.misses++
	l := ComputeLayout(in)
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{input: in, layout: l}

	for len(c.order) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	return l
}

// Stats reports hit and miss counts.
func (c *LayoutCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
