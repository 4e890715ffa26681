package lazyjson

import "sync"

// parseCacheCapacity bounds the number of distinct buffers ParseCache
// keeps a built Description for. Past this, the oldest entry (by
// insertion, not access) is evicted — a document decoded in a tight loop
// almost always repeats the same few shapes, so a simple FIFO captures
// nearly all the benefit of a full LRU at a fraction of the bookkeeping.
const parseCacheCapacity = 256

// ParseCache memoizes the Description built for a given JSON buffer,
// keyed by a content digest rather than the buffer's identity, so two
// unrelated byte slices with identical contents share one parse. It
// exists because repeatedly decoding many small, structurally identical
// documents (a stream of webhook payloads, say) would otherwise re-walk
// the tokenizer for bytes that never change.
//
// A digest match whose recorded buffer length differs from the
// buffer's is treated as a miss (so the caller re-runs Scan), which
// rules out a false match cheaply before trusting the cached table.
type ParseCache struct {
	mu      sync.Mutex
	entries map[uint64]*cacheEntry
	order   []uint64
}

type cacheEntry struct {
	length int
	table  *Description
}

// globalParseCache backs the package-level Decode/Encode helpers.
// Call-site-specific caching should construct a private ParseCache
// instead of relying on this one.
var globalParseCache = NewParseCache()

// NewParseCache returns an empty cache.
func NewParseCache() *ParseCache {
	return &ParseCache{entries: make(map[uint64]*cacheEntry)}
}

func (c *ParseCache) lookup(buf []byte, alg int) (*Description, bool) {
	key := digest(buf, alg)
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.length != len(buf) {
		return nil, false
	}
	return e.table, true
}

func (c *ParseCache) store(buf []byte, alg int, table *Description) {
	key := digest(buf, alg)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
		if len(c.order) > parseCacheCapacity {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
	}
	c.entries[key] = &cacheEntry{length: len(buf), table: table}
}

// Rehash rebuilds the cache's keys under a different digest algorithm,
// discarding any entry digested under the old one. Useful when
// DecoderSettings.HashAlgorithm changes mid-process and stale entries
// under the previous algorithm would otherwise leak forever.
func (c *ParseCache) Rehash(bufs map[string][]byte, newAlg int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*cacheEntry, len(bufs))
	c.order = c.order[:0]
	for _, buf := range bufs {
		key := digest(buf, newAlg)
		table := NewDescription()
		if _, err := Scan(buf, table); err != nil {
			continue
		}
		c.entries[key] = &cacheEntry{length: len(buf), table: table}
		c.order = append(c.order, key)
	}
}

// Len returns the number of cached entries.
func (c *ParseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
