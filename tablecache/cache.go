// Package tablecache holds the most recently built Shoup table set for a
// hash subkey, rebuilding only when the subkey changes. A session that
// dominates a cache's lifetime (the common case: one key used for many
// blocks) pays the table-build cost once.
package tablecache

import (
	"sync"

	"github.com/cybroslabs/gcmcore-go/galois"
)

// Cache holds one table set plus the subkey it was built for. It is not
// safe for concurrent use; a context with its own Cache never needs to
// coordinate with anything else, which is the default and recommended mode.
type Cache struct {
	owner  galois.Block
	tables *galois.Tables
	valid  bool
}

// Tables returns the table set for h, rebuilding if h differs from whatever
// subkey the cache currently holds.
func (c *Cache) Tables(h galois.Block) *galois.Tables {
	if c.valid && c.owner == h {
		return c.tables
	}
	c.tables = galois.BuildTables(h)
	c.owner = h
	c.valid = true
	return c.tables
}

// Reset discards the cached table set, forcing a rebuild on the next call.
func (c *Cache) Reset() {
	c.valid = false
	c.tables = nil
}

// Shared is a process-wide single-slot cache guarded by a mutex: contexts
// that happen to use the same key reuse one build of the tables instead of
// each building their own, and each lookup hands back its own copy of that
// table set. The cost is a lock and a table copy on every lookup, and a
// rebuild storm if callers interleave distinct keys. Per-context Cache is
// the better default for multi-threaded callers; Shared exists because the
// specification permits it, not because it is usually the right choice.
type Shared struct {
	mu    sync.Mutex
	cache Cache
}

// Tables returns a copy of the table set for h. The copy is returned (not a
// pointer into shared state) so the lock need only be held long enough to
// service the rebuild-or-reuse decision, not for the caller's entire
// multiplication pass.
func (s *Shared) Tables(h galois.Block) *galois.Tables {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := *s.cache.Tables(h)
	return &t
}
