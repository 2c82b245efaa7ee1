// Package stock implements the Stock Cell: the sole source of truth for
// remaining inventory in one Engine process, guarded by a single mutex and
// fronted by a short-TTL read cache.
package stock

import (
	"sync"
	"sync/atomic"
	"time"
)

// cacheEntry is the (value, expiry) pair read atomically on the fast path.
type cacheEntry struct {
	value  int
	expiry time.Time
}

// Cell is an atomic integer counter with a short-TTL read cache. It is the
// only shared mutable datum in an Engine process; all mutation goes through
// TryDecrement, which is O(1) and does no I/O. The cache is read lock-free
// on the fast path and refreshed under the same mutex that guards total —
// there is no second lock.
type Cell struct {
	mu    sync.Mutex
	total int
	ttl   time.Duration

	cache atomic.Pointer[cacheEntry]
}

// New creates a Cell seeded with initial and a cache validity window ttl.
// A non-positive ttl disables caching (every Snapshot enters the critical
// section).
func New(initial int, ttl time.Duration) *Cell {
	if initial < 0 {
		initial = 0
	}
	return &Cell{total: initial, ttl: ttl}
}

// TryDecrement attempts to subtract qty from total atomically. qty must be
// > 0; callers are responsible for validating that before calling (see
// inventory.Service.Reserve, which owns that check).
//
// If total >= qty, total is decremented, the cache is invalidated, and
// (true, total-after) is returned. Otherwise (false, total) is returned
// without mutation.
func (c *Cell) TryDecrement(qty int) (accepted bool, remaining int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.total >= qty {
		c.total -= qty
		c.cache.Store(nil)
		return true, c.total
	}
	return false, c.total
}

// Snapshot returns a possibly-stale reading of total, bounded by ttl. The
// fast path (cache valid) never takes the mutex.
func (c *Cell) Snapshot() int {
	if e := c.cache.Load(); e != nil && time.Now().Before(e.expiry) {
		return e.value
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.total
	c.cache.Store(&cacheEntry{value: v, expiry: time.Now().Add(c.ttl)})
	return v
}
