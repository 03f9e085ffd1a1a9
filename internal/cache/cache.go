// Package cache implements the time-bounded page cache used by the home feed.
//
// The cache stores fully rendered response bodies keyed by normalized request
// identity. Entries live for a fixed TTL; within that window the cached bytes
// are served as-is, so a new or deleted post is intentionally NOT visible
// until the entry expires or Clear is called. That staleness window is a
// documented behaviour of the site, and the tests pin it down.
//
// Expiry is lazy: an expired entry is dropped on the Get that notices it.
// With one cached route and second-scale TTLs there is nothing for a
// background janitor to reclaim.
package cache

import (
	"sync"
	"time"
)

// Entry is one cached rendered page.
type Entry struct {
	Status      int
	ContentType string
	Body        []byte
}

type record struct {
	entry     Entry
	expiresAt time.Time
}

// PageCache is a TTL cache of rendered pages, safe for concurrent use.
type PageCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	records map[string]record
}

// New creates a PageCache with the given TTL.
func New(ttl time.Duration) *PageCache {
	return &PageCache{
		ttl:     ttl,
		now:     time.Now,
		records: make(map[string]record),
	}
}

// NewWithClock creates a PageCache with an injected clock.
// Tests use this to step time past the TTL without sleeping.
func NewWithClock(ttl time.Duration, now func() time.Time) *PageCache {
	c := New(ttl)
	c.now = now
	return c
}

// Get returns the cached entry for key, if present and not expired.
func (c *PageCache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	rec, ok := c.records[key]
	c.mu.RUnlock()

	if !ok {
		return Entry{}, false
	}
	if c.now().After(rec.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock — a concurrent Set may have
		// refreshed the entry between the two lock acquisitions.
		if cur, still := c.records[key]; still && c.now().After(cur.expiresAt) {
			delete(c.records, key)
		}
		c.mu.Unlock()
		return Entry{}, false
	}

	return rec.entry, true
}

// Set stores an entry under key for one TTL from now.
func (c *PageCache) Set(key string, entry Entry) {
	c.mu.Lock()
	c.records[key] = record{entry: entry, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Clear drops every entry. This is the explicit invalidation hook — tests
// use it, and an admin action could.
func (c *PageCache) Clear() {
	c.mu.Lock()
	c.records = make(map[string]record)
	c.mu.Unlock()
}

// Len reports the number of stored entries, expired or not.
func (c *PageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
