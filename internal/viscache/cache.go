// Package viscache memoizes visibility results keyed by launch id and input
// fingerprint, so repeated queries for unchanged inputs are served without
// recomputation.
package viscache

import (
	"sync"
	"time"

	"github.com/skyward/launchspot/internal/metrics"
	"github.com/skyward/launchspot/internal/visibility"
)

// DefaultTTL is how long an entry stays valid. Launch schedules shift on
// the order of hours; a shifted NET changes the fingerprint and bypasses
// the entry long before the TTL matters.
const DefaultTTL = 30 * time.Minute

type entry struct {
	hash       string
	result     visibility.Result
	insertedAt time.Time
	expiresAt  time.Time
}

// Cache is a mutex-guarded in-process memo. Entries are replaced whole,
// never mutated; an expired or fingerprint-mismatched entry is a miss.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time

	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a cache with the given TTL (DefaultTTL when zero).
func New(ttl time.Duration) *Cache {
	return NewWithClock(ttl, time.Now)
}

// NewWithClock creates a cache with an injectable clock so tests can
// control expiry.
func NewWithClock(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the cached result for the launch when the stored fingerprint
// matches and the entry has not expired.
func (c *Cache) Get(launchID, inputHash string) (visibility.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[launchID]
	if ok && c.now().After(e.expiresAt) {
		delete(c.entries, launchID)
		c.evictions++
		metrics.AddCacheEvictions(1)
		metrics.SetCacheEntries(len(c.entries))
		ok = false
	}
	if !ok || e.hash != inputHash {
		c.misses++
		metrics.IncCacheMisses()
		return visibility.Result{}, false
	}

	c.hits++
	metrics.IncCacheHits()
	return e.result, true
}

// Put stores the result, replacing any previous entry for the launch.
func (c *Cache) Put(launchID, inputHash string, r visibility.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[launchID] = entry{
		hash:       inputHash,
		result:     r,
		insertedAt: now,
		expiresAt:  now.Add(c.ttl),
	}
	metrics.SetCacheEntries(len(c.entries))
}

// Prune drops all expired entries and returns how many were removed.
func (c *Cache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for id, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, id)
			removed++
		}
	}
	if removed > 0 {
		c.evictions += uint64(removed)
		metrics.AddCacheEvictions(removed)
		metrics.SetCacheEntries(len(c.entries))
	}
	return removed
}

// Stats is a point-in-time snapshot for health reporting.
type Stats struct {
	Entries   int     `json:"entries"`
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	HitRate   float64 `json:"hit_rate"`
}

// Stats returns current cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Entries:   len(c.entries),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}
