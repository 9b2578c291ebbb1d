// Package cache holds encoded read-API responses in memory, keyed per season
// file, with strong ETags derived from the payload. Expired entries are
// purged by the maintenance tickers; Flush drops everything after the
// collector rewrites a season.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// TTLs for the read API. Season files only change when the collector
// re-runs, so tables can be held longer than the season listing.
const (
	TTLSeasonList  = 1 * time.Minute
	TTLSeasonTable = 10 * time.Minute
)

// Entry is one cached response body.
type Entry struct {
	Data    []byte
	ETag    string
	Stored  time.Time
	Expires time.Time
}

// Stats is a point-in-time view of the cache.
type Stats struct {
	Enabled bool `json:"enabled"`
	Entries int  `json:"entries"`
	Active  int  `json:"active"`
	Expired int  `json:"expired"`
	Hits    int  `json:"hits"`
	Misses  int  `json:"misses"`
}

// Cache is safe for concurrent use. A disabled cache stores nothing but
// still computes ETags.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	enabled bool
	hits    int
	misses  int
	now     func() time.Time
}

// New creates a cache. Pass enabled=false to create a no-op cache.
func New(enabled bool) *Cache {
	return &Cache{
		entries: make(map[string]Entry),
		enabled: enabled,
		now:     time.Now,
	}
}

// Lookup returns the live entry stored under key.
func (c *Cache) Lookup(key string) (Entry, bool) {
	if !c.enabled {
		return Entry{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.Expires) {
		c.misses++
		return Entry{}, false
	}
	c.hits++
	return e, true
}

// Store saves data under key for ttl and returns the resulting entry.
func (c *Cache) Store(key string, data []byte, ttl time.Duration) Entry {
	now := c.now()
	e := Entry{Data: data, ETag: ETag(data), Stored: now, Expires: now.Add(ttl)}
	if !c.enabled {
		return e
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return e
}

// Stats reports entry counts and hit/miss totals.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{Enabled: c.enabled, Entries: len(c.entries), Hits: c.hits, Misses: c.misses}
	now := c.now()
	for _, e := range c.entries {
		if now.Before(e.Expires) {
			s.Active++
		}
	}
	s.Expired = s.Entries - s.Active
	return s
}

// Flush drops every entry and returns how many were held.
func (c *Cache) Flush() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]Entry)
	return n
}

// Purge removes expired entries and returns how many were removed.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for key, e := range c.entries {
		if !now.Before(e.Expires) {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

// ETag returns a strong ETag for a response body.
func ETag(data []byte) string {
	sum := sha256.Sum256(data)
	return `"` + hex.EncodeToString(sum[:12]) + `"`
}

// Matches reports whether an If-None-Match header selects etag. The header
// may list several tags; weak tags compare by their opaque part.
func Matches(ifNoneMatch, etag string) bool {
	ifNoneMatch = strings.TrimSpace(ifNoneMatch)
	if ifNoneMatch == "" {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		if strings.TrimPrefix(strings.TrimSpace(candidate), "W/") == strings.TrimPrefix(etag, "W/") {
			return true
		}
	}
	return false
}
