// Package resultcache memoizes ranked search results per (query, filter set).
package resultcache

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/tagseek/internal/domain/search/filter"
	"github.com/kailas-cloud/tagseek/internal/domain/search/result"
)

// DefaultTTL is how long an entry counts as a hit.
const DefaultTTL = 30 * time.Second

type entry struct {
	results []result.Result
	stored  time.Time
}

// Cache is an in-process TTL cache. Stale entries stay until overwritten or cleared;
// staleness is checked on lookup. Not safe for concurrent use.
type Cache struct {
	entries    map[string]entry
	ttl        time.Duration
	now        func() time.Time
	cacheTotal *prometheus.CounterVec
}

// New creates a cache. ttl <= 0 means DefaultTTL, a nil now means time.Now.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"/"stale"), may be nil.
func New(ttl time.Duration, now func() time.Time, cacheTotal *prometheus.CounterVec) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{
		entries:    make(map[string]entry),
		ttl:        ttl,
		now:        now,
		cacheTotal: cacheTotal,
	}
}

// Key serializes a query and the canonical form of its filter set.
func Key(query string, filters []filter.Filter) string {
	return strconv.Quote(query) + "|" + filter.Canonical(filters)
}

// Lookup returns the stored results when the entry is younger than the TTL.
func (c *Cache) Lookup(query string, filters []filter.Filter) ([]result.Result, bool) {
	e, ok := c.entries[Key(query, filters)]
	if !ok {
		c.inc("miss")
		return nil, false
	}
	if c.now().Sub(e.stored) >= c.ttl {
		c.inc("stale")
		return nil, false
	}
	c.inc("hit")
	return clone(e.results), true
}

// Store records results for (query, filters), replacing any previous entry.
func (c *Cache) Store(query string, filters []filter.Filter, results []result.Result) {
	c.entries[Key(query, filters)] = entry{results: clone(results), stored: c.now()}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	clear(c.entries)
}

// Len returns the number of entries, stale ones included.
func (c *Cache) Len() int { return len(c.entries) }

func (c *Cache) inc(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func clone(rs []result.Result) []result.Result {
	out := make([]result.Result, len(rs))
	copy(out, rs)
	return out
}
