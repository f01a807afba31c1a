package dashboard

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/eringen/visitordash/aggregate"
	"github.com/eringen/visitordash/dataset"
)

// maxCacheEntries bounds the number of memoized selections.
const maxCacheEntries = 256

type cacheKey struct {
	generation uint64
	start, end string
}

func (k cacheKey) String() string {
	return strconv.FormatUint(k.generation, 10) + "|" + k.start + "|" + k.end
}

type cacheEntry struct {
	summary aggregate.Summary
	stored  time.Time
}

// SummaryCache memoizes aggregation passes per snapshot generation and interval.
// The pipeline is pure, so a cached summary is identical to a fresh one until
// the dataset is replaced. Concurrent misses for the same key share one pass.
type SummaryCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]cacheEntry
	ttl     time.Duration
	group   singleflight.Group
	metrics *Metrics
	now     func() time.Time
}

// NewSummaryCache creates a cache with the given TTL. A zero TTL disables caching.
func NewSummaryCache(ttl time.Duration, metrics *Metrics) *SummaryCache {
	return &SummaryCache{
		entries: make(map[cacheKey]cacheEntry),
		ttl:     ttl,
		metrics: metrics,
		now:     time.Now,
	}
}

// Summary returns the aggregation of snap for iv, computing it at most once per TTL.
func (c *SummaryCache) Summary(snap *dataset.Snapshot, iv aggregate.DateInterval) aggregate.Summary {
	if c.ttl <= 0 {
		return c.compute(snap, iv)
	}
	key := cacheKey{
		generation: snap.Generation,
		start:      iv.Start.Format(aggregate.DateLayout),
		end:        iv.End.Format(aggregate.DateLayout),
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Sub(e.stored) < c.ttl {
		c.metrics.CacheHit()
		return e.summary
	}

	v, _, _ := c.group.Do(key.String(), func() (interface{}, error) {
		s := c.compute(snap, iv)
		c.store(key, s)
		return s, nil
	})
	return v.(aggregate.Summary)
}

// Invalidate drops every cached summary.
func (c *SummaryCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[cacheKey]cacheEntry)
	c.mu.Unlock()
}

// Len returns the number of cached summaries.
func (c *SummaryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *SummaryCache) compute(snap *dataset.Snapshot, iv aggregate.DateInterval) aggregate.Summary {
	start := time.Now()
	s := aggregate.Compute(snap.Records, iv)
	c.metrics.ObserveRecompute(time.Since(start))
	return s
}

func (c *SummaryCache) store(key cacheKey, s aggregate.Summary) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if k.generation < key.generation || now.Sub(e.stored) >= c.ttl {
			delete(c.entries, k)
		}
	}
	if len(c.entries) >= maxCacheEntries {
		c.entries = make(map[cacheKey]cacheEntry)
	}
	c.entries[key] = cacheEntry{summary: s, stored: now}
}
