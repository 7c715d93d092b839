package geocoder

import (
	"context"
	"strings"
	"sync"
	"time"

	"parcelbee/internal/domain"
)

// Geocoder resolves a free-text address.
type Geocoder interface {
	Geocode(ctx context.Context, address string) domain.GeocodeResult
}

type cacheEntry struct {
	point   domain.Point
	expires time.Time
}

// Cached memoises resolved addresses for a TTL. Failures are never cached, so
// an address that failed once is retried on the next estimate.
type Cached struct {
	next       Geocoder
	ttl        time.Duration
	maxEntries int
	outcomes   outcomeCounter
	now        func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCached wraps next. A non-positive ttl disables caching and returns next unchanged.
func NewCached(next Geocoder, ttl time.Duration, maxEntries int, outcomes outcomeCounter) Geocoder {
	if ttl <= 0 {
		return next
	}
	return &Cached{
		next:       next,
		ttl:        ttl,
		maxEntries: maxEntries,
		outcomes:   outcomes,
		now:        time.Now,
		entries:    make(map[string]cacheEntry),
	}
}

// Geocode serves a fresh cached point or delegates to the wrapped geocoder.
func (c *Cached) Geocode(ctx context.Context, address string) domain.GeocodeResult {
	key := strings.ToLower(strings.Join(strings.Fields(address), " "))
	now := c.now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && now.Before(e.expires) {
		if c.outcomes != nil {
			c.outcomes.WithLabelValues(OutcomeCacheHit).Inc()
		}
		return domain.Resolved(e.point)
	}

	res := c.next.Geocode(ctx, address)
	if res.OK() {
		c.store(key, res.Point, now)
	}
	return res
}

func (c *Cached) store(key string, p domain.Point, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		for k, e := range c.entries {
			if !now.Before(e.expires) {
				delete(c.entries, k)
			}
		}
		if len(c.entries) >= c.maxEntries {
			return
		}
	}
	c.entries[key] = cacheEntry{point: p, expires: now.Add(c.ttl)}
}

// Len returns the number of cached addresses.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
