// Package cpecache implements the CPE/OVAL session cache: a mapping from
// absolute href to an engine-supplied session, shared across every Policy
// in a PolicyModel. On first reference to a href the core loads a
// definition model and constructs a session; subsequent references reuse
// it. This is grounded directly on the teacher's fetch-dedup cache
// (singleflight.Group guarding a plain map) — here the "fetch" is loading
// CPE/OVAL content instead of a GitHub API response, and the cache is
// bounded by an LRU so a long-running host embedding this core cannot grow
// it without limit.
package cpecache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Destructor releases a session when it is evicted or the cache is torn down.
type Destructor func(session any)

// hitCounter is the type of both OnHit and OnMiss; any counter with an Inc()
// method satisfies it, such as the prometheus.Counter fields of
// *metrics.Metrics. It is declared narrowly here so this package does not import
// internal/metrics (the applicability layer must not depend on the
// observability layer).
type hitCounter interface{ Inc() }

// Cache is a bounded, deduplicating href -> session cache.
type Cache struct {
	group   singleflight.Group
	entries *lru.Cache[string, any]
	destroy Destructor

	OnHit, OnMiss hitCounter // both optional
}

// New returns a Cache holding at most size sessions. destroy may be nil.
func New(size int, destroy Destructor) (*Cache, error) {
	c := &Cache{destroy: destroy}
	entries, err := lru.NewWithEvict(size, func(key string, value any) {
		if c.destroy != nil {
			c.destroy(value)
		}
	})
	if err != nil {
		return nil, err
	}
	c.entries = entries
	return c, nil
}

// GetOrLoad returns the cached session for href, invoking load at most
// once even under concurrent first-references to the same href.
func (c *Cache) GetOrLoad(ctx context.Context, href string, load func(ctx context.Context) (any, error)) (any, error) {
	if v, ok := c.entries.Get(href); ok {
		c.hit()
		return v, nil
	}
	v, err, _ := c.group.Do(href, func() (any, error) {
		if v, ok := c.entries.Get(href); ok {
			c.hit()
			return v, nil
		}
		c.miss()
		session, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.entries.Add(href, session)
		return session, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Close destroys every cached session and clears the cache.
func (c *Cache) Close() {
	c.entries.Purge()
}

// Len reports the number of cached sessions.
func (c *Cache) Len() int { return c.entries.Len() }

func (c *Cache) hit() {
	if c.OnHit != nil {
		c.OnHit.Inc()
	}
}

func (c *Cache) miss() {
	if c.OnMiss != nil {
		c.OnMiss.Inc()
	}
}
