package catalog

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CacheObserver is told about cache lookups
type CacheObserver interface {
	CacheHit()
	CacheMiss()
}

// CachedClient serves repeated requests from a bounded, expiring page cache.
// Only successful pages are cached.
type CachedClient struct {
	next     Client
	pages    *expirable.LRU[string, Page]
	observer CacheObserver
}

// NewCachedClient wraps next with a cache of size pages kept for ttl
func NewCachedClient(next Client, size int, ttl time.Duration, observer CacheObserver) *CachedClient {
	if size <= 0 {
		size = 64
	}
	return &CachedClient{
		next:     next,
		pages:    expirable.NewLRU[string, Page](size, nil, ttl),
		observer: observer,
	}
}

// FetchCourses returns a cached page when one is fresh, unless ctx was
// marked with WithoutCache.
func (c *CachedClient) FetchCourses(ctx context.Context, p Params) (Page, error) {
	key := p.Encode()
	if !skipCache(ctx) {
		if page, ok := c.pages.Get(key); ok {
			if c.observer != nil {
				c.observer.CacheHit()
			}
			return page, nil
		}
	}
	if c.observer != nil {
		c.observer.CacheMiss()
	}

	page, err := c.next.FetchCourses(ctx, p)
	if err != nil {
		return Page{}, err
	}
	c.pages.Add(key, page)
	return page, nil
}

// Purge drops every cached page
func (c *CachedClient) Purge() {
	c.pages.Purge()
}

// Len returns the number of cached pages
func (c *CachedClient) Len() int {
	return c.pages.Len()
}
