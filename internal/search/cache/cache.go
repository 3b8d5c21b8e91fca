// Package cache provides an in-memory TTL cache for search responses with
// request collapsing, so a burst of identical queries scrapes each vendor
// only once.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pricewise-go/pricewise/internal/search"
)

// Cache caches aggregated search responses keyed by query.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheEntry
	ttl      time.Duration
	inflight map[string]*inflightRequest
	done     chan struct{}
}

type cacheEntry struct {
	response  *search.Response
	expiresAt time.Time
}

type inflightRequest struct {
	done     chan struct{}
	response *search.Response
	err      error
}

// New creates a Cache with the specified TTL.
func New(ttl time.Duration) *Cache {
	c := &Cache{
		entries:  make(map[string]*cacheEntry),
		ttl:      ttl,
		inflight: make(map[string]*inflightRequest),
		done:     make(chan struct{}),
	}

	go c.cleanup()

	return c
}

// Close stops the background cleanup goroutine.
func (c *Cache) Close() {
	close(c.done)
}

// Key derives the cache key for a query. Queries differing only in case
// or surrounding whitespace hit the same entry.
func (c *Cache) Key(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// GetOrFetch retrieves a response from cache or executes the fetch
// function. Concurrent requests for the same key are collapsed
// (singleflight pattern). The boolean reports a cache hit.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch func() (*search.Response, error)) (*search.Response, bool, error) {
	c.mu.Lock()

	if entry, ok := c.entries[key]; ok && time.Now().Before(entry.expiresAt) {
		c.mu.Unlock()
		return entry.response, true, nil
	}

	if inflight, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-inflight.done:
			return inflight.response, false, inflight.err
		case <-ctx.Done():
			return nil, false, context.Cause(ctx)
		}
	}

	inflight := &inflightRequest{
		done: make(chan struct{}),
	}
	c.inflight[key] = inflight
	c.mu.Unlock()

	// Fetch outside the lock; a total-miss error is not cached so the
	// next request retries the vendors.
	response, err := fetch()

	c.mu.Lock()
	inflight.response = response
	inflight.err = err
	if err == nil && response != nil {
		c.entries[key] = &cacheEntry{
			response:  response,
			expiresAt: time.Now().Add(c.ttl),
		}
	}
	delete(c.inflight, key)
	c.mu.Unlock()

	close(inflight.done)

	return response, false, err
}

// Invalidate removes a specific key from the cache.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// cleanup periodically removes expired entries.
func (c *Cache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}
