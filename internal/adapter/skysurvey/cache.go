package skysurvey

import (
	"context"
	"fmt"
	"sync"

	"github.com/couchcryptid/exoplanet-habitability/internal/domain"
	"github.com/couchcryptid/exoplanet-habitability/internal/observability"
)

// CachedLocator wraps an ImageLocator with an in-memory LRU cache. Survey
// probes are slow and the same host stars come up again and again, so cached
// lookups skip the network entirely.
type CachedLocator struct {
	inner   domain.ImageLocator
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedLocator creates a cache decorator around a locator.
func NewCachedLocator(inner domain.ImageLocator, maxEntries int, metrics *observability.Metrics) *CachedLocator {
	return &CachedLocator{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedLocator) LocateImages(ctx context.Context, planetName string, star domain.HostStar) []domain.ImageRef {
	key := cacheKey(planetName, star)
	if images, ok := c.cache.get(key); ok {
		c.metrics.CutoutCache.WithLabelValues("hit").Inc()
		return images
	}
	c.metrics.CutoutCache.WithLabelValues("miss").Inc()

	images := c.inner.LocateImages(ctx, planetName, star)
	// Only cache non-empty results so transient probe failures can be retried.
	if len(images) > 0 {
		c.cache.put(key, images)
	}
	return images
}

// cacheKey includes the coordinates: the same planet name with freshly
// resolved coordinates must not reuse a coordinate-free lookup.
func cacheKey(planetName string, star domain.HostStar) string {
	if star.Coordinates == nil || star.Coordinates.RA == nil || star.Coordinates.Dec == nil {
		return fmt.Sprintf("%s|%s", planetName, star.Name)
	}
	return fmt.Sprintf("%s|%s|%.6f,%.6f", planetName, star.Name, *star.Coordinates.RA, *star.Coordinates.Dec)
}

// lruCache is a simple thread-safe LRU cache for image lookups.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value []domain.ImageRef
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) ([]domain.ImageRef, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value []domain.ImageRef) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
