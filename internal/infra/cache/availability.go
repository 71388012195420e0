// Package cache holds the bounded availability cache: a hash map paired with
// a doubly-linked list for amortized O(1) LRU touch and eviction, plus a
// per-entry TTL with lazy expiration. The commit path only ever invalidates;
// it never reads through the cache, so staleness here cannot cause
// overbooking.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"reservation-engine/internal/domain/resource"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/usecase/readmodel"
)

// ResourceLoader supplies the authoritative resource on a cache miss.
type ResourceLoader interface {
	ResourceByID(ctx context.Context, id resource.ID) (*resource.Resource, error)
}

type entry struct {
	key       resource.ID
	view      readmodel.AvailabilityView
	expiresAt time.Time
}

type AvailabilityCache struct {
	mu      sync.Mutex
	data    map[resource.ID]*list.Element
	lru     *list.List // front = most recently used
	maxSize int
	ttl     time.Duration

	loader ResourceLoader
	clock  clock.Clock

	hits   uint64
	misses uint64
}

func NewAvailabilityCache(loader ResourceLoader, clk clock.Clock, maxSize int, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{
		data:    make(map[resource.ID]*list.Element),
		lru:     list.New(),
		maxSize: maxSize,
		ttl:     ttl,
		loader:  loader,
		clock:   clk,
	}
}

// Get returns the cached view when fresh, marking the entry most recently
// used. An expired hit is removed and treated as a miss; a miss loads the
// authoritative resource and materializes a new entry.
func (c *AvailabilityCache) Get(ctx context.Context, id resource.ID) (*readmodel.AvailabilityView, error) {
	now := c.clock.Now()

	c.mu.Lock()
	if elem, ok := c.data[id]; ok {
		ent := elem.Value.(*entry)
		if now.Before(ent.expiresAt) {
			c.lru.MoveToFront(elem)
			c.hits++
			view := ent.view
			view.IsCached = true
			c.mu.Unlock()
			return &view, nil
		}
		// Lazy expiration
		c.removeLocked(elem)
	}
	c.misses++
	c.mu.Unlock()

	// Load outside the lock; a concurrent Get for the same id may duplicate
	// the read, the last write wins and both observe committed state.
	res, err := c.loader.ResourceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := readmodel.NewAvailabilityView(res, now)

	c.mu.Lock()
	c.insertLocked(id, *view, now.Add(c.ttl))
	c.mu.Unlock()

	return view, nil
}

// Invalidate removes the entry if present. Never fails.
func (c *AvailabilityCache) Invalidate(id resource.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.data[id]; ok {
		c.removeLocked(elem)
	}
}

// InvalidateAll clears the map and resets the hit/miss counters.
func (c *AvailabilityCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[resource.ID]*list.Element)
	c.lru.Init()
	c.hits = 0
	c.misses = 0
}

func (c *AvailabilityCache) Stats() readmodel.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return readmodel.CacheStats{
		Size:    len(c.data),
		MaxSize: c.maxSize,
		TTL:     c.ttl,
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: hitRate,
	}
}

func (c *AvailabilityCache) insertLocked(id resource.ID, view readmodel.AvailabilityView, expiresAt time.Time) {
	if elem, ok := c.data[id]; ok {
		ent := elem.Value.(*entry)
		ent.view = view
		ent.expiresAt = expiresAt
		c.lru.MoveToFront(elem)
		return
	}

	if c.maxSize > 0 && len(c.data) >= c.maxSize {
		// Evict exactly one least-recently-used entry.
		if oldest := c.lru.Back(); oldest != nil {
			c.removeLocked(oldest)
		}
	}

	c.data[id] = c.lru.PushFront(&entry{key: id, view: view, expiresAt: expiresAt})
}

func (c *AvailabilityCache) removeLocked(elem *list.Element) {
	ent := elem.Value.(*entry)
	delete(c.data, ent.key)
	c.lru.Remove(elem)
}
