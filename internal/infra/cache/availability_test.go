//go:build unit

package cache_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"reservation-engine/internal/domain/resource"
	"reservation-engine/internal/infra"
	"reservation-engine/internal/infra/cache"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/usecase/readmodel"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	mu        sync.Mutex
	resources map[resource.ID]*resource.Resource
	loads     int
}

func newStubLoader() *stubLoader {
	return &stubLoader{resources: make(map[resource.ID]*resource.Resource)}
}

func (l *stubLoader) put(res *resource.Resource) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resources[res.ID()] = res
}

func (l *stubLoader) ResourceByID(_ context.Context, id resource.ID) (*resource.Resource, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads++
	res, ok := l.resources[id]
	if !ok {
		return nil, infra.WrapRepoErr("resource not found", errors.New("no rows"), infra.KindNotFound)
	}
	return res, nil
}

func (l *stubLoader) loadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}

func makeResource(t *testing.T, id string, capacity int) *resource.Resource {
	t.Helper()
	rid, err := resource.NewID(id)
	require.NoError(t, err)
	res, err := resource.NewResource(rid, "room", capacity, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return res
}

func TestCacheGet(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	loader := newStubLoader()
	res := makeResource(t, "room-101", 10)
	loader.put(res)

	c := cache.NewAvailabilityCache(loader, clk, 100, 2*time.Second)

	t.Run("miss loads and materializes", func(t *testing.T) {
		view, err := c.Get(ctx, res.ID())
		require.NoError(t, err)

		want := &readmodel.AvailabilityView{
			ResourceID:        res.ID(),
			Type:              "room",
			State:             resource.StateOpen,
			Capacity:          10,
			CurrentBookings:   0,
			RemainingCapacity: 10,
			IsAvailable:       true,
			CachedAt:          clk.Now(),
			IsCached:          false,
		}
		if diff := cmp.Diff(want, view); diff != "" {
			t.Errorf("materialized view mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, 1, loader.loadCount())
	})

	t.Run("fresh hit skips the loader", func(t *testing.T) {
		view, err := c.Get(ctx, res.ID())
		require.NoError(t, err)

		assert.True(t, view.IsCached)
		assert.Equal(t, 1, loader.loadCount())
	})

	t.Run("expired entry reloads", func(t *testing.T) {
		clk.Add(3 * time.Second)

		view, err := c.Get(ctx, res.ID())
		require.NoError(t, err)

		assert.False(t, view.IsCached)
		assert.Equal(t, 2, loader.loadCount())
	})

	t.Run("unknown resource propagates not found", func(t *testing.T) {
		missing, err := resource.NewID("no-such-room")
		require.NoError(t, err)

		_, err = c.Get(ctx, missing)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	loader := newStubLoader()
	res := makeResource(t, "room-101", 10)
	loader.put(res)

	c := cache.NewAvailabilityCache(loader, clk, 100, time.Minute)

	_, err := c.Get(ctx, res.ID())
	require.NoError(t, err)
	require.Equal(t, 1, loader.loadCount())

	c.Invalidate(res.ID())

	view, err := c.Get(ctx, res.ID())
	require.NoError(t, err)
	assert.False(t, view.IsCached)
	assert.Equal(t, 2, loader.loadCount())

	// Invalidating an absent entry is a no-op.
	c.Invalidate(res.ID())
	c.Invalidate(res.ID())
}

func TestCacheEvictionBound(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	loader := newStubLoader()

	const maxSize = 3
	c := cache.NewAvailabilityCache(loader, clk, maxSize, time.Minute)

	ids := make([]resource.ID, 0, 5)
	for i := range 5 {
		res := makeResource(t, fmt.Sprintf("room-%d", i), 10)
		loader.put(res)
		ids = append(ids, res.ID())
	}

	for _, id := range ids {
		_, err := c.Get(ctx, id)
		require.NoError(t, err)
	}

	stats := c.Stats()
	assert.Equal(t, maxSize, stats.Size, "cache never exceeds its bound")

	// The least recently used entries were evicted: room-0 and room-1 reload.
	before := loader.loadCount()
	_, err := c.Get(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, before+1, loader.loadCount())

	// room-4 is still resident.
	before = loader.loadCount()
	_, err = c.Get(ctx, ids[4])
	require.NoError(t, err)
	assert.Equal(t, before, loader.loadCount())
}

func TestCacheLRUTouchOnHit(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	loader := newStubLoader()

	c := cache.NewAvailabilityCache(loader, clk, 2, time.Minute)

	a := makeResource(t, "room-a", 10)
	b := makeResource(t, "room-b", 10)
	d := makeResource(t, "room-c", 10)
	for _, res := range []*resource.Resource{a, b, d} {
		loader.put(res)
	}

	_, err := c.Get(ctx, a.ID())
	require.NoError(t, err)
	_, err = c.Get(ctx, b.ID())
	require.NoError(t, err)

	// Touch a so b becomes the eviction candidate.
	_, err = c.Get(ctx, a.ID())
	require.NoError(t, err)

	_, err = c.Get(ctx, d.ID())
	require.NoError(t, err)

	before := loader.loadCount()
	_, err = c.Get(ctx, a.ID())
	require.NoError(t, err)
	assert.Equal(t, before, loader.loadCount(), "a stayed resident")

	_, err = c.Get(ctx, b.ID())
	require.NoError(t, err)
	assert.Equal(t, before+1, loader.loadCount(), "b was evicted")
}

func TestCacheStats(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	loader := newStubLoader()
	res := makeResource(t, "room-101", 10)
	loader.put(res)

	c := cache.NewAvailabilityCache(loader, clk, 100, time.Minute)

	_, err := c.Get(ctx, res.ID()) // miss
	require.NoError(t, err)
	_, err = c.Get(ctx, res.ID()) // hit
	require.NoError(t, err)
	_, err = c.Get(ctx, res.ID()) // hit
	require.NoError(t, err)

	stats := c.Stats()
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.InDelta(t, 2.0/3.0, stats.HitRate, 1e-9)
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, 100, stats.MaxSize)
	assert.Equal(t, time.Minute, stats.TTL)

	c.InvalidateAll()
	stats = c.Stats()
	assert.Equal(t, 0, stats.Size)
	assert.Equal(t, uint64(0), stats.Hits)
	assert.Equal(t, uint64(0), stats.Misses)
	assert.Equal(t, 0.0, stats.HitRate)
}

func TestCacheConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	loader := newStubLoader()

	c := cache.NewAvailabilityCache(loader, clk, 8, time.Minute)

	for i := range 16 {
		loader.put(makeResource(t, fmt.Sprintf("room-%d", i), 10))
	}

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 50 {
				id, err := resource.NewID(fmt.Sprintf("room-%d", (n+j)%16))
				if err != nil {
					t.Error(err)
					return
				}
				if _, err := c.Get(ctx, id); err != nil {
					t.Error(err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	stats := c.Stats()
	assert.LessOrEqual(t, stats.Size, 8)
	assert.Equal(t, uint64(16*50), stats.Hits+stats.Misses)
}
