package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/serroba/shortlink/internal/ratelimit"
	"github.com/serroba/shortlink/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func newClockedStore() (*store.RateLimitMemoryStore, *fakeClock) {
	clock := newFakeClock()
	s := store.NewRateLimitMemoryStore()
	s.SetClock(clock.Now)

	return s, clock
}

func TestRateLimitMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("admits and counts requests up to the limit", func(t *testing.T) {
		s, _ := newClockedStore()

		for want := int64(1); want <= 3; want++ {
			count, allowed, err := s.Take(ctx, "key1", 3, time.Minute)

			require.NoError(t, err)
			assert.True(t, allowed)
			assert.Equal(t, want, count)
		}

		count, allowed, err := s.Take(ctx, "key1", 3, time.Minute)

		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, int64(3), count, "rejected requests must not occupy a slot")
	})

	t.Run("tracks keys independently", func(t *testing.T) {
		s, _ := newClockedStore()

		_, _, _ = s.Take(ctx, "key1", 5, time.Minute)
		_, _, _ = s.Take(ctx, "key1", 5, time.Minute)

		count, allowed, err := s.Take(ctx, "key2", 5, time.Minute)

		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, int64(1), count, "key2 should have its own counter")
		assert.Equal(t, 2, s.Keys())
	})

	t.Run("prunes expired entries", func(t *testing.T) {
		s, clock := newClockedStore()

		_, _, _ = s.Take(ctx, "key1", 2, time.Minute)
		_, _, _ = s.Take(ctx, "key1", 2, time.Minute)

		clock.Advance(time.Minute + time.Millisecond)

		count, allowed, err := s.Take(ctx, "key1", 2, time.Minute)

		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, int64(1), count, "expired entries should be pruned")
	})

	t.Run("an admission exactly one window old no longer counts", func(t *testing.T) {
		s, clock := newClockedStore()

		_, _, _ = s.Take(ctx, "key1", 1, time.Minute)
		clock.Advance(time.Minute)

		_, allowed, err := s.Take(ctx, "key1", 1, time.Minute)

		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestRateLimitMemoryStoreForgetsIdleClients(t *testing.T) {
	ctx := context.Background()

	t.Run("keys are swept once their windows expire", func(t *testing.T) {
		s, clock := newClockedStore()

		for i := range 1000 {
			_, _, err := s.Take(ctx, fmt.Sprintf("redirect:10.0.%d.%d:10", i/256, i%256), 100, 10*time.Millisecond)
			require.NoError(t, err)
		}

		require.Equal(t, 1000, s.Keys())

		clock.Advance(30 * time.Millisecond)

		_, allowed, err := s.Take(ctx, "redirect:203.0.113.9:10", 100, 10*time.Millisecond)

		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 1, s.Keys())
	})

	t.Run("clients still inside a longer window are kept", func(t *testing.T) {
		s, clock := newClockedStore()

		_, _, _ = s.Take(ctx, "create:198.51.100.1:60000", 10, time.Minute)
		_, _, _ = s.Take(ctx, "redirect:198.51.100.2:10", 10, 10*time.Millisecond)

		clock.Advance(time.Second)

		_, _, _ = s.Take(ctx, "redirect:198.51.100.3:10", 10, 10*time.Millisecond)

		assert.Equal(t, 2, s.Keys(), "only the idle short-window client is dropped")

		_, allowed, err := s.Take(ctx, "create:198.51.100.1:60000", 10, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("no sweep before the shortest window elapses", func(t *testing.T) {
		s, clock := newClockedStore()

		_, _, _ = s.Take(ctx, "a", 10, time.Minute)
		_, _, _ = s.Take(ctx, "b", 10, time.Minute)

		clock.Advance(30 * time.Second)

		_, _, _ = s.Take(ctx, "c", 10, time.Minute)

		assert.Equal(t, 3, s.Keys())
	})

	t.Run("real clock", func(t *testing.T) {
		s := store.NewRateLimitMemoryStore()

		for i := range 100 {
			_, _, _ = s.Take(ctx, fmt.Sprintf("key-%d", i), 5, 10*time.Millisecond)
		}

		time.Sleep(30 * time.Millisecond)

		_, _, _ = s.Take(ctx, "fresh", 5, 10*time.Millisecond)

		assert.Equal(t, 1, s.Keys())
	})
}

func TestSlidingWindowOverMemoryStore(t *testing.T) {
	ctx := context.Background()

	newLimiter := func(t *testing.T, limit int64, window time.Duration) (*ratelimit.SlidingWindowLimiter, *fakeClock) {
		t.Helper()

		s, clock := newClockedStore()
		limiter, err := ratelimit.NewSlidingWindowLimiter(s, ratelimit.ScopeCreate, ratelimit.LimitConfig{Max: limit, Window: window})
		require.NoError(t, err)

		return limiter, clock
	}

	t.Run("allows requests after the window expires", func(t *testing.T) {
		limiter, clock := newLimiter(t, 2, time.Minute)

		for range 2 {
			allowed, _ := limiter.Allow(ctx, "client1")
			assert.True(t, allowed)
		}

		allowed, _ := limiter.Allow(ctx, "client1")
		assert.False(t, allowed, "should be rate limited")

		clock.Advance(time.Minute + time.Second)

		allowed, err := limiter.Allow(ctx, "client1")

		require.NoError(t, err)
		assert.True(t, allowed, "should be allowed after window expires")
	})

	t.Run("rejected requests do not extend the window", func(t *testing.T) {
		limiter, clock := newLimiter(t, 1, time.Minute)

		allowed, _ := limiter.Allow(ctx, "client1")
		assert.True(t, allowed)

		clock.Advance(40 * time.Second)

		allowed, _ = limiter.Allow(ctx, "client1")
		assert.False(t, allowed)

		clock.Advance(40 * time.Second)

		allowed, err := limiter.Allow(ctx, "client1")

		require.NoError(t, err)
		assert.True(t, allowed, "only the admitted request should count toward the window")
	})
}
