package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/shortlink/internal/ratelimit"
)

// window holds the admissions of one key and the window length they were taken under.
type window struct {
	admitted []time.Time
	length   time.Duration
}

// expired reports whether every admission has left the window.
func (w *window) expired(now time.Time) bool {
	return len(w.admitted) == 0 || !w.admitted[len(w.admitted)-1].After(now.Add(-w.length))
}

// RateLimitMemoryStore is an in-memory implementation of ratelimit.Store.
// Keys whose window has fully expired are swept at most once per shortest
// window seen.
type RateLimitMemoryStore struct {
	mu         sync.Mutex
	windows    map[string]*window
	now        func() time.Time
	lastSweep  time.Time
	sweepEvery time.Duration
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (s *RateLimitMemoryStore) Take(_ context.Context, key string, limit int64, length time.Duration) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.maybeSweep(now, length)

	w, ok := s.windows[key]
	if !ok {
		w = &window{}
	}

	w.length = length
	w.admitted = prune(w.admitted, now.Add(-length))

	if int64(len(w.admitted)) >= limit {
		if len(w.admitted) == 0 {
			delete(s.windows, key)
		}

		return int64(len(w.admitted)), false, nil
	}

	w.admitted = append(w.admitted, now)
	s.windows[key] = w

	return int64(len(w.admitted)), true, nil
}

// prune drops admissions at or before cutoff. Admissions are appended in
// order, so the survivors are a suffix.
func prune(admitted []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(admitted) && !admitted[i].After(cutoff) {
		i++
	}

	if i == len(admitted) {
		return nil
	}

	return admitted[i:]
}

// maybeSweep removes every expired window once the shortest window length
// seen has elapsed since the previous sweep.
func (s *RateLimitMemoryStore) maybeSweep(now time.Time, length time.Duration) {
	if s.sweepEvery == 0 || length < s.sweepEvery {
		s.sweepEvery = length
	}

	if s.lastSweep.IsZero() {
		s.lastSweep = now

		return
	}

	if now.Sub(s.lastSweep) < s.sweepEvery {
		return
	}

	for key, w := range s.windows {
		if w.expired(now) {
			delete(s.windows, key)
		}
	}

	s.lastSweep = now
}

// Keys returns the number of tracked client windows.
func (s *RateLimitMemoryStore) Keys() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.windows)
}

var _ ratelimit.Store = (*RateLimitMemoryStore)(nil)
