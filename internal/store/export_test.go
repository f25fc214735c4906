package store

import "time"

// SetClock replaces the time source of the rate limit store.
func (s *RateLimitMemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now = now
}
