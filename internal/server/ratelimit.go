package server

import (
	"sync"
	"time"
)

// fixedWindowStore implements echo's middleware.RateLimiterStore as a fixed
// window counter per identifier (client IP). The count resets when the
// window rolls over; there is no sliding behavior.
type fixedWindowStore struct {
	window  time.Duration
	ceiling int
	now     func() time.Time

	mu     sync.Mutex
	starts map[string]time.Time
	counts map[string]int
}

func newFixedWindowStore(window time.Duration, ceiling int) *fixedWindowStore {
	return &fixedWindowStore{
		window:  window,
		ceiling: ceiling,
		now:     time.Now,
		starts:  map[string]time.Time{},
		counts:  map[string]int{},
	}
}

// Allow reports whether the identifier may proceed within the current window.
func (s *fixedWindowStore) Allow(identifier string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	start, ok := s.starts[identifier]
	if !ok || now.Sub(start) >= s.window {
		s.starts[identifier] = now
		s.counts[identifier] = 0
	}
	if s.counts[identifier] >= s.ceiling {
		return false, nil
	}
	s.counts[identifier]++
	return true, nil
}
