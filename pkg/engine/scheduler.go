package engine

import (
	"sync"
	"time"

	"github.com/bep/debounce"

	"github.com/chazu/patternhub/pkg/logging"
)

// DefaultDelay is the regeneration coalescing window.
const DefaultDelay = 200 * time.Millisecond

// Scheduler debounces regeneration requests. Each Schedule restarts the
// window; only the latest request runs. Cancel drops a pending request.
//
// The generation counter discards a timer that fires after Cancel or Flush,
// the same way Engine discards superseded evaluations.
type Scheduler struct {
	mu       sync.Mutex
	debounce func(func())
	run      func(key string)
	gen      uint64
	pending  string
}

// NewScheduler returns a scheduler that calls run with the method key of
// the latest request once delay has passed without another one.
func NewScheduler(delay time.Duration, run func(key string)) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Scheduler{debounce: debounce.New(delay), run: run}
}

// Schedule requests a regeneration of method key.
func (s *Scheduler) Schedule(key string) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.pending = key
	s.mu.Unlock()

	logging.Logger().Debug("regeneration scheduled", "method", key)
	s.debounce(func() { s.fire(gen) })
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.pending == "" {
		s.mu.Unlock()
		return
	}
	key := s.take()
	s.mu.Unlock()
	s.run(key)
}

// take clears the pending request; mu must be held.
func (s *Scheduler) take() string {
	key := s.pending
	s.pending = ""
	s.gen++
	return key
}

// Cancel drops the pending request, if any. It reports whether one was
// dropped.
func (s *Scheduler) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := s.take()
	if key != "" {
		logging.Logger().Debug("regeneration cancelled", "method", key)
	}
	return key != ""
}

// Flush runs the pending request now, on the calling goroutine.
func (s *Scheduler) Flush() bool {
	s.mu.Lock()
	key := s.take()
	s.mu.Unlock()
	if key == "" {
		return false
	}
	s.run(key)
	return true
}

// Pending returns the method key waiting to run.
func (s *Scheduler) Pending() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending, s.pending != ""
}
