package timer

import (
	"sync"
	"time"
)

// RealService is a Service backed by stdlib time.Timer, one per named
// timer, all firing into a single shared channel so the event dispatcher
// can select over it alongside the transport's receive channel.
type RealService struct {
	mu       sync.Mutex
	timers   map[string]*time.Timer
	duration map[string]time.Duration
	fired    chan string
	closed   bool
}

// NewRealService creates a Service with no timers armed yet.
func NewRealService() *RealService {
	return &RealService{
		timers:   make(map[string]*time.Timer),
		duration: make(map[string]time.Duration),
		fired:    make(chan string, 16),
	}
}

func (s *RealService) Arm(name string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if existing, ok := s.timers[name]; ok {
		existing.Stop()
	}
	s.duration[name] = d
	s.timers[name] = time.AfterFunc(d, func() { s.fire(name) })
}

func (s *RealService) Rearm(name string) {
	s.mu.Lock()
	d, ok := s.duration[name]
	if !ok {
		s.mu.Unlock()
		return
	}
	if s.closed {
		s.mu.Unlock()
		return
	}
	if existing, ok := s.timers[name]; ok {
		existing.Stop()
	}
	s.timers[name] = time.AfterFunc(d, func() { s.fire(name) })
	s.mu.Unlock()
}

func (s *RealService) Stop(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.timers[name]; ok {
		existing.Stop()
		delete(s.timers, name)
	}
}

func (s *RealService) Fired() <-chan string {
	return s.fired
}

func (s *RealService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, t := range s.timers {
		t.Stop()
	}
	close(s.fired)
}

func (s *RealService) fire(name string) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	select {
	case s.fired <- name:
	default:
		// Dispatcher is behind; the timer model tolerates approximate
		// firing, not an unbounded backlog.
	}
}
