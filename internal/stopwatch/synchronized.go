package stopwatch

import (
	"sync"
	"time"
)

// Synchronized serializes access to an Engine for hosts that drive it from
// more than one goroutine.
type Synchronized struct {
	mu     sync.Mutex
	engine *Engine
}

// NewSynchronized wraps e. The caller must stop using e directly.
func NewSynchronized(e *Engine) *Synchronized {
	return &Synchronized{engine: e}
}

// Start starts the engine under the lock.
func (s *Synchronized) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Start()
}

// Stop stops the engine under the lock.
func (s *Synchronized) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Stop()
}

// Toggle toggles the engine under the lock.
func (s *Synchronized) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Toggle()
}

// Clear clears the engine under the lock.
func (s *Synchronized) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Clear()
}

// Poll polls the engine under the lock.
func (s *Synchronized) Poll() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Poll()
}

// Snapshot reads the published view without taking the lock.
func (s *Synchronized) Snapshot() Snapshot {
	return s.engine.Snapshot()
}
