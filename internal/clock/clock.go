// Package clock provides the monotonic time source used by the stopwatch engine.
package clock

import (
	"sync"
	"time"
)

// Clock reports a monotonic reading in nanoseconds.
// Readings are only meaningful relative to each other and must never decrease.
type Clock interface {
	NowNS() int64
}

// Real reads the process monotonic clock.
// time.Since uses the monotonic component of the base reading, so wall-clock
// adjustments do not affect it.
type Real struct {
	base time.Time
}

// NewReal creates a Real clock anchored at the current instant.
func NewReal() *Real {
	return &Real{base: time.Now()}
}

// NowNS returns nanoseconds elapsed since the clock was created.
func (r *Real) NowNS() int64 {
	return int64(time.Since(r.base))
}

// Fake is a manually driven clock for tests.
type Fake struct {
	mu  sync.Mutex
	now int64
}

// NewFake creates a Fake clock reading start nanoseconds.
func NewFake(start int64) *Fake {
	return &Fake{now: start}
}

// NowNS returns the current fake reading.
func (f *Fake) NowNS() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now += int64(d)
}

// Set moves the clock to an absolute reading.
func (f *Fake) Set(ns int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = ns
}
