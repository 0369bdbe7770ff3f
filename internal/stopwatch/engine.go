// Package stopwatch implements the precision stopwatch engine.
//
// Elapsed time is always derived from the monotonic clock reading taken when
// the current running interval began, never integrated from per-poll deltas,
// so poll jitter cannot accumulate into drift. Whole-second cues are detected
// by floor division of the absolute elapsed time, so a late poll cannot cause
// a double cue or a missed boundary offset.
//
// An Engine has a single owner. Start, Stop, Clear, Toggle and Poll must be
// called from one goroutine, or through Synchronized. Snapshot may be read
// from any goroutine.
package stopwatch

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/tickwatch/internal/clock"
	"github.com/zjrosen/tickwatch/internal/cue"
	"github.com/zjrosen/tickwatch/internal/log"
)

// DefaultCueDuration is the length of every cue tone.
const DefaultCueDuration = 150 * time.Millisecond

// State is the engine's timing state.
type State struct {
	Running bool

	// AccumulatedNS is the time elapsed across all finished running intervals.
	AccumulatedNS int64

	// IntervalStartNS is the clock reading when the current running interval
	// began. Meaningful only while Running.
	IntervalStartNS int64

	// LastTickedSecond is the largest whole second a tick cue has fired for
	// since the last clear.
	LastTickedSecond int64
}

// ElapsedNS returns the effective elapsed nanoseconds at clock reading now.
func (s State) ElapsedNS(now int64) int64 {
	if !s.Running {
		return s.AccumulatedNS
	}
	return s.AccumulatedNS + (now - s.IntervalStartNS)
}

// Snapshot is an immutable view of the engine published after every
// operation for readers on other goroutines.
type Snapshot struct {
	EngineID         string
	Running          bool
	Elapsed          time.Duration
	LastTickedSecond int64
}

// Config configures an Engine.
type Config struct {
	// Clock is the monotonic time source.
	// If nil, uses clock.NewReal().
	Clock clock.Clock

	// Cues receives transition (Low) and tick (High) cues.
	// If nil, cues are dropped.
	Cues cue.Dispatcher

	// CueDuration is the length of each cue.
	// Defaults to DefaultCueDuration if not specified.
	CueDuration time.Duration
}

// Engine tracks elapsed time across start, stop and clear transitions and
// cues each whole second crossed while running.
type Engine struct {
	id          string
	clock       clock.Clock
	cues        cue.Dispatcher
	cueDuration time.Duration

	state    State
	snapshot atomic.Pointer[Snapshot]
}

// New creates an idle engine with zero elapsed time.
func New(cfg Config) *Engine {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.NewReal()
	}
	cues := cfg.Cues
	if cues == nil {
		cues = cue.Nop{}
	}
	cueDuration := cfg.CueDuration
	if cueDuration <= 0 {
		cueDuration = DefaultCueDuration
	}

	e := &Engine{
		id:          uuid.NewString(),
		clock:       clk,
		cues:        cues,
		cueDuration: cueDuration,
	}
	e.publish(0)
	log.Debug(log.CatEngine, "engine created", "engine", e.id)
	return e
}

// ID returns the engine's instance identifier.
func (e *Engine) ID() string {
	return e.id
}

// State returns a copy of the timing state.
func (e *Engine) State() State {
	return e.state
}

// Running reports whether the clock is accumulating time.
func (e *Engine) Running() bool {
	return e.state.Running
}

// Snapshot returns the most recently published view. Safe for concurrent use.
func (e *Engine) Snapshot() Snapshot {
	return *e.snapshot.Load()
}

// SetCueDuration changes the length of later cues. Non-positive values are ignored.
func (e *Engine) SetCueDuration(d time.Duration) {
	if d > 0 {
		e.cueDuration = d
	}
}

// Start begins a running interval. No-op if already running.
func (e *Engine) Start() {
	if e.state.Running {
		return
	}
	now := e.clock.NowNS()
	e.state.IntervalStartNS = now
	e.state.Running = true
	e.cues.Play(cue.Low, e.cueDuration)

	e.publish(e.state.ElapsedNS(now))
	log.Debug(log.CatEngine, "started", "engine", e.id, "accumulated_ns", e.state.AccumulatedNS)
}

// Stop freezes elapsed time. No-op if not running.
func (e *Engine) Stop() {
	if !e.state.Running {
		return
	}
	now := e.clock.NowNS()
	e.state.AccumulatedNS += now - e.state.IntervalStartNS
	e.state.Running = false
	e.cues.Play(cue.Low, e.cueDuration)

	e.publish(e.state.AccumulatedNS)
	log.Debug(log.CatEngine, "stopped", "engine", e.id, "accumulated_ns", e.state.AccumulatedNS)
}

// Toggle stops a running clock or starts an idle one.
func (e *Engine) Toggle() {
	if e.state.Running {
		e.Stop()
		return
	}
	e.Start()
}

// Clear stops the clock and resets elapsed time and tick tracking to zero.
// It always emits exactly one transition cue, even when already idle.
func (e *Engine) Clear() {
	e.state = State{}
	e.cues.Play(cue.Low, e.cueDuration)

	e.publish(0)
	log.Debug(log.CatEngine, "cleared", "engine", e.id)
}

// Poll returns the effective elapsed time. While running it also fires one
// tick cue when a new whole second has been crossed since the last tick.
// Several seconds crossed between polls still produce a single cue.
func (e *Engine) Poll() time.Duration {
	if !e.state.Running {
		return time.Duration(e.state.AccumulatedNS)
	}

	elapsed := e.state.ElapsedNS(e.clock.NowNS())
	whole := elapsed / int64(time.Second)
	if whole > e.state.LastTickedSecond {
		e.state.LastTickedSecond = whole
		e.cues.Play(cue.High, e.cueDuration)
		log.Debug(log.CatEngine, "tick", "engine", e.id, "second", whole)
	}

	e.publish(elapsed)
	return time.Duration(elapsed)
}

func (e *Engine) publish(elapsedNS int64) {
	e.snapshot.Store(&Snapshot{
		EngineID:         e.id,
		Running:          e.state.Running,
		Elapsed:          time.Duration(elapsedNS),
		LastTickedSecond: e.state.LastTickedSecond,
	})
}
