// Package cue dispatches short audio cues without blocking the caller.
package cue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zjrosen/tickwatch/internal/log"
	"github.com/zjrosen/tickwatch/internal/sound"
)

// Tone identifies a cue pitch.
type Tone int

const (
	// Low marks start, stop and clear transitions.
	Low Tone = iota
	// High marks a crossed whole-second boundary.
	High
)

func (t Tone) String() string {
	switch t {
	case Low:
		return "low"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// ParseTone converts "low" or "high" to a Tone.
func ParseTone(s string) (Tone, bool) {
	switch s {
	case "low":
		return Low, true
	case "high":
		return High, true
	default:
		return 0, false
	}
}

// Frequencies maps each tone to a pitch in hertz.
type Frequencies struct {
	LowHz  int
	HighHz int
}

// DefaultFrequencies returns the standard 500 Hz / 1000 Hz pair.
func DefaultFrequencies() Frequencies {
	return Frequencies{LowHz: 500, HighHz: 1000}
}

// Hz returns the pitch for t.
func (f Frequencies) Hz(t Tone) int {
	if t == High {
		return f.HighHz
	}
	return f.LowHz
}

// Dispatcher plays cues. Play must return immediately and never fail.
type Dispatcher interface {
	Play(tone Tone, duration time.Duration)
}

// Nop drops every cue. Used when no audio backend is available.
type Nop struct{}

// Play does nothing.
func (Nop) Play(Tone, time.Duration) {}

// request is one queued cue.
type request struct {
	hz       int
	duration time.Duration
}

// WorkerConfig configures a Worker.
type WorkerConfig struct {
	// Player performs playback. Required.
	Player sound.Player

	// Frequencies maps tones to pitches. Zero values use DefaultFrequencies.
	Frequencies Frequencies

	// QueueSize bounds pending cues. Cues beyond it are dropped.
	// Defaults to 16 if not specified.
	QueueSize int

	// Muted starts the worker with cues suppressed.
	Muted bool
}

// Worker is a long-lived goroutine consuming queued cues.
// Play is safe to call from any goroutine.
type Worker struct {
	player sound.Player
	queue  chan request
	freqs  atomic.Pointer[Frequencies]
	muted  atomic.Bool

	// Set once the player reports ErrUnavailable; later cues are dropped.
	disabled atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// NewWorker starts a cue worker.
func NewWorker(cfg WorkerConfig) *Worker {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 16
	}
	freqs := cfg.Frequencies
	if freqs.LowHz <= 0 || freqs.HighHz <= 0 {
		freqs = DefaultFrequencies()
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		player: cfg.Player,
		queue:  make(chan request, queueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	w.freqs.Store(&freqs)
	w.muted.Store(cfg.Muted)

	w.wg.Add(1)
	go w.loop()

	log.Debug(log.CatCue, "cue worker started", "queue_size", queueSize)
	return w
}

// Play queues a cue. It never blocks: a full queue drops the cue.
func (w *Worker) Play(tone Tone, duration time.Duration) {
	if w.muted.Load() || w.disabled.Load() || w.ctx.Err() != nil {
		return
	}

	req := request{hz: w.freqs.Load().Hz(tone), duration: duration}
	select {
	case w.queue <- req:
	default:
		log.Debug(log.CatCue, "cue queue full, dropping", "tone", tone.String())
	}
}

// SetFrequencies replaces the tone pitches for later cues.
func (w *Worker) SetFrequencies(f Frequencies) {
	if f.LowHz <= 0 || f.HighHz <= 0 {
		return
	}
	w.freqs.Store(&f)
}

// SetMuted suppresses or re-enables cues.
func (w *Worker) SetMuted(muted bool) {
	w.muted.Store(muted)
}

// Muted reports whether cues are suppressed.
func (w *Worker) Muted() bool {
	return w.muted.Load()
}

// Close stops the worker. Pending cues are discarded and in-flight
// playback is cancelled. Safe to call multiple times.
func (w *Worker) Close() {
	w.once.Do(func() {
		w.cancel()
		w.wg.Wait()
		log.Debug(log.CatCue, "cue worker stopped")
	})
}

func (w *Worker) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case req := <-w.queue:
			w.play(req)
		}
	}
}

func (w *Worker) play(req request) {
	if w.disabled.Load() {
		return
	}
	err := w.player.Beep(w.ctx, req.hz, req.duration)
	if err == nil || w.ctx.Err() != nil {
		return
	}
	if errors.Is(err, sound.ErrUnavailable) {
		w.disabled.Store(true)
		log.Warn(log.CatCue, "audio unavailable, disabling cues", "error", err)
		return
	}
	log.Debug(log.CatCue, "cue playback failed", "hz", req.hz, "error", err)
}
