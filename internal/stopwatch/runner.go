package stopwatch

import (
	"context"
	"sync"
	"time"

	"github.com/zjrosen/tickwatch/internal/log"
)

// DefaultPollInterval is the target poll cadence.
const DefaultPollInterval = time.Millisecond

// Poller is anything that can be polled for elapsed time.
type Poller interface {
	Poll() time.Duration
}

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	// Interval between polls.
	// Defaults to DefaultPollInterval if not specified.
	Interval time.Duration

	// OnPoll, if set, receives every polled value on the runner goroutine.
	OnPoll func(elapsed time.Duration)
}

// Runner drives a Poller from a dedicated goroutine for hosts without their
// own refresh loop. The Poller must be safe for use from that goroutine,
// typically a Synchronized engine.
type Runner struct {
	poller   Poller
	interval time.Duration
	onPoll   func(time.Duration)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunner creates a stopped Runner.
func NewRunner(p Poller, cfg RunnerConfig) *Runner {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Runner{
		poller:   p,
		interval: interval,
		onPoll:   cfg.OnPoll,
	}
}

// Start begins polling until ctx is cancelled or Stop is called.
// Calling Start on a running Runner is a no-op.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done != nil {
		return
	}

	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	go r.loop(ctx, r.done)
	log.Debug(log.CatEngine, "poll runner started", "interval", r.interval)
}

// Stop halts polling and waits for the loop to exit.
// It is safe to call Stop multiple times or before Start.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Debug(log.CatEngine, "poll runner stopped")
}

func (r *Runner) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			elapsed := r.poller.Poll()
			if r.onPoll != nil {
				r.onPoll(elapsed)
			}
		}
	}
}
