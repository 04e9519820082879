package timer

import (
	"context"
	"sync"
	"time"
)

// State is the countdown lifecycle state
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
)

// Kind names the screen a countdown belongs to. All three screens share this
// one state machine, parameterized by duration and completion callback.
type Kind string

const (
	KindFocus      Kind = "focus"
	KindBreak      Kind = "break"
	KindOnboarding Kind = "onboarding"
)

// Progress notification thresholds, in percent elapsed. Each fires at most
// once per countdown run.
var progressThresholds = []int{50, 80}

// CompletionFunc is invoked exactly once when the countdown expires naturally.
// Its error is retained on the countdown but does not prevent the completed
// state: failing to persist must not trap the user in a non-terminal state.
type CompletionFunc func(taskName string, durationMinutes int) error

// ProgressFunc is invoked when elapsed progress crosses a threshold.
type ProgressFunc func(percent int)

// Countdown is a per-screen one-second countdown state machine:
// idle -> running -> {paused <-> running} -> completed.
type Countdown struct {
	mu sync.Mutex

	kind       Kind
	taskName   string
	total      int // seconds
	remaining  int
	state      State
	fired      map[int]bool
	lastErr    error
	onComplete CompletionFunc
	onProgress ProgressFunc

	// tick period, overridable in tests
	interval time.Duration
}

// New creates an idle countdown for the given screen and duration.
func New(kind Kind, taskName string, durationMinutes int, onComplete CompletionFunc, onProgress ProgressFunc) *Countdown {
	return &Countdown{
		kind:       kind,
		taskName:   taskName,
		total:      durationMinutes * 60,
		remaining:  durationMinutes * 60,
		state:      StateIdle,
		fired:      make(map[int]bool),
		onComplete: onComplete,
		onProgress: onProgress,
		interval:   time.Second,
	}
}

// Kind returns the screen this countdown belongs to
func (c *Countdown) Kind() Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kind
}

// State returns the current lifecycle state
func (c *Countdown) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Remaining returns the remaining seconds
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Err returns the error from the completion callback, if any.
func (c *Countdown) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Start transitions idle/paused -> running.
func (c *Countdown) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateIdle || c.state == StatePaused {
		c.state = StateRunning
	}
}

// Pause freezes the remaining time: running -> paused.
func (c *Countdown) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateRunning {
		c.state = StatePaused
	}
}

// Resume continues a paused countdown: paused -> running.
func (c *Countdown) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StatePaused {
		c.state = StateRunning
	}
}

// Reset returns to idle with the full configured duration. Progress is
// discarded; no session is recorded.
func (c *Countdown) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateIdle
	c.remaining = c.total
	c.fired = make(map[int]bool)
	c.lastErr = nil
}

// Tick advances the countdown by one second. Ticks are ignored unless
// running. Crossing 50% and 80% elapsed fires the progress callback once
// each; reaching zero transitions to completed and invokes the completion
// callback exactly once.
func (c *Countdown) Tick() {
	c.mu.Lock()

	if c.state != StateRunning || c.remaining <= 0 {
		c.mu.Unlock()
		return
	}

	c.remaining--

	var progressCalls []int
	if c.total > 0 {
		elapsed := (c.total - c.remaining) * 100 / c.total
		for _, threshold := range progressThresholds {
			if elapsed >= threshold && !c.fired[threshold] {
				c.fired[threshold] = true
				progressCalls = append(progressCalls, threshold)
			}
		}
	}

	completed := c.remaining == 0
	if completed {
		c.state = StateCompleted
	}

	onProgress := c.onProgress
	onComplete := c.onComplete
	taskName := c.taskName
	minutes := c.total / 60
	c.mu.Unlock()

	// Callbacks run outside the lock so they may query the countdown.
	if onProgress != nil {
		for _, threshold := range progressCalls {
			onProgress(threshold)
		}
	}
	if completed && onComplete != nil {
		if err := onComplete(taskName, minutes); err != nil {
			c.mu.Lock()
			c.lastErr = err
			c.mu.Unlock()
		}
	}
}

// Run starts the countdown and drives it from a one-second ticker until it
// completes or ctx is cancelled. The ticker is stopped on every exit path, so
// no phantom ticks survive the owning screen. Cancellation does not record a
// session.
func (c *Countdown) Run(ctx context.Context) error {
	c.Start()

	c.mu.Lock()
	interval := c.interval
	c.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Tick()
			if c.State() == StateCompleted {
				return nil
			}
		}
	}
}
