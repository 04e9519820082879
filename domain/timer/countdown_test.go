package timer

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestNaturalExpiry tests the spec scenario: a 5-minute (300s) countdown
// ticked 300 times completes exactly once and triggers exactly one ingestion
func TestNaturalExpiry(t *testing.T) {
	completions := 0
	var gotTask string
	var gotMinutes int

	c := New(KindFocus, "Read", 5, func(task string, minutes int) error {
		completions++
		gotTask = task
		gotMinutes = minutes
		return nil
	}, nil)

	c.Start()
	for i := 0; i < 300; i++ {
		c.Tick()
	}

	if c.State() != StateCompleted {
		t.Fatalf("Expected completed, got %s", c.State())
	}
	if completions != 1 {
		t.Fatalf("Expected exactly one completion, got %d", completions)
	}
	if gotTask != "Read" || gotMinutes != 5 {
		t.Errorf("Completion args: expected (Read, 5), got (%s, %d)", gotTask, gotMinutes)
	}

	// Extra ticks after completion are ignored
	for i := 0; i < 10; i++ {
		c.Tick()
	}
	if completions != 1 {
		t.Errorf("Ticks after completion re-fired the callback: %d", completions)
	}
}

// TestProgressThresholdsFireOnce tests the 50% and 80% notifications
func TestProgressThresholdsFireOnce(t *testing.T) {
	fired := make(map[int]int)
	c := New(KindFocus, "Read", 1, nil, func(percent int) {
		fired[percent]++
	})

	c.Start()
	for i := 0; i < 60; i++ {
		c.Tick()
	}

	if fired[50] != 1 {
		t.Errorf("50%% threshold: expected one notification, got %d", fired[50])
	}
	if fired[80] != 1 {
		t.Errorf("80%% threshold: expected one notification, got %d", fired[80])
	}
}

// TestProgressThresholdTiming tests that thresholds fire at the right tick
func TestProgressThresholdTiming(t *testing.T) {
	var at []int
	var c *Countdown
	c = New(KindFocus, "Read", 1, nil, func(percent int) {
		at = append(at, 60-c.Remaining())
	})

	c.Start()
	for i := 0; i < 60; i++ {
		c.Tick()
	}

	if len(at) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(at))
	}
	if at[0] != 30 {
		t.Errorf("50%% of 60s: expected at tick 30, got %d", at[0])
	}
	if at[1] != 48 {
		t.Errorf("80%% of 60s: expected at tick 48, got %d", at[1])
	}
}

// TestPauseResume tests the paused <-> running transitions
func TestPauseResume(t *testing.T) {
	c := New(KindBreak, "", 5, nil, nil)

	if c.State() != StateIdle {
		t.Fatalf("Expected idle, got %s", c.State())
	}

	c.Start()
	c.Tick()
	c.Tick()
	if c.Remaining() != 298 {
		t.Fatalf("Expected 298 remaining, got %d", c.Remaining())
	}

	c.Pause()
	if c.State() != StatePaused {
		t.Fatalf("Expected paused, got %s", c.State())
	}

	// Ticks while paused are phantom ticks and must not decrement
	c.Tick()
	c.Tick()
	if c.Remaining() != 298 {
		t.Errorf("Paused countdown decremented: %d", c.Remaining())
	}

	c.Resume()
	c.Tick()
	if c.Remaining() != 297 {
		t.Errorf("Expected 297 after resume, got %d", c.Remaining())
	}
}

// TestReset tests that reset discards progress without recording
func TestReset(t *testing.T) {
	completions := 0
	c := New(KindOnboarding, "Try it", 1, func(string, int) error {
		completions++
		return nil
	}, nil)

	c.Start()
	for i := 0; i < 30; i++ {
		c.Tick()
	}
	c.Reset()

	if c.State() != StateIdle {
		t.Errorf("Expected idle after reset, got %s", c.State())
	}
	if c.Remaining() != 60 {
		t.Errorf("Expected full duration after reset, got %d", c.Remaining())
	}
	if completions != 0 {
		t.Errorf("Reset must not record a session, got %d completions", completions)
	}

	// A fresh run fires thresholds again
	fired := 0
	c2 := New(KindFocus, "Read", 1, nil, func(int) { fired++ })
	c2.Start()
	for i := 0; i < 30; i++ {
		c2.Tick()
	}
	c2.Reset()
	c2.Start()
	for i := 0; i < 60; i++ {
		c2.Tick()
	}
	if fired != 3 { // one 50% pre-reset, then 50% and 80% on the full run
		t.Errorf("Expected 3 notifications across reset, got %d", fired)
	}
}

// TestCompletionErrorSurfaced tests that an ingestion failure leaves the
// machine completed but keeps the error visible
func TestCompletionErrorSurfaced(t *testing.T) {
	ingestErr := errors.New("persistence unreachable")
	c := New(KindFocus, "Read", 1, func(string, int) error {
		return ingestErr
	}, nil)

	c.Start()
	for i := 0; i < 60; i++ {
		c.Tick()
	}

	if c.State() != StateCompleted {
		t.Errorf("Completion failure trapped the timer in %s", c.State())
	}
	if !errors.Is(c.Err(), ingestErr) {
		t.Errorf("Expected surfaced ingestion error, got %v", c.Err())
	}
}

// TestTickIgnoredWhileIdle tests that an unstarted countdown never moves
func TestTickIgnoredWhileIdle(t *testing.T) {
	c := New(KindFocus, "Read", 5, nil, nil)
	c.Tick()
	if c.Remaining() != 300 {
		t.Errorf("Idle countdown decremented: %d", c.Remaining())
	}
}

// TestRunCancellation tests that cancelling the context stops the ticker
// without recording a session
func TestRunCancellation(t *testing.T) {
	completions := 0
	c := New(KindFocus, "Read", 60, func(string, int) error {
		completions++
		return nil
	}, nil)
	c.interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}

	if completions != 0 {
		t.Errorf("Cancelled run recorded a session: %d", completions)
	}
}

// TestRunToCompletion tests that Run returns nil once the countdown expires
func TestRunToCompletion(t *testing.T) {
	completions := 0
	c := New(KindBreak, "", 1, func(string, int) error {
		completions++
		return nil
	}, nil)
	c.interval = 100 * time.Microsecond

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if completions != 1 {
		t.Errorf("Expected one completion, got %d", completions)
	}
	if c.State() != StateCompleted {
		t.Errorf("Expected completed, got %s", c.State())
	}
}
