package ai

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Limiter bounds concurrent upstream LLM calls across all AI services. One
// limiter is shared by suggestion, breakdown, and coach traffic so a burst on
// one endpoint cannot starve the API quota for the others.
type Limiter struct {
	sem *semaphore.Weighted
}

// NewLimiter creates a limiter allowing n concurrent calls
func NewLimiter(n int64) *Limiter {
	return &Limiter{sem: semaphore.NewWeighted(n)}
}

// Acquire blocks until a slot is free or ctx is cancelled
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

// Release frees a slot
func (l *Limiter) Release() {
	l.sem.Release(1)
}
