package testutil

import (
	"sync"
	"time"
)

// TickingClock is a deterministic wall clock for tests.
//
// Each call to Now advances the clock by a fixed step, so every record
// created during a test carries a distinct, predictable timestamp. This
// keeps golden snapshot comparisons byte-identical across runs.
//
// Thread-safety: all methods are safe for concurrent use.
type TickingClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewTickingClock creates a clock starting at start, advancing by step
// on every Now call. A zero step freezes the clock.
func NewTickingClock(start time.Time, step time.Duration) *TickingClock {
	return &TickingClock{now: start, step: step}
}

// Now returns the current instant and advances the clock.
func (c *TickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Peek returns the current instant without advancing.
func (c *TickingClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}
