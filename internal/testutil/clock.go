// Package testutil provides deterministic time and identity sources for
// tests and scenarios.
package testutil

import (
	"sync"
	"time"
)

// DeterministicClock is a thread-safe manual clock for tests.
//
// Now returns the current instant; Advance moves it forward. Unlike
// time.Now, two calls without an Advance in between return the same value,
// so descriptions and golden output are reproducible.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	start time.Time
	now   time.Time
}

// NewDeterministicClock creates a clock that starts at start.
func NewDeterministicClock(start time.Time) *DeterministicClock {
	return &DeterministicClock{start: start, now: start}
}

// Now returns the current instant.
//
// Matches the func() time.Time shape expected by controller.WithNow.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Negative durations are ignored.
func (c *DeterministicClock) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Reset returns the clock to its start instant.
//
// Used for test reuse.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.start
}
