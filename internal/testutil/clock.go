// Package testutil provides deterministic test doubles shared across
// the engine's test suites.
package testutil

import (
	"sync"
	"time"
)

// ManualClock is a thread-safe wall clock that only moves when advanced.
// Throttle tests use it to cross the window without sleeping.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a manual clock frozen at the given instant.
func NewManualClock(at time.Time) *ManualClock {
	return &ManualClock{now: at}
}

// Now returns the clock's current instant.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set jumps the clock to an absolute instant.
func (c *ManualClock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = at
}
