package engine

import "time"

// Clock supplies wall time to the runner. The engine's only temporal
// concern is the throttle window, which compares a cache entry's
// ComputedAt against now; injecting the clock makes that advanceable in
// tests without sleeping.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

// Now returns the current wall time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
