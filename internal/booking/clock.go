package booking

import "time"

// Clock abstracts the source of the current time so that the engine and
// the sweeper can be tested with a fixed "now".  Production code uses
// SystemClock.
type Clock interface {
    Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time.  Callers are expected to normalize to
// UTC themselves; the store only ever persists UTC timestamps.
func (SystemClock) Now() time.Time { return time.Now() }
