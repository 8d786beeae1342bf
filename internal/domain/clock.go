package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is the package-level time source behind fetched-at stamps.
// Production code uses the real clock; tests and the fixture generator
// inject a fake via SetClock for deterministic output.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the active clock.
func Now() time.Time {
	return clock.Now()
}
