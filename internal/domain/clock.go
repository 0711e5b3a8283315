package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock stamps scenes with their generation time. Tests and reproducible
// renders swap in a fake via SetClock.
var clock = clockwork.NewRealClock()

// SetClock replaces the time source. Pass nil to restore the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock, in UTC.
func Now() time.Time {
	return clock.Now().UTC()
}
