package domain

import "github.com/jonboulle/clockwork"

// clock is a package-level time source so tests can freeze record timestamps
// via SetClock. Production code uses the real clock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used to stamp records. Pass nil to reset to
// real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Clock returns the package time source, for callers outside the package
// that stamp records.
func Clock() clockwork.Clock { return clock }
