package app

import "time"

// Clock supplies the current time. Injected into the services so the
// reminder window logic is testable without the wall clock.
type Clock func() time.Time

// SystemClock is the wall-clock Clock used outside of tests.
func SystemClock() time.Time {
	return time.Now()
}
