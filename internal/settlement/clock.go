package settlement

import "time"

// Clock supplies the calculation date.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock. Hosts pass it in; the engine never reads
// time on its own.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock always returns the same instant.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}
