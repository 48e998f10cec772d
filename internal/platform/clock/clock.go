package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in the local zone, so "today" is the
// user's calendar day.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Today returns the calendar date of c.Now(), in c's zone, as midnight UTC.
func Today(c Clock) time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
