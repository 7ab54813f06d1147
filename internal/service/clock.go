package service

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location. Readings are
// truncated to microseconds, the precision Postgres keeps for timestamps.
type SystemClock struct {
	Location *time.Location
}

// NewSystemClock returns a clock reporting times in loc (UTC when nil).
func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return SystemClock{Location: loc}
}

// Now implements Clock.
func (c SystemClock) Now() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc).Truncate(time.Microsecond)
}

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now implements Clock.
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}
