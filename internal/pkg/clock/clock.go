// Package clock abstracts wall-clock access so services can be tested
// against a fixed point in time.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// System reads the real wall clock in UTC.
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always reports the same instant.
type Fixed struct {
	Time time.Time
}

func (f Fixed) Now() time.Time {
	return f.Time
}

// At builds a Fixed clock, for tests.
func At(t time.Time) Fixed {
	return Fixed{Time: t}
}
