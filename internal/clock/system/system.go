// Package system provides the wall clock used to stamp cache loads.
package system

import "time"

// Clock satisfies country.Clock with the real time in UTC.
type Clock struct{}

// New returns a Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current UTC time.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}
