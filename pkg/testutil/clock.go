package testutil

import "time"

// StepClock returns Start on the first call and advances by Step on every
// call after that. A zero Step returns the same instant forever.
type StepClock struct {
	Start time.Time
	Step  time.Duration
	calls int
}

// Now implements the clock used by the backup store.
func (c *StepClock) Now() time.Time {
	t := c.Start.Add(time.Duration(c.calls) * c.Step)
	c.calls++
	return t
}
