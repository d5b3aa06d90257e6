package pipeline

import "time"

// Clock abstracts the monotonic time source so tests can run without real
// delays. Sleep is used only for inter-keystroke spacing during synthesis
// and is always bounded to a few milliseconds.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the wall Clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// Sleep implements Clock.
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// ManualClock is a Clock advanced explicitly. Sleep advances the clock
// instead of blocking.
type ManualClock struct {
	now time.Time
}

// NewManualClock creates a ManualClock starting at t.
func NewManualClock(t time.Time) *ManualClock {
	return &ManualClock{now: t}
}

// Now implements Clock.
func (c *ManualClock) Now() time.Time { return c.now }

// Sleep implements Clock.
func (c *ManualClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

// Advance moves the clock forward and returns the new time.
func (c *ManualClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}
