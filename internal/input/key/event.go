package key

import (
	"fmt"
	"time"
)

// Event represents a single key press or release.
type Event struct {
	// Code identifies the key.
	Code Keycode

	// Pos is the matrix position, or Virtual for synthesized events.
	Pos Position

	// Pressed is true for press events, false for releases.
	Pressed bool

	// TapCount is 0 while a dual-role key is in its hold phase and n for
	// the nth tap. Plain keys always carry 0.
	TapCount uint8

	// Time is when the event occurred, from the pipeline's monotonic clock.
	Time time.Time
}

// NewPress creates a press event.
func NewPress(code Keycode, pos Position, t time.Time) Event {
	return Event{Code: code, Pos: pos, Pressed: true, Time: t}
}

// NewRelease creates a release event.
func NewRelease(code Keycode, pos Position, t time.Time) Event {
	return Event{Code: code, Pos: pos, Pressed: false, Time: t}
}

// WithPressed returns a copy with the press flag revised.
func (e Event) WithPressed(pressed bool) Event {
	e.Pressed = pressed
	return e
}

// WithTapCount returns a copy with the tap count revised.
func (e Event) WithTapCount(count uint8) Event {
	e.TapCount = count
	return e
}

// WithTime returns a copy with the timestamp revised.
func (e Event) WithTime(t time.Time) Event {
	e.Time = t
	return e
}

// HoldPhase returns true while the event describes a dual-role key that
// has not been resolved to a tap.
func (e Event) HoldPhase() bool {
	return e.TapCount == 0
}

// String returns a compact representation like "a down @3,2".
func (e Event) String() string {
	dir := "up"
	if e.Pressed {
		dir = "down"
	}
	return fmt.Sprintf("%s %s @%s", e.Code, dir, e.Pos)
}
