package pipeline

import (
	"time"

	"github.com/dshills/chordkit/internal/input/key"
	"github.com/dshills/chordkit/internal/input/keymap"
)

// Result is the outcome of a handler processing an event.
type Result uint8

const (
	// PassThrough lets the event continue down the chain.
	PassThrough Result = iota

	// Consumed stops the chain; the event produced no further effects.
	Consumed
)

// String returns "consumed" or "pass".
func (r Result) String() string {
	if r == Consumed {
		return "consumed"
	}
	return "pass"
}

// Handler processes key events in chain order.
type Handler interface {
	// Name identifies the handler in logs.
	Name() string

	// Handle processes one event. The event's keymap action is resolved
	// by the pipeline before the chain runs.
	Handle(ctx *Context, ev key.Event, act keymap.Action) Result
}

// Ticker is implemented by handlers with time-based state. Tick is called
// periodically from the pipeline goroutine to evaluate timeouts.
type Ticker interface {
	Tick(ctx *Context, now time.Time)
}
