package pipeline

import (
	"time"

	"github.com/dshills/chordkit/internal/input/key"
	"github.com/dshills/chordkit/internal/input/keymap"
	"github.com/dshills/chordkit/internal/state"
)

// maxDispatchDepth bounds re-entrant dispatch. Legitimate synthesis nests
// a few levels (tap-hold settling re-dispatches an event that the repeat
// engine may itself re-dispatch); anything deeper is a guard-flag bug.
const maxDispatchDepth = 8

// Context is passed to every handler. It carries the keyboard facade, the
// logger, the clock, and the re-entry point for synthesized events.
type Context struct {
	Keyboard state.Keyboard
	Log      *Logger

	clock Clock
	pipe  *Pipeline
}

// Now returns the current time from the pipeline clock.
func (c *Context) Now() time.Time { return c.clock.Now() }

// Sleep pauses for inter-keystroke spacing during synthesis.
func (c *Context) Sleep(d time.Duration) { c.clock.Sleep(d) }

// Dispatch runs a synthesized event through the full pipeline as a
// synchronous sub-call. The event is fully processed before Dispatch
// returns.
func (c *Context) Dispatch(ev key.Event) Result {
	return c.pipe.dispatch(ev)
}

// Resolve looks up the keymap action for an event under the current layer
// state.
func (c *Context) Resolve(ev key.Event) keymap.Action {
	return c.pipe.keymap.Resolve(c.Keyboard.LayerState(), ev)
}

// Pipeline owns the handler chain and drives events through it.
type Pipeline struct {
	handlers []Handler
	hlogs    []*Logger
	tickers  []Ticker
	keymap   *keymap.Keymap
	ctx      Context
	depth    int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(p *Pipeline) { p.ctx.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *Logger) Option {
	return func(p *Pipeline) { p.ctx.Log = l }
}

// New creates a pipeline over a keyboard facade and a keymap.
func New(kb state.Keyboard, km *keymap.Keymap, opts ...Option) *Pipeline {
	p := &Pipeline{keymap: km}
	p.ctx = Context{
		Keyboard: kb,
		Log:      NopLogger(),
		clock:    SystemClock{},
		pipe:     p,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Append adds handlers to the end of the chain, in processing order.
// Handlers that implement Ticker are also registered for Tick.
func (p *Pipeline) Append(handlers ...Handler) {
	for _, h := range handlers {
		p.handlers = append(p.handlers, h)
		p.hlogs = append(p.hlogs, p.ctx.Log.WithFeature(h.Name()))
		if t, ok := h.(Ticker); ok {
			p.tickers = append(p.tickers, t)
		}
	}
}

// Context returns the pipeline's context, for use by hosts that need the
// facade or dispatch entry point outside a handler call.
func (p *Pipeline) Context() *Context { return &p.ctx }

// Handle processes one external key event through the chain. It returns
// Consumed if some handler swallowed the event.
func (p *Pipeline) Handle(ev key.Event) Result {
	return p.dispatch(ev)
}

// Tick evaluates time-based state (tap-hold deadlines, idle timeouts).
// Call it every few milliseconds from the pipeline goroutine.
func (p *Pipeline) Tick(now time.Time) {
	for _, t := range p.tickers {
		t.Tick(&p.ctx, now)
	}
}

func (p *Pipeline) dispatch(ev key.Event) Result {
	if p.depth >= maxDispatchDepth {
		p.ctx.Log.Error("dispatch depth %d exceeded, dropping %s", maxDispatchDepth, ev)
		return Consumed
	}
	p.depth++
	defer func() { p.depth-- }()

	act := p.keymap.Resolve(p.ctx.Keyboard.LayerState(), ev)
	for i, h := range p.handlers {
		if h.Handle(&p.ctx, ev, act) == Consumed {
			p.hlogs[i].Debug("consumed %s", ev)
			return Consumed
		}
	}
	p.execute(ev, act)
	return PassThrough
}
