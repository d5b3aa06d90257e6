package taphold

import (
	"time"

	"github.com/dshills/chordkit/internal/input/key"
	"github.com/dshills/chordkit/internal/input/keymap"
	"github.com/dshills/chordkit/internal/pipeline"
)

// DefaultTimeout is the hold deadline used when no per-key timeout is
// configured.
const DefaultTimeout = 1000 * time.Millisecond

// ChordFunc decides whether a pending dual-role key and an incoming press
// form a chord (true settles the pending key as held).
type ChordFunc func(pendingEv key.Event, pendingAct keymap.Action, otherEv key.Event, otherAct keymap.Action) bool

// TimeoutFunc returns the hold deadline for a dual-role key. Returning 0
// disables the engine for that key.
type TimeoutFunc func(act keymap.Action, ev key.Event) time.Duration

// StreakFunc returns the streak window for a pending key and the incoming
// press. If the pending key was pressed within this window of the previous
// keystroke, the settle decision is forced to tap. Returning 0 disables
// streak suppression for the pair.
type StreakFunc func(pendingAct, otherAct keymap.Action) time.Duration

// Config configures the engine. Nil funcs use the documented defaults.
type Config struct {
	// Timeout is the per-key hold deadline. Default: DefaultTimeout for
	// every dual-role key.
	Timeout TimeoutFunc

	// Chord is the settle predicate. Default: OppositeHands.
	Chord ChordFunc

	// Streak is the streak-suppression window. Default: disabled.
	Streak StreakFunc

	// TapDelay is the pause between a synthesized tap press and release.
	TapDelay time.Duration

	// MatrixRows is the total matrix row count, used by the default
	// opposite-hands rule.
	MatrixRows int
}

// OppositeHands reports whether two positions are on different halves of a
// split keyboard with the given row count.
func OppositeHands(a, b key.Position, matrixRows int) bool {
	return a.OnLeftHand(matrixRows) != b.OnLeftHand(matrixRows)
}

// Engine is the tap-hold decision state machine. It holds at most one
// pending dual-role key at a time.
type Engine struct {
	cfg Config

	active     bool
	settled    bool
	pendingEv  key.Event
	pendingAct keymap.Action
	deadline   time.Time

	// streakRef is the time of the physical press immediately before the
	// pending key, captured when the pending state is entered.
	streakRef time.Time
	prevPress time.Time

	// Hold action applied on settle, for unwinding on release.
	holdMods    key.Modifier
	holdLayer   uint8
	holdLayerOn bool
}

// New creates a tap-hold engine.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Name implements pipeline.Handler.
func (e *Engine) Name() string { return "taphold" }

// Pending returns true while a dual-role key awaits its settle decision.
func (e *Engine) Pending() bool { return e.active && !e.settled }

// PendingKey returns the keycode of the active pending key, or KeyNone.
func (e *Engine) PendingKey() key.Keycode {
	if !e.active {
		return key.KeyNone
	}
	return e.pendingEv.Code
}

// Handle implements pipeline.Handler.
func (e *Engine) Handle(ctx *pipeline.Context, ev key.Event, act keymap.Action) pipeline.Result {
	if !e.active {
		if ev.Pressed && ev.Pos.Physical() && act.DualRole() && ev.HoldPhase() {
			if timeout := e.timeout(act, ev); timeout > 0 {
				e.active = true
				e.settled = false
				e.pendingEv = ev
				e.pendingAct = act
				e.deadline = ev.Time.Add(timeout)
				e.streakRef = e.prevPress
				e.notePress(ev)
				ctx.Log.Debug("taphold: pending %s, deadline in %s", ev, timeout)
				return pipeline.Consumed
			}
		}
		e.notePress(ev)
		return pipeline.PassThrough
	}

	if !ev.Pressed && ev.HoldPhase() && ev.Code == e.pendingEv.Code && ev.Pos == e.pendingEv.Pos {
		// The pending key itself is being released. Synthesized tap
		// releases carry a tap count and skip this branch.
		wasSettled := e.settled
		e.clearHoldAction(ctx)
		e.reset()
		if !wasSettled {
			// Pressed and released with no intervening key: a tap.
			ctx.Log.Debug("taphold: quick tap %s", ev.Code)
			e.emitTap(ctx)
		}
		return pipeline.Consumed
	}

	if ev.Pressed && !e.settled {
		// A different key was pressed while pending: settle now. The
		// settled flag is the recursion guard; the re-dispatched events
		// below re-enter this handler and fall through.
		e.settled = true
		hold := !ev.Pos.Physical() ||
			(act.DualRole() && ev.HoldPhase()) ||
			e.decide(ev, act)
		if hold {
			ctx.Log.Debug("taphold: settled %s as hold", e.pendingEv.Code)
			e.applyHoldAction(ctx)
		} else {
			ctx.Log.Debug("taphold: settled %s as tap", e.pendingEv.Code)
			e.emitTap(ctx)
		}
		e.notePress(ev)
		ctx.Dispatch(ev)
		return pipeline.Consumed
	}

	e.notePress(ev)
	return pipeline.PassThrough
}

// Tick implements pipeline.Ticker: an expired deadline settles the
// pending key as held.
func (e *Engine) Tick(ctx *pipeline.Context, now time.Time) {
	if e.active && !e.settled && !now.Before(e.deadline) {
		e.settled = true
		ctx.Log.Debug("taphold: %s timed out, held", e.pendingEv.Code)
		e.applyHoldAction(ctx)
	}
}

func (e *Engine) timeout(act keymap.Action, ev key.Event) time.Duration {
	if e.cfg.Timeout != nil {
		return e.cfg.Timeout(act, ev)
	}
	return DefaultTimeout
}

// decide applies streak suppression, then the chord predicate.
func (e *Engine) decide(otherEv key.Event, otherAct keymap.Action) bool {
	if e.cfg.Streak != nil && !e.streakRef.IsZero() {
		if window := e.cfg.Streak(e.pendingAct, otherAct); window > 0 &&
			e.pendingEv.Time.Sub(e.streakRef) < window {
			return false
		}
	}
	if e.cfg.Chord != nil {
		return e.cfg.Chord(e.pendingEv, e.pendingAct, otherEv, otherAct)
	}
	return OppositeHands(e.pendingEv.Pos, otherEv.Pos, e.cfg.MatrixRows)
}

// applyHoldAction activates the pending key's mods or layer.
func (e *Engine) applyHoldAction(ctx *pipeline.Context) {
	switch e.pendingAct.Kind {
	case keymap.KindModTap:
		e.holdMods = e.pendingAct.Mods
		ctx.Keyboard.RegisterMods(e.holdMods)
		ctx.Keyboard.SendReport()
	case keymap.KindLayerTap:
		e.holdLayer = e.pendingAct.Layer
		e.holdLayerOn = true
		ctx.Keyboard.LayerOn(e.holdLayer)
	}
}

// clearHoldAction unwinds whatever applyHoldAction did.
func (e *Engine) clearHoldAction(ctx *pipeline.Context) {
	if e.holdMods != key.ModNone {
		ctx.Keyboard.UnregisterMods(e.holdMods)
		ctx.Keyboard.SendReport()
		e.holdMods = key.ModNone
	} else if e.holdLayerOn {
		ctx.Keyboard.LayerOff(e.holdLayer)
		e.holdLayerOn = false
		e.holdLayer = 0
	}
}

// emitTap re-dispatches the pending event revised as a tap: press, then
// after the configured delay, release. Both pass through the full chain
// so every downstream feature observes them.
func (e *Engine) emitTap(ctx *pipeline.Context) {
	press := e.pendingEv.WithTapCount(1)
	ctx.Dispatch(press)
	if e.cfg.TapDelay > 0 {
		ctx.Sleep(e.cfg.TapDelay)
	}
	ctx.Dispatch(press.WithPressed(false).WithTime(ctx.Now()))
}

func (e *Engine) reset() {
	e.active = false
	e.settled = false
	e.pendingAct = keymap.Action{}
}

func (e *Engine) notePress(ev key.Event) {
	if ev.Pressed && ev.Pos.Physical() {
		e.prevPress = ev.Time
	}
}
