package capsword

import (
	"time"

	"github.com/dshills/chordkit/internal/input/key"
	"github.com/dshills/chordkit/internal/input/keymap"
	"github.com/dshills/chordkit/internal/pipeline"
)

// DefaultIdleTimeout deactivates caps word after five seconds without a
// keypress.
const DefaultIdleTimeout = 5 * time.Second

// ContinuesFunc decides whether a pressed key continues the current
// word. shift reports whether the key should be typed with a weak shift
// applied; cont reports whether the mode stays active.
type ContinuesFunc func(code key.Keycode, mods key.Modifier) (shift, cont bool)

// Config configures the engine.
type Config struct {
	// IdleTimeout deactivates the mode after inactivity. 0 uses
	// DefaultIdleTimeout; negative disables the timeout.
	IdleTimeout time.Duration

	// BothShifts enables activation by pressing both shift keys while no
	// other modifier is held.
	BothShifts bool

	// Continues overrides the word-continuation rule. Default:
	// DefaultContinues.
	Continues ContinuesFunc

	// Changed is called when the mode turns on or off.
	Changed func(bool)
}

// Engine is the caps-word handler.
type Engine struct {
	cfg    Config
	active bool
	idleAt time.Time
}

// New creates a caps-word engine.
func New(cfg Config) *Engine {
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Continues == nil {
		cfg.Continues = DefaultContinues
	}
	return &Engine{cfg: cfg}
}

// Name implements pipeline.Handler.
func (e *Engine) Name() string { return "capsword" }

// Active reports whether caps word is on.
func (e *Engine) Active() bool { return e.active }

// Set turns the mode on or off directly.
func (e *Engine) Set(ctx *pipeline.Context, on bool) {
	if e.active == on {
		return
	}
	e.active = on
	e.idleAt = time.Time{}
	if on && e.cfg.IdleTimeout > 0 {
		e.idleAt = ctx.Now().Add(e.cfg.IdleTimeout)
	}
	if !on {
		ctx.Keyboard.ClearWeakMods()
	}
	ctx.Log.Debug("capsword: active = %v", on)
	if e.cfg.Changed != nil {
		e.cfg.Changed(on)
	}
}

// Tick implements pipeline.Ticker: idle timeout turns the mode off.
func (e *Engine) Tick(ctx *pipeline.Context, now time.Time) {
	if e.active && !e.idleAt.IsZero() && !now.Before(e.idleAt) {
		ctx.Log.Debug("capsword: idle timeout")
		e.Set(ctx, false)
	}
}

// Handle implements pipeline.Handler.
func (e *Engine) Handle(ctx *pipeline.Context, ev key.Event, act keymap.Action) pipeline.Result {
	if act.Kind == keymap.KindCapsToggle {
		if ev.Pressed {
			e.Set(ctx, !e.active)
		}
		return pipeline.Consumed
	}

	if !e.active {
		if e.cfg.BothShifts && ev.Pressed && actKey(ev, act).IsShiftKey() {
			held := ctx.Keyboard.Mods() | ctx.Keyboard.OneShotMods()
			if held|actKey(ev, act).ModifierBit() == key.MaskShift {
				e.Set(ctx, true)
			}
		}
		return pipeline.PassThrough
	}

	if !ev.Pressed {
		return pipeline.PassThrough
	}
	if e.cfg.IdleTimeout > 0 {
		e.idleAt = ev.Time.Add(e.cfg.IdleTimeout)
	}

	code := actKey(ev, act)
	switch act.Kind {
	case keymap.KindPlain:
	case keymap.KindModTap, keymap.KindLayerTap:
		if ev.HoldPhase() {
			// Held dual-role keys neither continue nor end the word.
			return pipeline.PassThrough
		}
	case keymap.KindMomentary, keymap.KindToggle:
		// Layer changes are word-neutral.
		return pipeline.PassThrough
	default:
		return pipeline.PassThrough
	}

	if code.IsShiftKey() {
		return pipeline.PassThrough
	}
	if mods := ctx.Keyboard.Mods() | ctx.Keyboard.OneShotMods(); mods&^key.MaskShift != 0 {
		e.Set(ctx, false)
		return pipeline.PassThrough
	}

	ctx.Keyboard.ClearWeakMods()
	shift, cont := e.cfg.Continues(code, ctx.Keyboard.Mods())
	if !cont {
		e.Set(ctx, false)
		return pipeline.PassThrough
	}
	if shift {
		ctx.Keyboard.AddWeakMods(key.ModLeftShift)
	}
	return pipeline.PassThrough
}

// actKey extracts the relevant keycode from an event and its action.
func actKey(ev key.Event, act keymap.Action) key.Keycode {
	if k := act.TapKey(); k != key.KeyNone {
		return k
	}
	return ev.Code
}

// DefaultContinues shifts letters and lets digits, backspace, delete,
// underscore and minus continue the word unshifted.
func DefaultContinues(code key.Keycode, mods key.Modifier) (shift, cont bool) {
	switch {
	case code.IsLetter():
		return true, true
	case code.IsDigit(),
		code == key.KeyBackspace, code == key.KeyDelete,
		code == key.KeyUnderscore, code == key.KeyMinus:
		return false, true
	}
	return false, false
}
