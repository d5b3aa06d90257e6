package selectword

import (
	"time"

	"github.com/dshills/chordkit/internal/input/key"
	"github.com/dshills/chordkit/internal/input/keymap"
	"github.com/dshills/chordkit/internal/pipeline"
)

// State is the selection state.
type State uint8

const (
	// StateNone means no selection.
	StateNone State = iota
	// StateSelected means the key was released with something selected.
	StateSelected
	// StateWord means the key is held with words selected.
	StateWord
	// StateFirstLine means the key is held with one line selected.
	StateFirstLine
	// StateLine means the key is held with multiple lines selected.
	StateLine
)

// Config configures the engine.
type Config struct {
	// MacHotkeys selects with Option and Command instead of Ctrl and
	// Home/End.
	MacHotkeys bool

	// IdleTimeout forgets the selection state after inactivity. 0
	// disables.
	IdleTimeout time.Duration
}

// Engine is the select-word handler.
type Engine struct {
	cfg    Config
	state  State
	idleAt time.Time
}

// New creates a select-word engine.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Name implements pipeline.Handler.
func (e *Engine) Name() string { return "selectword" }

// State returns the current selection state.
func (e *Engine) State() State { return e.state }

// Tick implements pipeline.Ticker: idle timeout forgets the selection.
func (e *Engine) Tick(ctx *pipeline.Context, now time.Time) {
	if e.state != StateNone && !e.idleAt.IsZero() && !now.Before(e.idleAt) {
		e.state = StateNone
		e.idleAt = time.Time{}
	}
}

// Handle implements pipeline.Handler.
func (e *Engine) Handle(ctx *pipeline.Context, ev key.Event, act keymap.Action) pipeline.Result {
	// Shift keys never disturb a selection in progress.
	if act.TapKey().IsShiftKey() {
		return pipeline.PassThrough
	}

	if e.cfg.IdleTimeout > 0 {
		e.idleAt = ev.Time.Add(e.cfg.IdleTimeout)
	}

	kb := ctx.Keyboard
	wordMod := key.ModLeftCtrl
	if e.cfg.MacHotkeys {
		wordMod = key.ModLeftAlt
	}

	if act.Kind == keymap.KindSelectWord && ev.Pressed {
		mods := kb.Mods()
		shifted := (mods | kb.OneShotMods()).HasShift()
		kb.ClearOneShotMods()

		if !shifted { // Select word.
			kb.SetMods(wordMod)
			if e.state == StateNone {
				// Jump to the start of the word before selecting.
				kb.SendReport()
				kb.TapKey(key.KeyRight)
				kb.TapKey(key.KeyLeft)
			}
			kb.RegisterMods(key.ModLeftShift)
			kb.RegisterKey(key.KeyRight)
			e.state = StateWord
		} else { // Select line.
			if e.state == StateNone {
				if e.cfg.MacHotkeys {
					kb.SetMods(key.ModLeftGUI)
					kb.SendReport()
					kb.TapKey(key.KeyLeft)
					kb.RegisterMods(key.ModLeftShift)
					kb.TapKey(key.KeyRight)
				} else {
					kb.SetMods(key.ModNone)
					kb.SendReport()
					kb.TapKey(key.KeyHome)
					kb.RegisterMods(key.ModLeftShift)
					kb.TapKey(key.KeyEnd)
				}
				kb.SetMods(mods)
				e.state = StateFirstLine
			} else {
				kb.RegisterKey(key.KeyDown)
				e.state = StateLine
			}
		}
		return pipeline.Consumed
	}

	// The trigger was released, or another key arrived.
	switch e.state {
	case StateWord:
		kb.UnregisterKey(key.KeyRight)
		kb.UnregisterMods(key.ModLeftShift | wordMod)
		e.state = StateSelected

	case StateFirstLine:
		e.state = StateSelected

	case StateLine:
		kb.UnregisterKey(key.KeyDown)
		e.state = StateSelected

	case StateSelected:
		if act.TapKey() == key.KeyEscape && ev.Pressed {
			kb.TapKey(key.KeyRight)
			e.state = StateNone
			return pipeline.Consumed
		}
		e.state = StateNone

	default:
		e.state = StateNone
	}

	if act.Kind == keymap.KindSelectWord {
		return pipeline.Consumed
	}
	return pipeline.PassThrough
}
