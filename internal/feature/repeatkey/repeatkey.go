package repeatkey

import (
	"github.com/dshills/chordkit/internal/input/key"
	"github.com/dshills/chordkit/internal/input/keymap"
	"github.com/dshills/chordkit/internal/pipeline"
)

// maxCount is the saturation bound of the signed repeat counter.
const maxCount = 127

// EligibleFunc decides whether a press may become the remembered key.
type EligibleFunc func(code key.Keycode, ev key.Event, act keymap.Action) bool

// RememberFunc adjusts the modifier snapshot stored with a remembered
// key. Returning false vetoes remembering the press entirely.
type RememberFunc func(code key.Keycode, ev key.Event, mods key.Modifier) (key.Modifier, bool)

// AlternateFunc maps a remembered key to its complementary keycode.
// Returning KeyNone means no alternate is defined.
type AlternateFunc func(code key.Keycode, mods key.Modifier) key.Keycode

// Config configures the engine. Nil funcs use the documented defaults.
type Config struct {
	// Eligible filters which presses are remembered. The default rejects
	// layer-switch keys, pure modifier keys, and hold-phase events of
	// dual-role keys.
	Eligible EligibleFunc

	// Remember adjusts the stored modifier snapshot. The default drops
	// Shift on letters (when no mods besides Shift/AltGr are active)
	// except the letters in KeepShift.
	Remember RememberFunc

	// KeepShift lists letters whose Shift survives the default Remember
	// adjustment, for doubled-capital idioms.
	KeepShift []key.Keycode

	// Alternate maps the remembered key to its complement. Default: none.
	Alternate AlternateFunc
}

// Pairs builds an AlternateFunc from an involution table: each pair maps
// to its other element in both directions.
func Pairs(pairs [][2]key.Keycode) AlternateFunc {
	return func(code key.Keycode, _ key.Modifier) key.Keycode {
		for _, p := range pairs {
			if code == p[0] {
				return p[1]
			}
			if code == p[1] {
				return p[0]
			}
		}
		return key.KeyNone
	}
}

// record is the single remembered-key slot.
type record struct {
	ev     key.Event
	code   key.Keycode
	mods   key.Modifier
	layers key.LayerMask
}

// Engine remembers the last eligible key press and replays it.
type Engine struct {
	cfg       Config
	keepShift map[key.Keycode]bool
	last      record
	count     int8
	recursing bool
}

// New creates a repeat engine.
func New(cfg Config) *Engine {
	if cfg.KeepShift == nil {
		// Keep Shift for doubling idioms like Vim's NN and ZZ.
		cfg.KeepShift = []key.Keycode{key.KeyN, key.KeyZ}
	}
	keep := make(map[key.Keycode]bool, len(cfg.KeepShift))
	for _, k := range cfg.KeepShift {
		keep[k] = true
	}
	return &Engine{cfg: cfg, keepShift: keep}
}

// Name implements pipeline.Handler.
func (e *Engine) Name() string { return "repeat" }

// Count returns the signed repeat counter: positive for forward repeats,
// negative for alternate repeats, 0 after a fresh remember.
func (e *Engine) Count() int8 { return e.count }

// LastKeycode returns the remembered keycode, or KeyNone.
func (e *Engine) LastKeycode() key.Keycode { return e.last.code }

// LastMods returns the remembered modifier snapshot.
func (e *Engine) LastMods() key.Modifier { return e.last.mods }

// AlternateKeycode returns the complement of the remembered key, or
// KeyNone when no alternate is defined.
func (e *Engine) AlternateKeycode() key.Keycode {
	if e.last.code == key.KeyNone || e.cfg.Alternate == nil {
		return key.KeyNone
	}
	return e.cfg.Alternate(e.last.code, e.last.mods)
}

// Handle implements pipeline.Handler.
func (e *Engine) Handle(ctx *pipeline.Context, ev key.Event, act keymap.Action) pipeline.Result {
	if e.recursing {
		return pipeline.PassThrough
	}

	switch act.Kind {
	case keymap.KindRepeat:
		e.replay(ctx, ev.Pressed)
		return pipeline.Consumed

	case keymap.KindAltRepeat:
		if e.playAlternate(ctx, ev.Pressed) {
			return pipeline.Consumed
		}
		return pipeline.PassThrough
	}

	if ev.Pressed {
		e.maybeRemember(ctx, ev, act)
	}
	return pipeline.PassThrough
}

// replay re-dispatches the remembered press or release through the whole
// pipeline with the remembered modifiers and layer state applied, then
// restores both.
func (e *Engine) replay(ctx *pipeline.Context, pressed bool) {
	if e.last.code == key.KeyNone {
		return
	}
	if pressed {
		if e.count < 0 {
			e.count = 0
		}
		if e.count < maxCount {
			e.count++
		}
	}

	kb := ctx.Keyboard
	savedMods := kb.Mods()
	kb.RegisterMods(e.last.mods)

	savedLayers := kb.LayerState()
	kb.SetLayerState(e.last.layers)

	ev := e.last.ev.WithPressed(pressed).WithTime(ctx.Now())
	e.recursing = true
	ctx.Dispatch(ev)
	e.recursing = false

	kb.SetLayerState(savedLayers)
	if kb.Mods() != savedMods {
		kb.SetMods(savedMods)
		kb.SendReport()
	}
}

// playAlternate registers or unregisters the alternate keycode directly
// on the facade. Returns false when no alternate is defined.
func (e *Engine) playAlternate(ctx *pipeline.Context, pressed bool) bool {
	alt := e.AlternateKeycode()
	if alt == key.KeyNone {
		return false
	}
	if pressed {
		if e.count > 0 {
			e.count = 0
		}
		if e.count > -maxCount {
			e.count--
		}
		ctx.Keyboard.RegisterKey(alt)
	} else {
		ctx.Keyboard.UnregisterKey(alt)
	}
	return true
}

func (e *Engine) maybeRemember(ctx *pipeline.Context, ev key.Event, act keymap.Action) {
	code := act.TapKey()
	if !e.eligible(code, ev, act) {
		return
	}

	kb := ctx.Keyboard
	mods := kb.Mods() | kb.WeakMods() | kb.OneShotMods()

	if e.cfg.Remember != nil {
		adjusted, ok := e.cfg.Remember(code, ev, mods)
		if !ok {
			return
		}
		mods = adjusted
	} else {
		mods = e.defaultRemember(code, mods)
	}

	e.last = record{ev: ev, code: code, mods: mods, layers: kb.LayerState()}
	e.count = 0
	ctx.Log.Debug("repeat: remembered %s [%s]", code, mods)
}

func (e *Engine) eligible(code key.Keycode, ev key.Event, act keymap.Action) bool {
	if e.cfg.Eligible != nil {
		return e.cfg.Eligible(code, ev, act)
	}
	switch act.Kind {
	case keymap.KindPlain:
		return !code.IsModifier()
	case keymap.KindModTap, keymap.KindLayerTap:
		return !ev.HoldPhase()
	default:
		return false
	}
}

// defaultRemember forgets Shift on most letters when Shift or AltGr are
// the only mods, so repeating a capitalized letter doesn't re-capitalize.
func (e *Engine) defaultRemember(code key.Keycode, mods key.Modifier) key.Modifier {
	if code.IsLetter() && !e.keepShift[code] && mods.OnlyShiftAltGr() {
		return mods.Without(key.MaskShift)
	}
	return mods
}
