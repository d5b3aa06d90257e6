// Package customshift remaps what shift produces for chosen keys, so
// that for example shift+comma types an exclamation mark or
// shift+backspace deletes forward.
package customshift

import (
	"github.com/dshills/chordkit/internal/input/key"
	"github.com/dshills/chordkit/internal/input/keymap"
	"github.com/dshills/chordkit/internal/pipeline"
)

// Pair maps a key to the keycode typed when shift is held.
type Pair struct {
	Key     key.Keycode
	Shifted key.Keycode
}

// DefaultPairs mirror a common punctuation-friendly layout.
var DefaultPairs = []Pair{
	{key.KeyDot, key.KeyQuestion},
	{key.KeyComma, key.KeyExclaim},
	{key.KeyBackspace, key.KeyDelete},
}

// Config configures the engine.
type Config struct {
	// Pairs is the remap table. Default: DefaultPairs.
	Pairs []Pair
}

// Engine is the custom-shift handler.
type Engine struct {
	pairs map[key.Keycode]key.Keycode

	// registered is the replacement key currently held, released again
	// on the next event of any kind.
	registered key.Keycode
	activeCode key.Keycode
	activePos  key.Position
	active     bool
}

// New creates a custom-shift engine.
func New(cfg Config) *Engine {
	pairs := cfg.Pairs
	if pairs == nil {
		pairs = DefaultPairs
	}
	m := make(map[key.Keycode]key.Keycode, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Shifted
	}
	return &Engine{pairs: m}
}

// Name implements pipeline.Handler.
func (e *Engine) Name() string { return "customshift" }

// Handle implements pipeline.Handler.
func (e *Engine) Handle(ctx *pipeline.Context, ev key.Event, act keymap.Action) pipeline.Result {
	kb := ctx.Keyboard

	if e.registered != key.KeyNone {
		kb.UnregisterKey(e.registered)
		e.registered = key.KeyNone
	}

	if !ev.Pressed {
		// The press was replaced, so swallow the matching release.
		if e.active && ev.Code == e.activeCode && ev.Pos == e.activePos {
			e.active = false
			return pipeline.Consumed
		}
		return pipeline.PassThrough
	}

	switch act.Kind {
	case keymap.KindPlain:
	case keymap.KindModTap, keymap.KindLayerTap:
		if ev.HoldPhase() {
			return pipeline.PassThrough
		}
	default:
		return pipeline.PassThrough
	}

	shifted, ok := e.pairs[act.TapKey()]
	if !ok {
		return pipeline.PassThrough
	}
	mods := kb.Mods()
	if !(mods | kb.WeakMods() | kb.OneShotMods()).HasShift() {
		return pipeline.PassThrough
	}

	// Type the replacement with shift stripped, then restore the real
	// modifier state so held shifts keep working.
	kb.SetOneShotMods(kb.OneShotMods() &^ key.MaskShift)
	kb.ClearWeakMods()
	kb.SetMods(mods &^ key.MaskShift)
	kb.SendReport()
	e.registered = shifted
	kb.RegisterKey(shifted)
	kb.SetMods(mods)
	e.activeCode, e.activePos, e.active = ev.Code, ev.Pos, true
	return pipeline.Consumed
}
