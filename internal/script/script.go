package script

import (
	"fmt"
	"os"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/chordkit/internal/feature/capsword"
	"github.com/dshills/chordkit/internal/feature/repeatkey"
	"github.com/dshills/chordkit/internal/feature/sentencecase"
	"github.com/dshills/chordkit/internal/feature/taphold"
	"github.com/dshills/chordkit/internal/input/key"
	"github.com/dshills/chordkit/internal/input/keymap"
	"github.com/dshills/chordkit/internal/pipeline"
)

// Hook function names looked up in the script's globals.
const (
	hookChord            = "chord"
	hookTapHoldTimeout   = "tap_hold_timeout"
	hookStreakWindow     = "streak_window"
	hookAltRepeat        = "alt_repeat"
	hookRemember         = "remember"
	hookCapsWordContinue = "caps_word_continue"
	hookSentenceClass    = "sentence_class"
)

// Hooks owns a Lua state with a loaded hook script.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes hook
// calls so Hooks can be shared with a config reload goroutine.
type Hooks struct {
	mu     sync.Mutex
	state  *lua.LState
	log    *pipeline.Logger
	closed bool
}

// Option configures Hooks.
type Option func(*Hooks)

// WithLogger sets the logger used for hook errors.
func WithLogger(log *pipeline.Logger) Option {
	return func(h *Hooks) { h.log = log }
}

// Load reads and runs a hook script file.
func Load(path string, opts ...Option) (*Hooks, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	h, err := LoadString(string(src), opts...)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return h, nil
}

// LoadString runs a hook script given as source text.
func LoadString(src string, opts ...Option) (*Hooks, error) {
	h := &Hooks{log: pipeline.NopLogger()}
	for _, opt := range opts {
		opt(h)
	}

	state := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(state)
	lua.OpenTable(state)
	lua.OpenString(state)
	lua.OpenMath(state)
	// Scripts compute over their arguments only.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		state.SetGlobal(name, lua.LNil)
	}

	if err := state.DoString(src); err != nil {
		state.Close()
		return nil, err
	}
	h.state = state
	return h, nil
}

// Close releases the Lua state.
func (h *Hooks) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.closed {
		h.closed = true
		h.state.Close()
	}
}

// Has reports whether the script defines the named hook.
func (h *Hooks) Has(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	_, ok := h.state.GetGlobal(name).(*lua.LFunction)
	return ok
}

// call invokes a named hook with nret results. ok is false when the hook
// is missing or raised, in which case the caller falls back.
func (h *Hooks) call(name string, nret int, args ...lua.LValue) ([]lua.LValue, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	fn, ok := h.state.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return nil, false
	}
	if err := h.state.CallByParam(lua.P{Fn: fn, NRet: nret, Protect: true}, args...); err != nil {
		h.log.Warn("script: %s failed: %v", name, err)
		return nil, false
	}
	out := make([]lua.LValue, nret)
	for i := nret - 1; i >= 0; i-- {
		out[i] = h.state.Get(-1)
		h.state.Pop(1)
	}
	return out, true
}

// Chord wraps the chord hook around a fallback hold decision.
func (h *Hooks) Chord(fallback taphold.ChordFunc) taphold.ChordFunc {
	if !h.Has(hookChord) {
		return fallback
	}
	return func(pendingEv key.Event, pendingAct keymap.Action, otherEv key.Event, otherAct keymap.Action) bool {
		out, ok := h.call(hookChord, 1,
			lua.LString(pendingAct.TapKey().Name()),
			lua.LNumber(pendingEv.Pos.Row), lua.LNumber(pendingEv.Pos.Col),
			lua.LString(otherAct.TapKey().Name()),
			lua.LNumber(otherEv.Pos.Row), lua.LNumber(otherEv.Pos.Col))
		if !ok || out[0] == lua.LNil {
			return fallback(pendingEv, pendingAct, otherEv, otherAct)
		}
		return lua.LVAsBool(out[0])
	}
}

// TapHoldTimeout wraps the per-key timeout hook. The hook returns
// milliseconds; nil falls back.
func (h *Hooks) TapHoldTimeout(fallback taphold.TimeoutFunc) taphold.TimeoutFunc {
	if !h.Has(hookTapHoldTimeout) {
		return fallback
	}
	return func(act keymap.Action, ev key.Event) time.Duration {
		if ms, ok := h.callMillis(hookTapHoldTimeout, act.TapKey()); ok {
			return ms
		}
		return fallback(act, ev)
	}
}

// StreakWindow wraps the per-key streak window hook.
func (h *Hooks) StreakWindow(fallback taphold.StreakFunc) taphold.StreakFunc {
	if !h.Has(hookStreakWindow) {
		return fallback
	}
	return func(pendingAct, otherAct keymap.Action) time.Duration {
		if ms, ok := h.callMillis(hookStreakWindow, otherAct.TapKey()); ok {
			return ms
		}
		return fallback(pendingAct, otherAct)
	}
}

func (h *Hooks) callMillis(name string, code key.Keycode) (time.Duration, bool) {
	out, ok := h.call(name, 1, lua.LString(code.Name()))
	if !ok {
		return 0, false
	}
	n, ok := out[0].(lua.LNumber)
	if !ok {
		return 0, false
	}
	return time.Duration(n) * time.Millisecond, true
}

// AltRepeat wraps the alternate-repeat hook. The hook returns a key
// name; nil or an unknown name falls back.
func (h *Hooks) AltRepeat(fallback repeatkey.AlternateFunc) repeatkey.AlternateFunc {
	if !h.Has(hookAltRepeat) {
		return fallback
	}
	return func(code key.Keycode, mods key.Modifier) key.Keycode {
		out, ok := h.call(hookAltRepeat, 1,
			lua.LString(code.Name()), lua.LNumber(mods))
		if ok {
			if s, isStr := out[0].(lua.LString); isStr {
				if alt, found := key.FromName(string(s)); found {
					return alt
				}
				h.log.Warn("script: alt_repeat returned unknown key %q", string(s))
			}
		}
		if fallback == nil {
			return key.KeyNone
		}
		return fallback(code, mods)
	}
}

// Remember wraps the repeat remember hook. The hook returns the modifier
// bits to store, or false to veto remembering; nil falls back.
func (h *Hooks) Remember(fallback repeatkey.RememberFunc) repeatkey.RememberFunc {
	if !h.Has(hookRemember) {
		return fallback
	}
	return func(code key.Keycode, ev key.Event, mods key.Modifier) (key.Modifier, bool) {
		out, ok := h.call(hookRemember, 1,
			lua.LString(code.Name()), lua.LNumber(mods))
		if ok {
			switch v := out[0].(type) {
			case lua.LNumber:
				return key.Modifier(v), true
			case lua.LBool:
				if !bool(v) {
					return 0, false
				}
			}
		}
		if fallback == nil {
			return mods, true
		}
		return fallback(code, ev, mods)
	}
}

// CapsWordContinue wraps the caps-word continuation hook. The hook
// returns "shift", "keep", or "stop"; anything else falls back.
func (h *Hooks) CapsWordContinue(fallback capsword.ContinuesFunc) capsword.ContinuesFunc {
	if !h.Has(hookCapsWordContinue) {
		return fallback
	}
	if fallback == nil {
		fallback = capsword.DefaultContinues
	}
	return func(code key.Keycode, mods key.Modifier) (bool, bool) {
		out, ok := h.call(hookCapsWordContinue, 1, lua.LString(code.Name()))
		if ok {
			switch lua.LVAsString(out[0]) {
			case "shift":
				return true, true
			case "keep":
				return false, true
			case "stop":
				return false, false
			}
		}
		return fallback(code, mods)
	}
}

// SentenceClass wraps the sentence classifier hook. The hook returns a
// class name; anything else falls back.
func (h *Hooks) SentenceClass(fallback sentencecase.ClassifyFunc) sentencecase.ClassifyFunc {
	if !h.Has(hookSentenceClass) {
		return fallback
	}
	if fallback == nil {
		fallback = sentencecase.DefaultClassify
	}
	return func(code key.Keycode, ev key.Event, mods key.Modifier) sentencecase.Class {
		out, ok := h.call(hookSentenceClass, 1,
			lua.LString(code.Name()), lua.LBool(mods.HasShift()))
		if ok {
			switch lua.LVAsString(out[0]) {
			case "letter":
				return sentencecase.ClassLetter
			case "punct":
				return sentencecase.ClassPunct
			case "space":
				return sentencecase.ClassSpace
			case "quote":
				return sentencecase.ClassQuote
			case "symbol":
				return sentencecase.ClassSymbol
			case "other":
				return sentencecase.ClassOther
			}
		}
		return fallback(code, ev, mods)
	}
}
