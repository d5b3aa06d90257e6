package script

import (
	"testing"
	"time"

	"github.com/dshills/chordkit/internal/feature/sentencecase"
	"github.com/dshills/chordkit/internal/input/key"
	"github.com/dshills/chordkit/internal/input/keymap"
)

func load(t *testing.T, src string) *Hooks {
	t.Helper()
	h, err := LoadString(src)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(h.Close)
	return h
}

func TestLoadStringSyntaxError(t *testing.T) {
	if _, err := LoadString("function broken("); err == nil {
		t.Fatal("want an error for unparseable source")
	}
}

func TestHas(t *testing.T) {
	h := load(t, `function chord(...) return true end`)
	if !h.Has("chord") {
		t.Error("chord should be defined")
	}
	if h.Has("alt_repeat") {
		t.Error("alt_repeat should not be defined")
	}
}

func TestSandbox(t *testing.T) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		h := load(t, "")
		if h.Has(name) {
			t.Errorf("%s should be removed", name)
		}
	}
	if _, err := LoadString(`dofile("/etc/passwd")`); err == nil {
		t.Error("calling dofile should raise")
	}
}

func chordArgs() (key.Event, keymap.Action, key.Event, keymap.Action) {
	pEv := key.NewPress(key.KeyNone, key.Position{Row: 1, Col: 2}, time.Unix(0, 0))
	oEv := key.NewPress(key.KeyNone, key.Position{Row: 1, Col: 7}, time.Unix(0, 0))
	return pEv, keymap.ModTap(key.ModLeftShift, key.KeyF), oEv, keymap.Plain(key.KeyJ)
}

func TestChordHook(t *testing.T) {
	h := load(t, `
function chord(pending, prow, pcol, other, orow, ocol)
  return other == "j" and prow == 1
end`)
	fn := h.Chord(func(key.Event, keymap.Action, key.Event, keymap.Action) bool {
		t.Error("fallback must not run when the hook answers")
		return false
	})
	pEv, pAct, oEv, oAct := chordArgs()
	if !fn(pEv, pAct, oEv, oAct) {
		t.Error("hook should report a chord for f+j")
	}
}

func TestChordHookNilFallsBack(t *testing.T) {
	h := load(t, `function chord(...) return nil end`)
	called := false
	fn := h.Chord(func(key.Event, keymap.Action, key.Event, keymap.Action) bool {
		called = true
		return true
	})
	pEv, pAct, oEv, oAct := chordArgs()
	if !fn(pEv, pAct, oEv, oAct) || !called {
		t.Error("nil result should defer to the fallback")
	}
}

func TestChordHookErrorFallsBack(t *testing.T) {
	h := load(t, `function chord(...) error("boom") end`)
	fn := h.Chord(func(key.Event, keymap.Action, key.Event, keymap.Action) bool {
		return true
	})
	pEv, pAct, oEv, oAct := chordArgs()
	if !fn(pEv, pAct, oEv, oAct) {
		t.Error("a raising hook should defer to the fallback")
	}
}

func TestMissingHookReturnsFallback(t *testing.T) {
	h := load(t, "")
	called := false
	fn := h.Chord(func(key.Event, keymap.Action, key.Event, keymap.Action) bool {
		called = true
		return false
	})
	pEv, pAct, oEv, oAct := chordArgs()
	fn(pEv, pAct, oEv, oAct)
	if !called {
		t.Error("missing hook should use the fallback")
	}
}

func TestTapHoldTimeoutHook(t *testing.T) {
	h := load(t, `
function tap_hold_timeout(k)
  if k == "f" then return 150 end
  return 300
end`)
	fn := h.TapHoldTimeout(func(keymap.Action, key.Event) time.Duration { return time.Second })
	ev := key.NewPress(key.KeyNone, key.Position{}, time.Unix(0, 0))
	if got := fn(keymap.ModTap(key.ModLeftShift, key.KeyF), ev); got != 150*time.Millisecond {
		t.Errorf("timeout for f = %v, want 150ms", got)
	}
	if got := fn(keymap.ModTap(key.ModLeftCtrl, key.KeyJ), ev); got != 300*time.Millisecond {
		t.Errorf("timeout for j = %v, want 300ms", got)
	}
}

func TestTapHoldTimeoutNonNumberFallsBack(t *testing.T) {
	h := load(t, `function tap_hold_timeout(k) return "soon" end`)
	fn := h.TapHoldTimeout(func(keymap.Action, key.Event) time.Duration { return time.Second })
	ev := key.NewPress(key.KeyNone, key.Position{}, time.Unix(0, 0))
	if got := fn(keymap.Plain(key.KeyA), ev); got != time.Second {
		t.Errorf("timeout = %v, want the fallback", got)
	}
}

func TestStreakWindowHook(t *testing.T) {
	h := load(t, `function streak_window(k) return 120 end`)
	fn := h.StreakWindow(func(keymap.Action, keymap.Action) time.Duration { return 0 })
	if got := fn(keymap.ModTap(key.ModLeftShift, key.KeyF), keymap.Plain(key.KeyA)); got != 120*time.Millisecond {
		t.Errorf("window = %v, want 120ms", got)
	}
}

func TestAltRepeatHook(t *testing.T) {
	h := load(t, `
function alt_repeat(k, mods)
  if k == "up" then return "down" end
  return nil
end`)
	fn := h.AltRepeat(nil)
	if got := fn(key.KeyUp, key.ModNone); got != key.KeyDown {
		t.Errorf("alternate for up = %s, want down", got)
	}
	// nil result with no fallback means no alternate.
	if got := fn(key.KeyA, key.ModNone); got != key.KeyNone {
		t.Errorf("alternate for a = %s, want none", got)
	}
}

func TestAltRepeatUnknownNameFallsBack(t *testing.T) {
	h := load(t, `function alt_repeat(k, mods) return "hyperspace" end`)
	fn := h.AltRepeat(func(key.Keycode, key.Modifier) key.Keycode { return key.KeyB })
	if got := fn(key.KeyA, key.ModNone); got != key.KeyB {
		t.Errorf("alternate = %s, want the fallback's b", got)
	}
}

func TestRememberHook(t *testing.T) {
	h := load(t, `
function remember(k, mods)
  if k == "z" then return false end
  if k == "n" then return mods end
  return nil
end`)
	fn := h.Remember(nil)
	ev := key.NewPress(key.KeyNone, key.Position{}, time.Unix(0, 0))

	if _, ok := fn(key.KeyZ, ev, key.ModLeftShift); ok {
		t.Error("false should veto remembering z")
	}
	if mods, ok := fn(key.KeyN, ev, key.ModLeftShift); !ok || mods != key.ModLeftShift {
		t.Errorf("remember n = (%s, %v), want the returned bits", mods, ok)
	}
	// nil result with no fallback keeps the mods as-is.
	if mods, ok := fn(key.KeyA, ev, key.ModLeftCtrl); !ok || mods != key.ModLeftCtrl {
		t.Errorf("remember a = (%s, %v), want pass-through", mods, ok)
	}
}

func TestCapsWordContinueHook(t *testing.T) {
	h := load(t, `
function caps_word_continue(k)
  if k == "dot" then return "keep" end
  if k == "space" then return "stop" end
  if k == "a" then return "shift" end
  return "whatever"
end`)
	fn := h.CapsWordContinue(nil)

	tests := []struct {
		code        key.Keycode
		shift, cont bool
	}{
		{key.KeyA, true, true},
		{key.KeyDot, false, true},
		{key.KeySpace, false, false},
		// Unrecognized result falls back to the default rule.
		{key.KeyB, true, true},
		{key.KeyEnter, false, false},
	}
	for _, tt := range tests {
		shift, cont := fn(tt.code, key.ModNone)
		if shift != tt.shift || cont != tt.cont {
			t.Errorf("%s: got (%v, %v), want (%v, %v)", tt.code, shift, cont, tt.shift, tt.cont)
		}
	}
}

func TestSentenceClassHook(t *testing.T) {
	h := load(t, `
function sentence_class(k, shifted)
  if k == "semicolon" and not shifted then return "punct" end
  return nil
end`)
	fn := h.SentenceClass(nil)
	ev := key.NewPress(key.KeyNone, key.Position{}, time.Unix(0, 0))

	if got := fn(key.KeySemicolon, ev, key.ModNone); got != sentencecase.ClassPunct {
		t.Errorf("semicolon = %v, want punct", got)
	}
	// nil defers to the default classifier.
	if got := fn(key.KeyA, ev, key.ModNone); got != sentencecase.ClassLetter {
		t.Errorf("a = %v, want letter", got)
	}
	if got := fn(key.KeySpace, ev, key.ModNone); got != sentencecase.ClassSpace {
		t.Errorf("space = %v, want space", got)
	}
}

func TestClosedHooksFallBack(t *testing.T) {
	h := load(t, `function alt_repeat(k, mods) return "down" end`)
	fn := h.AltRepeat(func(key.Keycode, key.Modifier) key.Keycode { return key.KeyB })
	h.Close()
	if got := fn(key.KeyA, key.ModNone); got != key.KeyB {
		t.Errorf("alternate after Close = %s, want the fallback", got)
	}
	// Close is idempotent.
	h.Close()
}
