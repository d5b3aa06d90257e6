package sentencecase

import (
	"testing"
	"time"

	"github.com/dshills/chordkit/internal/input/key"
	"github.com/dshills/chordkit/internal/input/keymap"
	"github.com/dshills/chordkit/internal/pipeline"
	"github.com/dshills/chordkit/internal/state"
)

func fixture(t *testing.T, cfg Config) (*pipeline.Pipeline, *state.Virtual, *Engine, *pipeline.ManualClock) {
	t.Helper()
	m, err := keymap.New(1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	kb := state.NewVirtual()
	clock := pipeline.NewManualClock(time.Unix(0, 0))
	p := pipeline.New(kb, m, pipeline.WithClock(clock))
	e := New(cfg)
	p.Append(e)
	return p, kb, e, clock
}

// typeKeys taps each keycode as a virtual event.
func typeKeys(p *pipeline.Pipeline, c *pipeline.ManualClock, codes ...key.Keycode) {
	for _, code := range codes {
		p.Handle(key.NewPress(code, key.Virtual, c.Now()))
		p.Handle(key.NewRelease(code, key.Virtual, c.Now()))
		c.Advance(10 * time.Millisecond)
	}
}

// shiftOf returns whether the press entry for code carried shift.
func shiftOf(t *testing.T, kb *state.Virtual, code key.Keycode) bool {
	t.Helper()
	for _, o := range kb.Log() {
		if o.Kind == state.OutputPress && o.Code == code {
			return o.Mods.HasShift()
		}
	}
	t.Fatalf("no press of %v in log", code)
	return false
}

func TestCapitalizeAfterSentence(t *testing.T) {
	p, kb, e, clock := fixture(t, Config{})

	typeKeys(p, clock, key.KeyH, key.KeyI, key.KeyDot)
	if e.State() != StateEnding {
		t.Fatalf("state = %v after period, want ENDING", e.State())
	}
	typeKeys(p, clock, key.KeySpace)
	if !e.Primed() {
		t.Fatal("space after period should prime")
	}
	typeKeys(p, clock, key.KeyW)

	if !shiftOf(t, kb, key.KeyW) {
		t.Error("first letter of the new sentence must be shifted")
	}
	if e.State() != StateMatched {
		t.Errorf("state = %v, want MATCHED", e.State())
	}
}

func TestPrimedCallback(t *testing.T) {
	var got []bool
	p, _, _, clock := fixture(t, Config{
		Primed: func(on bool) { got = append(got, on) },
	})

	typeKeys(p, clock, key.KeyH, key.KeyI, key.KeyDot)
	if len(got) != 0 {
		t.Fatalf("callback fired before priming: %v", got)
	}
	typeKeys(p, clock, key.KeySpace)
	typeKeys(p, clock, key.KeyW)

	if len(got) != 2 || !got[0] || got[1] {
		t.Errorf("callback calls = %v, want [true false]", got)
	}
}

func TestAbbreviationDoesNotPrime(t *testing.T) {
	p, kb, e, clock := fixture(t, Config{})

	typeKeys(p, clock,
		key.KeyA, key.KeySpace,
		key.KeyV, key.KeyS, key.KeyDot, key.KeySpace,
		key.KeyB)

	if shiftOf(t, kb, key.KeyB) {
		t.Error("letter after \"vs.\" must not be capitalized")
	}
	if e.State() != StateWord {
		t.Errorf("state = %v, want WORD", e.State())
	}
}

func TestQuestionAndExclaimEnd(t *testing.T) {
	for _, punct := range []key.Keycode{key.KeyQuestion, key.KeyExclaim} {
		p, kb, _, clock := fixture(t, Config{})
		typeKeys(p, clock, key.KeyO, key.KeyK, punct, key.KeySpace, key.KeyY)
		if !shiftOf(t, kb, key.KeyY) {
			t.Errorf("letter after %v must be capitalized", punct)
		}
	}
}

func TestQuoteIsTransparent(t *testing.T) {
	p, kb, _, clock := fixture(t, Config{})
	typeKeys(p, clock, key.KeyA, key.KeyDot, key.KeyQuote, key.KeySpace, key.KeyC)
	if !shiftOf(t, kb, key.KeyC) {
		t.Error("closing quote must not break sentence detection")
	}
}

func TestBackspaceRewindsOneTransition(t *testing.T) {
	p, _, e, clock := fixture(t, Config{})

	typeKeys(p, clock, key.KeyA, key.KeyDot, key.KeySpace)
	if !e.Primed() {
		t.Fatal("should be primed")
	}
	typeKeys(p, clock, key.KeyBackspace)
	if e.State() != StateEnding {
		t.Fatalf("state = %v after backspace, want ENDING", e.State())
	}
	typeKeys(p, clock, key.KeySpace)
	if !e.Primed() {
		t.Error("retyping the space should prime again")
	}
}

func TestBackspacedCapitalNotRecapitalized(t *testing.T) {
	p, kb, e, clock := fixture(t, Config{})

	typeKeys(p, clock, key.KeyA, key.KeyDot, key.KeySpace, key.KeyT)
	if e.State() != StateMatched {
		t.Fatalf("state = %v, want MATCHED", e.State())
	}
	typeKeys(p, clock, key.KeyBackspace)
	kb.ResetLog()
	typeKeys(p, clock, key.KeyT)

	if shiftOf(t, kb, key.KeyT) {
		t.Error("a backspaced capital retyped must stay lowercase")
	}
	if e.State() != StateInit {
		t.Errorf("state = %v, want INIT", e.State())
	}
}

func TestManualShiftSkipsOneShot(t *testing.T) {
	p, kb, e, clock := fixture(t, Config{})

	typeKeys(p, clock, key.KeyA, key.KeyDot, key.KeySpace)
	kb.RegisterMods(key.ModLeftShift)
	p.Handle(key.NewPress(key.KeyT, key.Virtual, clock.Now()))

	// The engine must not queue its own one-shot shift under a held
	// shift; the press would have consumed one if it had.
	if kb.OneShotMods() != key.ModNone {
		t.Error("unexpected one-shot mods")
	}
	if e.State() != StateMatched {
		t.Errorf("state = %v, want MATCHED", e.State())
	}
	if !shiftOf(t, kb, key.KeyT) {
		t.Error("held shift should still shift the letter")
	}
}

func TestNonShiftModifierClears(t *testing.T) {
	p, kb, e, clock := fixture(t, Config{})

	typeKeys(p, clock, key.KeyA, key.KeyDot)
	kb.RegisterMods(key.ModLeftCtrl)
	typeKeys(p, clock, key.KeyC)
	kb.UnregisterMods(key.ModLeftCtrl)

	if e.State() != StateInit {
		t.Errorf("state = %v after ctrl chord, want INIT", e.State())
	}
}

func TestIdleTimeoutClears(t *testing.T) {
	p, _, e, clock := fixture(t, Config{IdleTimeout: 200 * time.Millisecond})

	typeKeys(p, clock, key.KeyA, key.KeyDot, key.KeySpace)
	if !e.Primed() {
		t.Fatal("should be primed")
	}
	p.Tick(clock.Advance(300 * time.Millisecond))
	if e.State() != StateInit {
		t.Errorf("state = %v after idle timeout, want INIT", e.State())
	}
}

func TestCustomAbbreviations(t *testing.T) {
	p, kb, _, clock := fixture(t, Config{Abbreviations: []string{"no."}})

	typeKeys(p, clock,
		key.KeyA, key.KeySpace, key.KeyN, key.KeyO, key.KeyDot,
		key.KeySpace, key.KeyB)
	if shiftOf(t, kb, key.KeyB) {
		t.Error("custom abbreviation must not prime")
	}

	// The defaults are replaced, so "vs." now ends a sentence.
	p2, kb2, _, clock2 := fixture(t, Config{Abbreviations: []string{"no."}})
	typeKeys(p2, clock2,
		key.KeyA, key.KeySpace, key.KeyV, key.KeyS, key.KeyDot,
		key.KeySpace, key.KeyB)
	if !shiftOf(t, kb2, key.KeyB) {
		t.Error("vs. should prime when not configured as an abbreviation")
	}
}

func TestDefaultClassify(t *testing.T) {
	tests := []struct {
		code  key.Keycode
		mods  key.Modifier
		want  Class
	}{
		{key.KeyA, key.ModNone, ClassLetter},
		{key.KeyZ, key.ModLeftShift, ClassLetter},
		{key.KeyDot, key.ModNone, ClassPunct},
		{key.KeyExclaim, key.ModNone, ClassPunct},
		{key.KeyQuestion, key.ModNone, ClassPunct},
		{key.Key1, key.ModLeftShift, ClassPunct},
		{key.KeySlash, key.ModLeftShift, ClassPunct},
		{key.KeySpace, key.ModNone, ClassSpace},
		{key.KeyQuote, key.ModNone, ClassQuote},
		{key.KeyDoubleQuote, key.ModNone, ClassQuote},
		{key.Key5, key.ModNone, ClassSymbol},
		{key.KeyComma, key.ModNone, ClassSymbol},
		{key.KeyEnter, key.ModNone, ClassOther},
		{key.KeyLeft, key.ModNone, ClassOther},
	}
	ev := key.NewPress(key.KeyNone, key.Virtual, time.Now())
	for _, tt := range tests {
		if got := DefaultClassify(tt.code, ev, tt.mods); got != tt.want {
			t.Errorf("DefaultClassify(%v, %v) = %v, want %v",
				tt.code, tt.mods, got, tt.want)
		}
	}
}
