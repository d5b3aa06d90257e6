package customshift

import (
	"testing"
	"time"

	"github.com/dshills/chordkit/internal/input/key"
	"github.com/dshills/chordkit/internal/input/keymap"
	"github.com/dshills/chordkit/internal/pipeline"
	"github.com/dshills/chordkit/internal/state"
)

var (
	posComma = key.Position{Row: 0, Col: 0}
	posDot   = key.Position{Row: 0, Col: 1}
	posShift = key.Position{Row: 0, Col: 2}
	posMT    = key.Position{Row: 0, Col: 3}
	posA     = key.Position{Row: 0, Col: 4}
)

func fixture(t *testing.T, cfg Config) (*pipeline.Pipeline, *state.Virtual, *pipeline.ManualClock) {
	t.Helper()
	m, err := keymap.New(1, 5, 1)
	if err != nil {
		t.Fatal(err)
	}
	m.Set(0, posComma, keymap.Plain(key.KeyComma))
	m.Set(0, posDot, keymap.Plain(key.KeyDot))
	m.Set(0, posShift, keymap.Plain(key.KeyLeftShift))
	m.Set(0, posMT, keymap.ModTap(key.ModLeftCtrl, key.KeyDot))
	m.Set(0, posA, keymap.Plain(key.KeyA))

	kb := state.NewVirtual()
	clock := pipeline.NewManualClock(time.Unix(0, 0))
	p := pipeline.New(kb, m, pipeline.WithClock(clock))
	p.Append(New(cfg))
	return p, kb, clock
}

func press(p *pipeline.Pipeline, c *pipeline.ManualClock, pos key.Position) {
	p.Handle(key.NewPress(key.KeyNone, pos, c.Now()))
}

func release(p *pipeline.Pipeline, c *pipeline.ManualClock, pos key.Position) {
	p.Handle(key.NewRelease(key.KeyNone, pos, c.Now()))
}

func TestShiftCommaTypesExclaim(t *testing.T) {
	p, kb, clock := fixture(t, Config{})

	press(p, clock, posShift)
	kb.ResetLog()
	press(p, clock, posComma)

	log := kb.Log()
	if len(log) != 2 {
		t.Fatalf("log = %v, want a report and a press", log)
	}
	// The report flushes with shift stripped so the host sees a bare
	// exclamation mark.
	if log[0].Kind != state.OutputReport || log[0].Mods != key.ModNone {
		t.Errorf("log[0] = %v, want a report without shift", log[0])
	}
	if log[1].Kind != state.OutputPress || log[1].Code != key.Key1 || !log[1].Mods.HasShift() {
		t.Errorf("log[1] = %v, want a shifted 1 (exclaim)", log[1])
	}
	if kb.Mods() != key.ModLeftShift {
		t.Errorf("mods = %s, want the held shift restored", kb.Mods())
	}
}

func TestReleaseSwallowed(t *testing.T) {
	p, kb, clock := fixture(t, Config{})

	press(p, clock, posShift)
	press(p, clock, posComma)
	kb.ResetLog()
	release(p, clock, posComma)

	log := kb.Log()
	if len(log) != 1 || log[0].Kind != state.OutputRelease || log[0].Code != key.Key1 {
		t.Fatalf("log = %v, want only the replacement release", log)
	}
}

func TestReplacementReleasedOnNextEvent(t *testing.T) {
	p, kb, clock := fixture(t, Config{})

	press(p, clock, posShift)
	press(p, clock, posComma)
	release(p, clock, posShift)
	kb.ResetLog()

	// The comma is still physically held; another key press must first
	// release the replacement so the host never sees it stuck.
	press(p, clock, posA)
	log := kb.Log()
	if len(log) != 2 {
		t.Fatalf("log = %v, want replacement release then the new press", log)
	}
	if log[0].Kind != state.OutputRelease || log[0].Code != key.Key1 {
		t.Errorf("log[0] = %v, want the replacement release", log[0])
	}
	if log[1].Kind != state.OutputPress || log[1].Code != key.KeyA {
		t.Errorf("log[1] = %v, want press a", log[1])
	}
}

func TestUnshiftedPassesThrough(t *testing.T) {
	p, kb, clock := fixture(t, Config{})

	press(p, clock, posComma)
	if presses := kb.Presses(); len(presses) != 1 || presses[0] != key.KeyComma {
		t.Errorf("presses = %v, want [comma]", presses)
	}
}

func TestOneShotShiftTriggersAndClears(t *testing.T) {
	p, kb, clock := fixture(t, Config{})

	kb.SetOneShotMods(key.ModLeftShift)
	press(p, clock, posDot)

	if presses := kb.Presses(); len(presses) != 1 || presses[0] != key.KeySlash {
		t.Errorf("presses = %v, want [slash] (question)", presses)
	}
	if kb.OneShotMods() != key.ModNone {
		t.Errorf("one-shot mods = %s, want consumed", kb.OneShotMods())
	}
}

func TestDualRoleHoldPhaseIgnored(t *testing.T) {
	p, kb, clock := fixture(t, Config{})

	press(p, clock, posShift)
	kb.ResetLog()
	press(p, clock, posMT)

	// The hold phase of a dual-role key is not a dot yet.
	if presses := kb.Presses(); len(presses) != 0 {
		t.Errorf("presses = %v, want nothing typed while the hold settles", presses)
	}
	if !kb.Mods().Has(key.ModLeftCtrl) {
		t.Error("hold mods should apply")
	}
}

func TestCustomPairs(t *testing.T) {
	p, kb, clock := fixture(t, Config{Pairs: []Pair{{key.KeyA, key.KeyB}}})

	press(p, clock, posShift)
	press(p, clock, posA)
	if presses := kb.Presses(); len(presses) != 2 || presses[1] != key.KeyB {
		t.Errorf("presses = %v, want shift then b", presses)
	}

	// The default table is replaced, so shift+comma is left alone.
	press(p, clock, posComma)
	presses := kb.Presses()
	if got := presses[len(presses)-1]; got != key.KeyComma {
		t.Errorf("last press = %s, want shifted comma untouched", got)
	}
}
