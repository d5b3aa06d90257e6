package layerlock

import (
	"testing"
	"time"

	"github.com/dshills/chordkit/internal/input/key"
	"github.com/dshills/chordkit/internal/input/keymap"
	"github.com/dshills/chordkit/internal/pipeline"
	"github.com/dshills/chordkit/internal/state"
)

var (
	posLock = key.Position{Row: 0, Col: 0}
	posMO   = key.Position{Row: 0, Col: 1}
	posLT   = key.Position{Row: 0, Col: 2}
	posKey  = key.Position{Row: 0, Col: 3}
)

func fixture(t *testing.T, cfg Config) (*pipeline.Pipeline, *state.Virtual, *Engine, *pipeline.ManualClock) {
	t.Helper()
	m, err := keymap.New(1, 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	m.Set(0, posLock, keymap.Action{Kind: keymap.KindLayerLock})
	m.Set(0, posMO, keymap.Momentary(1))
	m.Set(0, posLT, keymap.LayerTap(1, key.KeySpace))
	m.Set(0, posKey, keymap.Plain(key.KeyA))
	for col := uint8(0); col < 4; col++ {
		m.Set(1, key.Position{Row: 0, Col: col}, keymap.Action{Kind: keymap.KindTransparent})
	}
	m.Set(1, posKey, keymap.Plain(key.KeyX))

	kb := state.NewVirtual()
	clock := pipeline.NewManualClock(time.Unix(0, 0))
	p := pipeline.New(kb, m, pipeline.WithClock(clock))
	e := New(cfg)
	p.Append(e)
	return p, kb, e, clock
}

func press(p *pipeline.Pipeline, c *pipeline.ManualClock, pos key.Position) {
	p.Handle(key.NewPress(key.KeyNone, pos, c.Now()))
}

func release(p *pipeline.Pipeline, c *pipeline.ManualClock, pos key.Position) {
	p.Handle(key.NewRelease(key.KeyNone, pos, c.Now()))
}

func tap(p *pipeline.Pipeline, c *pipeline.ManualClock, pos key.Position) {
	press(p, c, pos)
	release(p, c, pos)
}

func TestLockKeepsMomentaryLayerOn(t *testing.T) {
	p, kb, e, clock := fixture(t, Config{})

	press(p, clock, posMO)
	if !kb.LayerState().Has(1) {
		t.Fatal("momentary should turn layer 1 on")
	}
	tap(p, clock, posLock)
	if !e.IsLocked(1) {
		t.Fatal("lock key should latch the highest layer")
	}
	release(p, clock, posMO)
	if !kb.LayerState().Has(1) {
		t.Error("locked layer must survive the momentary release")
	}

	// Keys now resolve on the locked layer.
	tap(p, clock, posKey)
	if presses := kb.Presses(); len(presses) != 1 || presses[0] != key.KeyX {
		t.Errorf("presses = %v, want [x]", presses)
	}
}

func TestMomentaryPressUnlocks(t *testing.T) {
	p, kb, e, clock := fixture(t, Config{})

	press(p, clock, posMO)
	tap(p, clock, posLock)
	release(p, clock, posMO)

	tap(p, clock, posMO)
	if e.IsLocked(1) {
		t.Error("pressing the layer key again should unlock")
	}
	if kb.LayerState().Has(1) {
		t.Error("unlocking should turn the layer off")
	}
}

func TestLockWithNoActiveLayerLatchesBase(t *testing.T) {
	p, _, e, clock := fixture(t, Config{})
	tap(p, clock, posLock)
	if !e.IsLocked(0) {
		t.Error("with only the base layer active, the lock targets layer 0")
	}
	tap(p, clock, posLock)
	if e.IsLocked(0) {
		t.Error("second press should unlock")
	}
}

func TestLayerTapHoldReleaseConsumedWhenLocked(t *testing.T) {
	p, kb, e, clock := fixture(t, Config{})

	press(p, clock, posLT)
	if !kb.LayerState().Has(1) {
		t.Fatal("held layer-tap should turn layer 1 on")
	}
	tap(p, clock, posLock)
	release(p, clock, posLT)

	if !kb.LayerState().Has(1) {
		t.Error("locked layer must survive the layer-tap release")
	}
	if !e.IsLocked(1) {
		t.Error("lock must still be held")
	}
}

func TestExternalOffDropsLock(t *testing.T) {
	p, kb, e, clock := fixture(t, Config{})

	press(p, clock, posMO)
	tap(p, clock, posLock)
	release(p, clock, posMO)

	// Something else turns the layer off behind the engine's back.
	kb.LayerOff(1)
	tap(p, clock, posKey)

	if e.IsLocked(1) {
		t.Error("lock must be dropped when the layer went off externally")
	}
	if presses := kb.Presses(); len(presses) != 1 || presses[0] != key.KeyA {
		t.Errorf("presses = %v, want [a] from the base layer", presses)
	}
}

func TestIdleTimeoutUnlocksAll(t *testing.T) {
	p, kb, e, clock := fixture(t, Config{IdleTimeout: 100 * time.Millisecond})

	press(p, clock, posMO)
	tap(p, clock, posLock)
	release(p, clock, posMO)

	p.Tick(clock.Advance(50 * time.Millisecond))
	if !e.IsLocked(1) {
		t.Fatal("lock should survive inside the window")
	}
	p.Tick(clock.Advance(200 * time.Millisecond))
	if e.IsLocked(1) {
		t.Error("idle timeout should unlock")
	}
	if kb.LayerState().Has(1) {
		t.Error("idle timeout should turn the layer off")
	}
}

func TestChangedCallback(t *testing.T) {
	var got []key.LayerMask
	p, _, _, clock := fixture(t, Config{
		Changed: func(m key.LayerMask) { got = append(got, m) },
	})

	press(p, clock, posMO)
	tap(p, clock, posLock)
	release(p, clock, posMO)
	tap(p, clock, posMO)

	if len(got) != 2 || got[0] != 1<<1 || got[1] != 0 {
		t.Errorf("callback masks = %v, want [2 0]", got)
	}
}
