package taphold

import (
	"testing"
	"time"

	"github.com/dshills/chordkit/internal/input/key"
	"github.com/dshills/chordkit/internal/input/keymap"
	"github.com/dshills/chordkit/internal/pipeline"
	"github.com/dshills/chordkit/internal/state"
)

var (
	posMT    = key.Position{Row: 0, Col: 0} // mt(lshift,f), left hand
	posSame  = key.Position{Row: 0, Col: 1} // a, left hand
	posOther = key.Position{Row: 1, Col: 0} // b, right hand
	posFast  = key.Position{Row: 1, Col: 1} // o, right hand
	posMT2   = key.Position{Row: 1, Col: 2} // mt(lctrl,j), right hand
)

func fixture(t *testing.T, cfg Config) (*pipeline.Pipeline, *state.Virtual, *pipeline.ManualClock) {
	t.Helper()
	m, err := keymap.New(2, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	m.Set(0, posMT, keymap.ModTap(key.ModLeftShift, key.KeyF))
	m.Set(0, posSame, keymap.Plain(key.KeyA))
	m.Set(0, posOther, keymap.Plain(key.KeyB))
	m.Set(0, posFast, keymap.Plain(key.KeyO))
	m.Set(0, posMT2, keymap.ModTap(key.ModLeftCtrl, key.KeyJ))

	if cfg.MatrixRows == 0 {
		cfg.MatrixRows = 2
	}
	if cfg.Timeout == nil {
		cfg.Timeout = func(keymap.Action, key.Event) time.Duration {
			return 200 * time.Millisecond
		}
	}

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

func TestQuickTap(t *testing.T) {
	p, kb, clock := fixture(t, Config{})

	press(p, clock, posMT)
	if len(kb.Log()) != 0 {
		t.Fatal("pending key must produce no output yet")
	}
	clock.Advance(50 * time.Millisecond)
	release(p, clock, posMT)

	log := kb.Log()
	if len(log) != 2 {
		t.Fatalf("log = %v", log)
	}
	if log[0].Kind != state.OutputPress || log[0].Code != key.KeyF {
		t.Errorf("first entry = %v, want press f", log[0])
	}
	if log[1].Kind != state.OutputRelease || log[1].Code != key.KeyF {
		t.Errorf("second entry = %v, want release f", log[1])
	}
	if log[0].Mods != key.ModNone {
		t.Errorf("tap carried mods %v", log[0].Mods)
	}
}

func TestTimeoutSettlesHold(t *testing.T) {
	p, kb, clock := fixture(t, Config{})

	press(p, clock, posMT)
	p.Tick(clock.Advance(250 * time.Millisecond))

	if kb.Mods() != key.ModLeftShift {
		t.Fatalf("mods = %v after timeout", kb.Mods())
	}

	press(p, clock, posSame)
	release(p, clock, posSame)
	release(p, clock, posMT)

	if kb.Mods() != key.ModNone {
		t.Fatalf("mods = %v after release", kb.Mods())
	}
	presses := kb.Presses()
	if len(presses) != 1 || presses[0] != key.KeyA {
		t.Fatalf("presses = %v", presses)
	}
	for _, o := range kb.Log() {
		if o.Kind == state.OutputPress && o.Code == key.KeyA && !o.Mods.HasShift() {
			t.Error("a typed during hold must be shifted")
		}
		if o.Code == key.KeyF {
			t.Error("held key must never type its tap key")
		}
	}
}

func TestOppositeHandSettlesHold(t *testing.T) {
	p, kb, clock := fixture(t, Config{})

	press(p, clock, posMT)
	clock.Advance(50 * time.Millisecond)
	press(p, clock, posOther)

	log := kb.Log()
	var sawB bool
	for _, o := range log {
		if o.Kind == state.OutputPress && o.Code == key.KeyB {
			sawB = true
			if !o.Mods.HasShift() {
				t.Error("chorded b must be shifted")
			}
		}
		if o.Code == key.KeyF {
			t.Error("chord must not type the tap key")
		}
	}
	if !sawB {
		t.Fatalf("b never pressed; log = %v", log)
	}

	release(p, clock, posOther)
	release(p, clock, posMT)
	if kb.Mods() != key.ModNone {
		t.Errorf("mods = %v after unwinding", kb.Mods())
	}
}

func TestSameHandSettlesTap(t *testing.T) {
	p, kb, clock := fixture(t, Config{})

	press(p, clock, posMT)
	clock.Advance(50 * time.Millisecond)
	press(p, clock, posSame)

	presses := kb.Presses()
	if len(presses) != 2 || presses[0] != key.KeyF || presses[1] != key.KeyA {
		t.Fatalf("presses = %v, want [f a]", presses)
	}
	for _, o := range kb.Log() {
		if o.Mods.HasShift() {
			t.Error("same-hand roll must not apply the hold modifier")
		}
	}
}

func TestStreakForcesTap(t *testing.T) {
	cfg := Config{
		Streak: func(keymap.Action, keymap.Action) time.Duration {
			return 300 * time.Millisecond
		},
	}
	p, kb, clock := fixture(t, cfg)

	// Fast typing: a key right before the dual-role press puts the
	// pending key inside the streak window, so even an opposite-hand
	// chord settles as a tap.
	press(p, clock, posFast)
	release(p, clock, posFast)
	clock.Advance(100 * time.Millisecond)
	press(p, clock, posMT)
	clock.Advance(50 * time.Millisecond)
	press(p, clock, posOther)

	for _, o := range kb.Log() {
		if o.Mods.HasShift() {
			t.Fatalf("streak must suppress the hold; log = %v", kb.Log())
		}
	}
	presses := kb.Presses()
	if len(presses) != 3 || presses[1] != key.KeyF || presses[2] != key.KeyB {
		t.Fatalf("presses = %v, want [o f b]", presses)
	}
}

func TestStreakExpires(t *testing.T) {
	cfg := Config{
		Streak: func(keymap.Action, keymap.Action) time.Duration {
			return 100 * time.Millisecond
		},
	}
	p, kb, clock := fixture(t, cfg)

	press(p, clock, posFast)
	release(p, clock, posFast)
	clock.Advance(150 * time.Millisecond)
	press(p, clock, posMT)
	clock.Advance(20 * time.Millisecond)
	press(p, clock, posOther)

	if kb.Mods() != key.ModLeftShift {
		t.Fatal("outside the streak window the chord should hold")
	}
}

func TestSecondDualRoleHoldSettlesHold(t *testing.T) {
	p, kb, clock := fixture(t, Config{})

	press(p, clock, posMT)
	clock.Advance(30 * time.Millisecond)
	press(p, clock, posMT2)

	// A second dual-role key in its hold phase settles the first as
	// held, and its own hold action applies right away.
	if kb.Mods() != key.ModLeftShift|key.ModLeftCtrl {
		t.Fatalf("mods = %v, want shift+ctrl held", kb.Mods())
	}

	clock.Advance(30 * time.Millisecond)
	release(p, clock, posMT2)
	if kb.Mods() != key.ModLeftShift {
		t.Fatalf("mods = %v after second release", kb.Mods())
	}
	release(p, clock, posMT)
	if kb.Mods() != key.ModNone {
		t.Errorf("mods = %v at end", kb.Mods())
	}
	for _, o := range kb.Log() {
		if o.Code == key.KeyF || o.Code == key.KeyJ {
			t.Errorf("no tap key should be typed; log = %v", kb.Log())
		}
	}
}

func TestVirtualEventSettlesHold(t *testing.T) {
	p, kb, clock := fixture(t, Config{})

	press(p, clock, posMT)
	clock.Advance(20 * time.Millisecond)
	p.Handle(key.NewPress(key.KeyC, key.Virtual, clock.Now()))

	if kb.Mods() != key.ModLeftShift {
		t.Fatal("synthesized events must settle the pending key as held")
	}
}

func TestZeroTimeoutBypassesEngine(t *testing.T) {
	p, kb, clock := fixture(t, Config{
		Timeout: func(keymap.Action, key.Event) time.Duration { return 0 },
	})

	press(p, clock, posMT)
	// With the engine declining the key, the hold phase reaches the
	// executor directly.
	if kb.Mods() != key.ModLeftShift {
		t.Fatalf("mods = %v, want immediate hold", kb.Mods())
	}
	release(p, clock, posMT)
	if kb.Mods() != key.ModNone {
		t.Errorf("mods = %v after release", kb.Mods())
	}
}

func TestOppositeHands(t *testing.T) {
	tests := []struct {
		a, b key.Position
		rows int
		want bool
	}{
		{key.Position{Row: 0}, key.Position{Row: 1}, 2, true},
		{key.Position{Row: 0}, key.Position{Row: 0}, 2, false},
		{key.Position{Row: 3, Col: 1}, key.Position{Row: 4, Col: 1}, 8, true},
		{key.Position{Row: 4}, key.Position{Row: 7}, 8, false},
	}
	for _, tt := range tests {
		if got := OppositeHands(tt.a, tt.b, tt.rows); got != tt.want {
			t.Errorf("OppositeHands(%v, %v, %d) = %v, want %v",
				tt.a, tt.b, tt.rows, got, tt.want)
		}
	}
}
