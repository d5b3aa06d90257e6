package state

import (
	"fmt"

	"github.com/dshills/chordkit/internal/input/key"
)

// OutputKind discriminates Virtual's output log entries.
type OutputKind uint8

const (
	// OutputPress is a key registration.
	OutputPress OutputKind = iota

	// OutputRelease is a key unregistration.
	OutputRelease

	// OutputReport is a modifier report flush.
	OutputReport

	// OutputText is a literal text emission.
	OutputText
)

// Output is one host-visible effect recorded by Virtual.
type Output struct {
	Kind OutputKind
	Code key.Keycode
	// Mods is the effective modifier state sent with the entry:
	// real | weak | one-shot at the time of the key event or flush.
	Mods key.Modifier
	Text string
}

// String renders an output entry like "press a [LShift]".
func (o Output) String() string {
	switch o.Kind {
	case OutputPress:
		return fmt.Sprintf("press %s [%s]", o.Code, o.Mods)
	case OutputRelease:
		return fmt.Sprintf("release %s [%s]", o.Code, o.Mods)
	case OutputReport:
		return fmt.Sprintf("report [%s]", o.Mods)
	default:
		return fmt.Sprintf("text %q", o.Text)
	}
}

// Virtual is an in-memory Keyboard. It keeps modifier and layer state and
// records every host-visible effect in an output log that tests and the
// demo inspect.
type Virtual struct {
	mods    key.Modifier
	weak    key.Modifier
	oneshot key.Modifier
	layers  key.LayerMask
	log     []Output
}

// NewVirtual creates a Virtual keyboard with layer 0 active.
func NewVirtual() *Virtual {
	return &Virtual{layers: 1}
}

// Mods implements Keyboard.
func (v *Virtual) Mods() key.Modifier { return v.mods }

// WeakMods implements Keyboard.
func (v *Virtual) WeakMods() key.Modifier { return v.weak }

// OneShotMods implements Keyboard.
func (v *Virtual) OneShotMods() key.Modifier { return v.oneshot }

// RegisterMods implements Keyboard.
func (v *Virtual) RegisterMods(mods key.Modifier) { v.mods |= mods }

// UnregisterMods implements Keyboard.
func (v *Virtual) UnregisterMods(mods key.Modifier) { v.mods &^= mods }

// SetMods implements Keyboard.
func (v *Virtual) SetMods(mods key.Modifier) { v.mods = mods }

// AddWeakMods implements Keyboard.
func (v *Virtual) AddWeakMods(mods key.Modifier) { v.weak |= mods }

// ClearWeakMods implements Keyboard.
func (v *Virtual) ClearWeakMods() { v.weak = key.ModNone }

// SetOneShotMods implements Keyboard.
func (v *Virtual) SetOneShotMods(mods key.Modifier) { v.oneshot = mods }

// ClearOneShotMods implements Keyboard.
func (v *Virtual) ClearOneShotMods() { v.oneshot = key.ModNone }

// LayerState implements Keyboard.
func (v *Virtual) LayerState() key.LayerMask { return v.layers }

// SetLayerState implements Keyboard. Layer 0 always stays on.
func (v *Virtual) SetLayerState(layers key.LayerMask) { v.layers = layers | 1 }

// LayerOn implements Keyboard.
func (v *Virtual) LayerOn(layer uint8) { v.layers = v.layers.With(layer) }

// LayerOff implements Keyboard.
func (v *Virtual) LayerOff(layer uint8) { v.layers = v.layers.Without(layer) | 1 }

// RegisterKey implements Keyboard. The entry captures the effective mods;
// weak and one-shot mods are consumed by the press.
func (v *Virtual) RegisterKey(code key.Keycode) {
	base, shifted := code.Unshifted()
	eff := v.mods | v.weak | v.oneshot
	if shifted {
		eff |= key.ModLeftShift
	}
	if bit := code.ModifierBit(); bit != key.ModNone {
		v.mods |= bit
		v.log = append(v.log, Output{Kind: OutputPress, Code: code, Mods: v.mods | v.weak | v.oneshot})
		return
	}
	v.log = append(v.log, Output{Kind: OutputPress, Code: base, Mods: eff})
	v.weak = key.ModNone
	v.oneshot = key.ModNone
}

// UnregisterKey implements Keyboard.
func (v *Virtual) UnregisterKey(code key.Keycode) {
	base, _ := code.Unshifted()
	if bit := code.ModifierBit(); bit != key.ModNone {
		v.mods &^= bit
		v.log = append(v.log, Output{Kind: OutputRelease, Code: code, Mods: v.mods})
		return
	}
	v.log = append(v.log, Output{Kind: OutputRelease, Code: base, Mods: v.mods})
}

// TapKey implements Keyboard.
func (v *Virtual) TapKey(code key.Keycode) {
	v.RegisterKey(code)
	v.UnregisterKey(code)
}

// SendReport implements Keyboard.
func (v *Virtual) SendReport() {
	v.log = append(v.log, Output{Kind: OutputReport, Mods: v.mods | v.weak | v.oneshot})
}

// SendText implements Keyboard.
func (v *Virtual) SendText(text string) {
	v.log = append(v.log, Output{Kind: OutputText, Text: text})
}

// Log returns the recorded output entries.
func (v *Virtual) Log() []Output { return v.log }

// ResetLog clears the output log without touching keyboard state.
func (v *Virtual) ResetLog() { v.log = nil }

// Presses returns the keycodes of all press entries in the log, in order.
func (v *Virtual) Presses() []key.Keycode {
	var out []key.Keycode
	for _, o := range v.log {
		if o.Kind == OutputPress {
			out = append(out, o.Code)
		}
	}
	return out
}
