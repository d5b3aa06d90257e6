package keymap

import (
	"fmt"

	"github.com/dshills/chordkit/internal/input/key"
)

// Kind discriminates the Action union.
type Kind uint8

const (
	// KindNone is an unbound key.
	KindNone Kind = iota

	// KindTransparent falls through to the next lower active layer.
	KindTransparent

	// KindPlain sends a single keycode.
	KindPlain

	// KindModTap taps Key or holds Mods.
	KindModTap

	// KindLayerTap taps Key or momentarily activates Layer.
	KindLayerTap

	// KindMomentary activates Layer while held.
	KindMomentary

	// KindToggle toggles Layer on press.
	KindToggle

	// KindRepeat triggers the repeat engine.
	KindRepeat

	// KindAltRepeat triggers the alternate-repeat action.
	KindAltRepeat

	// KindLayerLock toggles the lock on the highest active layer.
	KindLayerLock

	// KindCapsToggle toggles the caps-word latch.
	KindCapsToggle

	// KindSelectWord triggers the select-word macro.
	KindSelectWord
)

var kindNames = map[Kind]string{
	KindNone:        "none",
	KindTransparent: "trans",
	KindPlain:       "plain",
	KindModTap:      "modtap",
	KindLayerTap:    "layertap",
	KindMomentary:   "momentary",
	KindToggle:      "toggle",
	KindRepeat:      "repeat",
	KindAltRepeat:   "altrepeat",
	KindLayerLock:   "layerlock",
	KindCapsToggle:  "capsword",
	KindSelectWord:  "selectword",
}

// String returns the kind's name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Action describes what a key does. Key, Mods, and Layer are meaningful
// depending on Kind.
type Action struct {
	Kind  Kind
	Key   key.Keycode  // tap keycode for Plain, ModTap, LayerTap
	Mods  key.Modifier // hold mods for ModTap
	Layer uint8        // target layer for LayerTap, Momentary, Toggle
}

// Plain returns a plain keycode action.
func Plain(code key.Keycode) Action {
	return Action{Kind: KindPlain, Key: code}
}

// ModTap returns a dual-role action: tap code, hold mods.
func ModTap(mods key.Modifier, code key.Keycode) Action {
	return Action{Kind: KindModTap, Key: code, Mods: mods}
}

// LayerTap returns a dual-role action: tap code, hold layer.
func LayerTap(layer uint8, code key.Keycode) Action {
	return Action{Kind: KindLayerTap, Key: code, Layer: layer}
}

// Momentary returns a momentary layer action.
func Momentary(layer uint8) Action {
	return Action{Kind: KindMomentary, Layer: layer}
}

// Toggle returns a layer toggle action.
func Toggle(layer uint8) Action {
	return Action{Kind: KindToggle, Layer: layer}
}

// DualRole returns true for actions with distinct tap and hold behavior.
func (a Action) DualRole() bool {
	return a.Kind == KindModTap || a.Kind == KindLayerTap
}

// TapKey returns the keycode the action types when tapped. For non-tap
// actions it returns the action's Key, which is KeyNone where unset.
func (a Action) TapKey() key.Keycode {
	return a.Key
}

// LayerKey returns true for actions whose sole purpose is switching
// layers.
func (a Action) LayerKey() bool {
	return a.Kind == KindMomentary || a.Kind == KindToggle
}

// String returns a compact representation like "mt(lshift,a)".
func (a Action) String() string {
	switch a.Kind {
	case KindPlain:
		return a.Key.Name()
	case KindModTap:
		return fmt.Sprintf("mt(%s,%s)", a.Mods, a.Key.Name())
	case KindLayerTap:
		return fmt.Sprintf("lt(%d,%s)", a.Layer, a.Key.Name())
	case KindMomentary:
		return fmt.Sprintf("mo(%d)", a.Layer)
	case KindToggle:
		return fmt.Sprintf("tg(%d)", a.Layer)
	default:
		return a.Kind.String()
	}
}
