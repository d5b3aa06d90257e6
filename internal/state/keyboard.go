package state

import "github.com/dshills/chordkit/internal/input/key"

// Keyboard is the facade through which the engines observe and mutate
// keyboard state. The firmware host implements it over its HID transport;
// Virtual implements it in memory.
//
// All methods must be called from the single pipeline goroutine.
type Keyboard interface {
	// Mods returns the real modifier state.
	Mods() key.Modifier

	// WeakMods returns the transient feature-applied modifier state.
	WeakMods() key.Modifier

	// OneShotMods returns the one-shot modifier state.
	OneShotMods() key.Modifier

	// RegisterMods adds bits to the real modifier state.
	RegisterMods(mods key.Modifier)

	// UnregisterMods removes bits from the real modifier state.
	UnregisterMods(mods key.Modifier)

	// SetMods replaces the real modifier state.
	SetMods(mods key.Modifier)

	// AddWeakMods adds bits to the weak modifier state.
	AddWeakMods(mods key.Modifier)

	// ClearWeakMods clears the weak modifier state.
	ClearWeakMods()

	// SetOneShotMods replaces the one-shot modifier state.
	SetOneShotMods(mods key.Modifier)

	// ClearOneShotMods clears the one-shot modifier state.
	ClearOneShotMods()

	// LayerState returns the active layer bitset.
	LayerState() key.LayerMask

	// SetLayerState replaces the active layer bitset.
	SetLayerState(layers key.LayerMask)

	// LayerOn activates a layer.
	LayerOn(layer uint8)

	// LayerOff deactivates a layer.
	LayerOff(layer uint8)

	// RegisterKey presses a keycode on the host. Shifted aliases resolve
	// to their base key with Shift applied for that key only.
	RegisterKey(code key.Keycode)

	// UnregisterKey releases a keycode on the host.
	UnregisterKey(code key.Keycode)

	// TapKey presses and immediately releases a keycode.
	TapKey(code key.Keycode)

	// SendReport flushes the current modifier state to the host.
	SendReport()

	// SendText emits a literal text string (macro expansion).
	SendText(text string)
}
