package key

import "strings"

// Modifier represents the modifier key bitset, one bit per physical
// modifier, matching the usual HID ordering.
type Modifier uint8

const (
	// ModLeftCtrl indicates the left Control key.
	ModLeftCtrl Modifier = 1 << iota

	// ModLeftShift indicates the left Shift key.
	ModLeftShift

	// ModLeftAlt indicates the left Alt key.
	ModLeftAlt

	// ModLeftGUI indicates the left GUI key (Cmd on macOS, Win on Windows).
	ModLeftGUI

	// ModRightCtrl indicates the right Control key.
	ModRightCtrl

	// ModRightShift indicates the right Shift key.
	ModRightShift

	// ModRightAlt indicates the right Alt key (AltGr).
	ModRightAlt

	// ModRightGUI indicates the right GUI key.
	ModRightGUI
)

// ModNone indicates no modifiers.
const ModNone Modifier = 0

// Masks covering both hands of each modifier.
const (
	MaskCtrl  = ModLeftCtrl | ModRightCtrl
	MaskShift = ModLeftShift | ModRightShift
	MaskAlt   = ModLeftAlt | ModRightAlt
	MaskGUI   = ModLeftGUI | ModRightGUI
)

// Has returns true if m contains any bit of the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// HasShift returns true if either Shift key is active.
func (m Modifier) HasShift() bool {
	return m.Has(MaskShift)
}

// HasCtrl returns true if either Control key is active.
func (m Modifier) HasCtrl() bool {
	return m.Has(MaskCtrl)
}

// HasAltGr returns true if the right Alt (AltGr) key is active.
func (m Modifier) HasAltGr() bool {
	return m.Has(ModRightAlt)
}

// With returns a new Modifier with the specified bits added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified bits removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// OnlyShiftAltGr returns true if no modifiers other than Shift and AltGr
// are active. Several engines treat Shift and AltGr as transparent and
// reset on anything stronger.
func (m Modifier) OnlyShiftAltGr() bool {
	return m&^(MaskShift|ModRightAlt) == 0
}

// String returns a human-readable representation like "LShift+RAlt".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}

	names := []struct {
		bit  Modifier
		name string
	}{
		{ModLeftCtrl, "LCtrl"},
		{ModLeftShift, "LShift"},
		{ModLeftAlt, "LAlt"},
		{ModLeftGUI, "LGUI"},
		{ModRightCtrl, "RCtrl"},
		{ModRightShift, "RShift"},
		{ModRightAlt, "RAlt"},
		{ModRightGUI, "RGUI"},
	}

	var parts []string
	for _, n := range names {
		if m.Has(n.bit) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

// modifierNameMap maps modifier names (lowercase) to Modifier values.
var modifierNameMap = map[string]Modifier{
	"lctrl":  ModLeftCtrl,
	"lctl":   ModLeftCtrl,
	"lshift": ModLeftShift,
	"lsft":   ModLeftShift,
	"lalt":   ModLeftAlt,
	"lgui":   ModLeftGUI,
	"rctrl":  ModRightCtrl,
	"rctl":   ModRightCtrl,
	"rshift": ModRightShift,
	"rsft":   ModRightShift,
	"ralt":   ModRightAlt,
	"altgr":  ModRightAlt,
	"rgui":   ModRightGUI,
	"ctrl":   ModLeftCtrl,
	"shift":  ModLeftShift,
	"alt":    ModLeftAlt,
	"gui":    ModLeftGUI,
	"cmd":    ModLeftGUI,
	"win":    ModLeftGUI,
}

// ModifierFromName returns the Modifier for a given name (case-insensitive).
// Returns ModNone if the name is not recognized.
func ModifierFromName(name string) Modifier {
	if m, ok := modifierNameMap[strings.ToLower(strings.TrimSpace(name))]; ok {
		return m
	}
	return ModNone
}

// ParseModifiers parses a modifier list like "lshift+ralt" or "ctrl".
func ParseModifiers(s string) Modifier {
	var result Modifier
	for _, part := range strings.Split(s, "+") {
		result = result.With(ModifierFromName(part))
	}
	return result
}
