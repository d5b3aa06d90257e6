package key

import (
	"fmt"
	"strings"
)

// Keycode identifies a keyboard key.
type Keycode uint16

const (
	// KeyNone represents no key.
	KeyNone Keycode = iota

	// Letter keys
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	// Digit keys, in keyboard row order.
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	Key0

	// Control and whitespace keys
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeySpace

	// Punctuation keys
	KeyMinus
	KeyEqual
	KeyLeftBracket
	KeyRightBracket
	KeyBackslash
	KeySemicolon
	KeyQuote
	KeyGrave
	KeyComma
	KeyDot
	KeySlash

	// Navigation keys
	KeyInsert
	KeyHome
	KeyPageUp
	KeyDelete
	KeyEnd
	KeyPageDown
	KeyRight
	KeyLeft
	KeyDown
	KeyUp

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	// Modifier keys
	KeyLeftCtrl
	KeyLeftShift
	KeyLeftAlt
	KeyLeftGUI
	KeyRightCtrl
	KeyRightShift
	KeyRightAlt
	KeyRightGUI

	// Shifted aliases. Each is a distinct code that resolves to a base
	// key plus Shift on output (see Unshifted).
	KeyExclaim
	KeyAt
	KeyHash
	KeyDollar
	KeyPercent
	KeyCaret
	KeyAmpersand
	KeyAsterisk
	KeyLeftParen
	KeyRightParen
	KeyUnderscore
	KeyPlus
	KeyLeftBrace
	KeyRightBrace
	KeyPipe
	KeyColon
	KeyDoubleQuote
	KeyTilde
	KeyLess
	KeyGreater
	KeyQuestion

	keycodeCount
)

// IsLetter returns true for the letter keys A-Z.
func (k Keycode) IsLetter() bool {
	return KeyA <= k && k <= KeyZ
}

// IsDigit returns true for the digit keys 1-0.
func (k Keycode) IsDigit() bool {
	return Key1 <= k && k <= Key0
}

// IsModifier returns true for the pure modifier keys.
func (k Keycode) IsModifier() bool {
	return KeyLeftCtrl <= k && k <= KeyRightGUI
}

// IsShiftKey returns true for the left and right Shift keys.
func (k Keycode) IsShiftKey() bool {
	return k == KeyLeftShift || k == KeyRightShift
}

// IsShiftedAlias returns true for shifted alias codes such as Underscore.
func (k Keycode) IsShiftedAlias() bool {
	return KeyExclaim <= k && k <= KeyQuestion
}

// ModifierBit returns the Modifier bit for a modifier key, or ModNone if
// the keycode is not a modifier.
func (k Keycode) ModifierBit() Modifier {
	if !k.IsModifier() {
		return ModNone
	}
	return Modifier(1) << (k - KeyLeftCtrl)
}

// shiftedBase maps each shifted alias to its unshifted base key.
var shiftedBase = map[Keycode]Keycode{
	KeyExclaim:     Key1,
	KeyAt:          Key2,
	KeyHash:        Key3,
	KeyDollar:      Key4,
	KeyPercent:     Key5,
	KeyCaret:       Key6,
	KeyAmpersand:   Key7,
	KeyAsterisk:    Key8,
	KeyLeftParen:   Key9,
	KeyRightParen:  Key0,
	KeyUnderscore:  KeyMinus,
	KeyPlus:        KeyEqual,
	KeyLeftBrace:   KeyLeftBracket,
	KeyRightBrace:  KeyRightBracket,
	KeyPipe:        KeyBackslash,
	KeyColon:       KeySemicolon,
	KeyDoubleQuote: KeyQuote,
	KeyTilde:       KeyGrave,
	KeyLess:        KeyComma,
	KeyGreater:     KeyDot,
	KeyQuestion:    KeySlash,
}

// Unshifted resolves a keycode for output. For shifted aliases it returns
// the base key and true; for everything else it returns the keycode
// unchanged and false.
func (k Keycode) Unshifted() (Keycode, bool) {
	if base, ok := shiftedBase[k]; ok {
		return base, true
	}
	return k, false
}

// keycodeNames holds the canonical name of each keycode.
var keycodeNames = map[Keycode]string{
	KeyNone:         "none",
	KeyEnter:        "enter",
	KeyEscape:       "escape",
	KeyBackspace:    "backspace",
	KeyTab:          "tab",
	KeySpace:        "space",
	KeyMinus:        "minus",
	KeyEqual:        "equal",
	KeyLeftBracket:  "lbracket",
	KeyRightBracket: "rbracket",
	KeyBackslash:    "backslash",
	KeySemicolon:    "semicolon",
	KeyQuote:        "quote",
	KeyGrave:        "grave",
	KeyComma:        "comma",
	KeyDot:          "dot",
	KeySlash:        "slash",
	KeyInsert:       "insert",
	KeyHome:         "home",
	KeyPageUp:       "pageup",
	KeyDelete:       "delete",
	KeyEnd:          "end",
	KeyPageDown:     "pagedown",
	KeyRight:        "right",
	KeyLeft:         "left",
	KeyDown:         "down",
	KeyUp:           "up",
	KeyLeftCtrl:     "lctrl",
	KeyLeftShift:    "lshift",
	KeyLeftAlt:      "lalt",
	KeyLeftGUI:      "lgui",
	KeyRightCtrl:    "rctrl",
	KeyRightShift:   "rshift",
	KeyRightAlt:     "ralt",
	KeyRightGUI:     "rgui",
	KeyExclaim:      "exclaim",
	KeyAt:           "at",
	KeyHash:         "hash",
	KeyDollar:       "dollar",
	KeyPercent:      "percent",
	KeyCaret:        "caret",
	KeyAmpersand:    "ampersand",
	KeyAsterisk:     "asterisk",
	KeyLeftParen:    "lparen",
	KeyRightParen:   "rparen",
	KeyUnderscore:   "underscore",
	KeyPlus:         "plus",
	KeyLeftBrace:    "lbrace",
	KeyRightBrace:   "rbrace",
	KeyPipe:         "pipe",
	KeyColon:        "colon",
	KeyDoubleQuote:  "dquote",
	KeyTilde:        "tilde",
	KeyLess:         "less",
	KeyGreater:      "greater",
	KeyQuestion:     "question",
}

// keycodeByName is the reverse of keycodeNames plus aliases, built once.
var keycodeByName = buildNameMap()

func buildNameMap() map[string]Keycode {
	m := make(map[string]Keycode, int(keycodeCount)+16)
	for k, name := range keycodeNames {
		m[name] = k
	}
	for k := KeyA; k <= KeyZ; k++ {
		m[string(rune('a'+(k-KeyA)))] = k
	}
	for k := Key1; k <= Key9; k++ {
		m[string(rune('1'+(k-Key1)))] = k
	}
	m["0"] = Key0
	for k := KeyF1; k <= KeyF12; k++ {
		m[fmt.Sprintf("f%d", k-KeyF1+1)] = k
	}
	// Common aliases.
	m["esc"] = KeyEscape
	m["bspc"] = KeyBackspace
	m["spc"] = KeySpace
	m["del"] = KeyDelete
	m["ret"] = KeyEnter
	m["lsft"] = KeyLeftShift
	m["rsft"] = KeyRightShift
	m["lctl"] = KeyLeftCtrl
	m["rctl"] = KeyRightCtrl
	m["unds"] = KeyUnderscore
	m["mins"] = KeyMinus
	return m
}

// Name returns the canonical lowercase name of the keycode.
func (k Keycode) Name() string {
	if name, ok := keycodeNames[k]; ok {
		return name
	}
	switch {
	case k.IsLetter():
		return string(rune('a' + (k - KeyA)))
	case k == Key0:
		return "0"
	case k.IsDigit():
		return string(rune('1' + (k - Key1)))
	case KeyF1 <= k && k <= KeyF12:
		return fmt.Sprintf("f%d", k-KeyF1+1)
	}
	return fmt.Sprintf("key(%d)", uint16(k))
}

// String returns a human-readable representation of the keycode.
func (k Keycode) String() string {
	return k.Name()
}

// FromName returns the Keycode for a given name (case-insensitive).
// Returns KeyNone and false if the name is not recognized.
func FromName(name string) (Keycode, bool) {
	k, ok := keycodeByName[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}
