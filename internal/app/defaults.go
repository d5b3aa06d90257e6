package app

import (
	"github.com/dshills/chordkit/internal/input/key"
	"github.com/dshills/chordkit/internal/input/keymap"
)

// defaultLayout is the built-in 4x10 two-layer keymap used when no
// keymap file is configured: QWERTY with home-row modifiers, a thumb
// row carrying the feature keys, and a symbol layer.
var defaultLayout = [][]string{
	{
		"q", "w", "e", "r", "t", "y", "u", "i", "o", "p",
		"a", "mt(lctrl,s)", "mt(lalt,d)", "mt(lshift,f)", "g",
		"h", "mt(rshift,j)", "mt(lalt,k)", "mt(rctrl,l)", "semicolon",
		"z", "x", "c", "v", "b", "n", "m", "comma", "dot", "slash",
		"escape", "tab", "capsword", "mo(1)", "space",
		"lt(1,enter)", "repeat", "altrepeat", "selectword", "backspace",
	},
	{
		"1", "2", "3", "4", "5", "6", "7", "8", "9", "0",
		"exclaim", "at", "hash", "dollar", "percent",
		"caret", "ampersand", "asterisk", "minus", "equal",
		"grave", "trans", "trans", "trans", "trans",
		"trans", "trans", "trans", "underscore", "backslash",
		"trans", "trans", "trans", "layerlock", "trans",
		"trans", "trans", "trans", "trans", "delete",
	},
}

// DefaultKeymap builds the built-in keymap.
func DefaultKeymap() (*keymap.Keymap, error) {
	const rows, cols = 4, 10
	km, err := keymap.New(rows, cols, len(defaultLayout))
	if err != nil {
		return nil, err
	}
	for layer, specs := range defaultLayout {
		for i, spec := range specs {
			act, err := keymap.ParseAction(spec)
			if err != nil {
				return nil, err
			}
			pos := key.Position{Row: uint8(i / cols), Col: uint8(i % cols)}
			if err := km.Set(layer, pos, act); err != nil {
				return nil, err
			}
		}
	}
	return km, nil
}
