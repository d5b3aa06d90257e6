package sentencecase

import "github.com/dshills/chordkit/internal/input/key"

// DefaultClassify assigns classes assuming a US layout. Letters are
// ClassLetter; period, and shifted 1 (!) and shifted slash (?) are
// ClassPunct; space is ClassSpace; apostrophe and double quote are
// ClassQuote; digits and remaining printables are ClassSymbol;
// everything else resets the machine.
func DefaultClassify(code key.Keycode, ev key.Event, mods key.Modifier) Class {
	shifted := mods.HasShift()
	switch {
	case code.IsLetter():
		return ClassLetter
	case code == key.KeyDot && !shifted,
		code == key.KeyExclaim, code == key.KeyQuestion,
		code == key.Key1 && shifted,
		code == key.KeySlash && shifted:
		return ClassPunct
	case code == key.KeySpace && !shifted:
		return ClassSpace
	case code == key.KeyQuote, code == key.KeyDoubleQuote:
		return ClassQuote
	case code.IsDigit(),
		code >= key.KeyMinus && code <= key.KeySlash,
		code.IsShiftedAlias():
		return ClassSymbol
	}
	return ClassOther
}

// RejectAbbreviations builds a CheckEndingFunc that rejects the given
// abbreviations, each checked against the tail of the key buffer with a
// leading space so that "vs." does not match "avs.".
func RejectAbbreviations(abbrevs []string) CheckEndingFunc {
	patterns := make([][]key.Keycode, 0, len(abbrevs))
	for _, a := range abbrevs {
		if p := abbrevPattern(a); p != nil {
			patterns = append(patterns, p)
		}
	}
	return func(buf []key.Keycode) bool {
		for _, p := range patterns {
			if tailMatches(buf, p) {
				return false
			}
		}
		return true
	}
}

func abbrevPattern(s string) []key.Keycode {
	p := []key.Keycode{key.KeySpace}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			p = append(p, key.KeyA+key.Keycode(r-'a'))
		case r == '.':
			p = append(p, key.KeyDot)
		default:
			return nil
		}
	}
	return p
}

func tailMatches(buf []key.Keycode, pattern []key.Keycode) bool {
	if len(pattern) > len(buf) {
		return false
	}
	tail := buf[len(buf)-len(pattern):]
	for i, c := range pattern {
		if tail[i] != c {
			return false
		}
	}
	return true
}
