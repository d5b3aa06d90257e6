// Package capsword implements a temporary caps lock scoped to one word.
//
// While active, a weak shift modifier is applied to each letter press,
// so letters are typed uppercase without latching the real shift state.
// Keys that continue a word (letters, digits, backspace, delete,
// underscore, minus by default) keep the mode alive; any other key, a
// non-shift modifier, or an idle timeout deactivates it.
//
// The mode is toggled by a dedicated keymap action, or by pressing both
// shift keys together.
package capsword
