// Package keymap defines what each physical key does on each layer.
//
// A key's behavior is a tagged Action value rather than a bit-packed
// keycode range: plain keys, mod-tap and layer-tap dual-role keys,
// momentary and toggle layer keys, and the feature trigger keys (repeat,
// alternate repeat, layer lock, caps-word toggle, select word) are all
// distinct Action kinds decoded once at load time.
//
// Keymaps are loaded from YAML files listing layers as grids of key
// specifications, e.g. "a", "lt(2,escape)", "mt(lshift,z)", "mo(1)".
package keymap
