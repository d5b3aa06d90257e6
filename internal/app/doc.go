// Package app assembles the chordkit runtime: it loads configuration,
// the keymap, and the optional Lua hook script, wires every enabled
// feature engine into a pipeline over a virtual keyboard, and exposes
// the event entry points the frontend drives. It also owns live
// configuration reload.
package app
