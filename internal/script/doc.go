// Package script embeds a sandboxed Lua interpreter for user hooks.
//
// A hook script is a plain Lua file defining well-known global
// functions. Each engine checks for its hook by name and falls back to
// its built-in behavior when the function is absent or raises an error:
//
//	chord(key, row, col, other, orow, ocol) -> bool  hold decision
//	tap_hold_timeout(key) -> ms                     per-key hold window
//	streak_window(key) -> ms                        per-key streak window
//	alt_repeat(key, mods) -> key name               alternate repeat
//	remember(key, mods) -> mods                     repeat mod snapshot
//	caps_word_continue(key) -> "shift"|"keep"|"stop"
//	sentence_class(key, shifted) -> "letter"|"punct"|"space"|
//	                                "quote"|"symbol"|"other"
//
// Key arguments are passed as the names understood by key.FromName.
// The interpreter strips dofile, loadfile, load, os and io, so hook
// scripts compute over their inputs and nothing else.
package script
